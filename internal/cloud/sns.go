package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"homewatt/internal/domain"
)

// SNSClient wraps AWS SNS for alert notifications.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
}

func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

// PublishAlert sends a breaker alert to the configured topic.
func (c *SNSClient) PublishAlert(ctx context.Context, alert domain.Alert) error {
	subject := fmt.Sprintf("Energy Dashboard Alert: %s on breaker %d", alert.Type, alert.BreakerID)
	message := fmt.Sprintf(
		"Circuit Breaker Alert\n\n"+
			"Breaker: %d\n"+
			"Type: %s\n"+
			"Severity: %s\n"+
			"Message: %s\n"+
			"Raised: %s\n",
		alert.BreakerID, alert.Type, alert.Severity, alert.Message,
		alert.CreatedAt.Format("2006-01-02 15:04:05"),
	)

	_, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}
