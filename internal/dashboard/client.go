package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"homewatt/internal/domain"
)

// Client is the dashboard's view of the API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type loginResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.User, error) {
	var out loginResponse
	err := c.postJSON(ctx, "/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return domain.User{}, err
	}
	c.token = out.Token
	return out.User, nil
}

func (c *Client) Breakers(ctx context.Context) ([]domain.BreakerWithLimit, error) {
	var out []domain.BreakerWithLimit
	if err := c.getJSON(ctx, "/circuit_breakers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleBreaker flips a breaker On/Off through the partial-update endpoint.
func (c *Client) ToggleBreaker(ctx context.Context, breakerID int64, status string) error {
	body := map[string]any{"id": breakerID, "status": status}
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/circuit_breakers", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("toggle failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) PowerData(ctx context.Context, userID int64) (*domain.PowerDataResponse, error) {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))
	var out domain.PowerDataResponse
	if err := c.getJSON(ctx, "/get_power_data", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type projectionsResponse struct {
	Status string             `json:"status"`
	Data   domain.Projections `json:"data"`
}

func (c *Client) Projections(ctx context.Context, userID int64) (*domain.Projections, error) {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))
	var out projectionsResponse
	if err := c.getJSON(ctx, "/get_power_projections", params, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Alerts(ctx context.Context) ([]domain.Alert, error) {
	var out []domain.Alert
	if err := c.getJSON(ctx, "/alerts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if params != nil {
		if encoded := params.Encode(); encoded != "" {
			u += "?" + encoded
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
