// Package validate checks inbound JSON payloads against per-field rule lists.
// It is deliberately small: flat payloads only, no nested objects or
// cross-field rules.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Rule checks one field value. Apply returns an error message, or "" when the
// value passes.
type Rule interface {
	Apply(value any) string
}

type required struct{}

func (required) Apply(any) string { return "" }

// Required marks a field as mandatory. Presence is enforced by Validate;
// a missing field that is not required skips every other rule.
func Required() Rule { return required{} }

type numeric struct{}

func (numeric) Apply(value any) string {
	switch v := value.(type) {
	case float64, float32, int, int64:
		return ""
	case string:
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return ""
		}
	}
	return "Must be a number"
}

// Numeric accepts JSON numbers and numeric strings.
func Numeric() Rule { return numeric{} }

type email struct{}

func (email) Apply(value any) string {
	s, ok := value.(string)
	if !ok || !emailRe.MatchString(s) {
		return "Invalid email format"
	}
	return ""
}

func Email() Rule { return email{} }

type minLength struct{ n int }

func (r minLength) Apply(value any) string {
	if len(asString(value)) < r.n {
		return fmt.Sprintf("Minimum length is %d characters", r.n)
	}
	return ""
}

func MinLength(n int) Rule { return minLength{n: n} }

type oneOf struct{ values []string }

func (r oneOf) Apply(value any) string {
	s := asString(value)
	for _, v := range r.values {
		if s == v {
			return ""
		}
	}
	msg := "Must be one of:"
	for i, v := range r.values {
		if i > 0 {
			msg += ","
		}
		msg += " " + v
	}
	return msg
}

func OneOf(values ...string) Rule { return oneOf{values: values} }

// Rules is the rule list for one field.
type Rules []Rule

// Validate applies rules to payload and returns one message per violated
// field. An empty map means the payload is valid.
func Validate(payload map[string]any, rules map[string]Rules) map[string]string {
	errors := map[string]string{}

	for field, fieldRules := range rules {
		value, present := payload[field]
		if !present || value == nil {
			if isRequired(fieldRules) {
				errors[field] = "Field is required"
			}
			continue
		}

		for _, rule := range fieldRules {
			if msg := rule.Apply(value); msg != "" {
				errors[field] = msg
				break
			}
		}
	}

	return errors
}

func isRequired(rules Rules) bool {
	for _, r := range rules {
		if _, ok := r.(required); ok {
			return true
		}
	}
	return false
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
