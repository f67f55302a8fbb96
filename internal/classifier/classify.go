// Package classifier reads the model's free-text reply. It separates
// refusals from malformed output and coerces usable replies into a
// complete AnalysisResult.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sla0ui/uxlens/internal/analyzer"
	"github.com/Sla0ui/uxlens/internal/models"
)

// DefaultRefusalKeywords mark prose replies in which the model declines
var DefaultRefusalKeywords = []string{"unfortunately", "cannot", "unable", "sorry"}

const (
	refusalExcerptLength = 100
	formatExcerptLength  = 200
)

// jsonSpan matches from the first "{" to the last "}"
var jsonSpan = regexp.MustCompile(`(?s)\{.*\}`)

// Classifier detects model refusals. The zero value uses the default keywords.
type Classifier struct {
	keywords []string
}

// New returns a Classifier recognising the default refusal keywords plus extra
func New(extra ...string) *Classifier {
	keywords := append([]string(nil), DefaultRefusalKeywords...)
	for _, k := range extra {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Classifier{keywords: keywords}
}

// Classify parses raw into a JSON object. It returns a *models.ContentPolicyError
// when the model refused, either through an "error" field or in prose, and a
// *models.FormatError when no JSON object could be read.
func (c *Classifier) Classify(raw string) (map[string]any, error) {
	payload, parseErr := parseObject(raw)
	if parseErr == nil {
		if reason, ok := declaredError(payload); ok {
			message := reason
			if m, ok := text(payload["message"]); ok {
				message = m
			}
			return nil, &models.ContentPolicyError{Reason: reason, Message: message}
		}
		return payload, nil
	}

	if c.refuses(raw) {
		return nil, &models.ContentPolicyError{
			Reason:  "refusal",
			Message: analyzer.Truncate(raw, refusalExcerptLength) + "...",
		}
	}
	return nil, &models.FormatError{Excerpt: analyzer.Truncate(raw, formatExcerptLength), Err: parseErr}
}

// Classify uses a Classifier with the default keywords
func Classify(raw string) (map[string]any, error) {
	return New().Classify(raw)
}

func (c *Classifier) refuses(raw string) bool {
	keywords := c.keywords
	if keywords == nil {
		keywords = DefaultRefusalKeywords
	}
	lower := strings.ToLower(raw)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func parseObject(raw string) (map[string]any, error) {
	candidate := jsonSpan.FindString(raw)
	if candidate == "" {
		candidate = raw
	}
	if strings.TrimSpace(candidate) == "" {
		return nil, errors.New("empty response")
	}

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return obj, nil
}

// declaredError reports a truthy "error" field
func declaredError(payload map[string]any) (string, bool) {
	switch v := payload["error"].(type) {
	case nil:
		return "", false
	case bool:
		if v {
			return "true", true
		}
		return "", false
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		if v == 0 {
			return "", false
		}
		return fmt.Sprint(v), true
	case map[string]any:
		if m, ok := text(v["message"]); ok {
			return m, true
		}
		return "error", true
	default:
		return fmt.Sprint(v), true
	}
}
