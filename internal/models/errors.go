package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the machine-readable class of a request failure
type ErrorKind string

const (
	KindInvalidInput    ErrorKind = "invalid_input"
	KindUnreachableSite ErrorKind = "unreachable_site"
	KindContentPolicy   ErrorKind = "content_policy"
	KindInternal        ErrorKind = "internal"
)

// InvalidInputError rejects a request before any work is done
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// NavigationError reports a page that did not load
type NavigationError struct {
	URL        string
	StatusCode int
	StatusText string
	Timeout    bool
	Err        error
}

func (e *NavigationError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("navigation to %s timed out", e.URL)
	case e.StatusCode != 0:
		return strings.TrimSpace(fmt.Sprintf("failed to load page: %d %s", e.StatusCode, e.StatusText))
	case e.Err != nil:
		return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("navigation to %s failed", e.URL)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// UnreachableSiteError is terminal: the target site could not be analysed at all
type UnreachableSiteError struct {
	URL string
	Err error
}

func (e *UnreachableSiteError) Error() string {
	return fmt.Sprintf("failed to access website %s: %v", e.URL, e.Err)
}

func (e *UnreachableSiteError) Unwrap() error { return e.Err }

// ScreenshotCaptureError reports a single failed viewport profile
type ScreenshotCaptureError struct {
	Profile string
	Err     error
}

func (e *ScreenshotCaptureError) Error() string {
	return fmt.Sprintf("%s screenshot failed: %v", e.Profile, e.Err)
}

func (e *ScreenshotCaptureError) Unwrap() error { return e.Err }

// ContentPolicyError is a refusal by the model, stated or inferred
type ContentPolicyError struct {
	Reason  string
	Message string
}

func (e *ContentPolicyError) Error() string {
	return "AI cannot analyze this website: " + e.Message
}

// FormatError means no usable JSON result could be read from the model reply
type FormatError struct {
	Excerpt string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return "invalid AI response format"
	}
	return fmt.Sprintf("invalid AI response format: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// NotConfiguredError means the model credentials are absent
type NotConfiguredError struct {
	Missing []string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("AI model is not configured (missing %s)", strings.Join(e.Missing, ", "))
}

// KindOf classifies err for callers of the analysis pipeline
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var invalid *InvalidInputError
	var unreachable *UnreachableSiteError
	var nav *NavigationError
	var policy *ContentPolicyError
	var kinded interface{ ErrorKind() ErrorKind }

	switch {
	case errors.As(err, &invalid):
		return KindInvalidInput
	case errors.As(err, &unreachable), errors.As(err, &nav):
		return KindUnreachableSite
	case errors.As(err, &policy):
		return KindContentPolicy
	case errors.As(err, &kinded):
		return kinded.ErrorKind()
	}
	return KindInternal
}
