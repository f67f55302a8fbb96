// Package llm is the text-completion capability used for page analysis.
package llm

import (
	"context"
	"fmt"
)

// Request is one single-turn completion
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Completer returns the model's free-text reply. An empty reply is not an
// error; failures to reach the service are reported as *CompletionError.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ErrorKind separates the ways a completion can fail
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindRateLimit ErrorKind = "rate_limit"
	KindServer    ErrorKind = "server"
	KindTransport ErrorKind = "transport"
)

// CompletionError is a technical failure of the completion service
type CompletionError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion failed (%s, status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion failed (%s): %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
