package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// ReplyPlaceholder is returned by ExtractReply when the response body lacks the reply field.
	ReplyPlaceholder = "I apologize, but I couldn't generate a proper response."
)

var ErrReplyShape = errors.New("reply did not match provider shape")

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI API request failed: status %d, body: %s", e.StatusCode, e.Body)
}

// Failure is the category a failed exchange falls into.
type Failure int

const (
	FailureNone Failure = iota
	FailureRateLimited
	FailureContentTooLarge
	FailureUpstream
	FailureExtraction
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureRateLimited:
		return "rate_limited"
	case FailureContentTooLarge:
		return "content_too_large"
	case FailureUpstream:
		return "upstream"
	case FailureExtraction:
		return "extraction"
	default:
		return "unknown"
	}
}

// Classify sorts an error from building, sending or decoding a request into a Failure.
func Classify(err error) Failure {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, ErrReplyShape) {
		return FailureExtraction
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusTooManyRequests:
			return FailureRateLimited
		case http.StatusRequestEntityTooLarge:
			return FailureContentTooLarge
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureUpstream
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "toomanyrequests"):
		return FailureRateLimited
	case strings.Contains(msg, "context_length"),
		strings.Contains(msg, "context length"),
		strings.Contains(msg, "maximum context"),
		strings.Contains(msg, "too many tokens"),
		strings.Contains(msg, "token") && strings.Contains(msg, "limit"),
		strings.Contains(msg, "content") && strings.Contains(msg, "limit"):
		return FailureContentTooLarge
	}
	return FailureUpstream
}
