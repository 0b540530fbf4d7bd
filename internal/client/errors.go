// ABOUTME: Error types surfaced by the API client
// ABOUTME: Extracts server-provided messages from JSON error bodies with gjson

package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// GenericErrorMessage is shown when no better description of a failure exists
const GenericErrorMessage = "Ocurrió un error inesperado"

var (
	// ErrSessionExpired wraps every failure of the token refresh procedure.
	// Callers that see it must treat the session as gone.
	ErrSessionExpired = errors.New("session expired")

	// ErrTimeout is returned when a request exceeds its deadline
	ErrTimeout = errors.New("request timed out")

	// ErrCanceled is returned when the caller's context is canceled
	ErrCanceled = errors.New("request canceled")

	errRefreshAborted = errors.New("refresh ended without a token")
)

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func newAPIError(status int, body []byte) *APIError {
	msg := messageFromBody(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}
	return &APIError{StatusCode: status, Message: msg, Body: body}
}

// messageFromBody reads the "message" field, which the backend sends either
// as a string or as a list of validation messages.
func messageFromBody(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}

	for _, field := range []string{"message", "error"} {
		v := gjson.GetBytes(body, field)
		switch {
		case v.IsArray():
			var parts []string
			for _, item := range v.Array() {
				if s := strings.TrimSpace(item.String()); s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		case v.Type == gjson.String:
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// ErrorMessage returns the most useful human-readable description of err
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericErrorMessage
}

// handleRequestError converts transport failures to the client's error values
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ErrCanceled
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}
