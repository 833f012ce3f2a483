package board

import (
	"context"
	"encoding/json"
)

// ErrorKind classifies why a board request failed.
type ErrorKind string

const (
	KindTransport        ErrorKind = "transport"         // DNS, connection or context failure
	KindNotFound         ErrorKind = "not_found"         // HTTP 404
	KindPermissionDenied ErrorKind = "permission_denied" // HTTP 401/403
	KindRateLimited      ErrorKind = "rate_limited"      // HTTP 429
	KindStatus           ErrorKind = "status"            // any other non-2xx
	KindDecode           ErrorKind = "decode"            // body was not valid JSON
)

// Error is the failure half of a Result.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Result is the outcome of one board request. Exactly one of Value or Err is
// meaningful: Err is nil on success.
type Result struct {
	Value any
	Err   *Error
}

// Ok wraps a decoded response value.
func Ok(value any) Result {
	return Result{Value: value}
}

// Fail builds a failed Result. An empty message is replaced by the kind so
// the error field is never blank.
func Fail(kind ErrorKind, message string) Result {
	if message == "" {
		message = string(kind) + " error"
	}
	return Result{Err: &Error{Kind: kind, Message: message}}
}

// Failed reports whether the request failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// MarshalJSON renders the decoded value verbatim, or {"error": message}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(map[string]string{"error": r.Err.Message})
	}
	return json.Marshal(r.Value)
}

// Gateway is the dependency injection interface for board backends. Its
// methods never return Go errors: every failure is carried in the Result.
type Gateway interface {
	// Get issues a GET with params in the query string.
	Get(ctx context.Context, endpoint string, params map[string]string) Result
	// Post issues a POST with params as a form body.
	Post(ctx context.Context, endpoint string, params map[string]string) Result
	// Put issues a PUT with params as a form body.
	Put(ctx context.Context, endpoint string, params map[string]string) Result
}
