package komga

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates no server address has been saved yet.
	ErrNotConfigured = errors.New("komga: server address not configured")

	// ErrNoCredentials indicates a request needed stored credentials and none exist.
	ErrNoCredentials = errors.New("komga: credentials not configured")
)

// TransportError covers network failures, timeouts and non-2xx responses.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("komga: server returned %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("komga: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError indicates the server sent something that was not
// valid JSON where JSON was expected. It is never swallowed: it points at
// a protocol mismatch, not at an unreachable server.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("komga: malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsMalformed reports whether err indicates an unparseable payload.
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}

// IsUnauthorized reports whether the server rejected the credentials.
func IsUnauthorized(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode == 401
	}
	return false
}

// IsUnavailable reports whether the failure means the server could not be
// reached or was never configured, the conditions the degrade-gracefully
// paths swallow.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrNoCredentials) || IsTransport(err)
}
