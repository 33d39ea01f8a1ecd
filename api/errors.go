package api

import "fmt"

// ValidationError is a client-side precondition failure. No network
// call is made when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequestError is a non-2xx server response. Message holds the message
// extracted from the response body, or "" when the body carried none.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// AuthError is a 401 response. The client has already torn the session
// down by the time one is returned.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication required"
}

// ServerMessage extracts the server-provided message from err, falling
// back to the given family-specific message when none is present.
func ServerMessage(err error, fallback string) string {
	switch e := err.(type) {
	case *RequestError:
		if e.Message != "" {
			return e.Message
		}
	case *AuthError:
		if e.Message != "" {
			return e.Message
		}
	case *ValidationError:
		return e.Message
	}
	return fallback
}
