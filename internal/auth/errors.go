package auth

import (
	"github.com/cockroachdb/errors"
)

// Error kinds surfaced by the auth API. Each maps to one HTTP status.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProvider           = errors.New("identity provider rejected the request")
	ErrProfileWrite       = errors.New("profile write failed")
)

// Kind names the error class of err for response bodies, or "" when err
// is not an auth error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return "MissingFieldsError"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentialsError"
	case errors.Is(err, ErrProfileWrite):
		return "ProfileWriteError"
	case errors.Is(err, ErrProvider):
		return "ProviderError"
	}
	return ""
}

// Message is the caller-facing text for err. Provider and profile errors
// pass the underlying message through; credential errors never do.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrMissingFields):
		return "Missing required fields"
	}
	if cause := errors.UnwrapAll(err); cause != nil {
		return cause.Error()
	}
	return err.Error()
}
