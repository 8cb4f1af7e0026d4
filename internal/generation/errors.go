package generation

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks résumé text that is empty or too short to use.
	ErrInvalidInput = errors.New("resume text is empty or too short")

	ErrProviderTimeout     = errors.New("provider timed out")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderMalformed   = errors.New("provider returned a malformed response")

	// ErrExhausted means every applicable provider failed.
	ErrExhausted = errors.New("all question providers failed")
)

// ProviderError is one provider's failure. Kind is one of the ErrProvider*
// sentinels and takes part in errors.Is.
type ProviderError struct {
	Provider string
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newProviderError(provider string, kind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// asProviderError attributes err to provider, classifying bare errors as
// timeouts or unavailability.
func asProviderError(provider string, err error) *ProviderError {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newProviderError(provider, ErrProviderTimeout, err)
	}
	return newProviderError(provider, ErrProviderUnavailable, err)
}

// UserMessage maps a generation error to a short message fit for display.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "The résumé looks empty or too short. Please upload a different file and try again."
	case errors.Is(err, ErrExhausted):
		return "Could not generate interview questions right now. Please try again."
	case errors.Is(err, ErrProviderTimeout):
		return "The question service is taking too long to respond. Please try again."
	case errors.Is(err, ErrProviderUnavailable):
		return "The question service is unavailable. Please try again later."
	case errors.Is(err, ErrProviderMalformed):
		return "The question service returned an unexpected answer. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
