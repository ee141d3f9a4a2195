package social

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrInvalidState     = errors.New("invalid state")
)

// ConfigError reports required provider configuration missing at
// driver construction. No flow is attempted when it is returned.
type ConfigError struct {
	Provider string
	Missing  []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing config: %s", e.Provider, strings.Join(e.Missing, ", "))
}

// ExchangeError reports a failed code-for-token or long-lived-token
// exchange. It also covers callbacks that arrive without an
// authorization code, in which case Body carries the provider's own
// redirect error message.
type ExchangeError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: token exchange failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: token exchange failed: %s", e.Provider, e.Body)
}

// ProfileError reports a failed profile or email fetch.
type ProfileError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProfileError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: profile fetch failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: profile fetch failed: %s", e.Provider, e.Body)
}

// MappingError reports a mandatory identity field missing from an
// otherwise successful provider response. Optional fields that are
// absent never produce this error.
type MappingError struct {
	Provider string
	Field    string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s: profile response missing %s", e.Provider, e.Field)
}
