package social

// Config is the static per-provider configuration resolved by the
// hosting application. Immutable after driver construction and safely
// shared across concurrent flows.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Scopes overrides the provider's default scopes when non-empty.
	Scopes []string

	// RedirectParams are extra query parameters merged into the
	// authorization redirect URL.
	RedirectParams map[string]string

	// TokenHeaders are extra headers sent on the token exchange call.
	TokenHeaders map[string]string
}

func (c Config) validate(provider string) error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.RedirectURL == "" {
		missing = append(missing, "redirect_url")
	}
	if len(missing) > 0 {
		return &ConfigError{Provider: provider, Missing: missing}
	}
	return nil
}
