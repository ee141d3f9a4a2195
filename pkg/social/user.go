package social

// User represents unified user information across providers. Only ID
// and Token.AccessToken are guaranteed; every other field is
// best-effort and empty when the provider omits it. Raw keeps the
// undecoded profile for callers needing provider-specific fields.
type User struct {
	ID        string         `json:"id"`
	Nickname  string         `json:"nickname,omitempty"`
	Name      string         `json:"name,omitempty"`
	Email     string         `json:"email,omitempty"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Provider  string         `json:"provider"`
	Raw       map[string]any `json:"-"`
	Token     Token          `json:"token"`
}
