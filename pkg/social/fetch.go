package social

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// getJSON performs an authenticated GET against a provider API and
// decodes the JSON body into out. The raw decoded body is returned
// alongside so drivers can keep it on the normalized user. Transport
// failures and non-2xx statuses surface as *ProfileError.
func getJSON(ctx context.Context, client Doer, provider, rawURL, accessToken string, out any) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &ProfileError{Provider: provider, Body: err.Error()}
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ProfileError{Provider: provider, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProfileError{Provider: provider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, &ProfileError{Provider: provider, StatusCode: resp.StatusCode, Body: err.Error()}
		}
	}

	var raw map[string]any
	// Array-shaped responses (e.g. email lists) have no map form.
	_ = json.Unmarshal(body, &raw)

	return raw, nil
}
