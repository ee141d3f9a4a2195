package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const mockCode = "mock-authorization-code"

// AuthorizeHandler simulates the provider's authorization page: it
// immediately redirects back to redirect_uri with a canned code and
// the caller's state echoed verbatim.
func AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	redirectURI := query.Get("redirect_uri")
	if redirectURI == "" {
		http.Error(w, "missing redirect_uri", http.StatusBadRequest)
		return
	}
	if query.Get("client_id") == "" {
		http.Error(w, "missing client_id", http.StatusBadRequest)
		return
	}
	if query.Get("response_type") != "code" {
		http.Error(w, "unsupported response_type", http.StatusBadRequest)
		return
	}

	params := url.Values{}
	params.Set("code", mockCode)
	if state := query.Get("state"); state != "" {
		params.Set("state", state)
	}

	http.Redirect(w, r, redirectURI+"?"+params.Encode(), http.StatusFound)
}

// TokenHandler exchanges the canned code for a canned token. Sending
// any other code produces the provider-style error payload.
func TokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	if r.PostFormValue("grant_type") != "authorization_code" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "unsupported_grant_type",
			"error_description": "only authorization_code is supported",
		})
		return
	}

	if r.PostFormValue("code") != mockCode {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "authorization code is invalid or expired",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  "mock-access-token",
		"refresh_token": "mock-refresh-token",
		"token_type":    "bearer",
		"expires_in":    3600,
	})
}

// UserHandler returns the canned profile for the canned token.
func UserHandler(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "bad credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         4242,
		"login":      "mockuser",
		"name":       "Mock User",
		"avatar_url": "https://avatars.example.com/mockuser",
	})
}

// UserEmailsHandler returns the canned email list, primary flagged.
func UserEmailsHandler(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "bad credentials"})
		return
	}

	writeJSON(w, http.StatusOK, []map[string]any{
		{"email": "secondary@example.com", "primary": false, "verified": true},
		{"email": "mockuser@example.com", "primary": true, "verified": true},
	})
}

func authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	return strings.HasPrefix(header, "Bearer ") && strings.TrimPrefix(header, "Bearer ") == "mock-access-token"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		fmt.Println("failed to encode response:", err)
	}
}
