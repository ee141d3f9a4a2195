package social

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session_id"

// AuthHandler starts the OAuth2 flow for the provider named in the path
// @Summary Start social login
// @Description Redirects the user to the provider's authorization page
// @Tags social
// @Produce json
// @Param provider path string true "Provider name"
// @Success 302 {string} string "Redirect"
// @Failure 404 {object} map[string]string "Unknown provider"
// @Router /auth/{provider} [get]
func AuthHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authURL, err := manager.AuthURL(c.Request.Context(), c.Param("provider"))
		if err != nil {
			if errors.Is(err, ErrProviderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// CallbackHandler handles the provider's redirect back
// @Summary Social login callback
// @Description Exchanges the authorization code, normalizes the user and creates a session
// @Tags social
// @Produce json
// @Param provider path string true "Provider name"
// @Param code query string false "Authorization code"
// @Param state query string false "CSRF state"
// @Success 200 {object} map[string]interface{} "Authenticated"
// @Failure 400 {object} map[string]string "Redirect error or invalid state"
// @Failure 502 {object} map[string]string "Provider call failed"
// @Router /auth/{provider}/callback [get]
func CallbackHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cb := CallbackFromQuery(c.Request.URL.Query())

		sessionID, user, err := manager.HandleCallback(c.Request.Context(), c.Param("provider"), cb)
		if err != nil {
			c.JSON(callbackStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		// Cookie lifetime tracks the server-side session lifetime.
		c.SetCookie(
			sessionCookieName,
			sessionID,
			int(manager.sessionTTL.Seconds()),
			"/",
			"",
			true, // Secure: only HTTPS
			true, // HttpOnly: not accessible via JavaScript
		)

		refreshAdvised, _ := manager.RefreshAdvised(sessionID, time.Now())

		c.JSON(http.StatusOK, gin.H{
			"user":            user,
			"refresh_advised": refreshAdvised,
		})
	}
}

func callbackStatus(err error) int {
	var exchangeErr *ExchangeError
	var profileErr *ProfileError

	switch {
	case errors.Is(err, ErrProviderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest
	case errors.As(err, &exchangeErr):
		if exchangeErr.StatusCode == 0 {
			// No HTTP call happened; the redirect itself failed.
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.As(err, &profileErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ProvidersHandler lists registered providers
// @Summary List providers
// @Description Returns the provider names available for login
// @Tags social
// @Produce json
// @Success 200 {object} map[string][]string "Providers"
// @Router /auth/providers [get]
func ProvidersHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"providers": manager.Providers()})
	}
}

// MeHandler returns authenticated user info from session
// @Summary Get authenticated user info
// @Description Returns the normalized user from the session
// @Tags social
// @Produce json
// @Success 200 {object} map[string]interface{} "User info"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/me [get]
func MeHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session found"})
			return
		}

		session, err := manager.Session(sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		refreshAdvised, _ := manager.RefreshAdvised(sessionID, time.Now())

		c.JSON(http.StatusOK, gin.H{
			"user":            session.User,
			"created_at":      session.CreatedAt,
			"expires_at":      session.ExpiresAt,
			"refresh_advised": refreshAdvised,
		})
	}
}

// RefreshHandler refreshes the session's access token
// @Summary Refresh access token
// @Description Refreshes the access token for providers that issue refresh tokens
// @Tags social
// @Produce json
// @Success 200 {object} map[string]string "Token refreshed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/refresh [post]
func RefreshHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session found"})
			return
		}

		if err := manager.RefreshSession(c.Request.Context(), sessionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "token refreshed"})
	}
}

// LogoutHandler logs out the user by deleting the session
// @Summary Logout
// @Description Deletes the user session and clears the cookie
// @Tags social
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Router /auth/logout [post]
func LogoutHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err == nil {
			manager.DeleteSession(sessionID)
		}

		c.SetCookie(
			sessionCookieName,
			"",
			-1,
			"/",
			"",
			true,
			true,
		)

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

// AuthMiddleware validates the session cookie and stores the session
// in the request context for downstream handlers.
func AuthMiddleware(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session found"})
			c.Abort()
			return
		}

		session, err := manager.Session(sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			c.Abort()
			return
		}

		c.Set("session", session)
		c.Set("user", session.User)

		c.Next()
	}
}
