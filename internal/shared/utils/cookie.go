package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authrelay/internal/shared/config"
)

// SetSessionCookie writes the session cookie on the response using the
// configured domain, path and security attributes.
func SetSessionCookie(c *gin.Context, cfg *config.SessionConfig, sessionID string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    sessionID,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: ParseSameSite(cfg.SameSite),
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *gin.Context, cfg *config.SessionConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: ParseSameSite(cfg.SameSite),
	})
}

// ParseSameSite maps a config string to the http.SameSite mode.
// Unknown values fall back to Lax.
func ParseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteLaxMode
	}
}
