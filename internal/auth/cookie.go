package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// ReadSessionCookie returns the session token from the request cookies,
// or false when the cookie is absent or empty.
func ReadSessionCookie(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// WriteSessionCookie attaches the session token to the response.
func WriteSessionCookie(c echo.Context, token string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTokenExpiry / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
