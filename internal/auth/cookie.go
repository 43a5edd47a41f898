package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

// SetTokenCookie attaches the session token to the response. The cookie is
// scoped http-only and same-site strict; its max-age matches TokenExpiry so
// the cookie and the embedded token expire together.
func SetTokenCookie(c echo.Context, token string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearTokenCookie expires the session cookie on the client.
func ClearTokenCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadTokenCookie returns the raw token from the request cookie, if present.
func ReadTokenCookie(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
