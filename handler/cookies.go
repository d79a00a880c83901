package handler

import (
	"net/http"

	"github.com/Lawrence9908/ecommerce-backend-api/config"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func newTokenCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.AppConfig.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	}
}

func setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, newTokenCookie(AccessTokenCookie, token, int(config.AppConfig.JWT.AccessTTL.Seconds())))
}

func setAuthCookies(w http.ResponseWriter, tokens *model.TokenPair) {
	setAccessCookie(w, tokens.AccessToken)
	http.SetCookie(w, newTokenCookie(RefreshTokenCookie, tokens.RefreshToken, int(config.AppConfig.JWT.RefreshTTL.Seconds())))
}

// clearAuthCookies expires both token cookies in the browser.
func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, newTokenCookie(AccessTokenCookie, "", -1))
	http.SetCookie(w, newTokenCookie(RefreshTokenCookie, "", -1))
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
