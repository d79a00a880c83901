package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Lawrence9908/ecommerce-backend-api/common"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
	"github.com/Lawrence9908/ecommerce-backend-api/service"
)

type contextKey string

const userKey contextKey = "user"

// UserFromContext returns the user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

type AuthMiddleware struct {
	service *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{service: authService}
}

// Protect requires a valid access token cookie and attaches its user to the
// request context.
func (m *AuthMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := cookieValue(r, AccessTokenCookie)
		if accessToken == "" {
			common.NewAppError(http.StatusUnauthorized, "Unauthorized - No access token provided", nil).Send(w)
			return
		}

		user, err := m.service.Authenticate(r.Context(), accessToken)
		if err != nil {
			var appErr *common.AppError
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				appErr = common.NewAppError(http.StatusUnauthorized, "Unauthorized - Access token expired", err)
			case errors.Is(err, service.ErrInvalidToken):
				appErr = common.NewAppError(http.StatusUnauthorized, "Unauthorized - Invalid access token", err)
			case errors.Is(err, service.ErrUserNotFound):
				appErr = common.NewAppError(http.StatusUnauthorized, "User not found", err)
			default:
				appErr = common.NewInternalError(err)
			}
			appErr.Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware must run after Protect.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			common.NewAppError(http.StatusForbidden, "Access denied - Admin only", nil).Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
