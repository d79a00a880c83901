package handler

import (
	"errors"
	"net/http"

	"github.com/Lawrence9908/ecommerce-backend-api/common"
	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/metrics"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
	"github.com/Lawrence9908/ecommerce-backend-api/service"

	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Signup godoc
// @Summary      Register a new customer
// @Description  Creates the account, starts a session and sets the token cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.SignupRequest  true  "Signup payload"
// @Success      201      {object}  model.AuthResponse
// @Failure      400      {object}  common.AppError
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignupRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, tokens, err := h.service.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return common.NewAppError(http.StatusBadRequest, "User already exists", err)
		}
		return common.NewInternalError(err)
	}

	metrics.RecordAuthEvent("signup")
	setAuthCookies(w, tokens)
	common.WriteJSON(w, http.StatusCreated, authResponse("User successfully registered", user))
	return nil
}

// Login godoc
// @Summary      Log in
// @Description  Checks the credentials, replaces any previous session and sets the token cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Login payload"
// @Success      200      {object}  model.AuthResponse
// @Failure      400      {object}  common.AppError
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, tokens, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.RecordAuthEvent("login_failed")
			return common.NewAppError(http.StatusBadRequest, "Invalid credentials", nil)
		}
		return common.NewInternalError(err)
	}

	metrics.RecordAuthEvent("login")
	setAuthCookies(w, tokens)
	common.WriteJSON(w, http.StatusOK, authResponse("User successfully login", user))
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the stored refresh token (if any) and clears both cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.Logout(r.Context(), cookieValue(r, RefreshTokenCookie)); err != nil {
		return common.NewInternalError(err)
	}

	metrics.RecordAuthEvent("logout")
	clearAuthCookies(w)
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Logged out successfully"})
	return nil
}

// Refresh godoc
// @Summary      Refresh the access token
// @Description  Issues a new access token cookie if the refresh token cookie matches the stored session.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	refreshToken := cookieValue(r, RefreshTokenCookie)
	if refreshToken == "" {
		return common.NewAppError(http.StatusUnauthorized, "No refresh token provided", nil)
	}

	accessToken, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid refresh token", err)
		}
		return common.NewInternalError(err)
	}

	metrics.RecordAuthEvent("refresh")
	setAccessCookie(w, accessToken)
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Token successfully refreshed"})
	return nil
}

// Profile godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  model.ProfileResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "User not found", nil)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Debug("Profile request received")

	common.WriteJSON(w, http.StatusOK, model.ProfileResponse{Success: true, Message: "User found", User: user})
	return nil
}

func authResponse(message string, user *model.User) model.AuthResponse {
	return model.AuthResponse{
		Success: true,
		Message: message,
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
	}
}
