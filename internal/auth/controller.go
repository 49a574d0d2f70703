package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/shared/utils/response"
)

// Controller handles auth HTTP requests
type Controller struct {
	service Service
}

// NewController creates a new auth controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Register handles POST /auth/register
func (ctrl *Controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := ctrl.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Registration failed", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "User registered successfully", resp, nil)
}

// Login handles POST /auth/login
func (ctrl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := ctrl.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Login failed", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Login successful", resp, nil)
}

// RefreshToken handles POST /auth/refresh
func (ctrl *Controller) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	tokens, err := ctrl.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired refresh token", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Token refreshed", tokens, nil)
}

// ChangePassword handles POST /auth/change-password
func (ctrl *Controller) ChangePassword(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			return
		}
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Password changed successfully", nil, nil)
}

// ForgotPassword handles POST /auth/forgot-password
func (ctrl *Controller) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to process request", nil, nil)
		return
	}

	// Always the same answer, whether or not the email exists.
	response.RespondJSON(c, "success", http.StatusOK, "If the email is registered, a reset link has been sent", nil, nil)
}

// ResetPassword handles POST /auth/reset-password
func (ctrl *Controller) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.ResetPassword(c.Request.Context(), &req); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Password reset successfully", nil, nil)
}

// Me handles GET /auth/me
func (ctrl *Controller) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	profile, err := ctrl.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Profile fetched", profile, nil)
}
