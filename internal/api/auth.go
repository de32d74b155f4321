package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealplanner/backend/internal/middleware"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// AuthHandler serves registration, login, password reset and the
// account's own profile.
type AuthHandler struct {
	authService    service.IAuthService
	profileService service.IProfileService
	limiter        gin.HandlerFunc
}

// NewAuthHandler wires the account endpoints. limiter guards the credential
// endpoints and may be nil.
func NewAuthHandler(authService service.IAuthService, profileService service.IProfileService, limiter gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		limiter:        limiter,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.guard(h.Login)...)
		auth.POST("/forgot-password", h.guard(h.ForgotPassword)...)
		auth.POST("/reset-password", h.guard(h.ResetPassword)...)

		account := auth.Group("")
		account.Use(middleware.AuthMiddleware(h.authService), middleware.RequireSelf("userId"))
		account.GET("/user/:userId", h.GetUser)
		account.PUT("/user/:userId", h.UpdateUser)
		account.GET("/progress/:userId", h.Progress)
	}
}

func (h *AuthHandler) guard(handler gin.HandlerFunc) []gin.HandlerFunc {
	if h.limiter == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{h.limiter, handler}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing required fields")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully.",
		"user_id": user.ID,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email/username and password are required")
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{
		Message: "Login successful",
		Token:   token,
		UserID:  user.ID,
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req types.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email is required")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Password reset email sent."})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req types.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing token or new password")
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Password reset successful."})
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.profileService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateUser(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	var req types.UpdateBiometricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.profileService.UpdateBiometrics(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "user profile updated successfully"})
}

func (h *AuthHandler) Progress(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	progress, err := h.profileService.Progress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
