package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealplanner/backend/internal/middleware"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

type StarredHandler struct {
	starredService service.IStarredService
	validator      middleware.TokenValidator
}

func NewStarredHandler(starredService service.IStarredService, validator middleware.TokenValidator) *StarredHandler {
	return &StarredHandler{
		starredService: starredService,
		validator:      validator,
	}
}

func (h *StarredHandler) RegisterRoutes(router *gin.RouterGroup) {
	starred := router.Group("/starred")
	starred.Use(middleware.AuthMiddleware(h.validator))
	{
		starred.POST("/star/:planId", h.Star)
		starred.DELETE("/unstar/:planId", h.Unstar)
		starred.GET("/user/:userId", middleware.RequireSelf("userId"), h.ListByUser)
		starred.GET("/check/:planId", h.Check)
	}
}

func (h *StarredHandler) Star(c *gin.Context) {
	userID, planID, ok := h.callerAndPlan(c)
	if !ok {
		return
	}

	if _, err := h.starredService.Star(c.Request.Context(), userID, planID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.MessageResponse{Message: "Meal starred successfully"})
}

func (h *StarredHandler) Unstar(c *gin.Context) {
	userID, planID, ok := h.callerAndPlan(c)
	if !ok {
		return
	}

	if err := h.starredService.Unstar(c.Request.Context(), userID, planID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Meal unstarred successfully"})
}

func (h *StarredHandler) ListByUser(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	entries, err := h.starredService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *StarredHandler) Check(c *gin.Context) {
	userID, planID, ok := h.callerAndPlan(c)
	if !ok {
		return
	}

	starred, err := h.starredService.IsStarred(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isStarred": starred})
}

func (h *StarredHandler) callerAndPlan(c *gin.Context) (uint, uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: string(service.KindUnauthorized), Message: "unauthorized"})
		return 0, 0, false
	}
	planID, ok := uintParam(c, "planId")
	if !ok {
		return 0, 0, false
	}
	return userID, planID, true
}
