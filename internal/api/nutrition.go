package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

type NutritionHandler struct {
	profileService service.IProfileService
}

func NewNutritionHandler(profileService service.IProfileService) *NutritionHandler {
	return &NutritionHandler{profileService: profileService}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/nutrition/:userId", h.ForUser)
	router.POST("/guest/nutrition", h.ForGuest)
}

func (h *NutritionHandler) ForUser(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	target, err := h.profileService.NutritionFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

// ForGuest computes a target from the request body without an account.
func (h *NutritionHandler) ForGuest(c *gin.Context) {
	var req types.GuestProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing required fields")
		return
	}

	target, err := nutrition.Calculate(guestProfile(req))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"nutritionPlan": target,
	})
}
