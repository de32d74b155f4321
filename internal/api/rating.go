package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

type RatingHandler struct {
	ratingService service.IRatingService
}

func NewRatingHandler(ratingService service.IRatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/mealrating", h.Submit)
}

func (h *RatingHandler) Submit(c *gin.Context) {
	var req types.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing required fields (user_id, plan_id, rating)")
		return
	}

	rating, err := h.ratingService.Submit(c.Request.Context(), service.RatingInput{
		UserID: req.UserID,
		PlanID: req.PlanID,
		Rating: req.Rating,
		Review: req.Review,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Meal rating submitted successfully.",
		"rating_id": rating.ID,
	})
}
