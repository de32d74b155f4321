package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealplanner/backend/internal/service"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
}

func NewRecipeHandler(recipeService service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/fetch-recipe", h.FetchRecipes)
	}
}

// FetchRecipes pulls a batch of provider recipes into the shared catalog.
func (h *RecipeHandler) FetchRecipes(c *gin.Context) {
	summary, err := h.recipeService.SeedCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipes inserted successfully",
		"summary": summary,
	})
}
