package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/middleware"
	"github.com/producthelper/backend/internal/service"
)

// RecipeHandler serves the recipe aggregate: CRUD, favorite and cart
// marks, and the shopping-list export.
type RecipeHandler struct {
	recipes  service.IRecipeService
	views    service.IViewService
	renderer service.ShoppingListRenderer
	log      *logger.Logger
}

func NewRecipeHandler(recipes service.IRecipeService, views service.IViewService, renderer service.ShoppingListRenderer, log *logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:  recipes,
		views:    views,
		renderer: renderer,
		log:      log.With("handler", "recipe"),
	}
}

// RegisterRoutes wires the recipe routes. Reads run behind optional auth
// so anonymous viewers get undecorated flags; mutations require auth and
// are rate limited when a limiter is configured.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator, limiter *middleware.RateLimiter) {
	recipes := router.Group("/recipes")

	authed := middleware.AuthMiddleware(validator)
	mutating := []gin.HandlerFunc{authed}
	if limiter != nil {
		mutating = append(mutating, limiter.RateLimitMiddleware())
	}

	recipes.GET("", middleware.OptionalAuthMiddleware(validator), h.ListRecipes)
	recipes.GET("/download_shopping_cart", authed, h.DownloadShoppingCart)
	recipes.GET("/:id", middleware.OptionalAuthMiddleware(validator), h.GetRecipe)
	recipes.POST("", append(mutating, h.CreateRecipe)...)
	recipes.PUT("/:id", append(mutating, h.UpdateRecipe)...)
	recipes.DELETE("/:id", append(mutating, h.DeleteRecipe)...)
	recipes.POST("/:id/favorite", authed, h.AddFavorite)
	recipes.DELETE("/:id/favorite", authed, h.RemoveFavorite)
	recipes.POST("/:id/shopping_cart", authed, h.AddToCart)
	recipes.DELETE("/:id/shopping_cart", authed, h.RemoveFromCart)
}

// ListRecipes returns a decorated page of recipes. Filters: ?author=,
// ?tags= (repeatable slug), ?is_favorited=1, ?is_in_shopping_cart=1.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{TagSlugs: c.QueryArray("tags")}
	filter.Page, filter.Limit = pageParams(c)

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author"})
			return
		}
		filter.AuthorID = &id
	}

	viewer := viewerID(c)
	if viewer != nil {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = viewer
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InCartOf = viewer
		}
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.views.DecorateAll(c.Request.Context(), recipes, viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total, "results": views})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.views.Decorate(c.Request.Context(), recipe, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.views.Decorate(c.Request.Context(), recipe, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.views.Decorate(c.Request.Context(), recipe, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMark(c, h.views.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMark(c, h.views.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMark(c, h.views.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMark(c, h.views.RemoveFromCart)
}

// DownloadShoppingCart aggregates the caller's cart and streams the
// rendered document.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	items, err := h.views.BuildShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := h.renderer.Render(items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.renderer.Filename()))
	c.Data(http.StatusOK, h.renderer.ContentType(), data)
}

func (h *RecipeHandler) addMark(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*service.ShortRecipeView, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	view, err := add(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) removeMark(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if err := remove(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
