package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/producthelper/backend/internal/service"
)

// ingredientAmountRequest is one ingredient line of a recipe payload.
type ingredientAmountRequest struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// recipeRequest is the create/update payload. Everything beyond name and
// text is validated by the recipe service so each failure mode keeps its
// own error.
type recipeRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time"`
	Image       string                    `json:"image"`
	Ingredients []ingredientAmountRequest `json:"ingredients"`
	Tags        []uuid.UUID               `json:"tags"`
}

func (r *recipeRequest) toInput() *service.RecipeInput {
	in := &service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
	}
	for _, ia := range r.Ingredients {
		in.Ingredients = append(in.Ingredients, service.IngredientAmount{
			IngredientID: ia.ID,
			Amount:       ia.Amount,
		})
	}
	return in
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// pageParams reads page/limit query parameters with the defaults the
// frontend expects.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "6"))
	if limit < 1 || limit > 100 {
		limit = 6
	}
	return page, limit
}

// viewerID returns the authenticated user's id, or nil for anonymous
// requests.
func viewerID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// currentUserID returns the authenticated user's id. Handlers behind
// AuthMiddleware may rely on ok being true.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id := viewerID(c)
	if id == nil {
		return uuid.Nil, false
	}
	return *id, true
}

// respondError maps service errors to HTTP statuses: the validation and
// mark taxonomy to 400, missing entities to 404, ownership failures to
// 403, anything unrecognized to a generic 500.
func respondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Err.Error(), "field": ve.Field})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrNotFavorited),
		errors.Is(err, service.ErrAlreadyInCart),
		errors.Is(err, service.ErrNotInCart),
		errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrNotFollowing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidLogin), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// parseID reads a uuid path parameter.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
