package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/middleware"
	"github.com/producthelper/backend/internal/service"
)

// UserHandler serves the follow relation: subscribe, unsubscribe and the
// subscriptions list.
type UserHandler struct {
	users service.IUserService
	log   *logger.Logger
}

func NewUserHandler(users service.IUserService, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log.With("handler", "user")}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	users := router.Group("/users", middleware.AuthMiddleware(validator))
	{
		users.GET("/subscriptions", h.Subscriptions)
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if err := h.users.Follow(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if err := h.users.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists a page of followed authors; ?recipes_limit= caps
// the recipes embedded per author.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	page, limit := pageParams(c)
	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))
	subs, err := h.users.Subscriptions(c.Request.Context(), userID, page, limit, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}
