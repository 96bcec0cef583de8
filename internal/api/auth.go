package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	auth service.IAuthService
	log  *logger.Logger
}

func NewAuthHandler(auth service.IAuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log.With("handler", "auth")}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Username, req.FirstName, req.LastName, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
