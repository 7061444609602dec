package profile

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Tokens TokenService
}

func NewHandler(tokens TokenService) *Handler {
	return &Handler{Tokens: tokens}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create) // POST /profiles
}

func (h *Handler) create(c *gin.Context) {
	id, token, exp, err := h.Tokens.Issue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"profile_id": id,
		"token":      token,
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}
