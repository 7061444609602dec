package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pricecompare/internal/localstore"
	"pricecompare/internal/profile"
	"pricecompare/internal/sync"
)

type Handler struct {
	Store localstore.Provider
	Hub   *sync.Hub
	now   func() time.Time
}

func NewHandler(store localstore.Provider, hub *sync.Hub) *Handler {
	return &Handler{Store: store, Hub: hub, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.get)
	rg.POST("/session", h.start)
	rg.DELETE("/session", h.clear)
}

func (h *Handler) start(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		User User `json:"user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	s, err := Start(c.Request.Context(), h.Store.ForProfile(claims.ProfileID), req.User, h.now())
	if errors.Is(err, ErrNoUser) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user.name required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.publish(sync.EventSessionStarted, claims.ProfileID)
	c.JSON(http.StatusOK, s)
}

func (h *Handler) get(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	s, ok := Current(c.Request.Context(), h.Store.ForProfile(claims.ProfileID))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) clear(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := Clear(c.Request.Context(), h.Store.ForProfile(claims.ProfileID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear failed"})
		return
	}

	h.publish(sync.EventSessionCleared, claims.ProfileID)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) publish(typ, profileID string) {
	if h.Hub == nil {
		return
	}
	h.Hub.Publish(sync.Event{Type: typ, ProfileID: profileID, At: time.Now().UTC()})
}
