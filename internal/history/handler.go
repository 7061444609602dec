package history

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pricecompare/internal/localstore"
	"pricecompare/internal/profile"
	"pricecompare/internal/sync"
)

// Handler serves the recent-search list of the calling profile.
type Handler struct {
	Store localstore.Provider
	Locks *Locks
	Hub   *sync.Hub
}

func NewHandler(store localstore.Provider, locks *Locks, hub *sync.Hub) *Handler {
	if locks == nil {
		locks = NewLocks()
	}
	return &Handler{Store: store, Locks: locks, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/searches", h.list)
	rg.POST("/searches", h.add)
	rg.DELETE("/searches", h.clear)
}

func (h *Handler) forProfile(profileID string) *Searches {
	return NewSearches(h.Store.ForProfile(profileID), h.Locks.For(profileID))
}

type addReq struct {
	Term string `json:"term"`
}

func (h *Handler) add(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	s := h.forProfile(claims.ProfileID)
	if err := s.Add(c.Request.Context(), req.Term); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	items := s.List(c.Request.Context())
	if h.Hub != nil && len(items) > 0 && strings.TrimSpace(req.Term) != "" {
		h.Hub.Publish(sync.Event{
			Type:      sync.EventSearchAdded,
			ProfileID: claims.ProfileID,
			Term:      items[0],
			At:        time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"searches": items})
}

func (h *Handler) list(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"searches": h.forProfile(claims.ProfileID).List(c.Request.Context())})
}

func (h *Handler) clear(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.forProfile(claims.ProfileID).Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear failed"})
		return
	}

	if h.Hub != nil {
		h.Hub.Publish(sync.Event{
			Type:      sync.EventSearchCleared,
			ProfileID: claims.ProfileID,
			At:        time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "cleared"})
}
