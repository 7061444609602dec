package wishlist

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pricecompare/internal/history"
	"pricecompare/internal/localstore"
	"pricecompare/internal/profile"
	"pricecompare/internal/sync"
)

type Handler struct {
	Store localstore.Provider
	Locks *history.Locks
	Hub   *sync.Hub
}

func NewHandler(store localstore.Provider, locks *history.Locks, hub *sync.Hub) *Handler {
	if locks == nil {
		locks = history.NewLocks()
	}
	return &Handler{Store: store, Locks: locks, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/wishlist", h.list)
	rg.POST("/wishlist/toggle", h.toggle)
	rg.GET("/wishlist/contains", h.contains)
}

func (h *Handler) forProfile(profileID string) *Wishlist {
	return New(h.Store.ForProfile(profileID), h.Locks.For(profileID))
}

type toggleReq struct {
	Title string          `json:"title"`
	Price json.RawMessage `json:"price"`
	Store string          `json:"store"`
}

func (h *Handler) toggle(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	price, ok := PriceText(req.Price)
	if !ok || req.Title == "" || req.Store == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, price and store required"})
		return
	}

	item := Item{Title: req.Title, Price: price, Store: req.Store}
	added, err := h.forProfile(claims.ProfileID).Toggle(c.Request.Context(), item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	if h.Hub != nil {
		ev := sync.Event{
			Type:      sync.EventWishlistRemoved,
			ProfileID: claims.ProfileID,
			Title:     item.Title,
			Store:     item.Store,
			Price:     item.Price,
			At:        time.Now().UTC(),
		}
		if added {
			ev.Type = sync.EventWishlistAdded
		}
		h.Hub.Publish(ev)
	}

	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *Handler) list(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items := h.forProfile(claims.ProfileID).List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) contains(c *gin.Context) {
	claims := profile.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	title := c.Query("title")
	store := c.Query("store")
	if strings.TrimSpace(title) == "" || strings.TrimSpace(store) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and store required"})
		return
	}

	ok := h.forProfile(claims.ProfileID).Contains(c.Request.Context(), title, store)
	c.JSON(http.StatusOK, gin.H{"wishlisted": ok})
}
