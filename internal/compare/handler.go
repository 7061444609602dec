package compare

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/savings", h.savings)
	rg.POST("/best-deal", h.bestDeal)
	rg.GET("/review", h.review)
}

func (h *Handler) savings(c *gin.Context) {
	s, err := CalculateSavings(c.Query("amazon"), c.Query("walmart"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amazon and walmart must be numeric prices"})
		return
	}
	c.JSON(http.StatusOK, s)
}

type bestDealReq struct {
	Products []Product `json:"products"`
}

func (h *Handler) bestDeal(c *gin.Context) {
	var req bestDealReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	kept := make([]Product, 0, len(req.Products))
	for _, p := range req.Products {
		if p.PriceText != "" && !IsOutrightPrice(p.PriceText) {
			continue
		}
		if IsBrandNew(p.Title) && !IsCarrierLocked(p.Title) {
			kept = append(kept, p)
		}
	}

	rec, ok := BestDeal(kept)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no eligible products"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) review(c *gin.Context) {
	s, ok := SummarizeRating(c.Query("rating"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be numeric"})
		return
	}
	c.JSON(http.StatusOK, s)
}
