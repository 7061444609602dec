package pricechart

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Synth *Synthesizer
}

func NewHandler(synth *Synthesizer) *Handler {
	if synth == nil {
		synth = NewSynthesizer()
	}
	return &Handler{Synth: synth}
}

// RegisterRoutes mounts GET /chart and GET /api/get-price-history on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/chart", h.chart)
	rg.GET("/api/get-price-history", h.history)
}

func (h *Handler) points(c *gin.Context) ([]PricePoint, bool) {
	text := strings.TrimSpace(c.Query("price"))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price required"})
		return nil, false
	}

	p, err := ParsePrice(text)
	if errors.Is(err, ErrInvalidPrice) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be numeric"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "parse failed"})
		return nil, false
	}
	return h.Synth.Synthesize(p), true
}

func (h *Handler) chart(c *gin.Context) {
	points, ok := h.points(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewChart(points))
}

func (h *Handler) history(c *gin.Context) {
	points, ok := h.points(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, History(points))
}
