package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dizzycode.xyz/strategy-runtime/internal/application"
)

// StatusProvider read side of the strategy service
type StatusProvider interface {
	Status() application.Status
}

type StateHandler struct {
	provider StatusProvider
}

func NewStateHandler(provider StatusProvider) *StateHandler {
	return &StateHandler{provider: provider}
}

// Get returns positions, pnl and counters of the running strategy
func (h *StateHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Status())
}

// Position returns the net position of one symbol; unknown symbols are 404
func (h *StateHandler) Position(c *gin.Context) {
	status := h.provider.Status()
	symbol := c.Param("symbol")

	for _, configured := range status.Symbols {
		if configured == symbol {
			c.JSON(http.StatusOK, gin.H{
				"symbol":   symbol,
				"position": status.State.Position(symbol),
			})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "symbol not configured", "symbol": symbol})
}
