package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

type HealthHandler struct {
	service string
	clock   func() time.Time
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service, clock: time.Now}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.clock().Format(time.RFC3339),
		"service":   h.service,
		"version":   version,
	})
}

func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Strategy runtime API",
		"health":  "/health",
		"state":   "/state",
		"version": version,
	})
}
