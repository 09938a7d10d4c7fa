package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"notetasks/utils"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping   Pinger
	driver string
}

func NewHealthHandler(driver string, ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping, driver: driver}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	storeStatus := "up"
	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			log.Printf("Health check failed: %v", err)
			status = http.StatusServiceUnavailable
			storeStatus = "down"
		}
	}

	c.JSON(status, &utils.Response{
		Data: gin.H{
			"store": gin.H{
				"driver": h.driver,
				"status": storeStatus,
			},
			"mongo": utils.GetMongoMetrics(),
			"cpu":   utils.GetCPUUsage(ctx, 100*time.Millisecond),
		},
	})
}
