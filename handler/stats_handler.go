package handler

import (
	"notetasks/usecase"
	"notetasks/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *usecase.StatsService
}

func NewStatsHandler(statsService *usecase.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"stats": stats,
	})
}
