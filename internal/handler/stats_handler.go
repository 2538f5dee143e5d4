package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RInot-Aikcraft/cours/internal/service"
	"github.com/RInot-Aikcraft/cours/pkg/response"
)

// StatsHandler exposes dashboard aggregates.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Overview godoc
// @Summary Dashboard stat cards
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.StatCard
// @Router /stats [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	cards, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"stats": cards})
}

// RecentUsers godoc
// @Summary Most recently created accounts
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.PublicUser
// @Router /recent-users [get]
func (h *StatsHandler) RecentUsers(c *gin.Context) {
	users, err := h.stats.Recent(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"users": users})
}
