package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RInot-Aikcraft/cours/internal/service"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
	"github.com/RInot-Aikcraft/cours/pkg/response"
)

// LevelHandler exposes level CRUD endpoints under /niveaux.
type LevelHandler struct {
	levels *service.LevelService
}

// NewLevelHandler constructs LevelHandler.
func NewLevelHandler(levels *service.LevelService) *LevelHandler {
	return &LevelHandler{levels: levels}
}

// List godoc
// @Summary List levels with their session
// @Tags Levels
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.LevelWithSession
// @Router /niveaux [get]
func (h *LevelHandler) List(c *gin.Context) {
	levels, err := h.levels.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"niveaux": levels})
}

// Get godoc
// @Summary Get one level
// @Tags Levels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Level ID"
// @Success 200 {object} map[string]models.LevelWithSession
// @Router /niveaux/{id} [get]
func (h *LevelHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	level, err := h.levels.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"niveau": level})
}

// Create godoc
// @Summary Create a level
// @Tags Levels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.LevelRequest true "Level payload"
// @Success 201 {object} map[string]interface{}
// @Router /niveaux [post]
func (h *LevelHandler) Create(c *gin.Context) {
	var req service.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	level, err := h.levels.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"niveau": level, "message": "level created"})
}

// Update godoc
// @Summary Update a level
// @Tags Levels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Level ID"
// @Param payload body service.LevelRequest true "Level payload"
// @Success 200 {object} map[string]interface{}
// @Router /niveaux/{id} [put]
func (h *LevelHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	level, err := h.levels.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"niveau": level, "message": "level updated"})
}

// Delete godoc
// @Summary Delete a level
// @Tags Levels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Level ID"
// @Success 200 {object} map[string]string
// @Router /niveaux/{id} [delete]
func (h *LevelHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.levels.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "level deleted"})
}
