package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RInot-Aikcraft/cours/internal/service"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
	"github.com/RInot-Aikcraft/cours/pkg/response"
)

// AccountHandler exposes availability checks and username suggestions.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type checkUsernameRequest struct {
	Username string `json:"username"`
}

type checkEmailRequest struct {
	Email string `json:"email"`
}

type suggestUsernamesRequest struct {
	BaseUsername string `json:"baseUsername"`
}

// CheckUsername godoc
// @Summary Check whether a username is free
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body checkUsernameRequest true "Candidate username"
// @Success 200 {object} models.AvailabilityResult
// @Router /check-username [post]
func (h *AccountHandler) CheckUsername(c *gin.Context) {
	var req checkUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.accounts.CheckUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// CheckEmail godoc
// @Summary Check whether an email is free
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body checkEmailRequest true "Candidate email"
// @Success 200 {object} models.AvailabilityResult
// @Router /check-email [post]
func (h *AccountHandler) CheckEmail(c *gin.Context) {
	var req checkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.accounts.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// SuggestUsernames godoc
// @Summary Suggest free usernames for a base
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body suggestUsernamesRequest true "Base username"
// @Success 200 {object} map[string][]string
// @Router /suggest-usernames [post]
func (h *AccountHandler) SuggestUsernames(c *gin.Context) {
	var req suggestUsernamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	suggestions, err := h.accounts.SuggestUsernames(c.Request.Context(), req.BaseUsername)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"suggestions": suggestions})
}
