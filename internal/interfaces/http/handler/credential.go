package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/interfaces/http/dto"
)

// CredentialSaver stores per-user courier credentials.
type CredentialSaver interface {
	Save(ctx context.Context, userID string, creds shipping.Credentials) error
}

// CredentialHandler handles courier credential management
type CredentialHandler struct {
	saver CredentialSaver
}

// NewCredentialHandler creates a new CredentialHandler
func NewCredentialHandler(saver CredentialSaver) *CredentialHandler {
	return &CredentialHandler{saver: saver}
}

// RegisterRoutes registers the credential endpoints
func (h *CredentialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/credentials/:courier", h.SaveCredential)
}

// SaveCredentialRequest represents the credential upsert payload. Either an
// API key or a username/password pair must be present.
type SaveCredentialRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	APIKey   string `json:"api_key"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SaveCredential encrypts and stores credentials for a (user, courier) pair
func (h *CredentialHandler) SaveCredential(c *gin.Context) {
	courier, err := shipping.ParseCourierCode(c.Param("courier"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("UNKNOWN_COURIER", "Unknown courier"))
		return
	}

	var req SaveCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_REQUEST", err.Error()))
		return
	}

	creds := shipping.Credentials{
		Courier:  courier,
		APIKey:   req.APIKey,
		Username: req.Username,
		Password: req.Password,
	}
	if !creds.IsUsable() {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_CREDENTIALS",
			"Either api_key or username and password must be provided"))
		return
	}

	if err := h.saver.Save(c.Request.Context(), req.UserID, creds); err != nil {
		if errors.Is(err, shipping.ErrUnknownCourier) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("UNKNOWN_COURIER", "Unknown courier"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("SAVE_FAILED", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"courier": courier.String(),
		"user_id": req.UserID,
	}))
}
