package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/pkg/response"
)

type guardianService interface {
	Authenticate(ctx context.Context, req dto.AuthenticateRequest) (*models.Guardian, error)
}

// GuardianHandler exposes guardian authentication.
type GuardianHandler struct {
	service guardianService
	logger  *zap.Logger
}

// NewGuardianHandler builds a new handler.
func NewGuardianHandler(service guardianService, logger *zap.Logger) *GuardianHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuardianHandler{service: service, logger: logger}
}

// Authenticate godoc
// @Summary Authenticate a guardian by identity and PIN
// @Tags Tools
// @Accept json
// @Produce json
// @Param x-identity header string true "email:<email>, phone:<phone> or whatsapp:<phone>"
// @Param pin header string false "Guardian PIN (also accepted in query or body)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /tools/guardian-authentication [post]
func (h *GuardianHandler) Authenticate(c *gin.Context) {
	in, ok := toolInput(c, ToolGuardianAuthentication, h.logger)
	if !ok {
		return
	}
	guardian, err := h.service.Authenticate(c.Request.Context(), dto.BindAuthenticate(in))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.OK(c, "", map[string]interface{}{"guardian": guardian})
}
