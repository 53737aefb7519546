package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/pkg/response"
)

type smsSender interface {
	SendSMS(ctx context.Context, req dto.SendSMSRequest) (string, error)
}

type handoffService interface {
	Handoff(ctx context.Context, req dto.HandoffRequest) (string, error)
}

// MessagingHandler exposes SMS delivery and human handoff.
type MessagingHandler struct {
	sms     smsSender
	handoff handoffService
	logger  *zap.Logger
}

// NewMessagingHandler builds a new handler.
func NewMessagingHandler(sms smsSender, handoff handoffService, logger *zap.Logger) *MessagingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagingHandler{sms: sms, handoff: handoff, logger: logger}
}

// SendSMS godoc
// @Summary Send an SMS to the caller's phone identity
// @Tags Tools
// @Accept json
// @Produce json
// @Param x-identity header string true "phone:<phone> or whatsapp:<phone>"
// @Param payload body dto.SendSMSRequest true "Message"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tools/send-sms [post]
func (h *MessagingHandler) SendSMS(c *gin.Context) {
	in, ok := toolInput(c, ToolSendSMS, h.logger)
	if !ok {
		return
	}
	sid, err := h.sms.SendSMS(c.Request.Context(), dto.BindSendSMS(in))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.OK(c, "SMS sent successfully", map[string]interface{}{"sid": sid})
}

// SendToFlex godoc
// @Summary Hand the conversation or call over to a human agent
// @Tags Tools
// @Produce json
// @Param x-session-id header string true "voice:<callSid>/... or conversations__<serviceSid>/<conversationSid>"
// @Param x-identity header string false "<trait>:<value>"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /tools/send-to-flex [post]
func (h *MessagingHandler) SendToFlex(c *gin.Context) {
	in, ok := toolInput(c, ToolSendToFlex, h.logger)
	if !ok {
		return
	}
	msg, err := h.handoff.Handoff(c.Request.Context(), dto.BindHandoff(in))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.OK(c, msg, nil)
}
