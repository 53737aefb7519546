package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/internal/models"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
)

const (
	voiceSessionPrefix        = "voice:"
	conversationSessionPrefix = "conversations__"
	webchatUserPrefix         = "FX"
)

// Handoff outcomes.
const (
	HandoffCallForwarded = "Call forwarded"
	HandoffTransferred   = "Transferred to human agent"
)

type handoffProvider interface {
	RedirectCall(callSID, phrase, target string) error
	ConversationUserName(userSID string) (string, error)
	CreateInteraction(in models.Interaction) (string, error)
}

// HandoffConfig routes escalations to the agent desk.
type HandoffConfig struct {
	ProviderReady    bool
	WorkflowSID      string
	WorkspaceSID     string
	VoiceRedirectURL string
	VoicePhrase      string
	TaskChannel      string
}

// HandoffService escalates an assistant session to a human agent.
type HandoffService struct {
	provider handoffProvider
	cfg      HandoffConfig
	logger   *zap.Logger
}

// NewHandoffService constructs a HandoffService.
func NewHandoffService(provider handoffProvider, cfg HandoffConfig, logger *zap.Logger) *HandoffService {
	if cfg.TaskChannel == "" {
		cfg.TaskChannel = models.InteractionChannelChat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HandoffService{provider: provider, cfg: cfg, logger: logger}
}

// Handoff redirects a live call or opens an agent interaction for a
// conversation and returns the confirmation message.
func (s *HandoffService) Handoff(ctx context.Context, req dto.HandoffRequest) (string, error) {
	if !s.cfg.ProviderReady || s.provider == nil {
		return "", appErrors.ErrMessagingConfig
	}
	if strings.HasPrefix(req.SessionID, voiceSessionPrefix) {
		return s.forwardCall(req.SessionID)
	}

	workflow := firstNonEmpty(req.WorkflowSID, s.cfg.WorkflowSID)
	workspace := firstNonEmpty(req.WorkspaceSID, s.cfg.WorkspaceSID)
	if workflow == "" || workspace == "" {
		return "", appErrors.ErrHandoffConfig
	}

	conversationSID := parseConversationSID(req.SessionID)
	trait, address := parseTrait(req.Identity)
	if address == "" || conversationSID == "" {
		return "", appErrors.ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	in := models.Interaction{
		ChannelType:     models.InteractionChannelChat,
		MediaChannelSID: conversationSID,
		WorkspaceSID:    workspace,
		WorkflowSID:     workflow,
		TaskChannel:     s.cfg.TaskChannel,
		From:            address,
		CustomerName:    address,
		CustomerAddress: address,
	}
	switch {
	case trait == string(models.ChannelWhatsApp):
		in.ChannelType = models.InteractionChannelWhatsApp
		in.From = "whatsapp:" + address
		in.CustomerName = in.From
		in.CustomerAddress = in.From
	case strings.HasPrefix(address, "+"):
		in.ChannelType = models.InteractionChannelSMS
	case strings.HasPrefix(address, webchatUserPrefix):
		in.ChannelType = models.InteractionChannelWeb
		name, err := s.provider.ConversationUserName(address)
		if err != nil {
			s.logger.Warn("webchat user lookup failed", zap.String("user", address), zap.Error(err))
		} else if name != "" {
			in.From = name
		}
	}

	sid, err := s.provider.CreateInteraction(in)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrHandoffFailed.Code, appErrors.ErrHandoffFailed.Status, appErrors.ErrHandoffFailed.Message)
	}
	s.logger.Info("session handed off",
		zap.String("interaction_sid", sid),
		zap.String("channel", in.ChannelType),
		zap.String("conversation_sid", conversationSID),
	)
	return HandoffTransferred, nil
}

func (s *HandoffService) forwardCall(sessionID string) (string, error) {
	callSID := strings.SplitN(strings.TrimPrefix(sessionID, voiceSessionPrefix), "/", 2)[0]
	if callSID == "" {
		return "", appErrors.ErrInvalidRequest
	}
	if s.cfg.VoiceRedirectURL == "" {
		return "", appErrors.Clone(appErrors.ErrHandoffConfig, "Missing configuration for HANDOFF_VOICE_REDIRECT_URL")
	}
	if err := s.provider.RedirectCall(callSID, s.cfg.VoicePhrase, s.cfg.VoiceRedirectURL); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrHandoffFailed.Code, appErrors.ErrHandoffFailed.Status, appErrors.ErrHandoffFailed.Message)
	}
	s.logger.Info("call forwarded", zap.String("call_sid", callSID))
	return HandoffCallForwarded, nil
}

// parseConversationSID reads "conversations__<service>/<conversation>".
func parseConversationSID(sessionID string) string {
	parts := strings.Split(strings.Replace(sessionID, conversationSessionPrefix, "", 1), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// parseTrait reads "<trait>:<value>".
func parseTrait(identity string) (string, string) {
	parts := strings.Split(identity, ":")
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
