package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
)

var e164Pattern = regexp.MustCompile(`^\+\d{10,15}$`)

type messageSender interface {
	SendMessage(to, body string) (string, error)
}

// MessagingService sends SMS notifications to phone identities.
type MessagingService struct {
	sender     messageSender
	configured bool
	logger     *zap.Logger
}

// NewMessagingService constructs a MessagingService. configured reports
// whether provider credentials and a sender number are present.
func NewMessagingService(sender messageSender, configured bool, logger *zap.Logger) *MessagingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagingService{sender: sender, configured: configured, logger: logger}
}

// SendSMS delivers req.Message and returns the provider message sid.
func (s *MessagingService) SendSMS(ctx context.Context, req dto.SendSMSRequest) (string, error) {
	if !s.configured || s.sender == nil {
		return "", appErrors.ErrMessagingConfig
	}

	id, err := ResolveIdentity(req.Identity)
	if err != nil {
		return "", err
	}
	if !id.PhoneCapable() {
		return "", appErrors.ErrNotPhoneCapable
	}
	if req.Message == "" {
		return "", appErrors.Clone(appErrors.ErrMissingFields, "Missing required field: message.")
	}

	to := id.Value
	if !strings.HasPrefix(to, "+") {
		to = "+" + to
	}
	if !e164Pattern.MatchString(to) {
		return "", appErrors.ErrInvalidPhoneFormat
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sid, err := s.sender.SendMessage(to, req.Message)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnexpected.Code, appErrors.ErrUnexpected.Status, appErrors.ErrUnexpected.Message)
	}
	s.logger.Info("sms sent", zap.String("sid", sid))
	return sid, nil
}
