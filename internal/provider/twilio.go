// Package provider talks to the messaging and agent-desk provider.
package provider

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	flex "github.com/twilio/twilio-go/rest/flex/v1"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/pkg/config"
)

// Provider operations reported to the call recorder.
const (
	OpSendMessage       = "send_message"
	OpRedirectCall      = "redirect_call"
	OpFetchUser         = "fetch_conversation_user"
	OpCreateInteraction = "create_interaction"
)

// ErrNotConfigured is returned when credentials are missing.
var ErrNotConfigured = errors.New("provider: credentials not configured")

type callRecorder interface {
	ObserveProviderCall(operation string, err error)
}

// Twilio wraps the REST client used for SMS, voice redirects and Flex handoffs.
type Twilio struct {
	client   *twilio.RestClient
	from     string
	recorder callRecorder
	logger   *zap.Logger
}

// NewTwilio builds the provider. httpClient may be nil; it is mostly set by tests.
func NewTwilio(cfg config.TwilioConfig, httpClient *http.Client, recorder callRecorder, logger *zap.Logger) *Twilio {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Twilio{from: cfg.PhoneNumber, recorder: recorder, logger: logger}
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return t
	}
	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(cfg.AccountSID)
	t.client = twilio.NewRestClientWithParams(twilio.ClientParams{Client: base})
	return t
}

// SendMessage delivers body to the E.164 number to and returns the message sid.
func (t *Twilio) SendMessage(to, body string) (string, error) {
	if t.client == nil || t.from == "" {
		return "", ErrNotConfigured
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	t.observe(OpSendMessage, err)
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// RedirectCall replaces the live call's instructions with a spoken phrase
// followed by a redirect to target.
func (t *Twilio) RedirectCall(callSID, phrase, target string) error {
	if t.client == nil {
		return ErrNotConfigured
	}
	twiml := fmt.Sprintf("<Response><Say>%s</Say><Redirect>%s</Redirect></Response>",
		html.EscapeString(phrase), html.EscapeString(target))
	params := &twilioApi.UpdateCallParams{}
	params.SetTwiml(twiml)

	_, err := t.client.Api.UpdateCall(callSID, params)
	t.observe(OpRedirectCall, err)
	if err != nil {
		return fmt.Errorf("update call %s: %w", callSID, err)
	}
	return nil
}

// ConversationUserName resolves the friendly name of a conversations user.
func (t *Twilio) ConversationUserName(userSID string) (string, error) {
	if t.client == nil {
		return "", ErrNotConfigured
	}
	user, err := t.client.ConversationsV1.FetchUser(userSID)
	t.observe(OpFetchUser, err)
	if err != nil {
		return "", fmt.Errorf("fetch conversation user %s: %w", userSID, err)
	}
	if user.FriendlyName == nil {
		return "", nil
	}
	return *user.FriendlyName, nil
}

// CreateInteraction routes a conversation to the agent desk and returns the interaction sid.
func (t *Twilio) CreateInteraction(in models.Interaction) (string, error) {
	if t.client == nil {
		return "", ErrNotConfigured
	}
	params := &flex.CreateInteractionParams{}
	params.SetChannel(map[string]interface{}{
		"type":         in.ChannelType,
		"initiated_by": "customer",
		"properties": map[string]interface{}{
			"media_channel_sid": in.MediaChannelSID,
		},
	})
	params.SetRouting(map[string]interface{}{
		"properties": map[string]interface{}{
			"workspace_sid":            in.WorkspaceSID,
			"workflow_sid":             in.WorkflowSID,
			"task_channel_unique_name": in.TaskChannel,
			"attributes": map[string]interface{}{
				"from":            in.From,
				"customerName":    in.CustomerName,
				"customerAddress": in.CustomerAddress,
			},
		},
	})

	resp, err := t.client.FlexV1.CreateInteraction(params)
	t.observe(OpCreateInteraction, err)
	if err != nil {
		return "", fmt.Errorf("create interaction: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	t.logger.Info("interaction created", zap.String("sid", *resp.Sid), zap.String("channel", in.ChannelType))
	return *resp.Sid, nil
}

func (t *Twilio) observe(op string, err error) {
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			t.logger.Warn("provider call failed",
				zap.String("operation", op),
				zap.Int("status", restErr.Status),
				zap.Int("code", restErr.Code),
			)
		} else {
			t.logger.Warn("provider call failed", zap.String("operation", op), zap.Error(err))
		}
	}
	if t.recorder != nil {
		t.recorder.ObserveProviderCall(op, err)
	}
}
