package provider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/pkg/config"
)

// rewriteTransport sends every request to the test server regardless of host.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

type recorderStub struct {
	mu    sync.Mutex
	calls []string
	fails int
}

func (r *recorderStub) ObserveProviderCall(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	if err != nil {
		r.fails++
	}
}

func newTestTwilio(t *testing.T, h http.HandlerFunc, rec *recorderStub) *Twilio {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cfg := config.TwilioConfig{AccountSID: "AC123", AuthToken: "token", PhoneNumber: "+15550001111"}
	return NewTwilio(cfg, &http.Client{Transport: rewriteTransport{target: target}}, rec, nil)
}

func TestTwilioSendMessage(t *testing.T) {
	rec := &recorderStub{}
	tw := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/Accounts/AC123/Messages.json"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15551234567", r.PostForm.Get("To"))
		assert.Equal(t, "+15550001111", r.PostForm.Get("From"))
		assert.Equal(t, "hello", r.PostForm.Get("Body"))
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"sid": "SM42"})
	}, rec)

	sid, err := tw.SendMessage("+15551234567", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM42", sid)
	assert.Equal(t, []string{OpSendMessage}, rec.calls)
	assert.Zero(t, rec.fails)
}

func TestTwilioSendMessageFailure(t *testing.T) {
	rec := &recorderStub{}
	tw := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number","status":400}`))
	}, rec)

	_, err := tw.SendMessage("+15551234567", "hello")
	require.Error(t, err)
	assert.Equal(t, 1, rec.fails)
}

func TestTwilioRedirectCall(t *testing.T) {
	tw := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/Calls/CA9.json"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t,
			"<Response><Say>Hold on</Say><Redirect>https://example.com/flow?a=1&amp;b=2</Redirect></Response>",
			r.PostForm.Get("Twiml"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"sid": "CA9"})
	}, &recorderStub{})

	require.NoError(t, tw.RedirectCall("CA9", "Hold on", "https://example.com/flow?a=1&b=2"))
}

func TestTwilioCreateInteraction(t *testing.T) {
	tw := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Interactions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		var channel map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("Channel")), &channel))
		assert.Equal(t, "sms", channel["type"])
		assert.Equal(t, "customer", channel["initiated_by"])
		var routing map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("Routing")), &routing))
		props := routing["properties"].(map[string]interface{})
		assert.Equal(t, "WW1", props["workflow_sid"])
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"sid": "KD1"})
	}, &recorderStub{})

	sid, err := tw.CreateInteraction(models.Interaction{
		ChannelType:     models.InteractionChannelSMS,
		MediaChannelSID: "CH1",
		WorkspaceSID:    "WS1",
		WorkflowSID:     "WW1",
		TaskChannel:     "chat",
		From:            "+15551234567",
		CustomerName:    "+15551234567",
		CustomerAddress: "+15551234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "KD1", sid)
}

func TestTwilioUnconfigured(t *testing.T) {
	tw := NewTwilio(config.TwilioConfig{}, nil, nil, nil)
	_, err := tw.SendMessage("+15551234567", "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, tw.RedirectCall("CA1", "x", "y"), ErrNotConfigured)
	_, err = tw.ConversationUserName("FX1")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = tw.CreateInteraction(models.Interaction{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
