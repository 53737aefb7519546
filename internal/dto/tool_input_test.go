package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolInputHeaderWins(t *testing.T) {
	body := `{"x-identity":"email:top@example.com","request":{"headers":{"x-identity":"email:nested@example.com"}}}`
	req := httptest.NewRequest(http.MethodPost, "/tools/student-lookup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Identity", "phone:+15551234567")

	in, err := NewToolInput(req)
	require.NoError(t, err)
	assert.Equal(t, "phone:+15551234567", in.Value(KeyIdentity))
}

func TestToolInputTopLevelBeforeNested(t *testing.T) {
	body := `{"x-identity":"email:top@example.com","request":{"headers":{"x-identity":"email:nested@example.com"}}}`
	req := httptest.NewRequest(http.MethodPost, "/tools/student-lookup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	in, err := NewToolInput(req)
	require.NoError(t, err)
	assert.Equal(t, "email:top@example.com", in.Value(KeyIdentity))
}

func TestToolInputNestedFallback(t *testing.T) {
	body := `{"request":{"headers":{"X-Identity":"whatsapp:+15551234567","pin":"\"1234\""},"body":{"student_name":"Jane Doe","date":"2024-03-15"}}}`
	req := httptest.NewRequest(http.MethodPost, "/tools/report-absence", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	in, err := NewToolInput(req)
	require.NoError(t, err)
	auth := BindAuthenticate(in)
	assert.Equal(t, "whatsapp:+15551234567", auth.Identity)
	assert.Equal(t, `"1234"`, auth.PIN)

	report := BindReportAbsence(in)
	assert.Equal(t, "Jane Doe", report.StudentName)
	assert.Equal(t, "2024-03-15", report.Date)
	assert.Empty(t, report.Reason)
}

func TestToolInputIgnoresTransportHeadersForFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tools/report-absence", strings.NewReader(`{"date":"2024-03-15"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Date", "Tue, 15 Oct 2024 10:00:00 GMT")

	in, err := NewToolInput(req)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", BindReportAbsence(in).Date)
}

func TestToolInputQueryAliases(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tools/absence-lookup?start_date=2024-01-01&endDate=2024-12-31&trip_id=T9", nil)

	in, err := NewToolInput(req)
	require.NoError(t, err)
	lookup := BindAbsenceLookup(in)
	assert.Equal(t, "2024-01-01", lookup.StartDate)
	assert.Equal(t, "2024-12-31", lookup.EndDate)
	assert.Equal(t, "T9", BindFieldTrip(in).TripID)
}

func TestToolInputNumericPIN(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tools/guardian-authentication", strings.NewReader(`{"pin":1234}`))
	req.Header.Set("Content-Type", "application/json")

	in, err := NewToolInput(req)
	require.NoError(t, err)
	assert.Equal(t, "1234", in.Value(KeyPIN))
}

func TestToolInputForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tools/send-sms", strings.NewReader("message=Hello+there&FlexWorkflowSid=WW1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	in, err := NewToolInput(req)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", BindSendSMS(in).Message)
	assert.Equal(t, "WW1", BindHandoff(in).WorkflowSID)
}

func TestToolInputMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tools/send-sms", strings.NewReader(`{"message":`))
	req.Header.Set("Content-Type", "application/json")

	_, err := NewToolInput(req)
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestToolInputEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tools/send-sms", strings.NewReader("  "))
	in, err := NewToolInput(req)
	require.NoError(t, err)
	assert.Empty(t, in.Value(KeyIdentity))
}
