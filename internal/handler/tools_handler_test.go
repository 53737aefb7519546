package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/internal/service"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
)

type guardianServiceMock struct {
	resp *models.Guardian
	err  error
	last dto.AuthenticateRequest
}

func (m *guardianServiceMock) Authenticate(ctx context.Context, req dto.AuthenticateRequest) (*models.Guardian, error) {
	m.last = req
	return m.resp, m.err
}

type lookupServiceMock struct {
	students    []map[string]interface{}
	absences    *service.AbsenceResult
	trips       []map[string]interface{}
	err         error
	lastAbsence dto.AbsenceLookupRequest
	lastTrip    dto.FieldTripRequest
}

func (m *lookupServiceMock) Students(ctx context.Context, req dto.StudentLookupRequest) ([]map[string]interface{}, error) {
	return m.students, m.err
}

func (m *lookupServiceMock) Absences(ctx context.Context, req dto.AbsenceLookupRequest) (*service.AbsenceResult, error) {
	m.lastAbsence = req
	return m.absences, m.err
}

func (m *lookupServiceMock) FieldTrips(ctx context.Context, req dto.FieldTripRequest) ([]map[string]interface{}, error) {
	m.lastTrip = req
	return m.trips, m.err
}

type mutationServiceMock struct {
	absence     map[string]interface{}
	appointment map[string]interface{}
	err         error
	lastReport  dto.ReportAbsenceRequest
	lastConf    dto.ScheduleConferenceRequest
}

func (m *mutationServiceMock) Report(ctx context.Context, req dto.ReportAbsenceRequest) (map[string]interface{}, error) {
	m.lastReport = req
	return m.absence, m.err
}

func (m *mutationServiceMock) Schedule(ctx context.Context, req dto.ScheduleConferenceRequest) (map[string]interface{}, error) {
	m.lastConf = req
	return m.appointment, m.err
}

type messagingServiceMock struct {
	sid         string
	handoffMsg  string
	err         error
	lastSMS     dto.SendSMSRequest
	lastHandoff dto.HandoffRequest
}

func (m *messagingServiceMock) SendSMS(ctx context.Context, req dto.SendSMSRequest) (string, error) {
	m.lastSMS = req
	return m.sid, m.err
}

func (m *messagingServiceMock) Handoff(ctx context.Context, req dto.HandoffRequest) (string, error) {
	m.lastHandoff = req
	return m.handoffMsg, m.err
}

func serve(t *testing.T, h gin.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	h(c)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func jsonRequest(method, target, body string) *http.Request {
	req, _ := http.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGuardianHandlerAuthenticate(t *testing.T) {
	svc := &guardianServiceMock{resp: &models.Guardian{GuardianID: "G1", FirstName: "Pat"}}
	h := NewGuardianHandler(svc, nil)

	req := jsonRequest(http.MethodPost, "/tools/guardian-authentication", `{"request":{"headers":{"x-identity":"email:parent@example.com","pin":"\"1234\""}}}`)
	w, body := serve(t, h.Authenticate, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(200), body["status"])
	assert.Equal(t, "G1", body["guardian"].(map[string]interface{})["guardian_id"])
	assert.Equal(t, "email:parent@example.com", svc.last.Identity)
	assert.Equal(t, `"1234"`, svc.last.PIN)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestGuardianHandlerUnauthorized(t *testing.T) {
	h := NewGuardianHandler(&guardianServiceMock{err: appErrors.ErrUnauthorized}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/tools/guardian-authentication?pin=1", nil)
	req.Header.Set("x-identity", "phone:+15551234567")
	w, body := serve(t, h.Authenticate, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, float64(401), body["status"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.Equal(t, "Invalid credentials. Please check your identity and PIN.", body["message"])
}

func TestHandlerMalformedBody(t *testing.T) {
	h := NewGuardianHandler(&guardianServiceMock{}, nil)

	w, body := serve(t, h.Authenticate, jsonRequest(http.MethodPost, "/tools/guardian-authentication", `{"pin":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestLookupHandlerStudents(t *testing.T) {
	svc := &lookupServiceMock{students: []map[string]interface{}{{"student_id": "S1"}, {"student_id": "S2"}}}
	h := NewLookupHandler(svc, nil)

	req, _ := http.NewRequest(http.MethodGet, "/tools/student-lookup", nil)
	req.Header.Set("x-identity", "phone:+15551234567")
	w, body := serve(t, h.Students, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["students"], 2)
	_, hasMessage := body["message"]
	assert.False(t, hasMessage)
}

func TestLookupHandlerAbsences(t *testing.T) {
	svc := &lookupServiceMock{absences: &service.AbsenceResult{
		Absences: []map[string]interface{}{{"date": "2024-03-15", "status": "pending"}},
		Total:    1,
	}}
	h := NewLookupHandler(svc, nil)

	req, _ := http.NewRequest(http.MethodGet, "/tools/absence-lookup", nil)
	req.Header.Set("x-identity", "phone:+15551234567")
	req.Header.Set("x-start-date", "2024-01-01")
	req.Header.Set("x-end-date", "2024-12-31")
	w, body := serve(t, h.Absences, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])
	assert.Len(t, body["absences"], 1)
	assert.Equal(t, "2024-01-01", svc.lastAbsence.StartDate)
	assert.Equal(t, "2024-12-31", svc.lastAbsence.EndDate)
}

func TestLookupHandlerNotFound(t *testing.T) {
	h := NewLookupHandler(&lookupServiceMock{err: appErrors.ErrGuardianNotFound}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/tools/student-lookup", nil)
	req.Header.Set("x-identity", "email:parent@example.com")
	w, body := serve(t, h.Students, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(404), body["status"])
	assert.Equal(t, "Guardian not found.", body["message"])
}

func TestLookupHandlerFieldTripByQuery(t *testing.T) {
	svc := &lookupServiceMock{trips: []map[string]interface{}{{"trip_id": "T2"}}}
	h := NewLookupHandler(svc, nil)

	req, _ := http.NewRequest(http.MethodGet, "/tools/field-trip-info?trip_id=T2", nil)
	req.Header.Set("x-identity", "email:parent@example.com")
	w, body := serve(t, h.FieldTrips, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["field_trips"], 1)
	assert.Equal(t, "T2", svc.lastTrip.TripID)
}

func TestMutationHandlerReportAbsence(t *testing.T) {
	svc := &mutationServiceMock{absence: map[string]interface{}{"student_id": "S1", "status": "pending"}}
	h := NewMutationHandler(svc, svc, nil)

	req := jsonRequest(http.MethodPost, "/tools/report-absence", `{"student_name":"Jane Lee","date":"2024-03-18","reason":"Sick"}`)
	req.Header.Set("x-identity", "phone:+15551234567")
	w, body := serve(t, h.ReportAbsence, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Absence report submitted successfully.", body["message"])
	assert.Equal(t, "pending", body["absence"].(map[string]interface{})["status"])
	assert.Equal(t, dto.ReportAbsenceRequest{
		Identity: "phone:+15551234567", StudentName: "Jane Lee", Date: "2024-03-18", Reason: "Sick",
	}, svc.lastReport)
}

func TestMutationHandlerScheduleConference(t *testing.T) {
	svc := &mutationServiceMock{appointment: map[string]interface{}{"id": "rec1", "status": "scheduled"}}
	h := NewMutationHandler(svc, svc, nil)

	req := jsonRequest(http.MethodPost, "/tools/schedule-counselor-conference",
		`{"request":{"body":{"student_name":"Jane Lee","preferred_date":"2024-03-20","preferred_time":"morning","reason":"Grades"}}}`)
	w, body := serve(t, h.ScheduleConference, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Conference successfully scheduled", body["message"])
	assert.Equal(t, "rec1", body["appointment"].(map[string]interface{})["id"])
	assert.Equal(t, "morning", svc.lastConf.PreferredTime)
}

func TestMessagingHandlerSendSMS(t *testing.T) {
	svc := &messagingServiceMock{sid: "SM1"}
	h := NewMessagingHandler(svc, svc, nil)

	req := jsonRequest(http.MethodPost, "/tools/send-sms", `{"message":"Hello"}`)
	req.Header.Set("x-identity", "phone:+15551234567")
	w, body := serve(t, h.SendSMS, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SMS sent successfully", body["message"])
	assert.Equal(t, "SM1", body["sid"])
	assert.Equal(t, "Hello", svc.lastSMS.Message)
}

func TestMessagingHandlerSendToFlex(t *testing.T) {
	svc := &messagingServiceMock{handoffMsg: "Transferred to human agent"}
	h := NewMessagingHandler(svc, svc, nil)

	req := jsonRequest(http.MethodPost, "/tools/send-to-flex", `{"FlexWorkflowSid":"WW9"}`)
	req.Header.Set("x-session-id", "conversations__IS1/CH1")
	req.Header.Set("x-identity", "whatsapp:+15551234567")
	w, body := serve(t, h.SendToFlex, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Transferred to human agent", body["message"])
	assert.Equal(t, dto.HandoffRequest{
		SessionID: "conversations__IS1/CH1", Identity: "whatsapp:+15551234567", WorkflowSID: "WW9",
	}, svc.lastHandoff)
}

func TestServerErrorsAreGenericAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	svc := &messagingServiceMock{err: errors.New("dial tcp: connection refused")}
	h := NewMessagingHandler(svc, svc, zap.New(core))

	req := jsonRequest(http.MethodPost, "/tools/send-sms", `{"message":"Hello"}`)
	req.Header.Set("x-identity", "phone:+15551234567")
	w, body := serve(t, h.SendSMS, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, appErrors.GenericMessage, body["message"])
	assert.Equal(t, "UNEXPECTED_ERROR", body["code"])

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, ToolSendSMS, entries[0].ContextMap()["tool"])
	assert.Contains(t, entries[0].ContextMap()["error"], "connection refused")
}
