package dto

// Keys recognised in tool calls.
const (
	KeyIdentity      = "x-identity"
	KeySessionID     = "x-session-id"
	KeyPIN           = "pin"
	KeyStudentName   = "student_name"
	KeyDate          = "date"
	KeyReason        = "reason"
	KeyPreferredDay  = "preferred_date"
	KeyPreferredTime = "preferred_time"
	KeyMessage       = "message"
)

// AuthenticateRequest is the Guardian Authentication payload.
type AuthenticateRequest struct {
	Identity string
	PIN      string
}

// StudentLookupRequest is the Student Lookup payload.
type StudentLookupRequest struct {
	Identity string
}

// AbsenceLookupRequest is the Absence Lookup payload. Both dates must be set
// for the range to apply.
type AbsenceLookupRequest struct {
	Identity  string
	StartDate string
	EndDate   string
}

// FieldTripRequest is the Field Trip Information payload.
type FieldTripRequest struct {
	Identity string
	TripID   string
}

// ReportAbsenceRequest is the Report Absence payload.
type ReportAbsenceRequest struct {
	Identity    string
	StudentName string `json:"student_name" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
}

// ScheduleConferenceRequest is the Schedule Counselor Conference payload.
type ScheduleConferenceRequest struct {
	Identity      string
	StudentName   string `json:"student_name" validate:"required"`
	PreferredDate string `json:"preferred_date" validate:"required"`
	PreferredTime string `json:"preferred_time" validate:"required"`
	Reason        string `json:"reason" validate:"required"`
}

// SendSMSRequest is the Send SMS payload.
type SendSMSRequest struct {
	Identity string
	Message  string
}

// HandoffRequest is the Send to Flex payload.
type HandoffRequest struct {
	SessionID    string
	Identity     string
	WorkflowSID  string
	WorkspaceSID string
}

// BindAuthenticate reads the identity and PIN of a Guardian Authentication call.
func BindAuthenticate(in *ToolInput) AuthenticateRequest {
	return AuthenticateRequest{Identity: in.Value(KeyIdentity), PIN: in.Value(KeyPIN)}
}

// BindStudentLookup reads a Student Lookup call.
func BindStudentLookup(in *ToolInput) StudentLookupRequest {
	return StudentLookupRequest{Identity: in.Value(KeyIdentity)}
}

// BindAbsenceLookup reads the identity and optional date bounds of an Absence Lookup call.
func BindAbsenceLookup(in *ToolInput) AbsenceLookupRequest {
	return AbsenceLookupRequest{
		Identity:  in.Value(KeyIdentity),
		StartDate: in.Value("x-start-date", "start_date", "startDate"),
		EndDate:   in.Value("x-end-date", "end_date", "endDate"),
	}
}

// BindFieldTrip reads the identity and optional trip id of a Field Trip Information call.
func BindFieldTrip(in *ToolInput) FieldTripRequest {
	return FieldTripRequest{
		Identity: in.Value(KeyIdentity),
		TripID:   in.Value("x-trip-id", "trip_id", "tripId"),
	}
}

// BindReportAbsence reads a Report Absence call. Payload fields never come from headers.
func BindReportAbsence(in *ToolInput) ReportAbsenceRequest {
	return ReportAbsenceRequest{
		Identity:    in.Value(KeyIdentity),
		StudentName: in.Field(KeyStudentName),
		Date:        in.Field(KeyDate),
		Reason:      in.Field(KeyReason),
	}
}

// BindScheduleConference reads a Schedule Counselor Conference call.
func BindScheduleConference(in *ToolInput) ScheduleConferenceRequest {
	return ScheduleConferenceRequest{
		Identity:      in.Value(KeyIdentity),
		StudentName:   in.Field(KeyStudentName),
		PreferredDate: in.Field(KeyPreferredDay),
		PreferredTime: in.Field(KeyPreferredTime),
		Reason:        in.Field(KeyReason),
	}
}

// BindSendSMS reads a Send SMS call.
func BindSendSMS(in *ToolInput) SendSMSRequest {
	return SendSMSRequest{Identity: in.Value(KeyIdentity), Message: in.Field(KeyMessage)}
}

// BindHandoff reads the session, identity and optional Flex routing overrides of a handoff call.
func BindHandoff(in *ToolInput) HandoffRequest {
	return HandoffRequest{
		SessionID:    in.Value(KeySessionID),
		Identity:     in.Value(KeyIdentity),
		WorkflowSID:  in.Field("FlexWorkflowSid"),
		WorkspaceSID: in.Field("FlexWorkspaceSid"),
	}
}
