package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Record store tables.
const (
	TableGuardians             = "guardians"
	TableStudents              = "students"
	TableAbsences              = "absences"
	TableFieldTrips            = "field_trips"
	TableCounselorAppointments = "counselor_appointments"
)

// Field names shared across tables.
const (
	FieldGuardianID  = "guardian_id"
	FieldStudentID   = "student_id"
	FieldTripID      = "trip_id"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldPIN         = "pin"
	FieldGrade       = "grade"
	FieldGradeLevels = "grade_levels"
	FieldDate        = "date"
	FieldReason      = "reason"
	FieldStatus      = "status"
	FieldReportedBy  = "reported_by"
	FieldStudentName = "student_name"
	FieldTimeSlot    = "time_slot"
	FieldCreatedAt   = "created_at"
)

// Absence statuses.
const (
	AbsenceStatusPending  = "pending"
	AbsenceStatusApproved = "approved"
	AbsenceStatusDenied   = "denied"
)

// AppointmentStatusScheduled is the status assigned to new counselor appointments.
const AppointmentStatusScheduled = "scheduled"

// Record is a row of the external record store. Fields are passed through to
// callers untouched.
type Record struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// String returns the field as text. Numbers are formatted without exponent and
// missing fields yield "".
func (r Record) String(field string) string {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// Int parses the field as an integer.
func (r Record) Int(field string) (int, bool) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	default:
		n, err := strconv.Atoi(strings.TrimSpace(r.String(field)))
		if err != nil {
			return 0, false
		}
		return n, true
	}
}

// SortDirection orders query results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortField is one ordering term of a query.
type SortField struct {
	Field     string
	Direction SortDirection
}

// FindOptions narrows a record-store query.
type FindOptions struct {
	MaxRecords int
	Sort       []SortField
	Fields     []string
}

// Guardian is the minimal profile returned after authentication.
type Guardian struct {
	GuardianID string `json:"guardian_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// GuardianFromRecord projects the profile fields of a guardian row.
func GuardianFromRecord(r Record) Guardian {
	return Guardian{
		GuardianID: r.String(FieldGuardianID),
		FirstName:  r.String(FieldFirstName),
		LastName:   r.String(FieldLastName),
		Email:      r.String(FieldEmail),
		Phone:      r.String(FieldPhone),
	}
}
