package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/internal/models"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

// AbsenceService records absences reported by guardians.
type AbsenceService struct {
	store     RecordStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAbsenceService constructs an AbsenceService.
func NewAbsenceService(store RecordStore, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{store: store, validator: validate, logger: logger}
}

// Report creates a pending absence for one of the guardian's students.
// Identical reports create separate rows.
func (s *AbsenceService) Report(ctx context.Context, req dto.ReportAbsenceRequest) (map[string]interface{}, error) {
	if s.store == nil {
		return nil, appErrors.ErrConfiguration
	}

	id, err := ResolveIdentity(req.Identity)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrMissingFields, "Missing required fields. Please provide student_name, date, and reason.")
	}
	if !filter.ValidDate(req.Date) {
		return nil, appErrors.ErrInvalidDateFormat
	}

	guardian, err := resolveGuardian(ctx, s.store, id)
	if err != nil {
		return nil, err
	}

	first, last, ok := splitStudentName(req.StudentName)
	if !ok {
		return nil, appErrors.ErrInvalidStudentName
	}

	students, err := s.store.Find(ctx, models.TableStudents,
		filter.And(
			filter.Eq(models.FieldGuardianID, guardian.String(models.FieldGuardianID)),
			filter.Eq(models.FieldFirstName, first),
			filter.Eq(models.FieldLastName, last),
		),
		models.FindOptions{MaxRecords: 1})
	if err != nil {
		return nil, appErrors.Store(err)
	}
	studentID := strings.TrimSpace(firstString(students, models.FieldStudentID))
	if studentID == "" {
		return nil, appErrors.ErrStudentNotFound
	}

	created, err := s.store.Create(ctx, models.TableAbsences, map[string]interface{}{
		models.FieldStudentID:  studentID,
		models.FieldDate:       req.Date,
		models.FieldReason:     req.Reason,
		models.FieldReportedBy: id.Value,
		models.FieldStatus:     models.AbsenceStatusPending,
	})
	if err != nil {
		return nil, appErrors.Store(err)
	}
	s.logger.Info("absence reported",
		zap.String("record_id", created.ID),
		zap.String("student_id", studentID),
	)
	return created.Fields, nil
}

func firstString(records []models.Record, field string) string {
	if len(records) == 0 {
		return ""
	}
	return records[0].String(field)
}

// splitStudentName accepts exactly "First Last" separated by one space.
func splitStudentName(name string) (string, string, bool) {
	parts := strings.Split(name, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
