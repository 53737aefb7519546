package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/internal/models"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
)

// CounselorService books guidance counselor conferences.
type CounselorService struct {
	store           RecordStore
	validator       *validator.Validate
	requireIdentity bool
	now             func() time.Time
	logger          *zap.Logger
}

// NewCounselorService constructs a CounselorService. When requireIdentity is
// set the caller must resolve to a known guardian before anything is booked.
func NewCounselorService(store RecordStore, validate *validator.Validate, requireIdentity bool, logger *zap.Logger) *CounselorService {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterTagNameFunc(jsonFieldName)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CounselorService{
		store:           store,
		validator:       validate,
		requireIdentity: requireIdentity,
		now:             time.Now,
		logger:          logger,
	}
}

// Schedule stores a new appointment. student_name is kept as free text.
func (s *CounselorService) Schedule(ctx context.Context, req dto.ScheduleConferenceRequest) (map[string]interface{}, error) {
	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			names := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				names = append(names, fe.Field())
			}
			return nil, appErrors.Clone(appErrors.ErrMissingFields, "Missing required fields: "+strings.Join(names, ", "))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, appErrors.ErrInvalidRequest.Message)
	}

	if s.store == nil {
		return nil, appErrors.ErrConfiguration
	}

	if s.requireIdentity {
		id, err := ResolveIdentity(req.Identity)
		if err != nil {
			return nil, err
		}
		if _, err := resolveGuardian(ctx, s.store, id); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{
		models.FieldStudentName: req.StudentName,
		models.FieldDate:        req.PreferredDate,
		models.FieldTimeSlot:    req.PreferredTime,
		models.FieldReason:      req.Reason,
		models.FieldStatus:      models.AppointmentStatusScheduled,
		models.FieldCreatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	created, err := s.store.Create(ctx, models.TableCounselorAppointments, fields)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	appointment := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		appointment[k] = v
	}
	appointment["id"] = created.ID
	s.logger.Info("counselor conference scheduled", zap.String("record_id", created.ID))
	return appointment, nil
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
