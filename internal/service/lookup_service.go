package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/internal/models"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

// AbsenceResult is an absence listing with its size.
type AbsenceResult struct {
	Absences []map[string]interface{}
	Total    int
}

// LookupService answers read-only questions scoped to the calling guardian.
type LookupService struct {
	store  RecordStore
	logger *zap.Logger
}

// NewLookupService constructs a LookupService.
func NewLookupService(store RecordStore, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{store: store, logger: logger}
}

// Students lists the guardian's students.
func (s *LookupService) Students(ctx context.Context, req dto.StudentLookupRequest) ([]map[string]interface{}, error) {
	if s.store == nil {
		return nil, appErrors.ErrConfiguration
	}
	guardian, err := s.guardianFor(ctx, req.Identity)
	if err != nil {
		return nil, err
	}
	students, err := studentsOf(ctx, s.store, guardian)
	if err != nil {
		return nil, err
	}
	return fieldSets(students), nil
}

// Absences lists absences of the guardian's students, newest first. The date
// range applies only when both bounds are given.
func (s *LookupService) Absences(ctx context.Context, req dto.AbsenceLookupRequest) (*AbsenceResult, error) {
	if s.store == nil {
		return nil, appErrors.ErrConfiguration
	}
	guardian, err := s.guardianFor(ctx, req.Identity)
	if err != nil {
		return nil, err
	}
	students, err := studentsOf(ctx, s.store, guardian)
	if err != nil {
		return nil, err
	}

	var dateRange filter.Expr
	if req.StartDate != "" && req.EndDate != "" {
		if !filter.ValidDate(req.StartDate) || !filter.ValidDate(req.EndDate) {
			return nil, appErrors.ErrInvalidDateFormat
		}
		dateRange = filter.DateBetween(models.FieldDate, req.StartDate, req.EndDate)
	}

	ids := make([]filter.Expr, 0, len(students))
	for _, st := range students {
		studentID := strings.TrimSpace(st.String(models.FieldStudentID))
		if studentID == "" {
			continue
		}
		ids = append(ids, filter.Eq(models.FieldStudentID, studentID))
	}
	if len(ids) == 0 {
		return nil, appErrors.ErrNoAbsencesFound
	}

	absences, err := s.store.Find(ctx, models.TableAbsences,
		filter.And(filter.Or(ids...), dateRange),
		models.FindOptions{Sort: []models.SortField{{Field: models.FieldDate, Direction: models.SortDesc}}})
	if err != nil {
		return nil, appErrors.Store(err)
	}
	if len(absences) == 0 {
		return nil, appErrors.ErrNoAbsencesFound
	}
	return &AbsenceResult{Absences: fieldSets(absences), Total: len(absences)}, nil
}

// FieldTrips returns one trip by id, or the trips covering any grade of the
// guardian's students.
func (s *LookupService) FieldTrips(ctx context.Context, req dto.FieldTripRequest) ([]map[string]interface{}, error) {
	if s.store == nil {
		return nil, appErrors.ErrConfiguration
	}
	if _, err := ResolveIdentity(req.Identity); err != nil {
		return nil, err
	}

	if req.TripID != "" {
		trips, err := s.store.Find(ctx, models.TableFieldTrips,
			filter.Eq(models.FieldTripID, req.TripID), models.FindOptions{MaxRecords: 1})
		if err != nil {
			return nil, appErrors.Store(err)
		}
		if len(trips) == 0 {
			return nil, appErrors.ErrTripNotFound
		}
		return fieldSets(trips), nil
	}

	guardian, err := s.guardianFor(ctx, req.Identity)
	if err != nil {
		return nil, err
	}
	students, err := studentsOf(ctx, s.store, guardian)
	if err != nil {
		return nil, err
	}

	grades := distinctGrades(students)
	if len(grades) == 0 {
		s.logger.Debug("no numeric grades for guardian", zap.String("guardian_id", guardian.String(models.FieldGuardianID)))
		return nil, appErrors.ErrNoTripsFound
	}
	terms := make([]filter.Expr, 0, len(grades))
	for _, g := range grades {
		terms = append(terms, filter.RangeContains(models.FieldGradeLevels, g))
	}

	trips, err := s.store.Find(ctx, models.TableFieldTrips, filter.Or(terms...), models.FindOptions{})
	if err != nil {
		return nil, appErrors.Store(err)
	}
	if len(trips) == 0 {
		return nil, appErrors.ErrNoTripsFound
	}
	return fieldSets(trips), nil
}

func (s *LookupService) guardianFor(ctx context.Context, raw string) (*models.Record, error) {
	id, err := ResolveIdentity(raw)
	if err != nil {
		return nil, err
	}
	return resolveGuardian(ctx, s.store, id)
}

// resolveGuardian finds the single guardian row for id. A row without a
// guardian_id cannot scope anything and counts as not found.
func resolveGuardian(ctx context.Context, store RecordStore, id models.Identity) (*models.Record, error) {
	records, err := store.Find(ctx, models.TableGuardians, identityFilter(id, false), models.FindOptions{MaxRecords: 1})
	if err != nil {
		return nil, appErrors.Store(err)
	}
	if len(records) == 0 || strings.TrimSpace(records[0].String(models.FieldGuardianID)) == "" {
		return nil, appErrors.ErrGuardianNotFound
	}
	return &records[0], nil
}

// studentsOf lists the students whose guardian_id is the guardian's own id.
func studentsOf(ctx context.Context, store RecordStore, guardian *models.Record) ([]models.Record, error) {
	records, err := store.Find(ctx, models.TableStudents,
		filter.Eq(models.FieldGuardianID, guardian.String(models.FieldGuardianID)), models.FindOptions{})
	if err != nil {
		return nil, appErrors.Store(err)
	}
	if len(records) == 0 {
		return nil, appErrors.ErrNoStudentsFound
	}
	return records, nil
}

func distinctGrades(students []models.Record) []int {
	seen := make(map[int]struct{}, len(students))
	grades := make([]int, 0, len(students))
	for _, st := range students {
		g, ok := st.Int(models.FieldGrade)
		if !ok {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		grades = append(grades, g)
	}
	sort.Ints(grades)
	return grades
}

func fieldSets(records []models.Record) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		out = append(out, r.Fields)
	}
	return out
}
