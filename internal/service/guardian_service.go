package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/internal/models"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

type authMetrics interface {
	IncAuthRejection()
}

// GuardianService authenticates guardians by identity and PIN.
type GuardianService struct {
	store   RecordStore
	limiter *AttemptLimiter
	metrics authMetrics
	logger  *zap.Logger
}

// NewGuardianService constructs a GuardianService. limiter and metrics may be nil.
func NewGuardianService(store RecordStore, limiter *AttemptLimiter, metrics authMetrics, logger *zap.Logger) *GuardianService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuardianService{store: store, limiter: limiter, metrics: metrics, logger: logger}
}

// Authenticate returns the guardian profile matching identity and PIN. Any
// mismatch yields the same Unauthorized error.
func (s *GuardianService) Authenticate(ctx context.Context, req dto.AuthenticateRequest) (*models.Guardian, error) {
	if s.store == nil {
		return nil, appErrors.ErrConfiguration
	}

	id, err := ResolveIdentity(req.Identity)
	if err != nil {
		return nil, err
	}

	pin := stripQuotes(req.PIN)
	if pin == "" {
		return nil, appErrors.ErrMissingSecret
	}

	if s.limiter.Blocked(ctx, id.Value) {
		s.reject()
		s.logger.Debug("guardian authentication rate limited", zap.String("identity", id.Value))
		return nil, appErrors.ErrUnauthorized
	}

	records, err := s.store.Find(ctx, models.TableGuardians,
		filter.And(identityFilter(id, true), filter.Eq(models.FieldPIN, pin)),
		models.FindOptions{MaxRecords: 1})
	if err != nil {
		return nil, appErrors.Store(err)
	}
	if len(records) == 0 {
		s.limiter.Failure(ctx, id.Value)
		s.reject()
		s.logger.Debug("guardian authentication failed", zap.String("field", string(id.Field)), zap.String("identity", id.Value))
		return nil, appErrors.ErrUnauthorized
	}

	s.limiter.Success(ctx, id.Value)
	guardian := models.GuardianFromRecord(records[0])
	return &guardian, nil
}

func (s *GuardianService) reject() {
	if s.metrics != nil {
		s.metrics.IncAuthRejection()
	}
}

// stripQuotes removes one leading and one trailing double quote, only when both are present.
func stripQuotes(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	return v
}
