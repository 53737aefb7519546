package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/internal/service"
	"github.com/noah-isme/sma-guardian-tools/pkg/response"
)

type lookupService interface {
	Students(ctx context.Context, req dto.StudentLookupRequest) ([]map[string]interface{}, error)
	Absences(ctx context.Context, req dto.AbsenceLookupRequest) (*service.AbsenceResult, error)
	FieldTrips(ctx context.Context, req dto.FieldTripRequest) ([]map[string]interface{}, error)
}

// LookupHandler exposes the guardian scoped read tools.
type LookupHandler struct {
	service lookupService
	logger  *zap.Logger
}

// NewLookupHandler builds a new handler.
func NewLookupHandler(service lookupService, logger *zap.Logger) *LookupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupHandler{service: service, logger: logger}
}

// Students godoc
// @Summary List the calling guardian's students
// @Tags Tools
// @Produce json
// @Param x-identity header string true "Guardian identity"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tools/student-lookup [get]
func (h *LookupHandler) Students(c *gin.Context) {
	in, ok := toolInput(c, ToolStudentLookup, h.logger)
	if !ok {
		return
	}
	students, err := h.service.Students(c.Request.Context(), dto.BindStudentLookup(in))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.OK(c, "", map[string]interface{}{"students": students})
}

// Absences godoc
// @Summary List absences of the guardian's students, newest first
// @Tags Tools
// @Produce json
// @Param x-identity header string true "Guardian identity"
// @Param x-start-date header string false "Inclusive start date (YYYY-MM-DD)"
// @Param x-end-date header string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tools/absence-lookup [get]
func (h *LookupHandler) Absences(c *gin.Context) {
	in, ok := toolInput(c, ToolAbsenceLookup, h.logger)
	if !ok {
		return
	}
	result, err := h.service.Absences(c.Request.Context(), dto.BindAbsenceLookup(in))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.OK(c, "", map[string]interface{}{"absences": result.Absences, "total": result.Total})
}

// FieldTrips godoc
// @Summary Field trips for a trip id or for the grades of the guardian's students
// @Tags Tools
// @Produce json
// @Param x-identity header string true "Guardian identity"
// @Param x-trip-id header string false "Trip id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tools/field-trip-info [get]
func (h *LookupHandler) FieldTrips(c *gin.Context) {
	in, ok := toolInput(c, ToolFieldTripInfo, h.logger)
	if !ok {
		return
	}
	trips, err := h.service.FieldTrips(c.Request.Context(), dto.BindFieldTrip(in))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.OK(c, "", map[string]interface{}{"field_trips": trips})
}
