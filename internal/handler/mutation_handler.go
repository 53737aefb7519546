package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	"github.com/noah-isme/sma-guardian-tools/pkg/response"
)

type absenceReporter interface {
	Report(ctx context.Context, req dto.ReportAbsenceRequest) (map[string]interface{}, error)
}

type conferenceScheduler interface {
	Schedule(ctx context.Context, req dto.ScheduleConferenceRequest) (map[string]interface{}, error)
}

// MutationHandler exposes the tools that create records.
type MutationHandler struct {
	absences  absenceReporter
	counselor conferenceScheduler
	logger    *zap.Logger
}

// NewMutationHandler builds a new handler.
func NewMutationHandler(absences absenceReporter, counselor conferenceScheduler, logger *zap.Logger) *MutationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MutationHandler{absences: absences, counselor: counselor, logger: logger}
}

// ReportAbsence godoc
// @Summary Report an absence for one of the guardian's students
// @Tags Tools
// @Accept json
// @Produce json
// @Param x-identity header string true "Guardian identity"
// @Param payload body dto.ReportAbsenceRequest true "Absence report"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tools/report-absence [post]
func (h *MutationHandler) ReportAbsence(c *gin.Context) {
	in, ok := toolInput(c, ToolReportAbsence, h.logger)
	if !ok {
		return
	}
	absence, err := h.absences.Report(c.Request.Context(), dto.BindReportAbsence(in))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.OK(c, "Absence report submitted successfully.", map[string]interface{}{"absence": absence})
}

// ScheduleConference godoc
// @Summary Schedule a conference with the guidance counselor
// @Tags Tools
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleConferenceRequest true "Conference request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tools/schedule-counselor-conference [post]
func (h *MutationHandler) ScheduleConference(c *gin.Context) {
	in, ok := toolInput(c, ToolScheduleConference, h.logger)
	if !ok {
		return
	}
	appointment, err := h.counselor.Schedule(c.Request.Context(), dto.BindScheduleConference(in))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.OK(c, "Conference successfully scheduled", map[string]interface{}{"appointment": appointment})
}
