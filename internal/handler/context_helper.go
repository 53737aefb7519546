package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/dto"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
	"github.com/noah-isme/sma-guardian-tools/pkg/logger"
	"github.com/noah-isme/sma-guardian-tools/pkg/response"
)

// Tool names used in logs.
const (
	ToolGuardianAuthentication = "guardian-authentication"
	ToolStudentLookup          = "student-lookup"
	ToolAbsenceLookup          = "absence-lookup"
	ToolReportAbsence          = "report-absence"
	ToolFieldTripInfo          = "field-trip-info"
	ToolSendSMS                = "send-sms"
	ToolScheduleConference     = "schedule-counselor-conference"
	ToolSendToFlex             = "send-to-flex"
)

// toolInput tags the request with its tool and reads the tool call. On a
// malformed body the error response is already written.
func toolInput(c *gin.Context, tool string, log *zap.Logger) (*dto.ToolInput, bool) {
	c.Set(logger.ToolKey, tool)
	in, err := dto.NewToolInput(c.Request)
	if err != nil {
		logger.FromContext(c, log).Debug("rejecting tool request", zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "Invalid request body."))
		return nil, false
	}
	return in, true
}

// fail writes err and logs the cause of server side failures.
func fail(c *gin.Context, log *zap.Logger, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.FromContext(c, log).Error("tool request failed",
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
	}
	response.Error(c, appErr)
}
