package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
)

// Envelope is the tool response contract: a status mirrored from HTTP, an
// optional message and tool specific payload keys flattened alongside.
type Envelope map[string]interface{}

// JSON writes a success envelope. Payload keys are merged next to status and message.
func JSON(c *gin.Context, status int, message string, payload map[string]interface{}) {
	body := Envelope{"status": status}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		if k == "status" {
			continue
		}
		body[k] = v
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, message string, payload map[string]interface{}) {
	JSON(c, http.StatusOK, message, payload)
}

// Error converts err into the common structure. Unknown errors collapse to a
// generic 500 so internal detail never reaches the caller.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{
		"status":  appErr.Status,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
