package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealprep-backend/internal/platform/ctxutil"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// envelope builds the error body from public and records cause on the gin
// context for the request logger.
func envelope(c *gin.Context, code string, public, cause error) ErrorEnvelope {
	msg := "unknown error"
	if public != nil {
		msg = public.Error()
	}
	if cause != nil {
		_ = c.Error(cause)
	}
	var reqID string
	if c.Request != nil {
		reqID = ctxutil.RequestID(c.Request.Context())
	}
	return ErrorEnvelope{Error: APIError{Message: msg, Code: code, RequestID: reqID}}
}

func RespondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, envelope(c, code, err, err))
}

// AbortError responds like RespondError and stops the handler chain.
func AbortError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, envelope(c, code, err, err))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
