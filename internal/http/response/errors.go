package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealprep-backend/internal/platform/apierr"
)

// RespondServiceError maps an apierr.Error to its status and code. Any other
// error is reported as a 500 with fallbackCode. 5xx bodies carry only the status
// text; the original error is still recorded on the context for logging.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	status, code, public := http.StatusInternalServerError, fallbackCode, error(nil)
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		status, public = ae.Status, ae.Err
		if ae.Code != "" {
			code = ae.Code
		}
	}
	if status >= http.StatusInternalServerError || public == nil {
		public = errors.New(http.StatusText(status))
	}
	c.JSON(status, envelope(c, code, public, err))
}
