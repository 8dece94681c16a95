package response

import (
	"umrahcore/internal/shared/apperror"
	"umrahcore/pkg/logger"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError answers with the status code and stable error code for err's kind.
func RespondError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	code := apperror.HTTPStatus(kind)

	message := err.Error()
	if kind == apperror.KindInternal {
		logger.GetDefault().LogHTTPError(c, err, code)
		message = "Internal server error"
	}
	if kind == apperror.KindTimeout || kind == apperror.KindPersistenceConflict {
		c.Header("Retry-After", "1")
	}

	c.JSON(code, StandardApiResponse{
		Status:     "error",
		StatusCode: code,
		Message:    message,
		Errors: ErrorDetail{
			Code:      string(kind),
			Retryable: kind == apperror.KindPersistenceConflict || kind == apperror.KindTimeout,
		},
	})
}
