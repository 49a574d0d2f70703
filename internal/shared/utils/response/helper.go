package response

import (
	"eventhub/internal/shared/apperrors"

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

// RespondError maps a domain error through the shared taxonomy so every
// controller produces the same status code and stable error code for it.
func RespondError(c *gin.Context, err error) {
	code := apperrors.HTTPStatus(err)
	c.JSON(code, StandardApiResponse{
		Status:     "error",
		StatusCode: code,
		Message:    err.Error(),
		Errors: gin.H{
			"code":      apperrors.Code(err),
			"retryable": apperrors.Retryable(err),
		},
	})
}
