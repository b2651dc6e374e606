package utils

import (
	"github.com/gin-gonic/gin"

	"server-yool/internal/schemas"
)

// WriteAndLogResponse wraps response into the success envelope and writes it with statusCode.
func WriteAndLogResponse(c *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(c, "info", "Returning response")
	c.JSON(statusCode, &schemas.SuccessDTO{
		Ok:      true,
		Message: response,
	})
}

// WriteAndLogError logs err and aborts the request with the error envelope of customErr.
func WriteAndLogError(c *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	if err != nil {
		LogMessageWithFieldsAndError(c, "error", "Error occurred", err)
	}
	LogMessageWithFields(c, "error", "Returning "+customErr.Code+" / "+customErr.Message)
	c.AbortWithStatusJSON(statusCode, &schemas.ErrorDTO{
		Ok:    false,
		Error: customErr.Code,
	})
}
