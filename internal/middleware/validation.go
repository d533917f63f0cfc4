package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models/dto"
)

// BindJSON binds and validates a JSON body. On failure the 400 response is already written.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// ValidateRequest validates a request body against the provided model and stores it as "validatedBody"
func ValidateRequest(newObj func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := newObj()
		if !BindJSON(c, obj) {
			c.Abort()
			return
		}
		c.Set("validatedBody", obj)
		c.Next()
	}
}
