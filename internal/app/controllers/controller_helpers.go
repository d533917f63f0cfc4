package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// pathID reads a positive integer path parameter, writing a 400 response when it is malformed
func pathID(ctx *gin.Context, name, label string) (int64, bool) {
	id, ok := helpers.ParseIDParam(ctx, name)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID").
			WithDetails("ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
