package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pyxyll/web-api-ca/models"
)

// respondError maps the error taxonomy onto HTTP statuses and the
// {success:false, msg} envelope. Storage and unclassified errors become a
// generic 500; their details stay server-side.
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error."

	if appErr, ok := models.AsAppError(err); ok {
		switch appErr.Kind {
		case models.KindValidation, models.KindWeakPassword, models.KindDuplicateUsername:
			status = http.StatusBadRequest
			msg = appErr.Message
		case models.KindNotFound:
			status = http.StatusNotFound
			msg = appErr.Message
		case models.KindInvalidCredentials, models.KindUnauthorized:
			status = http.StatusUnauthorized
			msg = appErr.Message
		}
	}

	ctx.JSON(status, gin.H{"success": false, "msg": msg})
}
