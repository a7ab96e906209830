package handler

import (
	"backend/pkg/apperr"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the taxonomy's HTTP status and
// client-safe message.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), response.FromError(err))
}
