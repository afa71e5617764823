package admin

import (
	"strconv"

	handlershared "github.com/mixcampeao/api/internal/http/handlers/shared"
	"github.com/mixcampeao/api/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// paramID parses the :id path parameter, responding on failure.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "identificador inválido", nil)
		return 0, false
	}
	return uint(id), true
}
