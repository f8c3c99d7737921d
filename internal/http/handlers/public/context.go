package public

import (
	handlershared "github.com/metalworks/storefront/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequestBody = "Invalid request body."

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}
