package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/interfaces/http/middleware"
	"github.com/orris-inc/tally/internal/shared/utils"
)

// requireUserID writes a 401 and returns false when the request carries no
// authenticated user.
func requireUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
