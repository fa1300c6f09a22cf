package middleware

import (
	"errors"
	"net/http"

	"propt-api-io/api/internal/auth"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/services"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

// AdminOnly restricts access to active admin users. The role is read from the
// store rather than the token so demotions take effect immediately.
func AdminOnly(userService services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := auth.GetSessionAuto(c)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		currentUser, err := userService.GetUser(c.Request.Context(), session.UserId)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		if !currentUser.IsActive || currentUser.Role != models.UserRoleAdmin {
			util.HandleError(c, http.StatusForbidden, errors.New("insufficient permissions: admin access required"))
			return
		}

		c.Next()
	}
}
