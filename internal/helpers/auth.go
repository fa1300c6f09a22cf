package helpers

import (
	"net/http"

	"propt-api-io/api/internal/auth"
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MyId returns the authenticated caller's id, writing a 401 when there is none.
func MyId(c *gin.Context) (primitive.ObjectID, bool) {
	session, err := auth.GetSessionAuto(c)
	if err != nil {
		util.HandleError(c, http.StatusUnauthorized, err)
		return primitive.NilObjectID, false
	}
	return session.UserId, true
}

// ParamObjectID parses a path parameter, writing a 400 when it is malformed.
func ParamObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	raw := c.Param(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		util.HandleServiceError(c, errs.InvalidArgumentf("invalid %s %q", name, raw))
		return primitive.NilObjectID, false
	}
	return id, true
}

// ParamIdAndMyId extracts an object id path parameter and the caller's id.
func ParamIdAndMyId(c *gin.Context, name string) (primitive.ObjectID, primitive.ObjectID, bool) {
	id, ok := ParamObjectID(c, name)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	myId, ok := MyId(c)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return id, myId, true
}
