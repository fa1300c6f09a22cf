package util

import (
	"net/http"

	"propt-api-io/api/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
}

func HandleSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Status:  statusCode,
		Message: message,
		Data:    data,
		Meta:    nil,
	})
}

func HandleSuccessMeta(c *gin.Context, statusCode int, message string, data, meta interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Status:  statusCode,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

type ErrorResponse struct {
	Error  string `json:"error,omitempty"`
	Status int    `json:"status"`
}

func HandleError(c *gin.Context, statusCode int, err error) {
	entry := logg.WithFields(logrus.Fields{
		"status":    statusCode,
		"path":      c.FullPath(),
		"requestId": c.GetString(RequestIDKey),
	})
	if statusCode >= http.StatusInternalServerError {
		entry.Error(err.Error())
	} else {
		entry.Debug(err.Error())
	}
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:  err.Error(),
		Status: statusCode,
	})
}

// HandleServiceError writes err with the status its kind maps to.
func HandleServiceError(c *gin.Context, err error) {
	HandleError(c, StatusForError(err), err)
}

func StatusForError(err error) int {
	switch errs.Kind(err) {
	case errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrInvalidArgument:
		return http.StatusBadRequest
	case errs.ErrPermissionDenied:
		return http.StatusForbidden
	case errs.ErrConflict, errs.ErrInvalidState, errs.ErrStale:
		return http.StatusConflict
	case errs.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type PaginationArgs struct {
	Sort  string
	Limit int
	Skip  int
}

type Pagination struct {
	Limit int   `json:"limit"`
	Skip  int   `json:"skip"`
	Count int64 `json:"count"`
}

const RequestIDKey = "requestId"
