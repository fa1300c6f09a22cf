package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"propt-api-io/api/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.NotFoundf("payment"), http.StatusNotFound},
		{errs.InvalidArgumentf("amount"), http.StatusBadRequest},
		{errs.PermissionDeniedf("admin"), http.StatusForbidden},
		{errs.Conflictf("dup"), http.StatusConflict},
		{errs.InvalidStatef("refunded"), http.StatusConflict},
		{errs.Unauthorizedf("token"), http.StatusUnauthorized},
		{errors.New("mongo down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := StatusForError(tc.err); got != tc.want {
			t.Fatalf("StatusForError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestHandleServiceErrorWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleServiceError(c, errs.InvalidStatef("payment %s is refunded", "p1"))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusConflict || body.Error == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}
