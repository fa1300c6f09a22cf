package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"propt-api-io/api/internal/auth"
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/services"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubVerifications struct {
	services.VerificationService
	adminID primitive.ObjectID
	notes   *string
}

func (s *stubVerifications) RejectVerificationRequest(_ context.Context, id, adminID primitive.ObjectID, notes string) (*models.VerificationRequest, error) {
	if notes == "" {
		return nil, errs.InvalidArgumentf("rejection requires admin notes")
	}
	s.adminID = adminID
	return &models.VerificationRequest{ID: id, Status: models.VerificationStatusRejected, AdminNotes: &notes}, nil
}

func (s *stubVerifications) ApproveVerificationRequest(_ context.Context, id, adminID primitive.ObjectID, notes *string) (*models.VerificationRequest, error) {
	s.adminID = adminID
	s.notes = notes
	return &models.VerificationRequest{ID: id, Status: models.VerificationStatusApproved}, nil
}

type stubPayments struct {
	services.PaymentService
	created  []primitive.ObjectID
	failed   int
	response map[string]any
}

func (s *stubPayments) MarkPaymentFailed(_ context.Context, id primitive.ObjectID, gatewayResponse map[string]any) (*models.Payment, error) {
	s.failed++
	s.response = gatewayResponse
	return &models.Payment{ID: id, Status: models.PaymentStatusFailed, GatewayResponse: gatewayResponse}, nil
}

func (s *stubPayments) CreatePayment(_ context.Context, requestID primitive.ObjectID, req models.CreatePaymentRequest) (*models.Payment, error) {
	if len(s.created) > 0 {
		return nil, errs.Conflictf("payment already pending")
	}
	s.created = append(s.created, requestID)
	return &models.Payment{ID: primitive.NewObjectID(), VerificationRequestID: requestID, Amount: req.Amount}, nil
}

func (s *stubPayments) GetPayment(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return nil, errs.NotFoundf("payment %s not found", id.Hex())
}

func (s *stubPayments) GetPaymentStats(context.Context) (*models.PaymentStats, error) {
	return &models.PaymentStats{TotalPayments: 4, CompletedCount: 2, TotalAmountOfCompleted: decimal.NewFromInt(150)}, nil
}

type stubProperties struct {
	services.PropertyService
	pagination util.PaginationArgs
	filter     models.PropertyFilter
}

func (s *stubProperties) GetProperties(_ context.Context, filter models.PropertyFilter, pagination util.PaginationArgs) ([]models.Property, int64, error) {
	s.filter = filter
	s.pagination = pagination
	return []models.Property{{ID: primitive.NewObjectID()}, {ID: primitive.NewObjectID()}}, 7, nil
}

func signedIn(id primitive.ObjectID, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := models.User{ID: id, Role: role}
		token, _, err := auth.GenerateJWT([]byte("k"), &user, time.Hour, time.Now())
		if err != nil {
			panic(err)
		}
		claim, err := auth.ValidateToken([]byte("k"), token)
		if err != nil {
			panic(err)
		}
		if err := auth.SetSession(c, claim, token); err != nil {
			panic(err)
		}
	}
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRejectRequiresNotes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	adminID := primitive.NewObjectID()
	stub := &stubVerifications{}
	vc := InitVerificationController(stub, nil)

	r := gin.New()
	r.POST("/verification/:id/reject", signedIn(adminID, models.UserRoleAdmin), vc.RejectVerificationRequest())
	path := "/verification/" + primitive.NewObjectID().Hex() + "/reject"

	if w := serve(r, http.MethodPost, path, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("empty body: status = %d, want 400", w.Code)
	}
	if w := serve(r, http.MethodPost, path, `{"adminNotes":"documents unreadable"}`); w.Code != http.StatusOK {
		t.Fatalf("with notes: status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if stub.adminID != adminID {
		t.Fatalf("admin = %s, want the caller %s", stub.adminID.Hex(), adminID.Hex())
	}
}

func TestApproveWithoutBodyPassesNoNotes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubVerifications{}
	vc := InitVerificationController(stub, nil)

	r := gin.New()
	r.POST("/verification/:id/approve", signedIn(primitive.NewObjectID(), models.UserRoleAdmin), vc.ApproveVerificationRequest())

	w := serve(r, http.MethodPost, "/verification/"+primitive.NewObjectID().Hex()+"/approve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if stub.notes != nil {
		t.Fatalf("notes = %q, want nil", *stub.notes)
	}
}

func TestReviewWithoutSessionIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	vc := InitVerificationController(&stubVerifications{}, nil)

	r := gin.New()
	r.POST("/verification/:id/approve", vc.ApproveVerificationRequest())

	w := serve(r, http.MethodPost, "/verification/"+primitive.NewObjectID().Hex()+"/approve", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestPaymentErrorsMapToStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc := InitPaymentController(&stubPayments{})

	r := gin.New()
	r.POST("/payments", pc.CreatePayment())
	r.GET("/payments/:id", pc.GetPayment())

	body := `{"verificationRequestId":"` + primitive.NewObjectID().Hex() + `","amount":"150","method":"paypal"}`
	if w := serve(r, http.MethodPost, "/payments", body); w.Code != http.StatusCreated {
		t.Fatalf("first create: status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodPost, "/payments", body); w.Code != http.StatusConflict {
		t.Fatalf("second create: status = %d, want 409", w.Code)
	}
	if w := serve(r, http.MethodPost, "/payments", `{"verificationRequestId":"nope","method":"paypal"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad request id: status = %d, want 400", w.Code)
	}
	if w := serve(r, http.MethodGet, "/payments/"+primitive.NewObjectID().Hex(), ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing payment: status = %d, want 404", w.Code)
	}
	if w := serve(r, http.MethodGet, "/payments/not-an-id", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: status = %d, want 400", w.Code)
	}
}

func TestGetPaymentStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc := InitPaymentController(&stubPayments{})

	r := gin.New()
	r.GET("/payments/stats", pc.GetPaymentStats())

	w := serve(r, http.MethodGet, "/payments/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var res struct {
		Data models.PaymentStats `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Data.TotalPayments != 4 || res.Data.CompletedCount != 2 || !res.Data.TotalAmountOfCompleted.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected stats %+v", res.Data)
	}
}

func TestGetPropertiesPaginationAndFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubProperties{}
	pc := InitPropertyController(stub)

	r := gin.New()
	r.GET("/properties", pc.GetProperties())

	w := serve(r, http.MethodGet, "/properties?limit=500&skip=-3&type=HOUSE&minPrice=1000", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var res struct {
		Meta util.Pagination `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Meta.Limit != 100 || res.Meta.Skip != 0 || res.Meta.Count != 7 {
		t.Fatalf("meta = %+v, want limit 100 skip 0 count 7", res.Meta)
	}
	if stub.filter.Type == nil || *stub.filter.Type != models.PropertyType("house") {
		t.Fatalf("type filter = %v, want house", stub.filter.Type)
	}
	if stub.filter.MinPrice == nil || !stub.filter.MinPrice.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("minPrice filter = %v, want 1000", stub.filter.MinPrice)
	}

	if w := serve(r, http.MethodGet, "/properties?maxPrice=cheap", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad price: status = %d, want 400", w.Code)
	}
}

func TestHealthReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health(map[string]HealthCheck{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errs.InvalidStatef("connection refused") },
	}))

	w := serve(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var body struct {
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Checks["mongo"] != "ok" || body.Checks["redis"] == "ok" {
		t.Fatalf("unexpected checks %v", body.Checks)
	}
}

func TestMarkPaymentFailedBodyIsOptional(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubPayments{}
	pc := InitPaymentController(stub)

	r := gin.New()
	r.POST("/payments/:id/fail", pc.MarkPaymentFailed())
	path := "/payments/" + primitive.NewObjectID().Hex() + "/fail"

	// chunked upload with nothing in it
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("empty chunked body: status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if stub.failed != 1 || stub.response != nil {
		t.Fatalf("failed = %d, response = %v", stub.failed, stub.response)
	}

	if w := serve(r, http.MethodPost, path, `{"gatewayResponse":{"code":"card_declined"}}`); w.Code != http.StatusOK {
		t.Fatalf("with body: status = %d, want 200", w.Code)
	}
	if stub.response["code"] != "card_declined" {
		t.Fatalf("response = %v", stub.response)
	}

	if w := serve(r, http.MethodPost, path, `{"gatewayResponse":`); w.Code != http.StatusBadRequest {
		t.Fatalf("truncated body: status = %d, want 400", w.Code)
	}
}
