package controllers

import (
	"context"
	"net/http"

	"propt-api-io/api/internal/helpers"
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/services"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentController struct {
	paymentService services.PaymentService
}

func InitPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// CreatePayment -> POST /payments
func (pc *PaymentController) CreatePayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		var req models.CreatePaymentRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}
		requestID, err := primitive.ObjectIDFromHex(req.VerificationRequestID)
		if err != nil {
			util.HandleServiceError(c, errs.InvalidArgumentf("invalid verificationRequestId %q", req.VerificationRequestID))
			return
		}

		payment, err := pc.paymentService.CreatePayment(ctx, requestID, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Payment created successfully", payment)
	}
}

// GetPayments -> GET /payments (admin)
func (pc *PaymentController) GetPayments() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		payments, err := pc.paymentService.GetPayments(ctx)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", payments)
	}
}

// GetPaymentStats -> GET /payments/stats (admin)
func (pc *PaymentController) GetPaymentStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		stats, err := pc.paymentService.GetPaymentStats(ctx)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", stats)
	}
}

// GetPaymentsByVerificationRequest -> GET /payments/verification-request/:verificationRequestId
func (pc *PaymentController) GetPaymentsByVerificationRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		requestID, ok := helpers.ParamObjectID(c, "verificationRequestId")
		if !ok {
			return
		}
		payments, err := pc.paymentService.GetPaymentsByVerificationRequest(ctx, requestID)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", payments)
	}
}

// GetPayment -> GET /payments/:id
func (pc *PaymentController) GetPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		payment, err := pc.paymentService.GetPayment(ctx, id)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", payment)
	}
}

// UpdatePayment -> PATCH /payments/:id (admin)
func (pc *PaymentController) UpdatePayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		var req models.UpdatePaymentRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		payment, err := pc.paymentService.UpdatePayment(ctx, id, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Payment updated successfully", payment)
	}
}

// ProcessPayment -> POST /payments/:id/process (gateway callback)
func (pc *PaymentController) ProcessPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		var req models.ProcessPaymentRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		payment, err := pc.paymentService.ProcessPayment(ctx, id, req.GatewayTransactionID, req.GatewayResponse)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Payment processed successfully", payment)
	}
}

// MarkPaymentFailed -> POST /payments/:id/fail (gateway callback)
func (pc *PaymentController) MarkPaymentFailed() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		var req models.FailPaymentRequest
		if !helpers.BindOptional(c, &req) {
			return
		}

		payment, err := pc.paymentService.MarkPaymentFailed(ctx, id, req.GatewayResponse)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Payment marked as failed", payment)
	}
}

// CancelPayment -> POST /payments/:id/cancel
func (pc *PaymentController) CancelPayment() gin.HandlerFunc {
	return pc.command("Payment cancelled", pc.paymentService.CancelPayment)
}

// RefundPayment -> POST /payments/:id/refund (admin)
func (pc *PaymentController) RefundPayment() gin.HandlerFunc {
	return pc.command("Payment refunded successfully", pc.paymentService.RefundPayment)
}

func (pc *PaymentController) command(message string, run func(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		payment, err := run(ctx, id)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, message, payment)
	}
}

// DeletePayment -> DELETE /payments/:id (admin)
func (pc *PaymentController) DeletePayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		if err := pc.paymentService.DeletePayment(ctx, id); err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Payment deleted successfully", gin.H{"id": id.Hex()})
	}
}
