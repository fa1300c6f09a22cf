package controllers

import (
	"context"
	"net/http"

	"propt-api-io/api/internal/helpers"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/services"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationController struct {
	verificationService services.VerificationService
	mediaService        services.MediaService
}

func InitVerificationController(verificationService services.VerificationService, mediaService services.MediaService) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
		mediaService:        mediaService,
	}
}

// CreateVerificationRequest -> POST /verification
func (vc *VerificationController) CreateVerificationRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		myId, ok := helpers.MyId(c)
		if !ok {
			return
		}
		var req models.CreateVerificationRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		vr, err := vc.verificationService.CreateVerificationRequest(ctx, myId, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusCreated, "Verification request submitted", vr)
	}
}

// UploadDocuments -> POST /verification/documents
// Stores the files and returns document descriptors to attach to a request.
func (vc *VerificationController) UploadDocuments() gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := helpers.HandleDocumentUploads(c, vc.mediaService)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusCreated, "Documents uploaded", docs)
	}
}

// GetVerificationRequests -> GET /verification (admin)
func (vc *VerificationController) GetVerificationRequests() gin.HandlerFunc {
	return vc.list(func(ctx context.Context, _ *gin.Context) ([]models.VerificationRequest, bool, error) {
		res, err := vc.verificationService.GetVerificationRequests(ctx)
		return res, true, err
	})
}

// GetPendingVerificationRequests -> GET /verification/pending (admin)
func (vc *VerificationController) GetPendingVerificationRequests() gin.HandlerFunc {
	return vc.list(func(ctx context.Context, _ *gin.Context) ([]models.VerificationRequest, bool, error) {
		res, err := vc.verificationService.GetPendingVerificationRequests(ctx)
		return res, true, err
	})
}

// GetMyVerificationRequests -> GET /verification/my-requests
func (vc *VerificationController) GetMyVerificationRequests() gin.HandlerFunc {
	return vc.list(func(ctx context.Context, c *gin.Context) ([]models.VerificationRequest, bool, error) {
		myId, ok := helpers.MyId(c)
		if !ok {
			return nil, false, nil
		}
		res, err := vc.verificationService.GetUserVerificationRequests(ctx, myId)
		return res, true, err
	})
}

// GetPropertyVerificationRequests -> GET /verification/property/:propertyId
func (vc *VerificationController) GetPropertyVerificationRequests() gin.HandlerFunc {
	return vc.list(func(ctx context.Context, c *gin.Context) ([]models.VerificationRequest, bool, error) {
		propertyID, ok := helpers.ParamObjectID(c, "propertyId")
		if !ok {
			return nil, false, nil
		}
		res, err := vc.verificationService.GetPropertyVerificationRequests(ctx, propertyID)
		return res, true, err
	})
}

// list runs fetch and writes the result. fetch returns ok=false once it has
// already written a response.
func (vc *VerificationController) list(fetch func(ctx context.Context, c *gin.Context) ([]models.VerificationRequest, bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		requests, ok, err := fetch(ctx, c)
		if !ok {
			return
		}
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", requests)
	}
}

// GetVerificationRequest -> GET /verification/:id
func (vc *VerificationController) GetVerificationRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		vr, err := vc.verificationService.GetVerificationRequest(ctx, id)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", vr)
	}
}

type reviewFunc func(ctx context.Context, c *gin.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, bool, error)

// review resolves the request id and the acting admin, then runs fn.
func (vc *VerificationController) review(message string, fn reviewFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, adminID, ok := helpers.ParamIdAndMyId(c, "id")
		if !ok {
			return
		}

		vr, ok, err := fn(ctx, c, id, adminID)
		if !ok {
			return
		}
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, message, vr)
	}
}

// decision binds the optional notes body shared by the review commands.
func decision(c *gin.Context) (models.ReviewDecisionRequest, bool) {
	var req models.ReviewDecisionRequest
	return req, helpers.BindOptional(c, &req)
}

func optionalNotes(notes string) *string {
	if notes == "" {
		return nil
	}
	return &notes
}

// BeginReview -> POST /verification/:id/review (admin)
func (vc *VerificationController) BeginReview() gin.HandlerFunc {
	return vc.review("Verification request under review", func(ctx context.Context, _ *gin.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, bool, error) {
		vr, err := vc.verificationService.BeginReview(ctx, id, adminID)
		return vr, true, err
	})
}

// ApproveVerificationRequest -> POST /verification/:id/approve (admin)
func (vc *VerificationController) ApproveVerificationRequest() gin.HandlerFunc {
	return vc.review("Verification request approved", func(ctx context.Context, c *gin.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, bool, error) {
		req, ok := decision(c)
		if !ok {
			return nil, false, nil
		}
		vr, err := vc.verificationService.ApproveVerificationRequest(ctx, id, adminID, optionalNotes(req.AdminNotes))
		return vr, true, err
	})
}

// RejectVerificationRequest -> POST /verification/:id/reject (admin)
func (vc *VerificationController) RejectVerificationRequest() gin.HandlerFunc {
	return vc.review("Verification request rejected", func(ctx context.Context, c *gin.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, bool, error) {
		req, ok := decision(c)
		if !ok {
			return nil, false, nil
		}
		vr, err := vc.verificationService.RejectVerificationRequest(ctx, id, adminID, req.AdminNotes)
		return vr, true, err
	})
}

// ReopenVerificationRequest -> POST /verification/:id/reopen (admin)
func (vc *VerificationController) ReopenVerificationRequest() gin.HandlerFunc {
	return vc.review("Verification request reopened", func(ctx context.Context, c *gin.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, bool, error) {
		req, ok := decision(c)
		if !ok {
			return nil, false, nil
		}
		vr, err := vc.verificationService.ReopenVerificationRequest(ctx, id, adminID, optionalNotes(req.AdminNotes))
		return vr, true, err
	})
}

// AnnotateVerificationRequest -> PUT /verification/:id/notes (admin)
func (vc *VerificationController) AnnotateVerificationRequest() gin.HandlerFunc {
	return vc.review("Notes saved", func(ctx context.Context, c *gin.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, bool, error) {
		var req models.ReviewDecisionRequest
		if !helpers.BindAndValidate(c, &req) {
			return nil, false, nil
		}
		vr, err := vc.verificationService.AnnotateVerificationRequest(ctx, id, adminID, req.AdminNotes)
		return vr, true, err
	})
}

// SubmitDocuments -> POST /verification/:id/documents (admin)
func (vc *VerificationController) SubmitDocuments() gin.HandlerFunc {
	return vc.review("Documents added", func(ctx context.Context, c *gin.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, bool, error) {
		var req models.SubmitDocumentsRequest
		if !helpers.BindAndValidate(c, &req) {
			return nil, false, nil
		}
		vr, err := vc.verificationService.SubmitDocuments(ctx, id, adminID, req.Documents)
		return vr, true, err
	})
}

// UpdateVerificationRequest -> PATCH /verification/:id (admin)
func (vc *VerificationController) UpdateVerificationRequest() gin.HandlerFunc {
	return vc.review("Verification request updated", func(ctx context.Context, c *gin.Context, id, adminID primitive.ObjectID) (*models.VerificationRequest, bool, error) {
		var req models.UpdateVerificationRequest
		if !helpers.BindAndValidate(c, &req) {
			return nil, false, nil
		}
		vr, err := vc.verificationService.UpdateVerificationRequest(ctx, id, adminID, req)
		return vr, true, err
	})
}

// DeleteVerificationRequest -> DELETE /verification/:id (admin)
func (vc *VerificationController) DeleteVerificationRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		if err := vc.verificationService.DeleteVerificationRequest(ctx, id); err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Verification request deleted", gin.H{"id": id.Hex()})
	}
}
