package services

import (
	"context"
	"io"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
)

type mediaService struct {
	uploader Uploader
}

// NewMediaService returns a MediaService. A nil uploader disables uploads.
func NewMediaService(uploader Uploader) MediaService {
	return &mediaService{uploader: uploader}
}

func (ms *mediaService) UploadDocument(ctx context.Context, name string, file io.Reader) (*models.UploadedDocument, error) {
	if ms.uploader == nil {
		return nil, errs.InvalidStatef("document uploads are not configured")
	}
	if file == nil {
		return nil, errs.InvalidArgumentf("a file is required")
	}

	res, err := ms.uploader.Upload(ctx, file)
	if err != nil {
		return nil, err
	}

	return &models.UploadedDocument{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Format:   res.Format,
		Bytes:    res.Bytes,
		Name:     name,
	}, nil
}
