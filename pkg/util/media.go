package util

import (
	"context"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/pkg/errors"
)

// CloudinaryUploader stores verification documents in a single folder.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary")
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// Upload accepts anything the cloudinary SDK accepts: a reader, a local path or a remote URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, input interface{}) (*uploader.UploadResult, error) {
	res, err := u.cld.Upload.Upload(ctx, input, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary upload")
	}
	return res, nil
}

func (u *CloudinaryUploader) Destroy(ctx context.Context, publicID string) error {
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return errors.Wrap(err, "cloudinary destroy")
}
