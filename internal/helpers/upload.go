package helpers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"sync"

	"propt-api-io/api/internal/common"
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/services"

	"github.com/gin-gonic/gin"
)

// HandleDocumentUploads uploads the "documents" files of a multipart form in
// parallel and returns them as verification documents in form order.
func HandleDocumentUploads(c *gin.Context, media services.MediaService) ([]models.Document, error) {
	if err := c.Request.ParseMultipartForm(common.MAX_DOCUMENT_SIZE); err != nil {
		return nil, errs.InvalidArgumentf("failed to parse multipart form: %v", err)
	}

	files := c.Request.MultipartForm.File["documents"]
	if len(files) == 0 {
		return nil, errs.InvalidArgumentf("no documents in form field %q", "documents")
	}
	if len(files) > common.DOCUMENT_COUNT {
		return nil, errs.InvalidArgumentf("at most %d documents can be uploaded at once", common.DOCUMENT_COUNT)
	}

	for _, fh := range files {
		if fh.Size > common.MAX_DOCUMENT_SIZE {
			return nil, errs.InvalidArgumentf("document %q exceeds %d bytes", fh.Filename, common.MAX_DOCUMENT_SIZE)
		}
	}

	var (
		uploaded = make([]models.Document, len(files))
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)

	for i, fileHeader := range files {
		wg.Add(1)
		go func(index int, fh *multipart.FileHeader) {
			defer wg.Done()

			file, err := fh.Open()
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("error opening document %d: %w", index, err))
				mu.Unlock()
				return
			}
			defer file.Close()

			doc, err := media.UploadDocument(c.Request.Context(), fh.Filename, file)
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("failed to upload document %d: %w", index, err))
				mu.Unlock()
				return
			}
			uploaded[index] = doc.AsDocument()
		}(i, fileHeader)
	}

	wg.Wait()

	if len(failures) > 0 {
		// wrapped with %w so the service error kind still classifies the response
		return nil, errors.Join(failures...)
	}
	return uploaded, nil
}
