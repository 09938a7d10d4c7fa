package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"notetasks/dto"
	"notetasks/model"
	"notetasks/usecase"
	"notetasks/utils"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	ingestion *usecase.IngestionService
}

func NewUploadHandler(ingestion *usecase.IngestionService) *UploadHandler {
	return &UploadHandler{ingestion: ingestion}
}

// Upload ingests every file of the multipart "files" field. Per-file
// failures are reported inline; the request itself succeeds.
func (h *UploadHandler) Upload(c *gin.Context) {
	var headers []*multipart.FileHeader
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.RequestTooLarge(c, "Upload exceeds the maximum allowed size")
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) && !errors.Is(err, http.ErrMissingBoundary) {
			utils.BadRequest(c, "Invalid multipart form")
			return
		}
	} else {
		headers = form.File["files"]
	}

	category := model.Category(c.PostForm("category"))
	if category != "" && !category.IsValid() {
		utils.BadRequest(c, "Invalid category: "+string(category))
		return
	}
	opts := usecase.UploadOptions{
		Category:  category,
		IsPrivate: c.PostForm("isPrivate") == "true",
	}

	files := make([]usecase.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, usecase.UploadedFile{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	results, err := h.ingestion.IngestBatch(c.Request.Context(), files, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, "Files processed successfully", dto.UploadResponse{Results: results})
}
