package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
	"github.com/genkan-institute/genkan-api/pkg/response"
	"github.com/genkan-institute/genkan-api/pkg/storage"
)

// ImageHandler serves batch images and accepts admin uploads.
type ImageHandler struct {
	store       *storage.ImageStore
	maxFileSize int64
}

// NewImageHandler constructs an image handler.
func NewImageHandler(store *storage.ImageStore, maxFileSize int64) *ImageHandler {
	if maxFileSize <= 0 {
		maxFileSize = 5 << 20
	}
	return &ImageHandler{store: store, maxFileSize: maxFileSize}
}

// Upload godoc
// @Summary Upload a batch image
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/images [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	if header.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file too large"))
		return
	}

	id, err := h.store.Put(data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image"))
		return
	}
	response.Created(c, gin.H{"image_id": id})
}

// Get godoc
// @Summary Fetch a stored image
// @Tags Images
// @Produce octet-stream
// @Param id path string true "Image ID"
// @Success 200 {string} string "Image bytes"
// @Router /images/{id} [get]
func (h *ImageHandler) Get(c *gin.Context) {
	data, contentType, err := h.store.Get(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "image not found"))
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
