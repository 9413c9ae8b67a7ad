package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/dto"
	"github.com/discora/label-admin-api/internal/service"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/response"
)

// AttachmentHandler exposes file upload and download endpoints.
type AttachmentHandler struct {
	attachments *service.AttachmentService
}

// NewAttachmentHandler constructs AttachmentHandler.
func NewAttachmentHandler(attachments *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

// Upload godoc
// @Summary Upload an attachment
// @Description Stores a cover, photo or contract document and returns the metadata with its id.
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	att, err := h.attachments.Upload(c.Request.Context(), service.AttachmentUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	}, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, att)
}

// Get godoc
// @Summary Get attachment metadata with a signed download URL
// @Tags Attachments
// @Produce json
// @Param id path string true "Attachment ID"
// @Success 200 {object} response.Envelope
// @Router /attachments/{id} [get]
func (h *AttachmentHandler) Get(c *gin.Context) {
	att, err := h.attachments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	url, err := h.attachments.GetDownloadURL(c.Request.Context(), att.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AttachmentDownloadResponse{Attachment: *att, DownloadURL: url}, nil)
}

// Download godoc
// @Summary Download an attachment file
// @Description Serves the file when the signed token matches. No JWT required; the token itself is the credential.
// @Tags Attachments
// @Produce octet-stream
// @Param id path string true "Attachment ID"
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /attachments/{id}/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	download, err := h.attachments.Download(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(download.Filename))
	c.Header("Content-Length", strconv.FormatInt(download.SizeBytes, 10))
	c.DataFromReader(http.StatusOK, download.SizeBytes, download.ContentType, download.File, nil)
}
