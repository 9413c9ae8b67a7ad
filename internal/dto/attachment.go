package dto

import "github.com/discora/label-admin-api/internal/models"

// AttachmentDownloadResponse enriches metadata with a signed download URL.
type AttachmentDownloadResponse struct {
	models.Attachment
	DownloadURL string `json:"download_url"`
}
