package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/service"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/response"
)

// MerchHandler exposes merchandising endpoints nested under an
// acquisition.
type MerchHandler struct {
	merch   *service.MerchService
	exports *service.ExportService
}

// NewMerchHandler constructs MerchHandler.
func NewMerchHandler(merch *service.MerchService, exports *service.ExportService) *MerchHandler {
	return &MerchHandler{merch: merch, exports: exports}
}

// ListItems godoc
// @Summary List merchandise items of a contract
// @Tags Merchandising
// @Produce json
// @Param id path string true "Acquisition ID"
// @Success 200 {object} response.Envelope
// @Router /acquisitions/{id}/merch [get]
func (h *MerchHandler) ListItems(c *gin.Context) {
	items, err := h.merch.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// AddItem godoc
// @Summary Add a merchandise item
// @Tags Merchandising
// @Accept json
// @Produce json
// @Param id path string true "Acquisition ID"
// @Param payload body service.MerchItemRequest true "Item payload"
// @Success 201 {object} response.Envelope
// @Router /acquisitions/{id}/merch [post]
func (h *MerchHandler) AddItem(c *gin.Context) {
	var req service.MerchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.merch.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateItem godoc
// @Summary Update a merchandise item
// @Tags Merchandising
// @Accept json
// @Produce json
// @Param id path string true "Acquisition ID"
// @Param itemId path string true "Item ID"
// @Param payload body service.MerchItemRequest true "Item payload"
// @Success 200 {object} response.Envelope
// @Router /acquisitions/{id}/merch/{itemId} [put]
func (h *MerchHandler) UpdateItem(c *gin.Context) {
	var req service.MerchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.merch.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// RemoveItem godoc
// @Summary Remove a merchandise item
// @Tags Merchandising
// @Produce json
// @Param id path string true "Acquisition ID"
// @Param itemId path string true "Item ID"
// @Success 204
// @Router /acquisitions/{id}/merch/{itemId} [delete]
func (h *MerchHandler) RemoveItem(c *gin.Context) {
	if err := h.merch.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats godoc
// @Summary Merchandising statistics for a contract
// @Tags Merchandising
// @Produce json
// @Param id path string true "Acquisition ID"
// @Success 200 {object} response.Envelope
// @Router /acquisitions/{id}/merch/stats [get]
func (h *MerchHandler) Stats(c *gin.Context) {
	stats, err := h.merch.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Import godoc
// @Summary Import merchandise items from a spreadsheet
// @Description Valid rows are inserted; invalid rows come back with their row number and reason.
// @Tags Merchandising
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Acquisition ID"
// @Param file formData file true "XLSX file"
// @Success 200 {object} response.Envelope
// @Router /acquisitions/{id}/merch/import [post]
func (h *MerchHandler) Import(c *gin.Context) {
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

	report, err := h.merch.Import(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export merchandise items of a contract
// @Tags Merchandising
// @Produce octet-stream
// @Param id path string true "Acquisition ID"
// @Param format query string false "csv, xlsx or pdf"
// @Success 200 {file} binary
// @Router /acquisitions/{id}/merch/export [get]
func (h *MerchHandler) Export(c *gin.Context) {
	data, err := h.merch.ExportDataset(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Render("merch", *data, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}
