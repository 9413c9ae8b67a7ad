package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/service"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/response"
)

// SaleHandler exposes sale endpoints.
type SaleHandler struct {
	sales   *service.SaleService
	exports *service.ExportService
}

// NewSaleHandler constructs SaleHandler.
func NewSaleHandler(sales *service.SaleService, exports *service.ExportService) *SaleHandler {
	return &SaleHandler{sales: sales, exports: exports}
}

func saleFilter(c *gin.Context) models.SaleFilter {
	params := parseListParams(c)
	return models.SaleFilter{
		Search:    params.Search,
		Active:    params.Active,
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}
}

// List godoc
// @Summary List sales
// @Tags Sales
// @Produce json
// @Param search query string false "Search by item label"
// @Param active query bool false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	sales, pagination, err := h.sales.List(c.Request.Context(), saleFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sales, pagination)
}

// Get godoc
// @Summary Get sale detail
// @Tags Sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} response.Envelope
// @Router /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.sales.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sale, nil)
}

// Create godoc
// @Summary Record a sale
// @Description The stored total is always quantity times unit price; any client-sent total is ignored.
// @Tags Sales
// @Accept json
// @Produce json
// @Param payload body service.SaleRequest true "Sale payload"
// @Success 201 {object} response.Envelope
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req service.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sale, err := h.sales.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sale)
}

// Update godoc
// @Summary Update sale
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param payload body service.SaleRequest true "Sale payload"
// @Success 200 {object} response.Envelope
// @Router /sales/{id} [put]
func (h *SaleHandler) Update(c *gin.Context) {
	var req service.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sale, err := h.sales.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sale, nil)
}

// Delete godoc
// @Summary Deactivate sale
// @Tags Sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 204
// @Router /sales/{id} [delete]
func (h *SaleHandler) Delete(c *gin.Context) {
	if err := h.sales.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore a deactivated sale
// @Tags Sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} response.Envelope
// @Router /sales/{id}/restore [post]
func (h *SaleHandler) Restore(c *gin.Context) {
	if err := h.sales.Restore(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	sale, err := h.sales.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sale, nil)
}

// Export godoc
// @Summary Export filtered sales
// @Tags Sales
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf"
// @Success 200 {file} binary
// @Router /sales/export [get]
func (h *SaleHandler) Export(c *gin.Context) {
	file, err := h.exports.Sales(c.Request.Context(), saleFilter(c), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}
