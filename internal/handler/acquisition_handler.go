package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/service"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/response"
)

// AcquisitionHandler exposes artist contract endpoints.
type AcquisitionHandler struct {
	acquisitions *service.AcquisitionService
	exports      *service.ExportService
}

// NewAcquisitionHandler constructs AcquisitionHandler.
func NewAcquisitionHandler(acquisitions *service.AcquisitionService, exports *service.ExportService) *AcquisitionHandler {
	return &AcquisitionHandler{acquisitions: acquisitions, exports: exports}
}

func acquisitionFilter(c *gin.Context) models.AcquisitionFilter {
	params := parseListParams(c)
	filter := models.AcquisitionFilter{
		Search:    params.Search,
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}
	if status := c.Query("status"); status != "" {
		s := models.AcquisitionStatus(status)
		filter.Status = &s
	}
	if kind := c.Query("kind"); kind != "" {
		k := models.AcquisitionKind(kind)
		filter.Kind = &k
	}
	return filter
}

// List godoc
// @Summary List artist contracts
// @Tags Acquisitions
// @Produce json
// @Param search query string false "Search by artist name"
// @Param status query string false "acquired or sold"
// @Param kind query string false "purchase or sale"
// @Success 200 {object} response.Envelope
// @Router /acquisitions [get]
func (h *AcquisitionHandler) List(c *gin.Context) {
	acqs, pagination, err := h.acquisitions.List(c.Request.Context(), acquisitionFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, acqs, pagination)
}

// Get godoc
// @Summary Get contract detail
// @Tags Acquisitions
// @Produce json
// @Param id path string true "Acquisition ID"
// @Success 200 {object} response.Envelope
// @Router /acquisitions/{id} [get]
func (h *AcquisitionHandler) Get(c *gin.Context) {
	acq, err := h.acquisitions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, acq, nil)
}

// Create godoc
// @Summary Register an artist purchase contract
// @Tags Acquisitions
// @Accept json
// @Produce json
// @Param payload body service.CreateAcquisitionRequest true "Contract payload"
// @Success 201 {object} response.Envelope
// @Router /acquisitions [post]
func (h *AcquisitionHandler) Create(c *gin.Context) {
	var req service.CreateAcquisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	acq, err := h.acquisitions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, acq)
}

// Update godoc
// @Summary Update contract
// @Tags Acquisitions
// @Accept json
// @Produce json
// @Param id path string true "Acquisition ID"
// @Param payload body service.UpdateAcquisitionRequest true "Contract payload"
// @Success 200 {object} response.Envelope
// @Router /acquisitions/{id} [put]
func (h *AcquisitionHandler) Update(c *gin.Context) {
	var req service.UpdateAcquisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	acq, err := h.acquisitions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, acq, nil)
}

// Sell godoc
// @Summary Sell an acquired contract
// @Description Marks the contract as sold and finalizes its end date.
// @Tags Acquisitions
// @Accept json
// @Produce json
// @Param id path string true "Acquisition ID"
// @Param payload body service.SellAcquisitionRequest true "Sale payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /acquisitions/{id}/sell [post]
func (h *AcquisitionHandler) Sell(c *gin.Context) {
	var req service.SellAcquisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	acq, err := h.acquisitions.Sell(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, acq, nil)
}

// Restore godoc
// @Summary Revert a sold contract back to acquired
// @Tags Acquisitions
// @Produce json
// @Param id path string true "Acquisition ID"
// @Success 200 {object} response.Envelope
// @Router /acquisitions/{id}/restore [post]
func (h *AcquisitionHandler) Restore(c *gin.Context) {
	acq, err := h.acquisitions.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, acq, nil)
}

// Export godoc
// @Summary Export filtered contracts
// @Tags Acquisitions
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf"
// @Success 200 {file} binary
// @Router /acquisitions/export [get]
func (h *AcquisitionHandler) Export(c *gin.Context) {
	file, err := h.exports.Acquisitions(c.Request.Context(), acquisitionFilter(c), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}
