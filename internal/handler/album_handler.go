package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/service"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/response"
)

// AlbumHandler exposes album endpoints.
type AlbumHandler struct {
	albums  *service.AlbumService
	exports *service.ExportService
}

// NewAlbumHandler constructs AlbumHandler.
func NewAlbumHandler(albums *service.AlbumService, exports *service.ExportService) *AlbumHandler {
	return &AlbumHandler{albums: albums, exports: exports}
}

func albumFilter(c *gin.Context) models.AlbumFilter {
	params := parseListParams(c)
	return models.AlbumFilter{
		Search:    params.Search,
		Genre:     c.Query("genre"),
		Active:    params.Active,
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}
}

// List godoc
// @Summary List albums
// @Tags Albums
// @Produce json
// @Param search query string false "Search by title"
// @Param genre query string false "Filter by genre"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /albums [get]
func (h *AlbumHandler) List(c *gin.Context) {
	albums, pagination, err := h.albums.List(c.Request.Context(), albumFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, albums, pagination)
}

// Get godoc
// @Summary Get album detail
// @Tags Albums
// @Produce json
// @Param id path string true "Album ID"
// @Success 200 {object} response.Envelope
// @Router /albums/{id} [get]
func (h *AlbumHandler) Get(c *gin.Context) {
	album, err := h.albums.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, album, nil)
}

// Create godoc
// @Summary Create album
// @Tags Albums
// @Accept json
// @Produce json
// @Param payload body service.CreateAlbumRequest true "Album payload"
// @Success 201 {object} response.Envelope
// @Router /albums [post]
func (h *AlbumHandler) Create(c *gin.Context) {
	var req service.CreateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	album, err := h.albums.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, album)
}

// Update godoc
// @Summary Update album
// @Tags Albums
// @Accept json
// @Produce json
// @Param id path string true "Album ID"
// @Param payload body service.UpdateAlbumRequest true "Album payload"
// @Success 200 {object} response.Envelope
// @Router /albums/{id} [put]
func (h *AlbumHandler) Update(c *gin.Context) {
	var req service.UpdateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	album, err := h.albums.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, album, nil)
}

// Delete godoc
// @Summary Deactivate album
// @Tags Albums
// @Produce json
// @Param id path string true "Album ID"
// @Success 204
// @Router /albums/{id} [delete]
func (h *AlbumHandler) Delete(c *gin.Context) {
	if err := h.albums.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore a deactivated album
// @Tags Albums
// @Produce json
// @Param id path string true "Album ID"
// @Success 200 {object} response.Envelope
// @Router /albums/{id}/restore [post]
func (h *AlbumHandler) Restore(c *gin.Context) {
	if err := h.albums.Restore(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	album, err := h.albums.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, album, nil)
}

// Export godoc
// @Summary Export filtered albums
// @Tags Albums
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf"
// @Success 200 {file} binary
// @Router /albums/export [get]
func (h *AlbumHandler) Export(c *gin.Context) {
	file, err := h.exports.Albums(c.Request.Context(), albumFilter(c), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}
