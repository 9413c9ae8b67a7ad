package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/service"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/response"
)

// ArtistHandler exposes artist endpoints.
type ArtistHandler struct {
	artists *service.ArtistService
	exports *service.ExportService
}

// NewArtistHandler constructs ArtistHandler.
func NewArtistHandler(artists *service.ArtistService, exports *service.ExportService) *ArtistHandler {
	return &ArtistHandler{artists: artists, exports: exports}
}

func artistFilter(c *gin.Context) models.ArtistFilter {
	params := parseListParams(c)
	return models.ArtistFilter{
		Search:    params.Search,
		Genre:     c.Query("genre"),
		Country:   c.Query("country"),
		Active:    params.Active,
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}
}

// List godoc
// @Summary List artists
// @Tags Artists
// @Produce json
// @Param search query string false "Search by name"
// @Param genre query string false "Filter by genre"
// @Param country query string false "Filter by country"
// @Param active query bool false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /artists [get]
func (h *ArtistHandler) List(c *gin.Context) {
	artists, pagination, err := h.artists.List(c.Request.Context(), artistFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artists, pagination)
}

// Get godoc
// @Summary Get artist detail
// @Tags Artists
// @Produce json
// @Param id path string true "Artist ID"
// @Success 200 {object} response.Envelope
// @Router /artists/{id} [get]
func (h *ArtistHandler) Get(c *gin.Context) {
	artist, err := h.artists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artist, nil)
}

// Create godoc
// @Summary Create artist
// @Tags Artists
// @Accept json
// @Produce json
// @Param payload body service.CreateArtistRequest true "Artist payload"
// @Success 201 {object} response.Envelope
// @Router /artists [post]
func (h *ArtistHandler) Create(c *gin.Context) {
	var req service.CreateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	artist, err := h.artists.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, artist)
}

// Update godoc
// @Summary Update artist
// @Tags Artists
// @Accept json
// @Produce json
// @Param id path string true "Artist ID"
// @Param payload body service.UpdateArtistRequest true "Artist payload"
// @Success 200 {object} response.Envelope
// @Router /artists/{id} [put]
func (h *ArtistHandler) Update(c *gin.Context) {
	var req service.UpdateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	artist, err := h.artists.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artist, nil)
}

// Delete godoc
// @Summary Deactivate artist
// @Tags Artists
// @Produce json
// @Param id path string true "Artist ID"
// @Success 204
// @Router /artists/{id} [delete]
func (h *ArtistHandler) Delete(c *gin.Context) {
	if err := h.artists.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore a deactivated artist
// @Tags Artists
// @Produce json
// @Param id path string true "Artist ID"
// @Success 200 {object} response.Envelope
// @Router /artists/{id}/restore [post]
func (h *ArtistHandler) Restore(c *gin.Context) {
	if err := h.artists.Restore(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	artist, err := h.artists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artist, nil)
}

// Export godoc
// @Summary Export filtered artists
// @Tags Artists
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf"
// @Success 200 {file} binary
// @Router /artists/export [get]
func (h *ArtistHandler) Export(c *gin.Context) {
	file, err := h.exports.Artists(c.Request.Context(), artistFilter(c), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}
