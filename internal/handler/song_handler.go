package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/service"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/response"
)

// SongHandler exposes song endpoints.
type SongHandler struct {
	songs   *service.SongService
	exports *service.ExportService
}

// NewSongHandler constructs SongHandler.
func NewSongHandler(songs *service.SongService, exports *service.ExportService) *SongHandler {
	return &SongHandler{songs: songs, exports: exports}
}

func songFilter(c *gin.Context) models.SongFilter {
	params := parseListParams(c)
	return models.SongFilter{
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
// @Summary List songs
// @Tags Songs
// @Produce json
// @Param search query string false "Search by title"
// @Param genre query string false "Filter by genre"
// @Param active query bool false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /songs [get]
func (h *SongHandler) List(c *gin.Context) {
	songs, pagination, err := h.songs.List(c.Request.Context(), songFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, songs, pagination)
}

// Get godoc
// @Summary Get song detail
// @Tags Songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} response.Envelope
// @Router /songs/{id} [get]
func (h *SongHandler) Get(c *gin.Context) {
	song, err := h.songs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, song, nil)
}

// Validate godoc
// @Summary Validate a song payload without saving
// @Description Returns per-field messages so forms can surface errors before submit.
// @Tags Songs
// @Accept json
// @Produce json
// @Param payload body service.SongRequest true "Song payload"
// @Success 200 {object} response.Envelope
// @Router /songs/validate [post]
func (h *SongHandler) Validate(c *gin.Context) {
	var req service.SongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	fields := h.songs.Validate(req)
	response.JSON(c, http.StatusOK, gin.H{"valid": len(fields) == 0, "fields": fields}, nil)
}

// Create godoc
// @Summary Create song
// @Tags Songs
// @Accept json
// @Produce json
// @Param payload body service.SongRequest true "Song payload"
// @Success 201 {object} response.Envelope
// @Router /songs [post]
func (h *SongHandler) Create(c *gin.Context) {
	var req service.SongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	song, err := h.songs.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, song)
}

// Update godoc
// @Summary Update song
// @Tags Songs
// @Accept json
// @Produce json
// @Param id path string true "Song ID"
// @Param payload body service.SongRequest true "Song payload"
// @Success 200 {object} response.Envelope
// @Router /songs/{id} [put]
func (h *SongHandler) Update(c *gin.Context) {
	var req service.SongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	song, err := h.songs.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, song, nil)
}

// Delete godoc
// @Summary Deactivate song
// @Tags Songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 204
// @Router /songs/{id} [delete]
func (h *SongHandler) Delete(c *gin.Context) {
	if err := h.songs.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore a deactivated song
// @Tags Songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} response.Envelope
// @Router /songs/{id}/restore [post]
func (h *SongHandler) Restore(c *gin.Context) {
	if err := h.songs.Restore(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	song, err := h.songs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, song, nil)
}

// Export godoc
// @Summary Export filtered songs
// @Tags Songs
// @Produce octet-stream
// @Param format query string false "csv, xlsx or pdf"
// @Success 200 {file} binary
// @Router /songs/export [get]
func (h *SongHandler) Export(c *gin.Context) {
	file, err := h.exports.Songs(c.Request.Context(), songFilter(c), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}
