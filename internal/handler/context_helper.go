package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/middleware"
	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentUser(c)
}

// listParams holds the query parameters every listing endpoint shares.
type listParams struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func parseListParams(c *gin.Context) listParams {
	params := listParams{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	switch c.Query("active") {
	case "true":
		v := true
		params.Active = &v
	case "false":
		v := false
		params.Active = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		params.PageSize = size
	}
	// API callers cannot request unbounded pages; the export services
	// list with their own row cap instead.
	if params.PageSize <= 0 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return params
}

func exportFormat(c *gin.Context) service.ExportFormat {
	return service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
}

func writeExport(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
