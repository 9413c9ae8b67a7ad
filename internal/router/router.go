package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/handler"
	"github.com/discora/label-admin-api/internal/middleware"
	"github.com/discora/label-admin-api/internal/service"
	"github.com/discora/label-admin-api/pkg/config"
	"github.com/discora/label-admin-api/pkg/logger"
	corsmiddleware "github.com/discora/label-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/discora/label-admin-api/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Albums       *handler.AlbumHandler
	Artists      *handler.ArtistHandler
	Songs        *handler.SongHandler
	Sales        *handler.SaleHandler
	Users        *handler.UserHandler
	Acquisitions *handler.AcquisitionHandler
	Merch        *handler.MerchHandler
	Attachments  *handler.AttachmentHandler
	Metrics      *handler.MetricsHandler
}

// New assembles the gin engine: global middleware, probes and the
// versioned API group.
func New(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", middleware.JWT(auth), h.Auth.Logout)
		authGroup.GET("/me", middleware.JWT(auth), h.Auth.Me)
	}

	// The download token is the credential, so the endpoint stays
	// outside the JWT group.
	api.GET("/attachments/:id/download", h.Attachments.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	albums := protected.Group("/albums")
	{
		albums.GET("", h.Albums.List)
		albums.GET("/export", h.Albums.Export)
		albums.GET("/:id", h.Albums.Get)
		albums.POST("", middleware.StaffOnly(), h.Albums.Create)
		albums.PUT("/:id", middleware.StaffOnly(), h.Albums.Update)
		albums.DELETE("/:id", middleware.StaffOnly(), h.Albums.Delete)
		albums.POST("/:id/restore", middleware.StaffOnly(), h.Albums.Restore)
	}

	artists := protected.Group("/artists")
	{
		artists.GET("", h.Artists.List)
		artists.GET("/export", h.Artists.Export)
		artists.GET("/:id", h.Artists.Get)
		artists.POST("", middleware.StaffOnly(), h.Artists.Create)
		artists.PUT("/:id", middleware.StaffOnly(), h.Artists.Update)
		artists.DELETE("/:id", middleware.StaffOnly(), h.Artists.Delete)
		artists.POST("/:id/restore", middleware.StaffOnly(), h.Artists.Restore)
	}

	songs := protected.Group("/songs")
	{
		songs.GET("", h.Songs.List)
		songs.GET("/export", h.Songs.Export)
		songs.POST("/validate", h.Songs.Validate)
		songs.GET("/:id", h.Songs.Get)
		songs.POST("", middleware.StaffOnly(), h.Songs.Create)
		songs.PUT("/:id", middleware.StaffOnly(), h.Songs.Update)
		songs.DELETE("/:id", middleware.StaffOnly(), h.Songs.Delete)
		songs.POST("/:id/restore", middleware.StaffOnly(), h.Songs.Restore)
	}

	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sales.List)
		sales.GET("/export", h.Sales.Export)
		sales.GET("/:id", h.Sales.Get)
		sales.POST("", middleware.StaffOnly(), h.Sales.Create)
		sales.PUT("/:id", middleware.StaffOnly(), h.Sales.Update)
		sales.DELETE("/:id", middleware.StaffOnly(), h.Sales.Delete)
		sales.POST("/:id/restore", middleware.StaffOnly(), h.Sales.Restore)
	}

	users := protected.Group("/users")
	users.Use(middleware.AdminOnly())
	{
		users.GET("", h.Users.List)
		users.GET("/export", h.Users.Export)
		users.GET("/:id", h.Users.Get)
		users.POST("", h.Users.Create)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
		users.POST("/:id/restore", h.Users.Restore)
	}

	acquisitions := protected.Group("/acquisitions")
	{
		acquisitions.GET("", h.Acquisitions.List)
		acquisitions.GET("/export", h.Acquisitions.Export)
		acquisitions.GET("/:id", h.Acquisitions.Get)
		acquisitions.POST("", middleware.StaffOnly(), h.Acquisitions.Create)
		acquisitions.PUT("/:id", middleware.StaffOnly(), h.Acquisitions.Update)
		acquisitions.POST("/:id/sell", middleware.StaffOnly(), h.Acquisitions.Sell)
		acquisitions.POST("/:id/restore", middleware.StaffOnly(), h.Acquisitions.Restore)

		acquisitions.GET("/:id/merch", h.Merch.ListItems)
		acquisitions.GET("/:id/merch/stats", h.Merch.Stats)
		acquisitions.GET("/:id/merch/export", h.Merch.Export)
		acquisitions.POST("/:id/merch", middleware.StaffOnly(), h.Merch.AddItem)
		acquisitions.POST("/:id/merch/import", middleware.StaffOnly(), h.Merch.Import)
		acquisitions.PUT("/:id/merch/:itemId", middleware.StaffOnly(), h.Merch.UpdateItem)
		acquisitions.DELETE("/:id/merch/:itemId", middleware.StaffOnly(), h.Merch.RemoveItem)
	}

	attachments := protected.Group("/attachments")
	{
		attachments.POST("", middleware.StaffOnly(), h.Attachments.Upload)
		attachments.GET("/:id", h.Attachments.Get)
	}

	return r
}
