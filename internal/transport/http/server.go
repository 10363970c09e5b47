package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appsvc "vidshare/internal/app"
	"vidshare/internal/bootstrap"
	"vidshare/internal/logger"
	"vidshare/internal/repository"
	"vidshare/internal/transport/http/handler"
	"vidshare/internal/transport/http/middleware"
	"vidshare/internal/transport/http/response"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	handler.RegisterValidation()

	router := gin.New()
	router.Use(logger.GinLogger(), gin.Recovery())

	userRepo := repository.NewUserRepository(app.DB)
	videoRepo := repository.NewVideoRepository(app.DB)

	// Optional collaborators stay untyped nil when disabled; a nil pointer
	// inside an interface would pass the services' nil checks.
	var revoker appsvc.SessionRevoker
	if denylist := app.SessionDenylist(); denylist != nil {
		revoker = denylist
	}
	var feedCache appsvc.FeedCache
	if fc := app.FeedCache(); fc != nil {
		feedCache = fc
	}
	var publisher appsvc.VideoEventPublisher
	if p := app.VideoEventPublisher(); p != nil {
		publisher = p
	}

	authService := appsvc.NewAuthService(userRepo, revoker, app.Config.Auth.SessionSecret, app.Config.SessionMaxAge())
	videoService := appsvc.NewVideoService(videoRepo, feedCache, publisher)
	uploadService := appsvc.NewUploadService(app.Signer)

	authHandler := handler.NewAuthHandler(authService, handler.CookieConfig{
		Name:   app.Config.Auth.CookieName,
		Secure: app.Config.Auth.CookieSecure,
		MaxAge: app.Config.SessionMaxAge(),
	})
	videoHandler := handler.NewVideoHandler(videoService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	healthHandler := handler.NewHealthHandler(app)

	router.Use(middleware.Gate(authService, middleware.DefaultPolicy(), app.Config.Auth.CookieName))

	router.GET("/healthz", healthHandler.Check)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/callback/credentials", authHandler.Login)
	authGroup.POST("/signout", authHandler.Logout)
	authGroup.GET("/session", authHandler.Session)
	authGroup.GET("/imagekit-auth", uploadHandler.Signature)
	authGroup.GET("/upload-signature", uploadHandler.Signature)

	api.GET("/videos", videoHandler.List)
	api.GET("/video/list", videoHandler.List)
	api.POST("/video", videoHandler.Create)
	api.DELETE("/video", videoHandler.Delete)
	api.DELETE("/video/delete", videoHandler.Delete)

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, response.KindNotFound, "route not found")
	})

	return router
}
