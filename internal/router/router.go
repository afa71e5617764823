package router

import (
	"fmt"
	"strings"

	"github.com/mixcampeao/api/internal/cache"
	"github.com/mixcampeao/api/internal/config"
	adminhandlers "github.com/mixcampeao/api/internal/http/handlers/admin"
	publichandlers "github.com/mixcampeao/api/internal/http/handlers/public"
	"github.com/mixcampeao/api/internal/logger"
	"github.com/mixcampeao/api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes into a gin engine.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mc"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "muitas tentativas de login, tente novamente em %d segundos",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/logout", publicHandler.Logout)
		}

		// Catalog browsing works for anonymous visitors; a token only
		// adds the purchased flags.
		catalog := apiV1.Group("/segments")
		catalog.Use(OptionalAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			catalog.GET("", publicHandler.ListSegments)
			catalog.GET("/:slug", publicHandler.GetSegment)
		}

		apiV1.POST("/payments/webhook/pix", publicHandler.PixWebhook)

		user := apiV1.Group("")
		user.Use(AuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Me)
			user.GET("/me/segments", publicHandler.ListMySegments)
			user.GET("/segments/:slug/report", publicHandler.GetSegmentReport)
			user.POST("/payments/pix", publicHandler.CreatePixCharge)
			user.GET("/payments/:id", publicHandler.GetPurchase)
		}

		admin := apiV1.Group("/admin")
		admin.Use(AuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), AdminRoleMiddleware())
		{
			admin.GET("/segments", adminHandler.ListSegments)
			admin.POST("/segments", adminHandler.CreateSegment)
			admin.PUT("/segments/:id", adminHandler.UpdateSegment)
			admin.DELETE("/segments/:id", adminHandler.DeleteSegment)
			admin.GET("/segments/:id/sections", adminHandler.ListSegmentSections)
			admin.GET("/segments/:id/items", adminHandler.ListSegmentItems)

			admin.POST("/sections", adminHandler.CreateSection)
			admin.PUT("/sections/:id", adminHandler.UpdateSection)

			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)

			admin.POST("/segment-products", adminHandler.UpsertItem)
			admin.DELETE("/segment-products/:id", adminHandler.DeleteItem)

			admin.POST("/import", adminHandler.RunImport)
			admin.POST("/import/precheck", adminHandler.PrecheckImport)
			admin.GET("/import", adminHandler.ListImportJobs)
			admin.GET("/import/:id", adminHandler.GetImportJob)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
