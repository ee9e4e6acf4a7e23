package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"seungpyo.lee/Speceal/internal/adapter"
	"seungpyo.lee/Speceal/internal/config"
	"seungpyo.lee/Speceal/internal/domain"
	"seungpyo.lee/Speceal/internal/handler"
	"seungpyo.lee/Speceal/internal/repository"
	"seungpyo.lee/Speceal/internal/service"
	"seungpyo.lee/Speceal/pkg/jwt"
	"seungpyo.lee/Speceal/pkg/logger"
	"seungpyo.lee/Speceal/pkg/middleware"
)

func main() {
	conf := config.Load()
	log := logger.New(conf.Environment)

	db, err := gorm.Open(postgres.Open(conf.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Tag{},
		&domain.Image{},
		&domain.ImageLike{},
	)
	if err != nil {
		log.Fatal("failed to migrate database: %v", err)
	}

	// Aggregate cache is optional; without REDIS_ADDR stats are computed on
	// every request.
	var redisClient *redis.Client
	if conf.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       0,
		})
	}

	media, err := adapter.NewAzureMediaStorage(conf.AzureStorageConnectionString, conf.BlobContainerName, log)
	if err != nil {
		log.Fatal("failed to init media storage: %v", err)
	}
	email := adapter.NewSMTPEmailSender(
		conf.SMTPHost, conf.SMTPPort, conf.SMTPUser, conf.SMTPPass,
		conf.EmailFrom, conf.FrontendURL, log,
	)

	tokenManager := jwt.NewTokenManager(
		conf.JWTAccessSecret,
		conf.JWTRefreshSecret,
		time.Duration(conf.AccessTokenTTL)*time.Minute,
		time.Duration(conf.RefreshTokenTTL)*time.Minute,
	)

	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db)

	authService := service.NewAuthService(userRepo, tokenManager, email)
	imageService := service.NewImageService(imageRepo, media, redisClient)
	userService := service.NewUserService(userRepo, imageRepo)

	authHandler := handler.NewAuthHandler(authService, conf)
	imageHandler := handler.NewImageHandler(imageService, conf)
	userHandler := handler.NewUserHandler(userService, conf)

	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORS(conf.FrontendURL))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/logout", middleware.Auth(tokenManager), authHandler.Logout)
		auth.POST("/change-password", middleware.Auth(tokenManager), authHandler.ChangePassword)
	}

	images := api.Group("/images")
	{
		images.GET("", middleware.OptionalAuth(tokenManager), imageHandler.FindAll)
		images.GET("/my-images", middleware.Auth(tokenManager), imageHandler.GetUserImages)
		images.GET("/stats", imageHandler.GetStats)
		images.GET("/categories", imageHandler.GetCategories)
		images.GET("/trending-tags", imageHandler.GetTrendingTags)
		images.GET("/:id", middleware.OptionalAuth(tokenManager), imageHandler.FindOne)
		images.POST("", middleware.Auth(tokenManager), imageHandler.Create)
		images.PATCH("/:id", middleware.Auth(tokenManager), imageHandler.Update)
		images.DELETE("/:id", middleware.Auth(tokenManager), imageHandler.Remove)
		images.POST("/:id/like", middleware.Auth(tokenManager), imageHandler.LikeImage)
		images.POST("/:id/download", imageHandler.DownloadImage)
	}

	users := api.Group("/users")
	{
		users.GET("/profile", middleware.Auth(tokenManager), userHandler.GetProfile)
		users.PATCH("/profile", middleware.Auth(tokenManager), userHandler.UpdateProfile)
		users.GET("/stats/:id", userHandler.GetUserStats)
		users.GET("", middleware.Auth(tokenManager), middleware.RequireRole(domain.RoleAdmin), userHandler.GetAllUsers)
		users.PATCH("/deactivate/:id", middleware.Auth(tokenManager), middleware.RequireRole(domain.RoleAdmin), userHandler.DeactivateUser)
	}

	log.Info("server starting on port %s (%s)", conf.ServerPort, conf.Environment)
	if err := r.Run(":" + conf.ServerPort); err != nil {
		log.Fatal("failed to start server: %v", err)
	}
}
