package main

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell/weblog/pkg/weblog/auth"
	"github.com/inkwell/weblog/pkg/weblog/bookmarking"
	"github.com/inkwell/weblog/pkg/weblog/categories"
	"github.com/inkwell/weblog/pkg/weblog/comments"
	"github.com/inkwell/weblog/pkg/weblog/config"
	"github.com/inkwell/weblog/pkg/weblog/database"
	"github.com/inkwell/weblog/pkg/weblog/entries"
	"github.com/inkwell/weblog/pkg/weblog/links"
	"github.com/inkwell/weblog/pkg/weblog/logging"
	"github.com/inkwell/weblog/pkg/weblog/models"
	"github.com/inkwell/weblog/pkg/weblog/render"
	"github.com/inkwell/weblog/pkg/weblog/site"
	"github.com/inkwell/weblog/pkg/weblog/tags"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.PrettyLog)
	defer logger.Sync()

	if err := database.Connect(cfg.DBPath); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := database.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Create default admin user if no admin exists
	if err := ensureAdminExists(logger); err != nil {
		logger.Fatal("Failed to ensure admin user exists", zap.Error(err))
	}

	renderer := render.Markdown{}
	tagStore := tags.NewStore(db)

	// Cross-posting is off unless credentials are configured.
	var bookmarks bookmarking.Service = bookmarking.Disabled{}
	if cfg.BookmarkUser != "" {
		bookmarks = bookmarking.NewClient(cfg.BookmarkAPIURL, cfg.BookmarkUser, cfg.BookmarkPassword)
		logger.Info("Bookmarking cross-post enabled", zap.String("api_url", cfg.BookmarkAPIURL))
	}

	entryRepo := entries.NewRepository(db, renderer, tagStore)
	linkRepo := links.NewRepository(db, renderer, tagStore, bookmarks, logger)
	categoryRepo := categories.NewRepository(db, renderer)
	policy := comments.Policy{CloseAfter: cfg.ModerateAfterDays}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "weblog",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Comment routes (public - readers post without accounts)
		commentsHandler := comments.NewHandler(db, policy)
		commentsHandler.RegisterRoutes(api)

		// Authoring routes (protected)
		protected := api.Group("", auth.AuthMiddleware())

		entriesHandler := entries.NewHandler(db, entryRepo)
		entriesHandler.RegisterRoutes(protected)

		linksHandler := links.NewHandler(db, linkRepo, cfg.DefaultLinkPost)
		linksHandler.RegisterRoutes(protected)

		categoriesHandler := categories.NewHandler(db, categoryRepo)
		categoriesHandler.RegisterRoutes(protected)

		tagsHandler := tags.NewHandler(db)
		tagsHandler.RegisterRoutes(protected)
	}

	// Public weblog routes (must be registered LAST to avoid conflicts)
	siteHandler := site.NewHandler(entryRepo, linkRepo, categoryRepo, comments.NewDBSource(db), policy, logger)
	siteHandler.RegisterRoutes(r)

	logger.Info("Starting weblog server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// ensureAdminExists creates a default admin user if no admin exists in
// the database.
func ensureAdminExists(logger *zap.Logger) error {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	adminUser := models.User{
		Email:        "admin@weblog.local",
		Name:         "Admin",
		PasswordHash: hashedPassword,
		IsAdmin:      true,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	logger.Info("Created default admin user",
		zap.String("email", adminUser.Email),
		zap.String("password", "changeme"))
	return nil
}
