package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/wichananm65/rior-backend/internal/config"
	"github.com/wichananm65/rior-backend/internal/database"
	"github.com/wichananm65/rior-backend/internal/designrequest"
	"github.com/wichananm65/rior-backend/internal/logger"
	"github.com/wichananm65/rior-backend/internal/media"
	"github.com/wichananm65/rior-backend/internal/metrics"
	"github.com/wichananm65/rior-backend/internal/product"
	"github.com/wichananm65/rior-backend/internal/recommendation"
	"github.com/wichananm65/rior-backend/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db := mustOpenDB(cfg, log)
	defer db.Close()

	app := newApp(cfg, db, log)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newApp(cfg config.Config, db *sql.DB, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadMB * 1024 * 1024,
	})
	app.Use(recover.New())
	setupCORS(app, cfg)
	app.Use(logger.Middleware(log))
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	files := media.NewDiskStorage(cfg.MediaRoot)
	app.Use(media.URLPrefix, files.Handler())

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService, log)
	productHandler.RegisterPublicRoutes(app)
	if cfg.CatalogAdmin {
		log.Warn("catalog admin endpoints enabled")
		productHandler.RegisterAdminRoutes(app)
	}

	store.NewHandler(store.NewService(store.NewPostgresRepository(db)), log).RegisterPublicRoutes(app)

	designService := designrequest.NewService(
		designrequest.NewPostgresRepository(db),
		productService,
		recommendation.NewStub(),
		files,
		log,
		designrequest.WithSlugRetries(cfg.SlugRetries),
	)
	designrequest.NewHandler(designService, designrequest.NewPresenter(cfg.PublicBaseURL), log).RegisterPublicRoutes(app)

	return app
}

func setupCORS(app *fiber.App, cfg config.Config) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Origins(),
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}

func mustOpenDB(cfg config.Config, log *zap.Logger) *sql.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal("schema", zap.Error(err))
	}
	if err := database.Seed(ctx, db, store.SampleStores(), product.SampleCatalog(), log); err != nil {
		log.Fatal("seed", zap.Error(err))
	}
	return db
}
