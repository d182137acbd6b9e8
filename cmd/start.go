package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocktake/core/apperr"
	"stocktake/core/config"
	"stocktake/core/database"
	"stocktake/core/loader"
	"stocktake/core/logger"
	"stocktake/core/middleware/auth"
	"stocktake/core/middleware/rayid"
	"stocktake/core/storage"
	"stocktake/feature/catalog"
	"stocktake/feature/catalog/erp"
	"stocktake/feature/counting"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "stocktake/docs/swagger"
)

// @title Stocktake API
// @version 1.0
// @description Inventory count session and variance API.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the stock-take server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (required: it is the session store)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

		// 4. Initialize Snapshot Storage (optional: sync archive only)
		var archive storage.Client
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Snapshot storage unavailable, sync archive disabled", zap.Error(err))
		} else {
			archive = client
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
			ErrorHandler:          apperr.ErrorHandler,
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		var fetcher catalog.ExportFetcher
		if cfg.Catalog.BaseURL != "" {
			fetcher = erp.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Token, cfg.Catalog.Key,
				time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second)
		}

		catalogFeature := catalog.NewFeature(db, archive, cfg.Storage.Bucket, fetcher, cfg.Catalog, logg)
		mgr.Register(catalogFeature)
		mgr.Register(counting.NewFeature(db, catalogFeature.Service(), cfg.Counting, logg))

		// Middleware Registration
		// RayID must be first to trace everything.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("duplicate_policy", cfg.Counting.DuplicatePolicy),
				zap.String("variance_scope", cfg.Counting.VarianceScope),
			)
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
