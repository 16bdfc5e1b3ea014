package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lingohub/lingohub/internal/audit"
	"github.com/lingohub/lingohub/internal/config"
	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/database"
	"github.com/lingohub/lingohub/internal/database/files"
	"github.com/lingohub/lingohub/internal/database/importruns"
	"github.com/lingohub/lingohub/internal/database/orders"
	"github.com/lingohub/lingohub/internal/exporter"
	http_controllers "github.com/lingohub/lingohub/internal/http"
	"github.com/lingohub/lingohub/internal/importer"
	"github.com/lingohub/lingohub/internal/scheduler"
	"github.com/lingohub/lingohub/internal/tasks"
	"github.com/lingohub/lingohub/internal/translator"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the worker queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting LingoHub v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Content store for elements and transient uploads
	store, err := content.NewGormStore(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize content store: %v", err)
	}

	orderRepo := orders.NewRepository(db.DB)
	fileRepo := files.NewRepository(db.DB)
	runRepo := importruns.NewRepository(db.DB)

	elementTranslator := translator.NewElementTranslator(translator.DefaultRegistry())
	exportService := exporter.NewService(store, fileRepo, elementTranslator, cfg.Export.Dir)

	// Auditor keeping raw copies of uploaded packages
	auditor := audit.NewAuditor(cfg.Audit.Dir)

	// Initialize worker queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var dispatcher importer.Dispatcher
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize worker queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		dispatcher = tasks.NewDispatcher(taskClient)
	}

	threshold := cfg.Import.WordCountThreshold
	if threshold <= 0 {
		threshold = config.DefaultWordCountThreshold
	}

	pipeline := importer.NewPipeline(store, orderRepo, fileRepo, runRepo, elementTranslator, dispatcher, threshold)

	if taskClient != nil {
		taskClient.Register(tasks.NewImportFilesQueue(pipeline, taskClient.Config()))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Start the cleanup scheduler if enabled
	var cleanup *scheduler.CleanupScheduler
	if cfg.Cleanup.Enabled {
		cleanup = scheduler.NewCleanupScheduler(
			cfg.Export.Dir,
			cfg.Cleanup.Schedule,
			cfg.Cleanup.ExportMaxAge,
		)
		if err := cleanup.Start(context.Background()); err != nil {
			log.Printf("WARNING: Failed to start cleanup scheduler: %v", err)
		}
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:   db,
		Store:      store,
		Orders:     orderRepo,
		Files:      fileRepo,
		ImportRuns: runRepo,
		Translator: elementTranslator,
		Pipeline:   pipeline,
		Exporter:   exportService,
		Auditor:    auditor,
		ExportDir:  cfg.Export.Dir,
		Version:    version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if cleanup != nil {
			cleanup.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
