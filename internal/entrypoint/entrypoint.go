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

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/chat"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditrepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/favourites"
	"github.com/mrlokans/bookshelf/internal/database/shelf"
	"github.com/mrlokans/bookshelf/internal/database/users"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// In-flight requests finish before background workers are stopped
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// NewCatalogService builds the catalog service against the configured
// external catalogs.
func NewCatalogService(cfg *config.Config, db *database.Database, activity services.ActivityLogger) *services.CatalogService {
	return services.NewCatalogService(services.CatalogConfig{
		Books:                  books.NewRepository(db.DB),
		Subjects:               metadata.NewGoogleBooksClient(cfg.GoogleBooks.BaseURL, cfg.GoogleBooks.APIKey),
		Downloads:              metadata.NewLibgenClient(cfg.Libgen.BaseURL),
		Activity:               activity,
		Snapshots:              audit.NewAuditor(cfg.Audit.SnapshotDir),
		GenreFallbackThreshold: cfg.Catalog.GenreFallbackThreshold,
	})
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	activity := audit.NewService(auditrepo.NewRepository(db.DB))
	catalog := NewCatalogService(cfg, db, activity)
	shelfService := services.NewShelfService(shelf.NewRepository(db.DB), favourites.NewRepository(db.DB), activity)
	userService := services.NewUserService(users.NewRepository(db.DB))

	if cfg.Audit.SnapshotDir != "" {
		log.Printf("Saving raw catalog responses to %s", cfg.Audit.SnapshotDir)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Catalog:        catalog,
		Shelf:          shelfService,
		Users:          userService,
		Activity:       activity,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Version:        version,
	}

	// Initialize book chat if an API key is configured
	var sessions *chat.SessionStore
	if cfg.Chat.APIKey != "" {
		backend, err := chat.NewGeminiBackend(context.Background(), cfg.Chat.APIKey)
		if err != nil {
			log.Fatalf("Failed to initialize chat backend: %v", err)
		}
		sessions, err = chat.NewSessionStore(cfg.Chat.MaxSessions, cfg.Chat.SessionTTL)
		if err != nil {
			log.Fatalf("Failed to initialize chat sessions: %v", err)
		}
		routerCfg.Chat = chat.NewService(backend, sessions, cfg.Chat.Model)
		log.Printf("Book chat enabled (model %s)", cfg.Chat.Model)
	} else {
		log.Printf("WARNING: GEMINI_API_KEY is not set. Chat endpoint will be disabled.")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cronScheduler *scheduler.Scheduler
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
		tasks.Configure(taskCfg)

		// The queue always lives in a sqlite file, even when the main store is postgres
		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewFetchGenreQueue(catalog),
			tasks.NewPruneActivityQueue(activity),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		cronScheduler = scheduler.New(taskClient, scheduler.Config{
			GenreWarmupEnabled:        cfg.GenreWarmup.Enabled,
			GenreWarmupSchedule:       cfg.GenreWarmup.Schedule,
			GenreWarmupOnStart:        cfg.GenreWarmup.OnStartup,
			Genres:                    cfg.GenreWarmup.Genres,
			AuditCleanupSchedule:      cfg.Audit.CleanupSchedule,
			AuditRetentionDays:        cfg.Audit.RetentionDays,
			AuditCatalogRetentionDays: cfg.Audit.CatalogRetentionDays,
		})
		if err := cronScheduler.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}

		routerCfg.TaskQueue = taskClient
	} else {
		log.Printf("Task queue disabled: genre refresh and scheduled jobs are unavailable")
	}

	handler := http_controllers.NewHandler(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if cronScheduler != nil {
			cronScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if sessions != nil {
			sessions.Close()
		}
		activity.Wait()
	}

	Serve(handler, cfg, onShutdown)
}
