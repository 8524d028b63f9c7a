package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/umutak/deskmate/internal/blob"
	"github.com/umutak/deskmate/internal/config"
	"github.com/umutak/deskmate/internal/database"
	"github.com/umutak/deskmate/internal/events"
	"github.com/umutak/deskmate/internal/handlers"
	"github.com/umutak/deskmate/internal/idle"
	"github.com/umutak/deskmate/internal/logger"
	"github.com/umutak/deskmate/internal/middleware"
	"github.com/umutak/deskmate/internal/notify"
	"github.com/umutak/deskmate/internal/services/ai"
	"github.com/umutak/deskmate/internal/telemetry"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.NewProductionLogger(*debugMode || cfg.ServerDebugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry is opt-in; the API runs fine without a collector.
	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, "deskmate-api", cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Warn("failed_to_shutdown_tracing", zap.Error(err))
				}
			}()
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database", zap.Error(err))
		}
	}()

	if err := database.EnsureSchema(ctx, db); err != nil {
		zapLogger.Fatal("failed_to_ensure_schema", zap.Error(err))
	}

	redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisLimiter.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis", zap.Error(err))
		}
	}()

	// Repositories
	noteRepo := database.NewNoteRepository(db)
	todoRepo := database.NewTodoRepository(db)
	reminderRepo := database.NewReminderRepository(db)
	planRepo := database.NewPlanRepository(db)
	attachmentRepo := database.NewAttachmentRepository(db)
	ratelimitRepo := database.NewRatelimitConfigRepository(db)

	blobStore, err := blob.NewDiskStore(cfg.UploadDir)
	if err != nil {
		zapLogger.Fatal("failed_to_initialize_blob_store", zap.Error(err))
	}

	// Event fan-out is optional: without a broker URL popups simply are not
	// published anywhere.
	var publisher *events.AMQPPublisher
	if cfg.RabbitMQURL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Warn("failed_to_connect_to_rabbitmq", zap.Error(err))
			publisher = nil
		} else {
			defer func() {
				if err := publisher.Close(); err != nil {
					zapLogger.Warn("failed_to_close_rabbitmq", zap.Error(err))
				}
			}()
		}
	}

	aiProvider := createAIProvider(cfg, zapLogger)

	// Idle lock state machine. The session starts locked; only an explicit
	// unlock request opens it.
	monitor := idle.NewMonitor(cfg.IdleTimeout, idle.WithOnLock(func() {
		zapLogger.Info("session_locked", zap.Duration("idle_timeout", cfg.IdleTimeout))
	}))
	defer monitor.Stop()

	// Notification evaluators, one popup slot per category.
	reminderEval := notify.NewEvaluator(notify.CategoryReminder, cfg.ReminderLead)
	todoEval := notify.NewEvaluator(notify.CategoryTodo, notify.TodoLead)

	var pollerEvents notify.Publisher
	if publisher != nil {
		pollerEvents = publisher
	}
	poller := notify.NewPoller(
		reminderEval, todoEval,
		reminderSnapshot(reminderRepo), todoSnapshot(todoRepo),
		cfg.PollInterval, pollerEvents, zapLogger,
	)
	go poller.Run(ctx)

	rateLimitReloader := middleware.NewRateLimitReloader(
		redisLimiter.Client(), ratelimitRepo, middleware.DefaultRatelimitRate, zapLogger, time.Minute,
	)
	go rateLimitReloader.Start(ctx)
	rateLimitMW := rateLimitReloader.Middleware()

	// Handlers
	healthChecker := handlers.NewHealthChecker(db, redisLimiter)
	noteHandler := handlers.NewNoteHandler(noteRepo)
	todoHandler := handlers.NewTodoHandler(todoRepo)
	reminderHandler := handlers.NewReminderHandler(reminderRepo)
	planHandler := handlers.NewPlanHandler(planRepo, attachmentRepo, blobStore, zapLogger)
	chatHandler := handlers.NewChatHandler(aiProvider, zapLogger)
	notificationHandler := handlers.NewNotificationHandler(reminderEval, todoEval, reminderRepo, todoRepo)
	sessionHandler := handlers.NewSessionHandler(monitor)

	// Setup router
	r := mux.NewRouter()

	// Apply middleware (order matters)
	r.Use(otelmux.Middleware("deskmate-api"))
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Health check (no rate limiting, no activity tracking)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	// Uploaded attachment files are served straight off disk.
	r.PathPrefix(blob.URLPrefix).Handler(
		http.StripPrefix(blob.URLPrefix, http.FileServer(http.Dir(cfg.UploadDir))),
	).Methods("GET")

	activityMW := middleware.ActivityTracking(monitor)

	// API routes. Each content subrouter counts its requests as user
	// activity for the idle lock; the session and notification routes do
	// not, because the frontend polls them on a timer even when nobody is
	// at the desk.
	notesRouter := r.PathPrefix("/api/v1/notes").Subrouter()
	notesRouter.Use(rateLimitMW, middleware.MaxRequestSize(middleware.DefaultMaxRequestSize), activityMW)
	noteHandler.RegisterRoutes(notesRouter)

	todosRouter := r.PathPrefix("/api/v1/todos").Subrouter()
	todosRouter.Use(rateLimitMW, middleware.MaxRequestSize(middleware.DefaultMaxRequestSize), activityMW)
	todoHandler.RegisterRoutes(todosRouter)

	remindersRouter := r.PathPrefix("/api/v1/reminders").Subrouter()
	remindersRouter.Use(rateLimitMW, middleware.MaxRequestSize(middleware.DefaultMaxRequestSize), activityMW)
	reminderHandler.RegisterRoutes(remindersRouter)

	// Plans carry multipart attachment uploads, so they get the larger body
	// limit.
	plansRouter := r.PathPrefix("/api/v1/plans").Subrouter()
	plansRouter.Use(rateLimitMW, middleware.MaxRequestSize(middleware.UploadMaxRequestSize), activityMW)
	planHandler.RegisterRoutes(plansRouter)

	chatRouter := r.PathPrefix("/api/v1/chat").Subrouter()
	chatRouter.Use(rateLimitMW, middleware.MaxRequestSize(middleware.DefaultMaxRequestSize), activityMW)
	chatHandler.RegisterRoutes(chatRouter)

	notificationsRouter := r.PathPrefix("/api/v1/notifications").Subrouter()
	notificationsRouter.Use(rateLimitMW, middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	notificationHandler.RegisterRoutes(notificationsRouter)

	sessionRouter := r.PathPrefix("/api/v1/session").Subrouter()
	sessionRouter.Use(rateLimitMW, middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	sessionHandler.RegisterRoutes(sessionRouter)

	// Catch-all for CORS preflight on routes the subrouters do not match.
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, req)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
			zap.Bool("debug_mode", *debugMode || cfg.ServerDebugMode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server_shutdown_failed", zap.Error(err))
	}

	zapLogger.Info("server_stopped")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}

// createAIProvider wires the chat assistant. Without an API key the chat
// endpoint answers with a fixed unavailable message instead of failing.
func createAIProvider(cfg *config.Config, log *zap.Logger) ai.AIProvider {
	if cfg.OpenAIKey == "" {
		log.Info("ai_provider_disabled")
		return nil
	}

	provider := ai.NewOpenAIProviderWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, log, cfg.ServerDebugMode)
	log.Info("ai_provider_configured",
		zap.String("model", provider.Model()),
		zap.String("api_key", ai.SanitizeAPIKey(cfg.OpenAIKey)),
	)
	return provider
}

// reminderSnapshot adapts the reminder table to the evaluator's record view,
// oldest first so the longest-waiting reminder wins the popup slot.
func reminderSnapshot(repo database.ReminderRepositoryInterface) notify.Snapshot {
	return func(ctx context.Context) ([]notify.Record, error) {
		reminders, err := repo.List(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]notify.Record, 0, len(reminders))
		for i := len(reminders) - 1; i >= 0; i-- {
			rem := reminders[i]
			remindAt := rem.RemindAt
			records = append(records, notify.Record{
				ID:        rem.ID,
				Content:   rem.Content,
				DueAt:     &remindAt,
				Completed: rem.Completed,
			})
		}
		return records, nil
	}
}

// todoSnapshot adapts the todo table the same way; todos without a due time
// pass through with a nil DueAt and are never selected.
func todoSnapshot(repo database.TodoRepositoryInterface) notify.Snapshot {
	return func(ctx context.Context) ([]notify.Record, error) {
		todos, err := repo.List(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]notify.Record, 0, len(todos))
		for i := len(todos) - 1; i >= 0; i-- {
			todo := todos[i]
			records = append(records, notify.Record{
				ID:        todo.ID,
				Content:   todo.Content,
				DueAt:     todo.DueAt,
				Completed: todo.Completed,
			})
		}
		return records, nil
	}
}
