package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/api/handlers"
	"github.com/maheshrc27/linkedin-scheduler/internal/api/middleware"
	job "github.com/maheshrc27/linkedin-scheduler/internal/jobs"
	"github.com/maheshrc27/linkedin-scheduler/internal/metrics"
	"github.com/maheshrc27/linkedin-scheduler/internal/queue"
	"github.com/maheshrc27/linkedin-scheduler/internal/repository"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:           "linkedin-scheduler",
		Usage:          "schedules and publishes LinkedIn posts",
		DefaultCommand: "serve",
		Before:         setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API, the cron trigger and the publish worker",
				Action: serve,
			},
			{
				Name:   "publish-due",
				Usage:  "publish today's due posts once and print the summary",
				Action: publishDue,
			},
		},
		ErrWriter: os.Stderr,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(cmd *cli.Context) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	var level slog.Level
	switch cmd.String("log-level") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stdout carries the publish-due summary
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}

type components struct {
	db    *sql.DB
	posts service.PostService
	batch service.BatchService
	media service.MediaService
	auth  service.AuthService
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database is unreachable: %w", err)
	}
	return db, nil
}

func build(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*components, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.PublishTimeout}

	tokenRepo := repository.NewLinkedInTokenRepository(db)
	postRepo := repository.NewScheduledPostRepository(db)
	attemptRepo := repository.NewPublishAttemptRepository(db)

	var mirror service.MediaMirror
	if cfg.R2Enabled() {
		r2Service, err := service.NewR2Service(ctx, *cfg)
		if err != nil {
			db.Close()
			return nil, err
		}
		mirror = r2Service
	}

	mediaUploader := service.NewLinkedInMediaService(*cfg, httpClient)
	publisher := service.NewLinkedInPostService(*cfg, httpClient)

	return &components{
		db:    db,
		posts: service.NewPostService(db, postRepo, attemptRepo),
		batch: service.NewBatchService(*cfg, postRepo, tokenRepo, attemptRepo, mediaUploader, publisher, metrics.New(reg)),
		media: service.NewMediaService(*cfg, mirror),
		auth:  service.NewAuthService(*cfg, tokenRepo, httpClient),
	}, nil
}

func publishDue(cmd *cli.Context) error {
	cfg := config.LoadConfig()

	c, err := build(cmd.Context, cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer closeDB(c.db)

	outcome, err := c.batch.Run(cmd.Context, time.Now())
	if err != nil {
		return cli.Exit(fmt.Sprintf("publishing run failed: %v", err), 1)
	}

	out, err := json.MarshalIndent(transfer.NewBatchSummary(outcome), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.App.Writer, string(out))
	return nil
}

func serve(cmd *cli.Context) error {
	cfg := config.LoadConfig()

	c, err := build(cmd.Context, cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer closeDB(c.db)

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    10 * 1024 * 1024, // 10 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/media", cfg.MediaDir)

	auth := handlers.NewAuthHandler(*cfg, c.auth)
	app.Get("/auth/linkedin", auth.Login)
	app.Get("/auth/linkedin/callback", auth.CallbackHandler)
	app.Post("/auth/logout", auth.Logout)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(c.posts)
	api.Post("/posts", post.CreatePost)
	api.Post("/posts/schedule", post.CreateSchedule)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Put("/posts/:id", post.UpdatePost)
	api.Get("/posts/:id/attempts", post.ListAttempts)

	batch := handlers.NewBatchHandler(c.batch)
	if len(cfg.PublishOperators) == 0 {
		log.Println("Warning: PUBLISH_OPERATORS is empty, any member can trigger publish-due")
	}
	api.Post("/posts/publish-due", authMiddleware.RequireOperator(), batch.PublishDue)
	api.Post("/posts/:id/publish", batch.PublishNow)

	media := handlers.NewMediaHandler(c.media)
	api.Post("/media", media.UploadMedia)

	// cron jobs
	publishJob := job.NewPublishDueJob(client)

	cr := cron.New()
	if err := cr.AddFunc(cfg.PublishCron, publishJob.EnqueueDuePosts); err != nil {
		return fmt.Errorf("invalid PUBLISH_CRON %q: %w", cfg.PublishCron, err)
	}
	cr.Start()

	// queue
	queueW := queue.NewQueue(c.batch)

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 1,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypePublishDue, queueW.HandlePublishDueTask)

	log.Println("Starting the Asynq server...")
	if err := server.Start(mux); err != nil {
		return fmt.Errorf("could not start asynq server: %w", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, cr, server)
	return nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
		return
	}
	log.Println("Database connection closed")
}

func gracefulShutdown(app *fiber.App, cr *cron.Cron, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	cr.Stop()
	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
	server.Shutdown()

	log.Println("Server shutdown complete.")
}
