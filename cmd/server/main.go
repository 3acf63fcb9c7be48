package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/addojo/api/internal/client"
	"github.com/addojo/api/internal/config"
	"github.com/addojo/api/internal/handler"
	"github.com/addojo/api/internal/middleware"
	"github.com/addojo/api/internal/service"
	"github.com/addojo/api/internal/worker"
	ws "github.com/addojo/api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Storage client for rendered output; nil keeps output on the CDN path
	var storageClient client.StorageClient
	if r2, err := client.NewR2Client(&cfg.Storage); err == nil {
		storageClient = r2
	} else {
		log.Printf("Warning: R2 storage not configured: %v", err)
	}

	// Initialize services
	renderService := service.NewRenderService(redisClient, asynqClient)
	editorService := service.NewEditorService(renderService, cfg.Editor, cfg.Render.PollInterval)
	mediaService := service.NewMediaService(client.NewPexelsClient(&cfg.Pexels))

	// Initialize handlers
	editorHandler := handler.NewEditorHandler(editorService, validate)
	renderHandler := handler.NewRenderHandler(editorService, validate)
	mediaHandler := handler.NewMediaHandler(mediaService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api", authMiddleware.Authenticate())

	// Editor routes
	sessions := api.Group("/editor/sessions")
	sessions.Post("/", rateLimiter.SessionLimit(cfg.RateLimit.SessionsPerMin), editorHandler.CreateSession)
	sessions.Get("/:sessionId", editorHandler.GetState)
	sessions.Delete("/:sessionId", editorHandler.CloseSession)
	sessions.Post("/:sessionId/overlays", editorHandler.AddOverlay)
	sessions.Patch("/:sessionId/overlays/:overlayId", editorHandler.ChangeOverlay)
	sessions.Delete("/:sessionId/overlays/:overlayId", editorHandler.DeleteOverlay)
	sessions.Post("/:sessionId/overlays/:overlayId/duplicate", editorHandler.DuplicateOverlay)
	sessions.Post("/:sessionId/overlays/:overlayId/split", editorHandler.SplitOverlay)
	sessions.Put("/:sessionId/selection", editorHandler.SetSelection)
	sessions.Post("/:sessionId/playback/toggle", editorHandler.TogglePlayback)
	sessions.Post("/:sessionId/playback/seek", editorHandler.Seek)

	// Render routes
	sessions.Post("/:sessionId/render", rateLimiter.RenderLimit(cfg.RateLimit.RendersPerHour), renderHandler.Submit)
	sessions.Get("/:sessionId/render/status", renderHandler.Status)
	sessions.Get("/:sessionId/render/history", renderHandler.History)

	// Stock media routes
	media := api.Group("/media", rateLimiter.MediaLimit(cfg.RateLimit.MediaPerMin))
	media.Get("/videos", mediaHandler.Videos)
	media.Get("/sounds", mediaHandler.Sounds)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/render/:jobId", websocket.New(func(c *websocket.Conn) {
		hub.HandleConnection(c, c.Params("jobId"))
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, renderService, storageClient, hub)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, renderService *service.RenderService, storage client.StorageClient, hub *ws.Hub) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Render.Concurrency,
			Queues: map[string]int{
				"render": 10,
			},
		},
	)

	renderWorker := worker.NewRenderWorker(renderService, storage, hub)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeRender, renderWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
