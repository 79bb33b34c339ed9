package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KNehe/alx-files-manager/internal/cache"
	"github.com/KNehe/alx-files-manager/internal/config"
	"github.com/KNehe/alx-files-manager/internal/database"
	"github.com/KNehe/alx-files-manager/internal/handlers"
	"github.com/KNehe/alx-files-manager/internal/middleware"
	"github.com/KNehe/alx-files-manager/internal/queue"
	"github.com/KNehe/alx-files-manager/internal/services"
	"github.com/KNehe/alx-files-manager/internal/storage"
	"github.com/KNehe/alx-files-manager/internal/worker"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Init()

	cfg := config.Load()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	tokenCache := cache.NewRedis(cfg.Redis)
	localStorage := storage.NewLocal(cfg.Storage)
	thumbQueue := queue.NewThumbnailQueue(cfg.Queue.BufferSize)

	sessionService := services.NewSessionService(db, tokenCache, cfg.Session.TokenTTL)
	fileService := services.NewFileService(db, localStorage, thumbQueue)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	thumbWorker := worker.NewThumbnailWorker(db, localStorage, thumbQueue)
	go thumbWorker.Run(workerCtx)

	appHandler := handlers.NewAppHandler(db, tokenCache)
	usersHandler := handlers.NewUsersHandler(db)
	authHandler := handlers.NewAuthHandler(sessionService)
	filesHandler := handlers.NewFilesHandler(fileService)

	session := middleware.NewSessionMiddleware(sessionService)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(session.Load)

	app.Get("/status", appHandler.Status)
	app.Get("/stats", appHandler.Stats)

	app.Post("/users", usersHandler.Register)
	app.Get("/users/me", usersHandler.Me)

	app.Get("/connect", authHandler.Connect)
	app.Get("/disconnect", authHandler.Disconnect)

	app.Post("/files", filesHandler.Upload)
	app.Get("/files", filesHandler.List)
	app.Get("/files/:id", filesHandler.Show)
	app.Get("/files/:id/data", filesHandler.Data)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"address":     listenAddr,
		"folder_path": cfg.Storage.FolderPath,
		"redis_addr":  cfg.Redis.Addr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		stopWorker()
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			stopWorker()
			log.Fatalf("server error: %v", err)
		}
	}
}
