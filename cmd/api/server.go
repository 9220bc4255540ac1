package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/pkl_sertifikasi/configs"
	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/jobs"
	"github.com/anjiri1684/pkl_sertifikasi/metrics"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"github.com/anjiri1684/pkl_sertifikasi/routes"
	"github.com/anjiri1684/pkl_sertifikasi/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func serve() error {
	database.ConnectDB()
	if err := database.Migrate(database.DB); err != nil {
		return err
	}
	if seed := database.AdminSeedFromEnv(); seed.Email != "" {
		if err := database.SeedAdmin(database.DB, seed); err != nil {
			slog.Error("🔥 Failed to seed admin user", "error", err)
		}
	}
	notifications.InitEmailService()
	storage.Init()

	scheduler, err := jobs.Start(database.DB)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	app := newApp()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("🔥 Server shutdown failed", "error", err)
		}
	}()

	port := config.ConfigDefault("PORT", "8080")
	slog.Info("✅ Server is running", "port", port)
	if err := app.Listen(":" + port); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       appName,
		CaseSensitive: true,
		BodyLimit:     12 * 1024 * 1024,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			slog.Error("request error", "error", err, "path", c.Path(), "method", c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.ConfigDefault("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   config.ConfigDefault("APP_TIMEZONE", "Asia/Jakarta"),
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(metrics.Middleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to the " + appName + " API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.Setup(app)
	return app
}
