package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"kantorku_backend/internals/configs"
	database "kantorku_backend/internals/databases"
	"kantorku_backend/internals/features/attendance"
	helper "kantorku_backend/internals/helpers"
	middlewares "kantorku_backend/internals/middlewares"
	routes "kantorku_backend/internals/route"
	"kantorku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.LoadAttendanceConfig()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler:            helper.FiberErrorHandler,
	})

	middlewares.SetupMiddlewares(app)
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔌 DB connect + pool + migrasi + warm-up
	database.ConnectDB()
	database.TunePool()
	if configs.GetEnvBool("DB_AUTO_MIGRATE", true) {
		if err := database.Migrate(database.DB); err != nil {
			log.Fatalf("❌ Migrasi gagal: %v", err)
		}
	}
	database.WarmUpQueries()

	// 🌱 data contoh (dev / staging saja)
	if configs.GetEnvBool("SEED_ON_START", false) {
		seeds.RunAllSeeds(database.DB)
	}

	// 📡 sumber event real-time (Redis / HTTP)
	if cfg.ReconcileSource == "" || cfg.ReconcileSource == "redis" {
		database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	src, err := attendance.NewEventSource(cfg, database.Redis)
	if err != nil {
		log.Fatalf("❌ Sumber event: %v", err)
	}

	mod := attendance.NewModule(database.DB, src, cfg)

	// ⏱ cron rekonsiliasi + close-day setelah DB siap
	cron, err := mod.NewScheduler(cfg)
	if err != nil {
		log.Fatalf("❌ Scheduler: %v", err)
	}
	cron.Start()

	// 📶 tap reader via MQTT (opsional)
	readers := mod.StartReaders(cfg)

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, database.Redis, mod)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: HTTP → MQTT → cron → Redis → DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if readers != nil {
		readers.Disconnect()
	}
	cron.Stop(ctx)

	if database.Redis != nil {
		_ = database.Redis.Close()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
