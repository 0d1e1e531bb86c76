package main

import (
	"context"

	"jagakampung-backend/config"
	"jagakampung-backend/internal/lock"
	"jagakampung-backend/internal/logger"
	"jagakampung-backend/internal/notification"
	"jagakampung-backend/internal/routes"
	"jagakampung-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Get().WithError(err).Fatal("Konfigurasi tidak valid")
	}

	lg := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
		File:   cfg.LogFile,
	})
	if envErr != nil {
		lg.Warn("File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	loc, err := cfg.Location()
	if err != nil {
		lg.WithError(err).WithField("timezone", cfg.WardTimezone).Fatal("Zona waktu RT tidak dikenal")
	}

	lg.Info("Mencoba koneksi ke Database...")
	db, err := config.ConnectDB(cfg, lg)
	if err != nil {
		lg.WithError(err).Fatal("Gagal koneksi ke database")
	}
	if err := config.Migrate(db); err != nil {
		lg.WithError(err).Fatal("Gagal migrasi database")
	}

	ctx := context.Background()

	// Lock jadwal & absensi: Redis jika tersedia, selain itu lock lokal
	var locker lock.Locker = lock.NewLocalLocker()
	if rdb := config.ConnectRedis(ctx, cfg, lg); rdb != nil {
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb)
	}

	// Penyimpanan foto: GCS dengan cadangan disk lokal
	local := storage.NewLocal(cfg.UploadDir, "/uploads")
	var photos storage.Storage = local
	if cfg.GCSBucket != "" {
		gcs, gerr := storage.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
		if gerr != nil {
			lg.WithError(gerr).Warn("Gagal inisialisasi GCS, foto disimpan di disk lokal")
		} else {
			defer gcs.Close()
			photos = &storage.Fallback{Primary: gcs, Secondary: local, Log: lg}
		}
	}

	container := &routes.Container{
		Locker:        locker,
		Storage:       photos,
		Log:           lg,
		Location:      loc,
		JWTSecret:     cfg.JWTSecret,
		MinRosterYear: cfg.MinRosterYear,
		PhotoWidth:    cfg.PhotoMaxWidth,
	}
	container.NewRepositories(db)

	var mailer notification.Mailer
	if m := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}); m != nil {
		mailer = m
	}
	container.Notifier = notification.NewDispatcher(container.Notifications, container.Residents, mailer, lg)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})

	// Middleware Global
	app.Use(recover.New())
	app.Use(cors.New())         // Agar API bisa diakses dari domain/port lain
	app.Use(fiberlogger.New()) // Agar log request muncul di terminal

	// Foto lokal bisa dibuka via http://localhost:3000/uploads/...
	app.Static("/uploads", cfg.UploadDir)

	routes.SetupAll(app, container)

	lg.WithField("port", cfg.AppPort).Info("Server siap menerima request")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		lg.WithError(err).Fatal("Server berhenti")
	}
}
