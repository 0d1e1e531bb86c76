package main

import (
	"jagakampung-backend/config"
	"jagakampung-backend/internal/database"
	"jagakampung-backend/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	lg := logger.Get()
	lg.Info("Memulai Database Seeding...")

	// Load .env manual karena ini script terpisah
	if err := godotenv.Load(); err != nil {
		lg.Warn("File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	cfg, err := config.Load()
	if err != nil {
		lg.WithError(err).Fatal("Konfigurasi tidak valid")
	}

	db, err := config.ConnectDB(cfg, lg)
	if err != nil {
		lg.WithError(err).Fatal("Gagal koneksi ke database")
	}
	if err := config.Migrate(db); err != nil {
		lg.WithError(err).Fatal("Gagal migrasi database")
	}

	if err := database.SeedAll(db, lg); err != nil {
		lg.WithError(err).Fatal("Seeding gagal")
	}
	lg.Info("Seeding Selesai!")
}
