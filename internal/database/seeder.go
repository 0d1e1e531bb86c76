package database

import (
	"fmt"

	"jagakampung-backend/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll mengisi data awal: RT 01-06, akun admin, dan beberapa warga contoh.
// Aman dijalankan berulang karena memakai FirstOrCreate.
func SeedAll(db *gorm.DB, lg *logrus.Logger) error {
	// 1. Seed RT. RT 01 diberi titik pos ronda sebagai contoh.
	postLat, postLng := -0.9416, 100.3700
	for _, code := range model.WardUnits {
		ward := model.Ward{Code: code, Name: "RT " + code, IsActive: true}
		if code == "01" {
			ward.Address = "Pos Ronda Simpang Tiga"
			ward.Latitude = &postLat
			ward.Longitude = &postLng
			ward.RadiusMeter = 50
		}
		if err := db.Where(model.Ward{Code: code}).FirstOrCreate(&ward).Error; err != nil {
			return fmt.Errorf("seed RT %s: %w", code, err)
		}
	}

	// 2. Seed Akun Admin
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.Resident{
		Name:     "Administrator Kampung",
		Email:    "admin@kampung.id",
		Password: string(hashedPassword),
		Role:     model.RoleAdmin,
		Status:   model.StatusActive,
	}
	if err := db.Where(model.Resident{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	// Paksa password admin selalu "admin123" meskipun akun sudah ada
	db.Model(&admin).Update("password", string(hashedPassword))
	lg.Info("Seeding Admin berhasil!")

	// 3. Seed Warga contoh
	wargaPassword, err := bcrypt.GenerateFromPassword([]byte("ronda123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	warga := []model.Resident{
		{Name: "Budi Santoso", Email: "budi@kampung.id", Phone: "+6281234567890", WardUnit: "01"},
		{Name: "Siti Rahma", Email: "siti@kampung.id", Phone: "+6281234567891", WardUnit: "01"},
		{Name: "Andi Saputra", Email: "andi@kampung.id", Phone: "+6281234567892", WardUnit: "02"},
	}
	for _, w := range warga {
		w.Password = string(wargaPassword)
		w.Role = model.RoleUser
		w.Status = model.StatusActive
		if err := db.Where(model.Resident{Email: w.Email}).FirstOrCreate(&w).Error; err != nil {
			return fmt.Errorf("seed warga %s: %w", w.Email, err)
		}
	}

	lg.WithField("warga", len(warga)).Info("Seeding warga contoh berhasil!")
	return nil
}
