package config

import (
	"log"
	"os"
	"time"

	"jagakampung-backend/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB membuka koneksi MySQL. TranslateError aktif agar pelanggaran unique index
// sampai ke repository sebagai gorm.ErrDuplicatedKey.
func ConnectDB(cfg *Config, lg *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				Colorful:      false,
				LogLevel:      logger.Error,
				SlowThreshold: time.Second,
			},
		),
	})
	if err != nil {
		return nil, err
	}

	if sqlDB, derr := db.DB(); derr == nil {
		sqlDB.SetMaxOpenConns(GetEnvAsInt("DB_MAX_OPEN_CONNS", 50))
		sqlDB.SetMaxIdleConns(GetEnvAsInt("DB_MAX_IDLE_CONNS", 25))
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil {
		lg.WithError(pluginErr).Warn("Database terhubung tetapi plugin otelgorm gagal dipasang")
	}

	lg.WithField("host", cfg.DBHost).Info("Koneksi Database Berhasil!")
	return db, nil
}

// Migrate membuat/menyesuaikan tabel berdasarkan struct di folder model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Ward{},
		&model.Resident{},
		&model.RosterUnit{},
		&model.DutyAssignment{},
		&model.AttendanceEvent{},
		&model.ApprovalDecision{},
		&model.Notification{},
	)
}
