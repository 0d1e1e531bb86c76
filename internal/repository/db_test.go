package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jagakampung-backend/config"
	"jagakampung-backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB membuka SQLite di direktori sementara. Set TEST_MYSQL_DSN untuk
// menjalankan test yang sama terhadap MySQL sungguhan (tabel dibuat ulang tiap test).
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &gorm.Config{TranslateError: true, Logger: logger.Discard}

	var (
		db  *gorm.DB
		err error
	)
	if dsn := strings.TrimSpace(os.Getenv("TEST_MYSQL_DSN")); dsn != "" {
		db, err = gorm.Open(mysql.Open(dsn), cfg)
		require.NoError(t, err)
		require.NoError(t, db.Migrator().DropTable(
			&model.ApprovalDecision{},
			&model.AttendanceEvent{},
			&model.Notification{},
			&model.DutyAssignment{},
			&model.RosterUnit{},
			&model.Resident{},
			&model.Ward{},
		))
	} else {
		db, err = gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ronda.db")), cfg)
		require.NoError(t, err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func seedResident(t *testing.T, db *gorm.DB, name, email, role string) model.Resident {
	t.Helper()
	r := model.Resident{Name: name, Email: email, Password: "x", WardUnit: "01", Role: role, Status: model.StatusActive}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func seedUnit(t *testing.T, db *gorm.DB, wardUnit string, month, year int) model.RosterUnit {
	t.Helper()
	u := model.RosterUnit{WardUnit: wardUnit, Month: month, Year: year, CreatedBy: 1, Version: 1}
	require.NoError(t, NewRosterRepository(db).Create(context.Background(), &u))
	return u
}

func march(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }
