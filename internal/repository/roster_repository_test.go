package repository

import (
	"context"
	"testing"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func budiOn(day int, weekday string) *model.DutyAssignment {
	return &model.DutyAssignment{ID: "a-budi", GuardName: "Budi", Day: day, Weekday: weekday, Phone: "+6281234567890", Email: "budi@kampung.id"}
}

func TestRosterRepository_UniquePeriod(t *testing.T) {
	db := openTestDB(t)
	repo := NewRosterRepository(db)
	ctx := context.Background()

	unit := seedUnit(t, db, "01", 3, 2026)
	assert.NotZero(t, unit.ID)

	err := repo.Create(ctx, &model.RosterUnit{WardUnit: "01", Month: 3, Year: 2026, Version: 1})
	require.Error(t, err)
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(err))

	// RT lain atau bulan lain boleh
	require.NoError(t, repo.Create(ctx, &model.RosterUnit{WardUnit: "02", Month: 3, Year: 2026, Version: 1}))
	require.NoError(t, repo.Create(ctx, &model.RosterUnit{WardUnit: "01", Month: 4, Year: 2026, Version: 1}))

	found, err := repo.FindByPeriod(ctx, "01", 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, unit.ID, found.ID)

	_, err = repo.FindByPeriod(ctx, "03", 3, 2026)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	list, err := repo.List(ctx, RosterFilter{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRosterRepository_StaleVersion(t *testing.T) {
	db := openTestDB(t)
	repo := NewRosterRepository(db)
	ctx := context.Background()
	unit := seedUnit(t, db, "01", 3, 2026)

	require.NoError(t, repo.AddAssignment(ctx, unit.ID, 1, budiOn(10, "Selasa")))

	// Request kedua masih memegang version 1
	err := repo.AddAssignment(ctx, unit.ID, 1, &model.DutyAssignment{ID: "a-siti", GuardName: "Siti", Day: 10, Weekday: "Selasa"})
	assert.ErrorIs(t, err, ErrStaleRoster)
	assert.ErrorIs(t, repo.RemoveAssignment(ctx, unit.ID, 1, "a-budi"), ErrStaleRoster)
	assert.ErrorIs(t, repo.UpdateAssignment(ctx, unit.ID, 1, budiOn(11, "Rabu")), ErrStaleRoster)

	got, err := repo.FindByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	require.Len(t, got.Assignments, 1)
	assert.Equal(t, "Budi", got.Assignments[0].GuardName)
}

func TestRosterRepository_UpdateAssignment(t *testing.T) {
	db := openTestDB(t)
	repo := NewRosterRepository(db)
	ctx := context.Background()
	unit := seedUnit(t, db, "01", 3, 2026)
	require.NoError(t, repo.AddAssignment(ctx, unit.ID, 1, budiOn(10, "Selasa")))

	// Simpan ulang tanpa perubahan tetap berhasil
	require.NoError(t, repo.UpdateAssignment(ctx, unit.ID, 2, budiOn(10, "Selasa")))

	require.NoError(t, repo.UpdateAssignment(ctx, unit.ID, 3, budiOn(11, "Rabu")))

	err := repo.UpdateAssignment(ctx, unit.ID, 4, &model.DutyAssignment{ID: "tidak-ada", GuardName: "X", Day: 1, Weekday: "Minggu"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	other := seedUnit(t, db, "02", 3, 2026)
	err = repo.UpdateAssignment(ctx, other.ID, 1, budiOn(12, "Kamis"))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err), "petugas milik unit lain")

	got, err := repo.FindByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Version, "update yang gagal tidak menaikkan version")
	require.Len(t, got.Assignments, 1)
	assert.Equal(t, 11, got.Assignments[0].Day)
	assert.Equal(t, "Rabu", got.Assignments[0].Weekday)

	require.NoError(t, repo.RemoveAssignment(ctx, unit.ID, 4, "a-budi"))
	err = repo.RemoveAssignment(ctx, unit.ID, 5, "a-budi")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRosterRepository_DeleteNullsAttendance(t *testing.T) {
	db := openTestDB(t)
	repo := NewRosterRepository(db)
	attendances := NewAttendanceRepository(db)
	ctx := context.Background()

	budi := seedResident(t, db, "Budi", "budi@kampung.id", model.RoleUser)
	unit := seedUnit(t, db, "01", 3, 2026)
	require.NoError(t, repo.AddAssignment(ctx, unit.ID, 1, budiOn(10, "Selasa")))

	event := checkIn(budi.ID, unit.ID, march(10, 12), model.KindCheckIn)
	require.NoError(t, attendances.Create(ctx, event))

	require.NoError(t, repo.Delete(ctx, unit.ID))

	got, err := attendances.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RosterUnitID)
	assert.Nil(t, got.RosterUnit)
	assert.Equal(t, "01", got.WardUnit, "absensi tetap bisa direkap per RT")

	var assignments int64
	require.NoError(t, db.Model(&model.DutyAssignment{}).Where("roster_unit_id = ?", unit.ID).Count(&assignments).Error)
	assert.Zero(t, assignments)

	err = repo.Delete(ctx, unit.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

// MySQL tanpa clientFoundRows melaporkan 0 baris terpengaruh jika nilai yang
// ditulis sama dengan yang tersimpan.
func TestRosterRepository_UpdateAssignment_MySQLUnchangedRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{TranslateError: true, Logger: logger.Discard})
	require.NoError(t, err)
	repo := NewRosterRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `duty_assignments`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectExec("UPDATE `roster_units`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `duty_assignments`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = repo.UpdateAssignment(context.Background(), 7, 3, budiOn(10, "Selasa"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `duty_assignments`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectRollback()

	err = repo.UpdateAssignment(context.Background(), 7, 4, budiOn(10, "Selasa"))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
