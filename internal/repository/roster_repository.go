package repository

import (
	"context"
	"time"

	"jagakampung-backend/internal/model"

	"gorm.io/gorm"
)

type RosterFilter struct {
	WardUnit string
	Month    int
	Year     int
}

type RosterRepository interface {
	Create(ctx context.Context, unit *model.RosterUnit) error
	FindByID(ctx context.Context, id uint) (*model.RosterUnit, error)
	FindByPeriod(ctx context.Context, wardUnit string, month, year int) (*model.RosterUnit, error)
	List(ctx context.Context, filter RosterFilter) ([]model.RosterUnit, error)
	Count(ctx context.Context) (int64, error)

	// Mutasi petugas hanya berhasil jika version unit masih sama dengan yang dibaca.
	AddAssignment(ctx context.Context, unitID uint, version int, a *model.DutyAssignment) error
	UpdateAssignment(ctx context.Context, unitID uint, version int, a *model.DutyAssignment) error
	RemoveAssignment(ctx context.Context, unitID uint, version int, assignmentID string) error

	// Delete menghapus unit beserta petugasnya dan mengosongkan roster_unit_id
	// pada absensi yang merujuk unit tersebut, dalam satu transaksi.
	Delete(ctx context.Context, id uint) error
}

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db}
}

const (
	msgRosterNotFound     = "Jadwal tidak ditemukan"
	msgRosterDuplicate    = "Jadwal untuk RT, bulan, dan tahun ini sudah ada"
	msgAssignmentNotFound = "Petugas tidak ditemukan"
)

func orderedAssignments(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (r *rosterRepository) Create(ctx context.Context, unit *model.RosterUnit) error {
	err := r.db.WithContext(ctx).Omit("Assignments").Create(unit).Error
	return translate(err, msgRosterNotFound, msgRosterDuplicate)
}

func (r *rosterRepository) FindByID(ctx context.Context, id uint) (*model.RosterUnit, error) {
	var unit model.RosterUnit
	err := r.db.WithContext(ctx).Preload("Assignments", orderedAssignments).First(&unit, id).Error
	if err != nil {
		return nil, translate(err, msgRosterNotFound, "")
	}
	return &unit, nil
}

func (r *rosterRepository) FindByPeriod(ctx context.Context, wardUnit string, month, year int) (*model.RosterUnit, error) {
	var unit model.RosterUnit
	err := r.db.WithContext(ctx).Preload("Assignments", orderedAssignments).
		Where("ward_unit = ? AND month = ? AND year = ?", wardUnit, month, year).
		First(&unit).Error
	if err != nil {
		return nil, translate(err, msgRosterNotFound, "")
	}
	return &unit, nil
}

func (r *rosterRepository) List(ctx context.Context, filter RosterFilter) ([]model.RosterUnit, error) {
	query := r.db.WithContext(ctx).Preload("Assignments", orderedAssignments)
	if filter.WardUnit != "" {
		query = query.Where("ward_unit = ?", filter.WardUnit)
	}
	if filter.Month != 0 {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}

	var units []model.RosterUnit
	err := query.Order("year desc").Order("month desc").Order("ward_unit asc").Find(&units).Error
	return units, err
}

func (r *rosterRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.RosterUnit{}).Count(&total).Error
	return total, err
}

// bumpVersion menaikkan version unit; gagal dengan ErrStaleRoster jika version sudah berubah.
func bumpVersion(tx *gorm.DB, unitID uint, version int) error {
	res := tx.Model(&model.RosterUnit{}).
		Where("id = ? AND version = ?", unitID, version).
		Updates(map[string]interface{}{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleRoster
	}
	return nil
}

func (r *rosterRepository) AddAssignment(ctx context.Context, unitID uint, version int, a *model.DutyAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, unitID, version); err != nil {
			return err
		}
		a.RosterUnitID = unitID
		return tx.Create(a).Error
	})
}

func (r *rosterRepository) UpdateAssignment(ctx context.Context, unitID uint, version int, a *model.DutyAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Cek keberadaan dengan SELECT: MySQL menghitung RowsAffected 0 bila nilai tidak berubah
		var found int64
		if err := tx.Model(&model.DutyAssignment{}).
			Where("id = ? AND roster_unit_id = ?", a.ID, unitID).
			Count(&found).Error; err != nil {
			return err
		}
		if found == 0 {
			return translate(gorm.ErrRecordNotFound, msgAssignmentNotFound, "")
		}
		if err := bumpVersion(tx, unitID, version); err != nil {
			return err
		}
		return tx.Model(&model.DutyAssignment{}).
			Where("id = ? AND roster_unit_id = ?", a.ID, unitID).
			Select("guard_name", "day", "weekday", "phone", "notes", "email").
			Updates(a).Error
	})
}

func (r *rosterRepository) RemoveAssignment(ctx context.Context, unitID uint, version int, assignmentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, unitID, version); err != nil {
			return err
		}
		res := tx.Where("id = ? AND roster_unit_id = ?", assignmentID, unitID).Delete(&model.DutyAssignment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, msgAssignmentNotFound, "")
		}
		return nil
	})
}

func (r *rosterRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Unscoped supaya absensi yang sudah soft-delete juga tidak menunjuk unit yang hilang
		if err := tx.Unscoped().Model(&model.AttendanceEvent{}).
			Where("roster_unit_id = ?", id).
			Update("roster_unit_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("roster_unit_id = ?", id).Delete(&model.DutyAssignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.RosterUnit{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, msgRosterNotFound, "")
		}
		return nil
	})
}
