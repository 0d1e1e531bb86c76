package repository

import (
	"context"
	"time"

	"jagakampung-backend/internal/model"

	"gorm.io/gorm"
)

// AttendanceFilter memfilter daftar absensi. Nilai kosong berarti tidak difilter.
// Rentang waktu setengah terbuka [From, To).
type AttendanceFilter struct {
	ResidentID   uint
	RosterUnitID uint
	WardUnit     string
	Presence     string
	Kind         string
	Approval     string
	From         time.Time
	To           time.Time
	Limit        int
}

type AttendanceRepository interface {
	Create(ctx context.Context, e *model.AttendanceEvent) error
	FindByID(ctx context.Context, id uint) (*model.AttendanceEvent, error)
	// LatestForSlot mengembalikan absensi terbaru untuk (warga, jadwal, kelas, jenis)
	// dalam rentang [from, to), atau nil jika belum ada.
	LatestForSlot(ctx context.Context, residentID, unitID uint, presence, kind string, from, to time.Time) (*model.AttendanceEvent, error)
	List(ctx context.Context, filter AttendanceFilter) ([]model.AttendanceEvent, error)
	// ApplyDecision menyimpan keputusan admin beserta slot aktif baru dan mencatat riwayatnya.
	ApplyDecision(ctx context.Context, id uint, approved bool, approver uint, at time.Time, slot *string) (*model.AttendanceEvent, error)
	Decisions(ctx context.Context, id uint) ([]model.ApprovalDecision, error)
	// Delete menghapus permanen dan mengembalikan baris yang dihapus (untuk melepas foto).
	Delete(ctx context.Context, id uint) (*model.AttendanceEvent, error)
	CountPending(ctx context.Context) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

const (
	msgAttendanceNotFound  = "Data absensi tidak ditemukan"
	msgAttendanceDuplicate = "Anda sudah melakukan absensi ini hari ini"
)

func (r *attendanceRepository) Create(ctx context.Context, e *model.AttendanceEvent) error {
	err := r.db.WithContext(ctx).Omit("Resident", "RosterUnit", "Approver").Create(e).Error
	return translate(err, msgAttendanceNotFound, msgAttendanceDuplicate)
}

func (r *attendanceRepository) FindByID(ctx context.Context, id uint) (*model.AttendanceEvent, error) {
	var e model.AttendanceEvent
	err := r.db.WithContext(ctx).
		Preload("Resident").Preload("RosterUnit").Preload("Approver").
		First(&e, id).Error
	if err != nil {
		return nil, translate(err, msgAttendanceNotFound, "")
	}
	return &e, nil
}

func (r *attendanceRepository) LatestForSlot(ctx context.Context, residentID, unitID uint, presence, kind string, from, to time.Time) (*model.AttendanceEvent, error) {
	var e model.AttendanceEvent
	err := r.db.WithContext(ctx).
		Where("resident_id = ? AND roster_unit_id = ? AND presence = ? AND kind = ?", residentID, unitID, presence, kind).
		Where("date >= ? AND date < ?", from, to).
		Order("date desc").Order("id desc").
		Limit(1).Find(&e).Error
	if err != nil {
		return nil, err
	}
	if e.ID == 0 {
		return nil, nil
	}
	return &e, nil
}

func (r *attendanceRepository) List(ctx context.Context, f AttendanceFilter) ([]model.AttendanceEvent, error) {
	query := r.db.WithContext(ctx).Preload("Resident").Preload("Approver")

	if f.ResidentID != 0 {
		query = query.Where("resident_id = ?", f.ResidentID)
	}
	if f.RosterUnitID != 0 {
		query = query.Where("roster_unit_id = ?", f.RosterUnitID)
	}
	if f.WardUnit != "" {
		query = query.Where("ward_unit = ?", f.WardUnit)
	}
	if f.Presence != "" {
		query = query.Where("presence = ?", f.Presence)
	}
	if f.Kind != "" {
		query = query.Where("kind = ?", f.Kind)
	}
	switch f.Approval {
	case model.ApprovalPending:
		query = query.Where("approved IS NULL")
	case model.ApprovalApproved:
		query = query.Where("approved = ?", true)
	case model.ApprovalRejected:
		query = query.Where("approved = ?", false)
	}
	if !f.From.IsZero() {
		query = query.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		query = query.Where("date < ?", f.To)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var events []model.AttendanceEvent
	err := query.Order("date desc").Order("id desc").Find(&events).Error
	return events, err
}

func (r *attendanceRepository) ApplyDecision(ctx context.Context, id uint, approved bool, approver uint, at time.Time, slot *string) (*model.AttendanceEvent, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&model.AttendanceEvent{}).Where("id = ?", id).Count(&found).Error; err != nil {
			return err
		}
		if found == 0 {
			return gorm.ErrRecordNotFound
		}
		err := tx.Model(&model.AttendanceEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
			"approved":    approved,
			"approved_by": approver,
			"approved_at": at,
			"active_slot": slot,
		}).Error
		if err != nil {
			return err
		}
		return tx.Create(&model.ApprovalDecision{
			AttendanceEventID: id,
			Approved:          approved,
			DecidedBy:         approver,
			DecidedAt:         at,
		}).Error
	})
	if err != nil {
		return nil, translate(err, msgAttendanceNotFound, "Warga sudah memiliki absensi aktif untuk slot ini")
	}
	return r.FindByID(ctx, id)
}

func (r *attendanceRepository) Decisions(ctx context.Context, id uint) ([]model.ApprovalDecision, error) {
	var decisions []model.ApprovalDecision
	err := r.db.WithContext(ctx).
		Where("attendance_event_id = ?", id).
		Order("decided_at asc").Order("id asc").
		Find(&decisions).Error
	return decisions, err
}

func (r *attendanceRepository) Delete(ctx context.Context, id uint) (*model.AttendanceEvent, error) {
	var e model.AttendanceEvent
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			return err
		}
		if err := tx.Where("attendance_event_id = ?", id).Delete(&model.ApprovalDecision{}).Error; err != nil {
			return err
		}
		// Hapus permanen agar active_slot (unique) ikut hilang
		return tx.Unscoped().Delete(&model.AttendanceEvent{}, id).Error
	})
	if err != nil {
		return nil, translate(err, msgAttendanceNotFound, "")
	}
	return &e, nil
}

func (r *attendanceRepository) CountPending(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.AttendanceEvent{}).Where("approved IS NULL").Count(&total).Error
	return total, err
}
