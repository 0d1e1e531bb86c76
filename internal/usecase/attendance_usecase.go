package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/lock"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/notification"
	"jagakampung-backend/internal/reconcile"
	"jagakampung-backend/internal/repository"
	"jagakampung-backend/internal/storage"

	"github.com/sirupsen/logrus"
)

const (
	attendanceLockTTL = 15 * time.Second
	photoFolder       = "attendance"
)

type SubmitInput struct {
	ResidentID   uint
	RosterUnitID uint
	Kind         string
	Reason       string
	Photo        []byte
	Latitude     *float64
	Longitude    *float64
}

// AttendanceStats adalah ringkasan jumlah untuk daftar absensi.
type AttendanceStats struct {
	Total    int `json:"total"`
	Present  int `json:"present"`
	Excused  int `json:"excused"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// BulkResult adalah hasil per id pada persetujuan massal.
type BulkResult struct {
	ID    uint   `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type AttendanceUsecase struct {
	attendances repository.AttendanceRepository
	rosters     repository.RosterRepository
	residents   repository.ResidentRepository
	wards       repository.WardRepository
	storage     storage.Storage
	locker      lock.Locker
	notifier    notification.Notifier
	log         *logrus.Logger
	loc         *time.Location
	maxWidth    int
	now         func() time.Time
}

type AttendanceDeps struct {
	Attendances repository.AttendanceRepository
	Rosters     repository.RosterRepository
	Residents   repository.ResidentRepository
	Wards       repository.WardRepository
	Storage     storage.Storage
	Locker      lock.Locker
	Notifier    notification.Notifier
	Log         *logrus.Logger
	Location    *time.Location
	PhotoWidth  int
	Now         func() time.Time
}

func NewAttendanceUsecase(d AttendanceDeps) *AttendanceUsecase {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &AttendanceUsecase{
		attendances: d.Attendances,
		rosters:     d.Rosters,
		residents:   d.Residents,
		wards:       d.Wards,
		storage:     d.Storage,
		locker:      d.Locker,
		notifier:    d.Notifier,
		log:         d.Log,
		loc:         d.Location,
		maxWidth:    d.PhotoWidth,
		now:         now,
	}
}

// Submit mencatat absensi baru. Cek duplikat dan insert berjalan di bawah kunci
// (warga, jadwal, hari, jenis); unique index active_slot menjaga jika kunci terlewati.
func (u *AttendanceUsecase) Submit(ctx context.Context, in SubmitInput) (*model.AttendanceEvent, error) {
	unit, err := u.rosters.FindByID(ctx, in.RosterUnitID)
	if err != nil {
		return nil, err
	}

	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	if !model.IsValidKind(kind) {
		return nil, apperror.Validation("type", "harus salah satu dari masuk, pulang, izin")
	}
	presence := model.PresenceFor(kind)

	resident, err := u.residents.FindByID(ctx, in.ResidentID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	from, to := dayWindow(now, u.loc)
	day := from.Format(reconcile.DayLayout)
	key := fmt.Sprintf("attendance:%d:%d:%s:%s", resident.ID, unit.ID, day, kind)

	var event *model.AttendanceEvent
	err = lock.With(ctx, u.locker, key, attendanceLockTTL, func() error {
		latest, err := u.attendances.LatestForSlot(ctx, resident.ID, unit.ID, presence, kind, from, to)
		if err != nil {
			return err
		}
		if latest != nil && latest.ApprovalState() != model.ApprovalRejected {
			return apperror.Duplicate(duplicateMessage(kind))
		}

		var reason *string
		if kind == model.KindExcuse {
			r := strings.TrimSpace(in.Reason)
			if r == "" {
				return apperror.Validation("reason", "Alasan izin wajib diisi")
			}
			reason = &r
		}

		var photo *storage.Object
		if kind != model.KindExcuse && len(in.Photo) > 0 {
			photo, err = u.storePhoto(ctx, in.Photo)
			if err != nil {
				return err
			}
		}

		wardUnit := resident.WardUnit
		if wardUnit == "" {
			wardUnit = unit.WardUnit
		}
		unitID := unit.ID
		slot := model.SlotKey(resident.ID, unit.ID, day, kind)

		event = &model.AttendanceEvent{
			ResidentID:   resident.ID,
			RosterUnitID: &unitID,
			WardUnit:     wardUnit,
			Date:         now,
			Kind:         kind,
			Presence:     presence,
			Reason:       reason,
			Latitude:     in.Latitude,
			Longitude:    in.Longitude,
			ActiveSlot:   &slot,
		}
		if photo != nil {
			event.PhotoURL = &photo.URL
			event.PhotoRef = &photo.Ref
		}
		event.DistanceMeters = u.distanceToPost(ctx, wardUnit, in.Latitude, in.Longitude)

		if err := u.attendances.Create(ctx, event); err != nil {
			if photo != nil {
				u.releasePhoto(ctx, photo.Ref, event)
			}
			if apperror.Is(err, apperror.KindDuplicate) {
				return apperror.Duplicate(duplicateMessage(kind))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event.Resident = resident
	u.notifier.NotifyAdmins(ctx, notification.NewAttendance(resident.Name, event))
	return event, nil
}

func (u *AttendanceUsecase) storePhoto(ctx context.Context, data []byte) (*storage.Object, error) {
	normalized, err := storage.NormalizePhoto(data, u.maxWidth)
	if errors.Is(err, storage.ErrNotImage) {
		return nil, apperror.Validation("photo", "File harus berupa gambar")
	}
	if err != nil {
		return nil, apperror.Dependency("Gagal memproses foto", err)
	}
	obj, err := u.storage.Store(ctx, photoFolder, normalized, "image/jpeg")
	if err != nil {
		return nil, apperror.Dependency("Gagal menyimpan foto", err)
	}
	return &obj, nil
}

func (u *AttendanceUsecase) releasePhoto(ctx context.Context, ref string, e *model.AttendanceEvent) {
	if err := u.storage.Delete(context.WithoutCancel(ctx), ref); err != nil {
		u.log.WithError(apperror.Dependency("gagal menghapus foto", err)).WithFields(logrus.Fields{
			"attendance_id": e.ID,
			"resident_id":   e.ResidentID,
		}).Warn("Foto absensi tidak terhapus")
	}
}

// distanceToPost menghitung jarak ke pos ronda RT bila pos dan koordinat tersedia.
func (u *AttendanceUsecase) distanceToPost(ctx context.Context, wardUnit string, lat, lng *float64) *float64 {
	if lat == nil || lng == nil || u.wards == nil {
		return nil
	}
	ward, err := u.wards.FindByCode(ctx, wardUnit)
	if err != nil || !ward.HasPost() {
		return nil
	}
	d := distanceMeters(*lat, *lng, *ward.Latitude, *ward.Longitude)
	return &d
}

func duplicateMessage(kind string) string {
	switch kind {
	case model.KindCheckIn:
		return "Anda sudah absen masuk hari ini"
	case model.KindCheckOut:
		return "Anda sudah absen pulang hari ini"
	}
	return "Anda sudah mengajukan izin hari ini"
}

// SetApproval menyimpan keputusan admin. Keputusan boleh ditimpa; setiap keputusan dicatat
// di riwayat. Penolakan mengosongkan slot aktif sehingga warga bisa absen ulang.
func (u *AttendanceUsecase) SetApproval(ctx context.Context, eventID uint, approved bool, approverID uint) (*model.AttendanceEvent, error) {
	current, err := u.attendances.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var slot *string
	if approved && current.RosterUnitID != nil {
		s := model.SlotKey(current.ResidentID, *current.RosterUnitID, current.Date.In(u.loc).Format(reconcile.DayLayout), current.Kind)
		slot = &s
	}

	at := u.now()
	event, err := u.attendances.ApplyDecision(ctx, eventID, approved, approverID, at, slot)
	if apperror.Is(err, apperror.KindDuplicate) {
		// Absensi pengganti sudah memegang slot; keputusan tetap disimpan tanpa slot.
		u.log.WithFields(logrus.Fields{
			"attendance_id": eventID,
			"approver_id":   approverID,
		}).Warn("Menyetujui ulang absensi yang slotnya sudah dipakai absensi lain")
		event, err = u.attendances.ApplyDecision(ctx, eventID, approved, approverID, at, nil)
	}
	if err != nil {
		return nil, err
	}

	u.notifier.NotifyResidents(ctx, []uint{event.ResidentID}, notification.AttendanceDecided(event, approved))
	return event, nil
}

// BulkSetApproval menerapkan keputusan yang sama ke banyak absensi secara independen.
func (u *AttendanceUsecase) BulkSetApproval(ctx context.Context, ids []uint, approved bool, approverID uint) []BulkResult {
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		_, err := u.SetApproval(ctx, id, approved, approverID)
		r := BulkResult{ID: id, OK: err == nil}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results
}

func (u *AttendanceUsecase) Get(ctx context.Context, id uint) (*model.AttendanceEvent, error) {
	return u.attendances.FindByID(ctx, id)
}

func (u *AttendanceUsecase) Decisions(ctx context.Context, id uint) ([]model.ApprovalDecision, error) {
	if _, err := u.attendances.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return u.attendances.Decisions(ctx, id)
}

// Delete menghapus absensi lalu melepas fotonya (best-effort).
func (u *AttendanceUsecase) Delete(ctx context.Context, id uint) error {
	deleted, err := u.attendances.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted.PhotoRef != nil {
		u.releasePhoto(ctx, *deleted.PhotoRef, deleted)
	}
	return nil
}

// ListQuery adalah filter daftar absensi dari sisi admin.
type ListQuery struct {
	WardUnit string
	Presence string
	Kind     string
	Approval string
	Start    string // yyyy-mm-dd, inklusif
	End      string // yyyy-mm-dd, inklusif
	Month    int
	Year     int
	Limit    int
}

func (u *AttendanceUsecase) List(ctx context.Context, q ListQuery) ([]model.AttendanceEvent, AttendanceStats, error) {
	filter, err := u.filterFrom(q)
	if err != nil {
		return nil, AttendanceStats{}, err
	}
	events, err := u.attendances.List(ctx, filter)
	if err != nil {
		return nil, AttendanceStats{}, err
	}
	return events, statsOf(events), nil
}

// History mengembalikan riwayat absensi milik satu warga, opsional per bulan.
// Bulan tanpa tahun berarti bulan itu pada tahun berjalan.
func (u *AttendanceUsecase) History(ctx context.Context, residentID uint, year, month, limit int) ([]model.AttendanceEvent, AttendanceStats, error) {
	filter := repository.AttendanceFilter{ResidentID: residentID, Limit: limit}
	switch {
	case month != 0:
		if month < 1 || month > 12 {
			return nil, AttendanceStats{}, apperror.Validation("month", "harus antara 1 dan 12")
		}
		if year == 0 {
			year = u.now().In(u.loc).Year()
		}
		filter.From, filter.To = monthWindow(year, month, u.loc)
	case year != 0:
		filter.From = time.Date(year, 1, 1, 0, 0, 0, 0, u.loc)
		filter.To = filter.From.AddDate(1, 0, 0)
	}
	events, err := u.attendances.List(ctx, filter)
	if err != nil {
		return nil, AttendanceStats{}, err
	}
	return events, statsOf(events), nil
}

// CheckToday mengembalikan semua absensi warga untuk jadwal tersebut hari ini, terbaru dulu.
func (u *AttendanceUsecase) CheckToday(ctx context.Context, residentID, unitID uint) ([]model.AttendanceEvent, error) {
	if _, err := u.rosters.FindByID(ctx, unitID); err != nil {
		return nil, err
	}
	from, to := dayWindow(u.now(), u.loc)
	return u.attendances.List(ctx, repository.AttendanceFilter{
		ResidentID:   residentID,
		RosterUnitID: unitID,
		From:         from,
		To:           to,
	})
}

func (u *AttendanceUsecase) ByWard(ctx context.Context, wardUnit, start, end string) ([]model.AttendanceEvent, error) {
	filter, err := u.filterFrom(ListQuery{WardUnit: wardUnit, Start: start, End: end})
	if err != nil {
		return nil, err
	}
	if filter.WardUnit == "" {
		return nil, apperror.Validation("ward_unit", "wajib diisi")
	}
	return u.attendances.List(ctx, filter)
}

func (u *AttendanceUsecase) filterFrom(q ListQuery) (repository.AttendanceFilter, error) {
	f := repository.AttendanceFilter{Kind: q.Kind, Limit: q.Limit}

	if q.WardUnit != "" {
		f.WardUnit = model.NormalizeWardUnit(q.WardUnit)
		if !model.IsValidWardUnit(f.WardUnit) {
			return f, apperror.Validation("ward_unit", "RT tidak valid")
		}
	}
	if q.Presence != "" {
		if q.Presence != model.PresencePresent && q.Presence != model.PresenceExcused {
			return f, apperror.Validation("status", "harus hadir atau izin")
		}
		f.Presence = q.Presence
	}
	if q.Kind != "" && !model.IsValidKind(q.Kind) {
		return f, apperror.Validation("type", "harus salah satu dari masuk, pulang, izin")
	}
	switch q.Approval {
	case "", model.ApprovalPending, model.ApprovalApproved, model.ApprovalRejected:
		f.Approval = q.Approval
	default:
		return f, apperror.Validation("approved", "harus pending, approved, atau rejected")
	}

	from, to, err := parseRange(q.Start, q.End, u.loc)
	if err != nil {
		return f, err
	}
	f.From, f.To = from, to
	if q.Year != 0 && q.Month != 0 && q.Start == "" && q.End == "" {
		if q.Month < 1 || q.Month > 12 {
			return f, apperror.Validation("month", "harus antara 1 dan 12")
		}
		f.From, f.To = monthWindow(q.Year, q.Month, u.loc)
	}
	return f, nil
}

// parseRange membaca tanggal yyyy-mm-dd (inklusif) menjadi rentang setengah terbuka.
func parseRange(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	var from, to time.Time
	if start != "" {
		t, err := time.ParseInLocation(reconcile.DayLayout, start, loc)
		if err != nil {
			return from, to, apperror.Validation("start", "format tanggal harus YYYY-MM-DD")
		}
		from = t
	}
	if end != "" {
		t, err := time.ParseInLocation(reconcile.DayLayout, end, loc)
		if err != nil {
			return from, to, apperror.Validation("end", "format tanggal harus YYYY-MM-DD")
		}
		to = t.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, apperror.Validation("end", "harus setelah tanggal mulai")
	}
	return from, to, nil
}

func statsOf(events []model.AttendanceEvent) AttendanceStats {
	s := AttendanceStats{Total: len(events)}
	for _, e := range events {
		if e.Presence == model.PresencePresent {
			s.Present++
		} else {
			s.Excused++
		}
		switch e.ApprovalState() {
		case model.ApprovalApproved:
			s.Approved++
		case model.ApprovalRejected:
			s.Rejected++
		default:
			s.Pending++
		}
	}
	return s
}
