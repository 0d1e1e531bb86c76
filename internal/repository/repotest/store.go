// Package repotest menyediakan implementasi repository di memori untuk test usecase dan handler.
// Unique index (jadwal per periode, slot absensi aktif) dan version jadwal ikut ditiru.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/repository"
)

type Store struct {
	mu sync.Mutex

	residents     map[uint]model.Resident
	wards         map[string]model.Ward
	units         map[uint]model.RosterUnit
	events        map[uint]model.AttendanceEvent
	decisions     []model.ApprovalDecision
	notifications map[uint]model.Notification

	nextID uint

	notificationErr error
	eventCreateHook func()
}

func NewStore() *Store {
	return &Store{
		residents:     make(map[uint]model.Resident),
		wards:         make(map[string]model.Ward),
		units:         make(map[uint]model.RosterUnit),
		events:        make(map[uint]model.AttendanceEvent),
		notifications: make(map[uint]model.Notification),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// AddResident menyimpan warga dan mengembalikan salinan dengan ID terisi.
func (s *Store) AddResident(r model.Resident) model.Resident {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id()
	r.Email = model.NormalizeEmail(r.Email)
	if r.Status == "" {
		r.Status = model.StatusActive
	}
	if r.Role == "" {
		r.Role = model.RoleUser
	}
	s.residents[r.ID] = r
	return r
}

func (s *Store) AddWard(w model.Ward) model.Ward {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = s.id()
	s.wards[w.Code] = w
	return w
}

// FailNotifications membuat semua penulisan notifikasi gagal dengan err.
func (s *Store) FailNotifications(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationErr = err
}

// OnEventCreate dipanggil (tanpa memegang lock) tepat sebelum absensi disimpan.
func (s *Store) OnEventCreate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventCreateHook = fn
}

// Events mengembalikan semua absensi yang tersimpan, urut ID.
func (s *Store) Events() []model.AttendanceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AttendanceEvent, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Residents() repository.ResidentRepository         { return residentRepo{s} }
func (s *Store) Wards() repository.WardRepository                 { return wardRepo{s} }
func (s *Store) Rosters() repository.RosterRepository             { return rosterRepo{s} }
func (s *Store) Attendances() repository.AttendanceRepository     { return attendanceRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }

// ---- residents ----

type residentRepo struct{ s *Store }

func (r residentRepo) FindByID(_ context.Context, id uint) (*model.Resident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.residents[id]
	if !ok {
		return nil, apperror.NotFound("Warga tidak ditemukan")
	}
	return &res, nil
}

func (r residentRepo) FindByEmail(_ context.Context, email string) (*model.Resident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = model.NormalizeEmail(email)
	for _, res := range r.s.residents {
		if res.Email == email {
			return &res, nil
		}
	}
	return nil, apperror.NotFound("Warga tidak ditemukan")
}

func (r residentRepo) FindByEmails(_ context.Context, emails []string) (map[string]model.Resident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]bool, len(emails))
	for _, e := range emails {
		want[model.NormalizeEmail(e)] = true
	}
	out := make(map[string]model.Resident)
	for _, res := range r.s.residents {
		if want[res.Email] {
			out[res.Email] = res
		}
	}
	return out, nil
}

func (r residentRepo) ListAdmins(_ context.Context) ([]model.Resident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Resident
	for _, res := range r.s.residents {
		if res.Role == model.RoleAdmin && res.Status == model.StatusActive {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r residentRepo) CountByWard(_ context.Context) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]int64)
	for _, res := range r.s.residents {
		if res.Role == model.RoleUser && res.Status == model.StatusActive {
			out[res.WardUnit]++
		}
	}
	return out, nil
}

// ---- wards ----

type wardRepo struct{ s *Store }

func (r wardRepo) List(_ context.Context) ([]model.Ward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Ward
	for _, w := range r.s.wards {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r wardRepo) FindByCode(_ context.Context, code string) (*model.Ward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wards[code]
	if !ok {
		return nil, apperror.NotFound("RT tidak ditemukan")
	}
	return &w, nil
}

// ---- rosters ----

type rosterRepo struct{ s *Store }

func copyUnit(u model.RosterUnit) *model.RosterUnit {
	u.Assignments = append([]model.DutyAssignment(nil), u.Assignments...)
	sort.SliceStable(u.Assignments, func(i, j int) bool { return u.Assignments[i].Position < u.Assignments[j].Position })
	return &u
}

func (r rosterRepo) Create(_ context.Context, unit *model.RosterUnit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.units {
		if u.WardUnit == unit.WardUnit && u.Month == unit.Month && u.Year == unit.Year {
			return apperror.Duplicate("Jadwal untuk RT, bulan, dan tahun ini sudah ada")
		}
	}
	unit.ID = r.s.id()
	if unit.Version == 0 {
		unit.Version = 1
	}
	now := time.Now()
	unit.CreatedAt, unit.UpdatedAt = now, now
	stored := *unit
	stored.Assignments = nil
	r.s.units[unit.ID] = stored
	return nil
}

func (r rosterRepo) FindByID(_ context.Context, id uint) (*model.RosterUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, apperror.NotFound("Jadwal tidak ditemukan")
	}
	return copyUnit(u), nil
}

func (r rosterRepo) FindByPeriod(_ context.Context, wardUnit string, month, year int) (*model.RosterUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.units {
		if u.WardUnit == wardUnit && u.Month == month && u.Year == year {
			return copyUnit(u), nil
		}
	}
	return nil, apperror.NotFound("Jadwal tidak ditemukan")
}

func (r rosterRepo) List(_ context.Context, f repository.RosterFilter) ([]model.RosterUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.RosterUnit
	for _, u := range r.s.units {
		if f.WardUnit != "" && u.WardUnit != f.WardUnit {
			continue
		}
		if f.Month != 0 && u.Month != f.Month {
			continue
		}
		if f.Year != 0 && u.Year != f.Year {
			continue
		}
		out = append(out, *copyUnit(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].WardUnit < out[j].WardUnit
	})
	return out, nil
}

func (r rosterRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.units)), nil
}

// bump harus dipanggil dengan lock terpegang.
func (r rosterRepo) bump(unitID uint, version int) (model.RosterUnit, error) {
	u, ok := r.s.units[unitID]
	if !ok || u.Version != version {
		return u, repository.ErrStaleRoster
	}
	u.Version++
	u.UpdatedAt = time.Now()
	return u, nil
}

func (r rosterRepo) AddAssignment(_ context.Context, unitID uint, version int, a *model.DutyAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, err := r.bump(unitID, version)
	if err != nil {
		return err
	}
	a.RosterUnitID = unitID
	u.Assignments = append(append([]model.DutyAssignment(nil), u.Assignments...), *a)
	r.s.units[unitID] = u
	return nil
}

func (r rosterRepo) UpdateAssignment(_ context.Context, unitID uint, version int, a *model.DutyAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, err := r.bump(unitID, version)
	if err != nil {
		return err
	}
	list := append([]model.DutyAssignment(nil), u.Assignments...)
	for i := range list {
		if list[i].ID == a.ID {
			pos := list[i].Position
			list[i] = *a
			list[i].RosterUnitID = unitID
			list[i].Position = pos
			u.Assignments = list
			r.s.units[unitID] = u
			return nil
		}
	}
	return apperror.NotFound("Petugas tidak ditemukan")
}

func (r rosterRepo) RemoveAssignment(_ context.Context, unitID uint, version int, assignmentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, err := r.bump(unitID, version)
	if err != nil {
		return err
	}
	var list []model.DutyAssignment
	found := false
	for _, a := range u.Assignments {
		if a.ID == assignmentID {
			found = true
			continue
		}
		list = append(list, a)
	}
	if !found {
		return apperror.NotFound("Petugas tidak ditemukan")
	}
	u.Assignments = list
	r.s.units[unitID] = u
	return nil
}

func (r rosterRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[id]; !ok {
		return apperror.NotFound("Jadwal tidak ditemukan")
	}
	for eid, e := range r.s.events {
		if e.RosterUnitID != nil && *e.RosterUnitID == id {
			e.RosterUnitID = nil
			r.s.events[eid] = e
		}
	}
	delete(r.s.units, id)
	return nil
}

// ---- attendances ----

type attendanceRepo struct{ s *Store }

// withRelations harus dipanggil dengan lock terpegang.
func (r attendanceRepo) withRelations(e model.AttendanceEvent) model.AttendanceEvent {
	if res, ok := r.s.residents[e.ResidentID]; ok {
		e.Resident = &res
	}
	if e.ApprovedBy != nil {
		if res, ok := r.s.residents[*e.ApprovedBy]; ok {
			e.Approver = &res
		}
	}
	if e.RosterUnitID != nil {
		if u, ok := r.s.units[*e.RosterUnitID]; ok {
			e.RosterUnit = copyUnit(u)
		}
	}
	return e
}

func (r attendanceRepo) slotTaken(slot *string, except uint) bool {
	if slot == nil {
		return false
	}
	for _, e := range r.s.events {
		if e.ID != except && e.ActiveSlot != nil && *e.ActiveSlot == *slot {
			return true
		}
	}
	return false
}

func (r attendanceRepo) Create(_ context.Context, e *model.AttendanceEvent) error {
	r.s.mu.Lock()
	hook := r.s.eventCreateHook
	r.s.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.slotTaken(e.ActiveSlot, 0) {
		return apperror.Duplicate("Anda sudah melakukan absensi ini hari ini")
	}
	e.ID = r.s.id()
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	stored := *e
	stored.Resident, stored.RosterUnit, stored.Approver = nil, nil, nil
	r.s.events[e.ID] = stored
	return nil
}

func (r attendanceRepo) FindByID(_ context.Context, id uint) (*model.AttendanceEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, apperror.NotFound("Data absensi tidak ditemukan")
	}
	e = r.withRelations(e)
	return &e, nil
}

func (r attendanceRepo) LatestForSlot(_ context.Context, residentID, unitID uint, presence, kind string, from, to time.Time) (*model.AttendanceEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *model.AttendanceEvent
	for _, e := range r.s.events {
		if e.ResidentID != residentID || e.RosterUnitID == nil || *e.RosterUnitID != unitID {
			continue
		}
		if e.Presence != presence || e.Kind != kind {
			continue
		}
		if e.Date.Before(from) || !e.Date.Before(to) {
			continue
		}
		if latest == nil || e.Date.After(latest.Date) || (e.Date.Equal(latest.Date) && e.ID > latest.ID) {
			cp := e
			latest = &cp
		}
	}
	return latest, nil
}

func (r attendanceRepo) List(_ context.Context, f repository.AttendanceFilter) ([]model.AttendanceEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.AttendanceEvent
	for _, e := range r.s.events {
		if f.ResidentID != 0 && e.ResidentID != f.ResidentID {
			continue
		}
		if f.RosterUnitID != 0 && (e.RosterUnitID == nil || *e.RosterUnitID != f.RosterUnitID) {
			continue
		}
		if f.WardUnit != "" && e.WardUnit != f.WardUnit {
			continue
		}
		if f.Presence != "" && e.Presence != f.Presence {
			continue
		}
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if f.Approval != "" && e.ApprovalState() != f.Approval {
			continue
		}
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !e.Date.Before(f.To) {
			continue
		}
		out = append(out, r.withRelations(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r attendanceRepo) ApplyDecision(_ context.Context, id uint, approved bool, approver uint, at time.Time, slot *string) (*model.AttendanceEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, apperror.NotFound("Data absensi tidak ditemukan")
	}
	if r.slotTaken(slot, id) {
		return nil, apperror.Duplicate("Warga sudah memiliki absensi aktif untuk slot ini")
	}
	e.Approved = &approved
	e.ApprovedBy = &approver
	e.ApprovedAt = &at
	e.ActiveSlot = slot
	r.s.events[id] = e
	r.s.decisions = append(r.s.decisions, model.ApprovalDecision{
		ID:                r.s.id(),
		AttendanceEventID: id,
		Approved:          approved,
		DecidedBy:         approver,
		DecidedAt:         at,
	})
	e = r.withRelations(e)
	return &e, nil
}

func (r attendanceRepo) Decisions(_ context.Context, id uint) ([]model.ApprovalDecision, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.ApprovalDecision
	for _, d := range r.s.decisions {
		if d.AttendanceEventID == id {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r attendanceRepo) Delete(_ context.Context, id uint) (*model.AttendanceEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, apperror.NotFound("Data absensi tidak ditemukan")
	}
	delete(r.s.events, id)
	var kept []model.ApprovalDecision
	for _, d := range r.s.decisions {
		if d.AttendanceEventID != id {
			kept = append(kept, d)
		}
	}
	r.s.decisions = kept
	return &e, nil
}

func (r attendanceRepo) CountPending(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.events {
		if e.Approved == nil {
			n++
		}
	}
	return n, nil
}

// ---- notifications ----

type notificationRepo struct{ s *Store }

func (r notificationRepo) CreateMany(_ context.Context, rows []model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.notificationErr != nil {
		return r.s.notificationErr
	}
	now := time.Now()
	for _, n := range rows {
		n.ID = r.s.id()
		n.CreatedAt, n.UpdatedAt = now, now
		r.s.notifications[n.ID] = n
	}
	return nil
}

func (r notificationRepo) ListByResident(_ context.Context, residentID uint, unreadOnly bool, limit int) ([]model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Notification
	for _, n := range r.s.notifications {
		if n.ResidentID != residentID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r notificationRepo) CountUnread(_ context.Context, residentID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, row := range r.s.notifications {
		if row.ResidentID == residentID && !row.Read {
			n++
		}
	}
	return n, nil
}

func (r notificationRepo) MarkRead(_ context.Context, residentID, id uint) (*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.ResidentID != residentID {
		return nil, apperror.NotFound("Notifikasi tidak ditemukan")
	}
	n.Read = true
	r.s.notifications[id] = n
	return &n, nil
}

func (r notificationRepo) MarkAllRead(_ context.Context, residentID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for id, n := range r.s.notifications {
		if n.ResidentID == residentID && !n.Read {
			n.Read = true
			r.s.notifications[id] = n
			count++
		}
	}
	return count, nil
}

func (r notificationRepo) Delete(_ context.Context, residentID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.ResidentID != residentID {
		return apperror.NotFound("Notifikasi tidak ditemukan")
	}
	delete(r.s.notifications, id)
	return nil
}

func (r notificationRepo) DeleteAll(_ context.Context, residentID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for id, n := range r.s.notifications {
		if n.ResidentID == residentID {
			delete(r.s.notifications, id)
			count++
		}
	}
	return count, nil
}
