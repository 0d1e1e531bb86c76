package usecase

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"strconv"
	"sync"
	"testing"
	"time"

	"jagakampung-backend/internal/lock"
	"jagakampung-backend/internal/logger"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/notification"
	"jagakampung-backend/internal/repository/repotest"
	"jagakampung-backend/internal/storage"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.March, day, hour, minute, 0, 0, wib)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type recordingNotifier struct {
	mu        sync.Mutex
	admins    []notification.Message
	residents map[uint][]notification.Message
	emails    map[string][]notification.Message
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		residents: make(map[uint][]notification.Message),
		emails:    make(map[string][]notification.Message),
	}
}

func (n *recordingNotifier) NotifyResidents(_ context.Context, ids []uint, msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, id := range ids {
		n.residents[id] = append(n.residents[id], msg)
	}
}

func (n *recordingNotifier) NotifyAdmins(_ context.Context, msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.admins = append(n.admins, msg)
}

func (n *recordingNotifier) NotifyEmail(_ context.Context, email string, msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails[email] = append(n.emails[email], msg)
}

type memStorage struct {
	mu      sync.Mutex
	err     error
	stored  []string
	deleted []string
}

func (m *memStorage) Store(_ context.Context, folder string, _ []byte, _ string) (storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return storage.Object{}, m.err
	}
	name := folder + "/foto.jpg"
	m.stored = append(m.stored, name)
	return storage.Object{URL: "/uploads/" + name, Ref: "mem:" + name}, nil
}

func (m *memStorage) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, ref)
	return nil
}

var errBucketDown = errors.New("bucket tidak bisa diakses")

func photo(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(40, 30, color.NRGBA{R: 20, G: 120, B: 20, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

type fixture struct {
	store    *repotest.Store
	clock    *clock
	notifier *recordingNotifier
	storage  *memStorage

	rosters     *RosterUsecase
	attendances *AttendanceUsecase
	partners    *PartnerUsecase
	reports     *ReportUsecase

	admin model.Resident
	budi  model.Resident
	siti  model.Resident
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    repotest.NewStore(),
		clock:    &clock{t: at(10, 7, 0)},
		notifier: newRecordingNotifier(),
		storage:  &memStorage{},
	}
	locker := lock.NewLocalLocker()
	log := logger.Discard()

	f.admin = f.store.AddResident(model.Resident{Name: "Pak RW", Email: "admin@kampung.id", Role: model.RoleAdmin})
	f.budi = f.store.AddResident(model.Resident{Name: "Budi", Email: "budi@kampung.id", WardUnit: "01"})
	f.siti = f.store.AddResident(model.Resident{Name: "Siti", Email: "siti@kampung.id", WardUnit: "01"})

	f.rosters = NewRosterUsecase(f.store.Rosters(), locker, f.notifier, log, 2024)
	f.rosters.now = f.clock.Now
	f.attendances = NewAttendanceUsecase(AttendanceDeps{
		Attendances: f.store.Attendances(),
		Rosters:     f.store.Rosters(),
		Residents:   f.store.Residents(),
		Wards:       f.store.Wards(),
		Storage:     f.storage,
		Locker:      locker,
		Notifier:    f.notifier,
		Log:         log,
		Location:    wib,
		PhotoWidth:  640,
		Now:         f.clock.Now,
	})
	f.partners = NewPartnerUsecase(f.store.Rosters(), f.store.Residents(), wib)
	f.partners.now = f.clock.Now
	f.reports = NewReportUsecase(f.store.Attendances(), f.store.Rosters(), f.store.Residents(), wib)
	f.reports.now = f.clock.Now
	return f
}

// marchUnit membuat jadwal RT 01 Maret 2026.
func (f *fixture) marchUnit(t *testing.T) *model.RosterUnit {
	t.Helper()
	unit, err := f.rosters.CreateUnit(context.Background(), CreateUnitInput{WardUnit: "01", Month: 3, Year: 2026}, f.admin.ID)
	require.NoError(t, err)
	return unit
}

func (f *fixture) assign(t *testing.T, unitID uint, name, email string, day int) *model.RosterUnit {
	t.Helper()
	unit, err := f.rosters.AddAssignment(context.Background(), unitID, AssignmentInput{
		GuardName: name,
		Day:       FlexString(strconv.Itoa(day)),
		Email:     email,
	})
	require.NoError(t, err)
	return unit
}

func (f *fixture) submit(unitID uint, resident model.Resident, kind string) (*model.AttendanceEvent, error) {
	return f.attendances.Submit(context.Background(), SubmitInput{
		ResidentID:   resident.ID,
		RosterUnitID: unitID,
		Kind:         kind,
	})
}
