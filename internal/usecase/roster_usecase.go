package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/lock"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/notification"
	"jagakampung-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const rosterLockTTL = 10 * time.Second

type CreateUnitInput struct {
	WardUnit string `json:"ward_unit" validate:"required,ward_unit"`
	Month    int    `json:"month" validate:"required,min=1,max=12"`
	Year     int    `json:"year" validate:"required"`
}

type AssignmentInput struct {
	GuardName string     `json:"guard_name"`
	Day       FlexString `json:"day"`
	Weekday   string     `json:"weekday"`
	Phone     string     `json:"phone"`
	Notes     string     `json:"notes"`
	Email     string     `json:"email"`
}

// AssignmentPatch hanya mengubah field yang tidak nil.
type AssignmentPatch struct {
	GuardName *string     `json:"guard_name"`
	Day       *FlexString `json:"day"`
	Weekday   *string     `json:"weekday"`
	Phone     *string     `json:"phone"`
	Notes     *string     `json:"notes"`
	Email     *string     `json:"email"`
}

type RosterUsecase struct {
	rosters  repository.RosterRepository
	locker   lock.Locker
	notifier notification.Notifier
	log      *logrus.Logger
	minYear  int
	now      func() time.Time
}

func NewRosterUsecase(rosters repository.RosterRepository, locker lock.Locker, notifier notification.Notifier, log *logrus.Logger, minYear int) *RosterUsecase {
	return &RosterUsecase{
		rosters:  rosters,
		locker:   locker,
		notifier: notifier,
		log:      log,
		minYear:  minYear,
		now:      time.Now,
	}
}

func (u *RosterUsecase) CreateUnit(ctx context.Context, in CreateUnitInput, creatorID uint) (*model.RosterUnit, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Year < u.minYear {
		return nil, apperror.Validationf("year", "minimal %d", u.minYear)
	}

	unit := &model.RosterUnit{
		WardUnit:  model.NormalizeWardUnit(in.WardUnit),
		Month:     in.Month,
		Year:      in.Year,
		CreatedBy: creatorID,
		Version:   1,
	}
	if err := u.rosters.Create(ctx, unit); err != nil {
		return nil, err
	}
	unit.Assignments = []model.DutyAssignment{}
	return unit, nil
}

func (u *RosterUsecase) GetUnit(ctx context.Context, id uint) (*model.RosterUnit, error) {
	return u.rosters.FindByID(ctx, id)
}

func (u *RosterUsecase) FindUnit(ctx context.Context, wardUnit string, month, year int) (*model.RosterUnit, error) {
	wardUnit = model.NormalizeWardUnit(wardUnit)
	if !model.IsValidWardUnit(wardUnit) {
		return nil, apperror.Validation("ward_unit", "RT tidak valid")
	}
	if month < 1 || month > 12 {
		return nil, apperror.Validation("month", "harus antara 1 dan 12")
	}
	return u.rosters.FindByPeriod(ctx, wardUnit, month, year)
}

func (u *RosterUsecase) ListUnits(ctx context.Context, filter repository.RosterFilter) ([]model.RosterUnit, error) {
	if filter.WardUnit != "" {
		filter.WardUnit = model.NormalizeWardUnit(filter.WardUnit)
		if !model.IsValidWardUnit(filter.WardUnit) {
			return nil, apperror.Validation("ward_unit", "RT tidak valid")
		}
	}
	return u.rosters.List(ctx, filter)
}

func (u *RosterUsecase) AddAssignment(ctx context.Context, unitID uint, in AssignmentInput) (*model.RosterUnit, error) {
	guardName := strings.TrimSpace(in.GuardName)
	if guardName == "" {
		return nil, apperror.Validation("guard_name", "wajib diisi")
	}
	day, err := parseDay(string(in.Day))
	if err != nil {
		return nil, err
	}
	email, err := cleanEmail(in.Email)
	if err != nil {
		return nil, err
	}

	var unit *model.RosterUnit
	var added model.DutyAssignment
	err = lock.With(ctx, u.locker, rosterLockKey(unitID), rosterLockTTL, func() error {
		current, err := u.rosters.FindByID(ctx, unitID)
		if err != nil {
			return err
		}
		weekday, err := u.resolveWeekday(current, day, in.Weekday)
		if err != nil {
			return err
		}

		added = model.DutyAssignment{
			ID:        uuid.NewString(),
			Position:  nextPosition(current),
			GuardName: guardName,
			Day:       day,
			Weekday:   weekday,
			Phone:     normalizePhone(in.Phone),
			Notes:     strings.TrimSpace(in.Notes),
			Email:     email,
		}
		if err := u.rosters.AddAssignment(ctx, unitID, current.Version, &added); err != nil {
			return err
		}
		unit, err = u.rosters.FindByID(ctx, unitID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if added.Email != "" {
		u.notifier.NotifyEmail(ctx, added.Email, notification.AddedToRoster(unit, &added))
	}
	return unit, nil
}

func (u *RosterUsecase) UpdateAssignment(ctx context.Context, unitID uint, assignmentID string, patch AssignmentPatch) (*model.RosterUnit, error) {
	var unit *model.RosterUnit
	var updated model.DutyAssignment
	err := lock.With(ctx, u.locker, rosterLockKey(unitID), rosterLockTTL, func() error {
		current, err := u.rosters.FindByID(ctx, unitID)
		if err != nil {
			return err
		}
		existing, ok := current.Assignment(assignmentID)
		if !ok {
			return apperror.NotFound("Petugas tidak ditemukan")
		}
		updated = *existing

		if patch.GuardName != nil {
			name := strings.TrimSpace(*patch.GuardName)
			if name == "" {
				return apperror.Validation("guard_name", "wajib diisi")
			}
			updated.GuardName = name
		}
		if patch.Day != nil {
			day, err := parseDay(string(*patch.Day))
			if err != nil {
				return err
			}
			updated.Day = day
		}
		if patch.Day != nil || patch.Weekday != nil {
			clientWeekday := ""
			if patch.Weekday != nil {
				clientWeekday = *patch.Weekday
			} else if _, derivable := model.DeriveWeekday(current.Year, current.Month, updated.Day); !derivable {
				clientWeekday = updated.Weekday
			}
			weekday, err := u.resolveWeekday(current, updated.Day, clientWeekday)
			if err != nil {
				return err
			}
			updated.Weekday = weekday
		}
		if patch.Phone != nil {
			updated.Phone = normalizePhone(*patch.Phone)
		}
		if patch.Notes != nil {
			updated.Notes = strings.TrimSpace(*patch.Notes)
		}
		if patch.Email != nil {
			email, err := cleanEmail(*patch.Email)
			if err != nil {
				return err
			}
			updated.Email = email
		}

		if err := u.rosters.UpdateAssignment(ctx, unitID, current.Version, &updated); err != nil {
			return err
		}
		unit, err = u.rosters.FindByID(ctx, unitID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if updated.Email != "" {
		u.notifier.NotifyEmail(ctx, updated.Email, notification.RosterUpdated(unit, u.now()))
	}
	return unit, nil
}

func (u *RosterUsecase) RemoveAssignment(ctx context.Context, unitID uint, assignmentID string) (*model.RosterUnit, error) {
	var unit *model.RosterUnit
	err := lock.With(ctx, u.locker, rosterLockKey(unitID), rosterLockTTL, func() error {
		current, err := u.rosters.FindByID(ctx, unitID)
		if err != nil {
			return err
		}
		if _, ok := current.Assignment(assignmentID); !ok {
			return apperror.NotFound("Petugas tidak ditemukan")
		}
		if err := u.rosters.RemoveAssignment(ctx, unitID, current.Version, assignmentID); err != nil {
			return err
		}
		unit, err = u.rosters.FindByID(ctx, unitID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// DeleteUnit menghapus jadwal beserta petugasnya. Absensi yang merujuknya tetap ada
// dengan roster_unit_id kosong.
func (u *RosterUsecase) DeleteUnit(ctx context.Context, unitID uint) error {
	return lock.With(ctx, u.locker, rosterLockKey(unitID), rosterLockTTL, func() error {
		return u.rosters.Delete(ctx, unitID)
	})
}

// resolveWeekday menurunkan nama hari dari tanggal. Nama dari klien hanya dipakai
// jika tanggal melebihi panjang bulan (misal 31 di bulan 30 hari).
func (u *RosterUsecase) resolveWeekday(unit *model.RosterUnit, day int, client string) (string, error) {
	client = strings.TrimSpace(client)
	if client != "" && !model.IsValidWeekday(client) {
		return "", apperror.Validation("weekday", "hari harus salah satu dari "+strings.Join(model.Weekdays, ", "))
	}

	derived, ok := model.DeriveWeekday(unit.Year, unit.Month, day)
	if !ok {
		if client == "" {
			return "", apperror.Validationf("weekday", "wajib diisi karena tanggal %d melebihi jumlah hari bulan ini", day)
		}
		return client, nil
	}
	if client != "" && client != derived {
		u.log.WithFields(logrus.Fields{
			"roster_unit_id": unit.ID,
			"day":            day,
			"client_weekday": client,
			"weekday":        derived,
		}).Warn("Nama hari dari klien tidak sesuai tanggal, memakai hasil perhitungan server")
	}
	return derived, nil
}

func cleanEmail(raw string) (string, error) {
	email := model.NormalizeEmail(raw)
	if email == "" {
		return "", nil
	}
	if err := validate.Var(email, "email"); err != nil {
		return "", apperror.Validation("email", "format email tidak valid")
	}
	return email, nil
}

func nextPosition(unit *model.RosterUnit) int {
	max := 0
	for _, a := range unit.Assignments {
		if a.Position > max {
			max = a.Position
		}
	}
	return max + 1
}

func rosterLockKey(unitID uint) string {
	return fmt.Sprintf("roster:%d", unitID)
}
