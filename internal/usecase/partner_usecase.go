package usecase

import (
	"context"
	"time"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/repository"
)

const (
	msgNoRosterThisMonth = "Tidak ada jadwal untuk bulan ini"
	msgNoDutyToday       = "Tidak ada jadwal ronda hari ini"
	msgNotScheduled      = "Anda tidak ada jadwal ronda hari ini"
)

type Partner struct {
	AssignmentID string  `json:"assignment_id"`
	GuardName    string  `json:"guard_name"`
	Day          int     `json:"day"`
	Weekday      string  `json:"weekday"`
	Phone        string  `json:"phone"`
	Notes        string  `json:"notes"`
	Email        string  `json:"email"`
	Photo        *string `json:"photo"`
}

// PartnerResult kosong bukan error; Message menjelaskan alasannya.
type PartnerResult struct {
	Date         string    `json:"date"`
	WardUnit     string    `json:"ward_unit"`
	RosterUnitID uint      `json:"roster_unit_id,omitempty"`
	Partners     []Partner `json:"partners"`
	Message      string    `json:"message,omitempty"`
}

type PartnerUsecase struct {
	rosters   repository.RosterRepository
	residents repository.ResidentRepository
	loc       *time.Location
	now       func() time.Time
}

func NewPartnerUsecase(rosters repository.RosterRepository, residents repository.ResidentRepository, loc *time.Location) *PartnerUsecase {
	return &PartnerUsecase{rosters: rosters, residents: residents, loc: loc, now: time.Now}
}

// FindTodaysPartners mengembalikan rekan ronda hari ini. Warga yang tidak terjadwal
// hari ini tidak melihat data petugas lain.
func (u *PartnerUsecase) FindTodaysPartners(ctx context.Context, residentID uint) (*PartnerResult, error) {
	resident, err := u.residents.FindByID(ctx, residentID)
	if err != nil {
		return nil, err
	}

	today := u.now().In(u.loc)
	result := &PartnerResult{
		Date:     today.Format("2006-01-02"),
		WardUnit: resident.WardUnit,
		Partners: []Partner{},
	}

	unit, err := u.rosters.FindByPeriod(ctx, resident.WardUnit, int(today.Month()), today.Year())
	if apperror.Is(err, apperror.KindNotFound) {
		result.Message = msgNoRosterThisMonth
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.RosterUnitID = unit.ID

	todays := unit.AssignmentsOn(today.Day())
	if len(todays) == 0 {
		result.Message = msgNoDutyToday
		return result, nil
	}

	me := model.NormalizeEmail(resident.Email)
	scheduled := false
	for _, a := range todays {
		if me != "" && model.NormalizeEmail(a.Email) == me {
			scheduled = true
			break
		}
	}
	if !scheduled {
		result.Message = msgNotScheduled
		return result, nil
	}

	var others []model.DutyAssignment
	var emails []string
	for _, a := range todays {
		email := model.NormalizeEmail(a.Email)
		if email == me {
			continue
		}
		others = append(others, a)
		if email != "" {
			emails = append(emails, email)
		}
	}

	accounts, err := u.residents.FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	for _, a := range others {
		p := Partner{
			AssignmentID: a.ID,
			GuardName:    a.GuardName,
			Day:          a.Day,
			Weekday:      a.Weekday,
			Phone:        a.Phone,
			Notes:        a.Notes,
			Email:        a.Email,
		}
		if acc, ok := accounts[model.NormalizeEmail(a.Email)]; ok {
			p.Photo = acc.Photo
		}
		result.Partners = append(result.Partners, p)
	}
	return result, nil
}
