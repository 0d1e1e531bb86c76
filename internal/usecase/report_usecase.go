package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/export"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/reconcile"
	"jagakampung-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// Periode rollup. Untuk resident, kunci bucket adalah ID warga.
const (
	PeriodDay      = "day"
	PeriodWeek     = "week"
	PeriodMonth    = "month"
	PeriodYear     = "year"
	PeriodWard     = "ward"
	PeriodResident = "resident"
)

var bucketFuncs = map[string]reconcile.BucketFunc{
	PeriodDay:      reconcile.ByDay,
	PeriodWeek:     reconcile.ByISOWeek,
	PeriodMonth:    reconcile.ByMonth,
	PeriodYear:     reconcile.ByYear,
	PeriodWard:     reconcile.ByWard,
	PeriodResident: reconcile.ByResident,
}

type ReportQuery struct {
	WardUnit string
	Start    string
	End      string
}

type WardStat struct {
	reconcile.Bucket
	Residents int64 `json:"registered_residents"`
}

type Dashboard struct {
	Today            reconcile.Counts        `json:"today"`
	ThisMonth        reconcile.Counts        `json:"this_month"`
	MonthRate        decimal.Decimal         `json:"month_rate"`
	ByWard           []WardStat              `json:"by_ward"`
	TopWards         []WardStat              `json:"top_wards"`
	PendingApprovals int64                   `json:"pending_approvals"`
	TotalRosters     int64                   `json:"total_rosters"`
	Recent           []model.AttendanceEvent `json:"recent"`
}

type ResidentSummary struct {
	Resident *model.Resident       `json:"resident"`
	Period   string                `json:"period"`
	Counts   reconcile.Counts      `json:"counts"`
	Rate     decimal.Decimal       `json:"rate"`
	Weekly   []reconcile.Bucket    `json:"weekly"`
	Days     []reconcile.DayRecord `json:"days"`
}

type ReportUsecase struct {
	attendances repository.AttendanceRepository
	rosters     repository.RosterRepository
	residents   repository.ResidentRepository
	loc         *time.Location
	now         func() time.Time
}

func NewReportUsecase(attendances repository.AttendanceRepository, rosters repository.RosterRepository, residents repository.ResidentRepository, loc *time.Location) *ReportUsecase {
	return &ReportUsecase{attendances: attendances, rosters: rosters, residents: residents, loc: loc, now: time.Now}
}

func (u *ReportUsecase) events(ctx context.Context, f repository.AttendanceFilter) ([]reconcile.Event, error) {
	rows, err := u.attendances.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return reconcile.FromModel(rows), nil
}

func (u *ReportUsecase) filter(q ReportQuery, defaultFrom time.Time) (repository.AttendanceFilter, error) {
	var f repository.AttendanceFilter
	if q.WardUnit != "" {
		f.WardUnit = model.NormalizeWardUnit(q.WardUnit)
		if !model.IsValidWardUnit(f.WardUnit) {
			return f, apperror.Validation("ward_unit", "RT tidak valid")
		}
	}
	from, to, err := parseRange(q.Start, q.End, u.loc)
	if err != nil {
		return f, err
	}
	if from.IsZero() && to.IsZero() && !defaultFrom.IsZero() {
		_, to = dayWindow(u.now(), u.loc)
		from = defaultFrom
	}
	f.From, f.To = from, to
	return f, nil
}

// DayRecords mengembalikan rekap per (warga, hari) beserta total klasifikasinya.
func (u *ReportUsecase) DayRecords(ctx context.Context, q ReportQuery) ([]reconcile.DayRecord, reconcile.Counts, error) {
	f, err := u.filter(q, time.Time{})
	if err != nil {
		return nil, reconcile.Counts{}, err
	}
	events, err := u.events(ctx, f)
	if err != nil {
		return nil, reconcile.Counts{}, err
	}
	records := reconcile.Reconcile(events, u.loc)
	return records, reconcile.Tally(records), nil
}

// Rollup menjalankan rekap dua tahap dengan bucket sesuai period.
func (u *ReportUsecase) Rollup(ctx context.Context, q ReportQuery, period string) ([]reconcile.Bucket, error) {
	key, ok := bucketFuncs[period]
	if !ok {
		return nil, apperror.Validation("period", "harus day, week, month, year, ward, atau resident")
	}
	f, err := u.filter(q, u.defaultFrom(period))
	if err != nil {
		return nil, err
	}
	events, err := u.events(ctx, f)
	if err != nil {
		return nil, err
	}
	return reconcile.Aggregate(events, u.loc, key), nil
}

// Weekly tanpa rentang memakai 28 hari terakhir.
func (u *ReportUsecase) Weekly(ctx context.Context, q ReportQuery) ([]reconcile.Bucket, error) {
	return u.Rollup(ctx, q, PeriodWeek)
}

// Monthly tanpa rentang memakai 6 bulan terakhir (termasuk bulan berjalan).
func (u *ReportUsecase) Monthly(ctx context.Context, q ReportQuery) ([]reconcile.Bucket, error) {
	return u.Rollup(ctx, q, PeriodMonth)
}

func (u *ReportUsecase) defaultFrom(period string) time.Time {
	start, _ := dayWindow(u.now(), u.loc)
	switch period {
	case PeriodWeek:
		return start.AddDate(0, 0, -27)
	case PeriodMonth:
		return time.Date(start.Year(), start.Month()-5, 1, 0, 0, 0, 0, u.loc)
	}
	return time.Time{}
}

func (u *ReportUsecase) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := u.now()
	local := now.In(u.loc)
	monthFrom, monthTo := monthWindow(local.Year(), int(local.Month()), u.loc)
	todayFrom, _ := dayWindow(now, u.loc)
	today := todayFrom.Format(reconcile.DayLayout)

	events, err := u.events(ctx, repository.AttendanceFilter{From: monthFrom, To: monthTo})
	if err != nil {
		return nil, err
	}
	records := reconcile.Reconcile(events, u.loc)

	var todays []reconcile.DayRecord
	for _, r := range records {
		if r.Day == today {
			todays = append(todays, r)
		}
	}

	perWard, err := u.residents.CountByWard(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := u.attendances.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	rosters, err := u.rosters.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := u.attendances.List(ctx, repository.AttendanceFilter{Limit: 10})
	if err != nil {
		return nil, err
	}

	var byWard []WardStat
	for _, b := range reconcile.Rollup(records, reconcile.ByWard) {
		byWard = append(byWard, WardStat{Bucket: b, Residents: perWard[b.Key]})
	}
	top := append([]WardStat(nil), byWard...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Rate.GreaterThan(top[j].Rate) })
	if len(top) > 5 {
		top = top[:5]
	}

	month := reconcile.Tally(records)
	return &Dashboard{
		Today:            reconcile.Tally(todays),
		ThisMonth:        month,
		MonthRate:        month.AttendanceRate(),
		ByWard:           byWard,
		TopWards:         top,
		PendingApprovals: pending,
		TotalRosters:     rosters,
		Recent:           recent,
	}, nil
}

// ResidentSummary merekap satu warga dalam satu bulan (default bulan berjalan).
// Hari terjadwal sebelum hari ini tanpa absensi dihitung absent.
func (u *ReportUsecase) ResidentSummary(ctx context.Context, residentID uint, year, month int) (*ResidentSummary, error) {
	resident, err := u.residents.FindByID(ctx, residentID)
	if err != nil {
		return nil, err
	}

	local := u.now().In(u.loc)
	if year == 0 || month == 0 {
		year, month = local.Year(), int(local.Month())
	}
	if month < 1 || month > 12 {
		return nil, apperror.Validation("month", "harus antara 1 dan 12")
	}
	from, to := monthWindow(year, month, u.loc)

	events, err := u.events(ctx, repository.AttendanceFilter{ResidentID: residentID, From: from, To: to})
	if err != nil {
		return nil, err
	}
	records := reconcile.Reconcile(events, u.loc)

	scheduled, err := u.scheduledDays(ctx, resident, year, month)
	if err != nil {
		return nil, err
	}
	records = reconcile.MarkAbsent(records, scheduled, u.loc)

	counts := reconcile.Tally(records)
	return &ResidentSummary{
		Resident: resident,
		Period:   fmt.Sprintf("%04d-%02d", year, month),
		Counts:   counts,
		Rate:     counts.AttendanceRate(),
		Weekly:   reconcile.Rollup(records, reconcile.ByISOWeek),
		Days:     records,
	}, nil
}

func (u *ReportUsecase) scheduledDays(ctx context.Context, resident *model.Resident, year, month int) ([]reconcile.ScheduledDay, error) {
	email := model.NormalizeEmail(resident.Email)
	if email == "" || resident.WardUnit == "" {
		return nil, nil
	}
	unit, err := u.rosters.FindByPeriod(ctx, resident.WardUnit, month, year)
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	todayStart, _ := dayWindow(u.now(), u.loc)
	var out []reconcile.ScheduledDay
	for _, a := range unit.Assignments {
		if model.NormalizeEmail(a.Email) != email || a.Day > model.DaysIn(year, month) {
			continue
		}
		date := time.Date(year, time.Month(month), a.Day, 0, 0, 0, 0, u.loc)
		if !date.Before(todayStart) {
			continue
		}
		out = append(out, reconcile.ScheduledDay{
			ResidentID:   resident.ID,
			ResidentName: resident.Name,
			WardUnit:     resident.WardUnit,
			Date:         date,
		})
	}
	return out, nil
}

// Export menghasilkan file xlsx rekap harian sesuai filter.
func (u *ReportUsecase) Export(ctx context.Context, q ReportQuery) ([]byte, string, error) {
	records, _, err := u.DayRecords(ctx, q)
	if err != nil {
		return nil, "", err
	}
	title := "Semua RT"
	if q.WardUnit != "" {
		title = "RT " + model.NormalizeWardUnit(q.WardUnit)
	}
	data, err := export.AttendanceWorkbook(reconcile.Flatten(records), title)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("absensi-ronda-%s.xlsx", u.now().In(u.loc).Format("20060102-150405"))
	return data, name, nil
}
