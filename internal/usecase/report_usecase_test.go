package usecase

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// seedWeek mengisi absensi Budi (lengkap 3 & 10 Maret) dan Siti (izin 5 Maret, masuk saja 10 Maret).
func seedWeek(t *testing.T, f *fixture) *model.RosterUnit {
	t.Helper()
	ctx := context.Background()
	unit := f.marchUnit(t)
	f.assign(t, unit.ID, "Budi", f.budi.Email, 3)
	f.assign(t, unit.ID, "Budi", f.budi.Email, 5)
	unit = f.assign(t, unit.ID, "Budi", f.budi.Email, 10)

	steps := []struct {
		when     [3]int
		resident model.Resident
		kind     string
	}{
		{[3]int{3, 19, 0}, f.budi, model.KindCheckIn},
		{[3]int{3, 23, 30}, f.budi, model.KindCheckOut},
		{[3]int{5, 18, 0}, f.siti, model.KindExcuse},
		{[3]int{10, 7, 0}, f.budi, model.KindCheckIn},
		{[3]int{10, 7, 5}, f.siti, model.KindCheckIn},
		{[3]int{10, 17, 0}, f.budi, model.KindCheckOut},
	}
	for _, s := range steps {
		f.clock.Set(at(s.when[0], s.when[1], s.when[2]))
		_, err := f.attendances.Submit(ctx, SubmitInput{
			ResidentID:   s.resident.ID,
			RosterUnitID: unit.ID,
			Kind:         s.kind,
			Reason:       "Kerja shift malam",
		})
		require.NoError(t, err)
	}
	f.clock.Set(at(10, 20, 0))
	return unit
}

func TestDayRecords(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)

	records, counts, err := f.reports.DayRecords(context.Background(), ReportQuery{})
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, reconcile.Counts{Total: 4, Complete: 2, Excused: 1, Incomplete: 1, Residents: 2}, counts)

	records, _, err = f.reports.DayRecords(context.Background(), ReportQuery{Start: "2026-03-10", End: "2026-03-10"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, _, err = f.reports.DayRecords(context.Background(), ReportQuery{WardUnit: "9"})
	requireKind(t, err, apperror.KindValidation)
}

func TestRollup(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)
	ctx := context.Background()

	weekly, err := f.reports.Weekly(ctx, ReportQuery{})
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, "2026-W10", weekly[0].Key)
	assert.Equal(t, 1, weekly[0].Complete)
	assert.Equal(t, 1, weekly[0].Excused)
	assert.Equal(t, "2026-W11", weekly[1].Key)
	assert.Equal(t, 2, weekly[1].Total, "masuk dan pulang di hari yang sama dihitung satu")
	assert.Equal(t, "50", weekly[1].Rate.String())

	monthly, err := f.reports.Monthly(ctx, ReportQuery{})
	require.NoError(t, err)
	require.Len(t, monthly, 1)
	assert.Equal(t, "2026-03", monthly[0].Key)
	assert.Equal(t, weekly[0].Counts.Total+weekly[1].Counts.Total, monthly[0].Total)
	assert.Equal(t, "50", monthly[0].Rate.String())

	byWard, err := f.reports.Rollup(ctx, ReportQuery{}, PeriodWard)
	require.NoError(t, err)
	require.Len(t, byWard, 1)
	assert.Equal(t, "01", byWard[0].Key)

	byResident, err := f.reports.Rollup(ctx, ReportQuery{}, PeriodResident)
	require.NoError(t, err)
	require.Len(t, byResident, 2)
	perResident := map[string]int{}
	for _, b := range byResident {
		perResident[b.Key] = b.Complete
	}
	assert.Equal(t, 2, perResident[strconv.FormatUint(uint64(f.budi.ID), 10)])
	assert.Equal(t, 0, perResident[strconv.FormatUint(uint64(f.siti.ID), 10)])

	_, err = f.reports.Rollup(ctx, ReportQuery{}, "decade")
	appErr := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, "period", appErr.Field)
}

func TestResidentSummary_MarksMissedDutyAbsent(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)

	summary, err := f.reports.ResidentSummary(context.Background(), f.budi.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "2026-03", summary.Period)
	// 3: complete, 5: absent (terjadwal tanpa absensi), 10: complete.
	assert.Equal(t, reconcile.Counts{Total: 3, Complete: 2, Absent: 1, Residents: 1}, summary.Counts)
	assert.Equal(t, "66.7", summary.Rate.String())

	var absent []string
	for _, d := range summary.Days {
		if d.Class == reconcile.ClassAbsent {
			absent = append(absent, d.Day)
		}
	}
	assert.Equal(t, []string{"2026-03-05"}, absent)

	siti, err := f.reports.ResidentSummary(context.Background(), f.siti.ID, 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, siti.Counts.Absent, "Siti tidak terjadwal")

	_, err = f.reports.ResidentSummary(context.Background(), f.budi.ID, 2026, 13)
	requireKind(t, err, apperror.KindValidation)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)

	d, err := f.reports.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Today.Total)
	assert.Equal(t, 1, d.Today.Complete)
	assert.Equal(t, 1, d.Today.Incomplete)
	assert.Equal(t, 4, d.ThisMonth.Total)
	assert.Equal(t, "50", d.MonthRate.String())
	assert.Equal(t, int64(6), d.PendingApprovals)
	assert.Equal(t, int64(1), d.TotalRosters)
	assert.Len(t, d.Recent, 6)

	require.Len(t, d.ByWard, 1)
	assert.Equal(t, int64(2), d.ByWard[0].Residents)
	assert.Len(t, d.TopWards, 1)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)

	data, name, err := f.reports.Export(context.Background(), ReportQuery{WardUnit: "01"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "absensi-ronda-20260310-"))
	assert.True(t, strings.HasSuffix(name, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	title, err := wb.GetCellValue("Absensi", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Rekap Absensi Ronda - RT 01", title)

	rows, err := wb.GetRows("Absensi")
	require.NoError(t, err)
	require.Len(t, rows, 3+4)
	assert.Equal(t, "2026-03-10", rows[3][1], "hari terbaru di atas")
}
