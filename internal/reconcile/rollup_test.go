package reconcile

import (
	"testing"
	"time"

	"jagakampung-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthOfEvents() []Event {
	var events []Event
	id := uint(0)
	next := func() uint { id++; return id }

	for d := 1; d <= 31; d++ {
		// warga 1: masuk + pulang setiap hari ganjil, masuk saja di hari genap
		events = append(events, ev(next(), 1, model.KindCheckIn, at(2026, 3, d, 7, 0)))
		if d%2 == 1 {
			events = append(events, ev(next(), 1, model.KindCheckOut, at(2026, 3, d, 17, 0)))
		}
		// warga 2: izin setiap tanggal kelipatan 5
		if d%5 == 0 {
			reason := "Dinas luar"
			e := ev(next(), 2, model.KindExcuse, at(2026, 3, d, 19, 0))
			e.Reason = &reason
			e.WardUnit = "02"
			events = append(events, e)
		}
	}
	return events
}

func TestRollup_MonthlyEqualsSumOfDaily(t *testing.T) {
	events := monthOfEvents()

	daily := Aggregate(events, jakarta, ByDay)
	monthly := Aggregate(events, jakarta, ByMonth)
	require.Len(t, monthly, 1)

	var sum Counts
	for _, b := range daily {
		sum = sum.Plus(b.Counts)
	}

	assert.Equal(t, "2026-03", monthly[0].Key)
	assert.Equal(t, sum.Total, monthly[0].Total)
	assert.Equal(t, sum.Complete, monthly[0].Complete)
	assert.Equal(t, sum.Excused, monthly[0].Excused)
	assert.Equal(t, sum.Incomplete, monthly[0].Incomplete)

	assert.Equal(t, 16, monthly[0].Complete)
	assert.Equal(t, 15, monthly[0].Incomplete)
	assert.Equal(t, 6, monthly[0].Excused)
	assert.Equal(t, 2, monthly[0].Residents)
}

func TestRollup_WeeklyEqualsSumOfDaily(t *testing.T) {
	events := monthOfEvents()
	records := Reconcile(events, jakarta)

	weekly := Rollup(records, ByISOWeek)
	total := 0
	complete := 0
	for _, b := range weekly {
		total += b.Total
		complete += b.Complete
	}
	assert.Equal(t, len(records), total)
	assert.Equal(t, Tally(records).Complete, complete)
	assert.Equal(t, "2026-W09", weekly[0].Key)
}

func TestRollup_NoDoubleCountingForTwoEventsPerDay(t *testing.T) {
	events := []Event{
		ev(1, 1, model.KindCheckIn, at(2026, 3, 2, 7, 0)),
		ev(2, 1, model.KindCheckOut, at(2026, 3, 2, 17, 0)),
	}
	weekly := Aggregate(events, jakarta, ByISOWeek)
	require.Len(t, weekly, 1)
	assert.Equal(t, 1, weekly[0].Total)
	assert.Equal(t, 1, weekly[0].Complete)
}

func TestRollup_ByWard(t *testing.T) {
	buckets := Aggregate(monthOfEvents(), jakarta, ByWard)
	require.Len(t, buckets, 2)
	assert.Equal(t, "01", buckets[0].Key)
	assert.Equal(t, 31, buckets[0].Total)
	assert.Equal(t, "02", buckets[1].Key)
	assert.Equal(t, 6, buckets[1].Excused)
}

func TestRate(t *testing.T) {
	assert.Equal(t, "0", Rate(0, 0).String())
	assert.Equal(t, "33.3", Rate(1, 3).String())
	assert.Equal(t, "66.7", Rate(2, 3).String())
	assert.Equal(t, "100", Rate(4, 4).String())
}

func TestFlatten(t *testing.T) {
	reason := "Sakit"
	exc := ev(3, 2, model.KindExcuse, at(2026, 3, 11, 19, 0))
	exc.Reason = &reason
	in := ev(1, 1, model.KindCheckIn, at(2026, 3, 10, 7, 5))
	out := ev(2, 1, model.KindCheckOut, at(2026, 3, 10, 17, 30))
	out.Approved = boolPtr(true)

	rows := Flatten(Reconcile([]Event{in, out, exc}, jakarta))
	require.Len(t, rows, 2)

	assert.Equal(t, "2026-03-11", rows[0].Day)
	assert.Equal(t, "Izin", rows[0].Status)
	assert.Equal(t, "Sakit", rows[0].Reason)

	assert.Equal(t, "Hadir", rows[1].Status)
	assert.Equal(t, "07:05", rows[1].CheckIn)
	assert.Equal(t, "17:30", rows[1].CheckOut)
	assert.True(t, rows[1].Approved)
}

func TestByISOWeek_YearBoundary(t *testing.T) {
	r := DayRecord{Date: time.Date(2027, 1, 1, 0, 0, 0, 0, jakarta)}
	assert.Equal(t, "2026-W53", ByISOWeek(r))
}
