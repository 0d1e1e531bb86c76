package reconcile

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// BucketFunc menentukan kunci bucket untuk satu DayRecord.
type BucketFunc func(DayRecord) string

func ByDay(r DayRecord) string { return r.Day }

// ByISOWeek menghasilkan kunci seperti "2026-W42".
func ByISOWeek(r DayRecord) string {
	y, w := r.Date.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

func ByMonth(r DayRecord) string { return r.Date.Format("2006-01") }

func ByYear(r DayRecord) string { return strconv.Itoa(r.Date.Year()) }

func ByWard(r DayRecord) string { return r.WardUnit }

func ByResident(r DayRecord) string { return strconv.FormatUint(uint64(r.ResidentID), 10) }

// Counts menghitung klasifikasi rekap harian.
type Counts struct {
	Total      int `json:"total"`
	Complete   int `json:"complete"`
	Excused    int `json:"excused"`
	Incomplete int `json:"incomplete"`
	Absent     int `json:"absent"`
	Residents  int `json:"residents"`
}

func (c *Counts) add(r DayRecord) {
	c.Total++
	switch r.Class {
	case ClassComplete:
		c.Complete++
	case ClassExcused:
		c.Excused++
	case ClassIncomplete:
		c.Incomplete++
	case ClassAbsent:
		c.Absent++
	}
}

// Plus menjumlahkan dua Counts. Residents tidak bisa dijumlahkan (bisa tumpang tindih)
// sehingga diambil nilai terbesar.
func (c Counts) Plus(o Counts) Counts {
	res := c.Residents
	if o.Residents > res {
		res = o.Residents
	}
	return Counts{
		Total:      c.Total + o.Total,
		Complete:   c.Complete + o.Complete,
		Excused:    c.Excused + o.Excused,
		Incomplete: c.Incomplete + o.Incomplete,
		Absent:     c.Absent + o.Absent,
		Residents:  res,
	}
}

// AttendanceRate adalah persentase hari complete terhadap seluruh hari yang direkap, satu desimal.
func (c Counts) AttendanceRate() decimal.Decimal {
	return Rate(c.Complete, c.Total)
}

// Rate menghitung part/total*100 dibulatkan satu desimal; 0 bila total 0.
func Rate(part, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 1)
}

// Tally menghitung klasifikasi seluruh record.
func Tally(records []DayRecord) Counts {
	var c Counts
	residents := make(map[uint]struct{})
	for _, r := range records {
		c.add(r)
		residents[r.ResidentID] = struct{}{}
	}
	c.Residents = len(residents)
	return c
}

type Bucket struct {
	Key string `json:"key"`
	Counts
	Rate decimal.Decimal `json:"rate"`
}

// Rollup mengelompokkan record harian per kunci bucket, diurutkan naik per kunci.
func Rollup(records []DayRecord, key BucketFunc) []Bucket {
	groups := make(map[string][]DayRecord)
	var keys []string
	for _, r := range records {
		k := key(r)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	sort.Strings(keys)

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		c := Tally(groups[k])
		out = append(out, Bucket{Key: k, Counts: c, Rate: c.AttendanceRate()})
	}
	return out
}

// Aggregate adalah dua tahap lengkap: rekap per (warga, hari) lalu rollup per bucket.
func Aggregate(events []Event, loc *time.Location, key BucketFunc) []Bucket {
	return Rollup(Reconcile(events, loc), key)
}
