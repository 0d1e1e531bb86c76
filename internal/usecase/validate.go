package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("ward_unit", func(fl validator.FieldLevel) bool {
		return model.IsValidWardUnit(model.NormalizeWardUnit(fl.Field().String()))
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return model.IsValidWeekday(fl.Field().String())
	})
	return v
}

// validateStruct mengubah error pertama dari validator menjadi apperror Validation.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return apperror.Validation(fe.Field(), validationMessage(fe))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "email":
		return "format email tidak valid"
	case "min":
		return "minimal " + fe.Param()
	case "max":
		return "maksimal " + fe.Param()
	case "oneof":
		return "harus salah satu dari: " + fe.Param()
	case "ward_unit":
		return "RT harus salah satu dari " + strings.Join(model.WardUnits, ", ")
	case "weekday":
		return "hari harus salah satu dari " + strings.Join(model.Weekdays, ", ")
	}
	return "tidak valid"
}

// FlexString menerima angka maupun string JSON (misal day: 5 atau day: "5").
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("nilai harus angka atau teks: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// parseDay memastikan day adalah bilangan bulat 1..31.
func parseDay(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.Validation("day", "wajib diisi")
	}
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validationf("day", "harus berupa angka, bukan %q", raw)
	}
	if day < 1 || day > 31 {
		return 0, apperror.Validation("day", "harus antara 1 dan 31")
	}
	return day, nil
}

// normalizePhone memformat nomor Indonesia ke E.164 bila valid, selain itu dikembalikan apa adanya.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := libphonenumber.Parse(raw, "ID")
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

// dayWindow mengembalikan [awal hari, awal hari berikutnya) untuk t pada zona loc.
func dayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// monthWindow mengembalikan [awal bulan, awal bulan berikutnya) pada zona loc.
func monthWindow(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// distanceMeters menghitung jarak haversine dua koordinat dalam meter.
func distanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371000 // Radius bumi dalam meter
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}
