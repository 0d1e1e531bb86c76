package repository

import (
	"errors"

	"jagakampung-backend/internal/apperror"

	"gorm.io/gorm"
)

// ErrStaleRoster berarti jadwal diubah oleh request lain di antara baca dan tulis.
var ErrStaleRoster = errors.New("jadwal telah diubah oleh proses lain")

// translate memetakan error gorm ke taksonomi apperror. Error lain dikembalikan apa adanya.
func translate(err error, notFound, duplicate string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Duplicate(duplicate)
	}
	return err
}
