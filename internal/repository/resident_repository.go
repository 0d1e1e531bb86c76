package repository

import (
	"context"

	"jagakampung-backend/internal/model"

	"gorm.io/gorm"
)

type ResidentRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Resident, error)
	FindByEmail(ctx context.Context, email string) (*model.Resident, error)
	// FindByEmails mengembalikan map email (huruf kecil) ke warga; email tanpa akun tidak ada di map.
	FindByEmails(ctx context.Context, emails []string) (map[string]model.Resident, error)
	ListAdmins(ctx context.Context) ([]model.Resident, error)
	CountByWard(ctx context.Context) (map[string]int64, error)
}

type residentRepository struct {
	db *gorm.DB
}

func NewResidentRepository(db *gorm.DB) ResidentRepository {
	return &residentRepository{db}
}

func (r *residentRepository) FindByID(ctx context.Context, id uint) (*model.Resident, error) {
	var res model.Resident
	err := r.db.WithContext(ctx).First(&res, id).Error
	if err != nil {
		return nil, translate(err, "Warga tidak ditemukan", "")
	}
	return &res, nil
}

func (r *residentRepository) FindByEmail(ctx context.Context, email string) (*model.Resident, error) {
	var res model.Resident
	err := r.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).First(&res).Error
	if err != nil {
		return nil, translate(err, "Warga tidak ditemukan", "")
	}
	return &res, nil
}

func (r *residentRepository) FindByEmails(ctx context.Context, emails []string) (map[string]model.Resident, error) {
	out := make(map[string]model.Resident)
	if len(emails) == 0 {
		return out, nil
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, model.NormalizeEmail(e))
	}

	var residents []model.Resident
	if err := r.db.WithContext(ctx).Where("email IN ?", normalized).Find(&residents).Error; err != nil {
		return nil, err
	}
	for _, res := range residents {
		out[model.NormalizeEmail(res.Email)] = res
	}
	return out, nil
}

func (r *residentRepository) ListAdmins(ctx context.Context) ([]model.Resident, error) {
	var admins []model.Resident
	err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", model.RoleAdmin, model.StatusActive).
		Find(&admins).Error
	return admins, err
}

func (r *residentRepository) CountByWard(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		WardUnit string
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Resident{}).
		Select("ward_unit, COUNT(*) AS total").
		Where("role = ? AND status = ?", model.RoleUser, model.StatusActive).
		Group("ward_unit").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.WardUnit] = row.Total
	}
	return out, nil
}
