package repository

import (
	"context"

	"jagakampung-backend/internal/model"

	"gorm.io/gorm"
)

type WardRepository interface {
	List(ctx context.Context) ([]model.Ward, error)
	FindByCode(ctx context.Context, code string) (*model.Ward, error)
}

type wardRepository struct {
	db *gorm.DB
}

func NewWardRepository(db *gorm.DB) WardRepository {
	return &wardRepository{db}
}

func (r *wardRepository) List(ctx context.Context) ([]model.Ward, error) {
	var wards []model.Ward
	err := r.db.WithContext(ctx).Order("code asc").Find(&wards).Error
	return wards, err
}

func (r *wardRepository) FindByCode(ctx context.Context, code string) (*model.Ward, error) {
	var ward model.Ward
	// Find + Limit(1) agar GORM tidak mencetak log "record not found"
	err := r.db.WithContext(ctx).Where("code = ?", code).Limit(1).Find(&ward).Error
	if err != nil {
		return nil, err
	}
	if ward.ID == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "RT tidak ditemukan", "")
	}
	return &ward, nil
}
