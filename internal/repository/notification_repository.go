package repository

import (
	"context"

	"jagakampung-backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateMany(ctx context.Context, notifications []model.Notification) error
	ListByResident(ctx context.Context, residentID uint, unreadOnly bool, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, residentID uint) (int64, error)
	MarkRead(ctx context.Context, residentID, id uint) (*model.Notification, error)
	MarkAllRead(ctx context.Context, residentID uint) (int64, error)
	Delete(ctx context.Context, residentID, id uint) error
	DeleteAll(ctx context.Context, residentID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db}
}

const msgNotificationNotFound = "Notifikasi tidak ditemukan"

func (r *notificationRepository) CreateMany(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 100).Error
}

func (r *notificationRepository) ListByResident(ctx context.Context, residentID uint, unreadOnly bool, limit int) ([]model.Notification, error) {
	query := r.db.WithContext(ctx).Where("resident_id = ?", residentID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var notifications []model.Notification
	err := query.Order("created_at desc").Order("id desc").Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, residentID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("resident_id = ? AND is_read = ?", residentID, false).
		Count(&total).Error
	return total, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, residentID, id uint) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Where("id = ? AND resident_id = ?", id, residentID).First(&n).Error
	if err != nil {
		return nil, translate(err, msgNotificationNotFound, "")
	}
	if err := r.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	n.Read = true
	return &n, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, residentID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("resident_id = ? AND is_read = ?", residentID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Delete(ctx context.Context, residentID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND resident_id = ?", id, residentID).Delete(&model.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, msgNotificationNotFound, "")
	}
	return nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, residentID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("resident_id = ?", residentID).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}
