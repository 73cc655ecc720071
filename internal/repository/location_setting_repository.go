package repository

import (
	"context"

	"absensi-backend/internal/model"

	"gorm.io/gorm"
)

type LocationSettingRepository interface {
	Create(ctx context.Context, setting *model.LocationSetting) error
	GetAll(ctx context.Context) ([]model.LocationSetting, error)
	// GetByDate: setting yang khusus berlaku pada tanggal tsb.
	GetByDate(ctx context.Context, date string) ([]model.LocationSetting, error)
	// GetUndated: setting tanpa tanggal (berlaku setiap hari).
	GetUndated(ctx context.Context) ([]model.LocationSetting, error)
}

type locationSettingRepository struct {
	db *gorm.DB
}

func NewLocationSettingRepository(db *gorm.DB) LocationSettingRepository {
	return &locationSettingRepository{db}
}

func (r *locationSettingRepository) Create(ctx context.Context, setting *model.LocationSetting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}

func (r *locationSettingRepository) GetAll(ctx context.Context) ([]model.LocationSetting, error) {
	var list []model.LocationSetting
	err := r.db.WithContext(ctx).Order("id desc").Find(&list).Error
	return list, err
}

func (r *locationSettingRepository) GetByDate(ctx context.Context, date string) ([]model.LocationSetting, error) {
	var list []model.LocationSetting
	err := r.db.WithContext(ctx).Where("date = ?", date).Order("id asc").Find(&list).Error
	return list, err
}

func (r *locationSettingRepository) GetUndated(ctx context.Context) ([]model.LocationSetting, error) {
	var list []model.LocationSetting
	err := r.db.WithContext(ctx).Where("date IS NULL").Order("id asc").Find(&list).Error
	return list, err
}
