package repository

import (
	"context"
	"time"

	"absensi-backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository interface {
	WithTx(tx *gorm.DB) AttendanceRepository
	Create(ctx context.Context, attendance *model.Attendance) error
	FindByID(ctx context.Context, id uint) (*model.Attendance, error)
	GetByDate(ctx context.Context, employeeID uint, date string) (*model.Attendance, error)
	// FindLatestOpen: clock-in terbaru (time_in lalu id) yang belum clock-out.
	FindLatestOpen(ctx context.Context, employeeID uint) (*model.Attendance, error)
	// CloseOpen menutup clock-in secara kondisional; false jika sudah ditutup request lain.
	CloseOpen(ctx context.Context, id uint, at time.Time) (bool, error)
	GetHistory(ctx context.Context, employeeID uint, from, to string) ([]model.Attendance, error)
	GetRecent(ctx context.Context, employeeID uint, limit int) ([]model.Attendance, error)
	GetBetween(ctx context.Context, from, to string) ([]model.Attendance, error)
	CountPhotoRef(ctx context.Context, ref string) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

func (r *attendanceRepository) WithTx(tx *gorm.DB) AttendanceRepository {
	return &attendanceRepository{tx}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(attendance).Error
}

func (r *attendanceRepository) FindByID(ctx context.Context, id uint) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).First(&attendance, id).Error
	return &attendance, err
}

func (r *attendanceRepository) GetByDate(ctx context.Context, employeeID uint, date string) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).Where("employee_id = ? AND date = ?", employeeID, date).First(&attendance).Error
	return &attendance, err
}

func (r *attendanceRepository) FindLatestOpen(ctx context.Context, employeeID uint) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ? AND time_out IS NULL", employeeID, model.StatusClockIn).
		Order("time_in desc").Order("id desc").
		First(&attendance).Error
	return &attendance, err
}

func (r *attendanceRepository) CloseOpen(ctx context.Context, id uint, at time.Time) (bool, error) {
	// UPDATE ... WHERE status='CLOCK_IN' AND time_out IS NULL: hanya satu request yang bisa menang
	res := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Where("id = ? AND status = ? AND time_out IS NULL", id, model.StatusClockIn).
		Updates(map[string]interface{}{
			"status":   model.StatusClockOut,
			"time_out": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *attendanceRepository) GetHistory(ctx context.Context, employeeID uint, from, to string) ([]model.Attendance, error) {
	var history []model.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, from, to).
		Order("date desc").Order("id desc").
		Find(&history).Error
	return history, err
}

func (r *attendanceRepository) GetRecent(ctx context.Context, employeeID uint, limit int) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("date desc").Order("id desc").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *attendanceRepository) GetBetween(ctx context.Context, from, to string) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Order("employee_id asc").Order("date asc").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepository) CountPhotoRef(ctx context.Context, ref string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Attendance{}).Where("photo = ?", ref).Count(&count).Error
	return count, err
}
