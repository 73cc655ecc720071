package repository

import (
	"context"

	"absensi-backend/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository interface {
	GetDashboardStats(ctx context.Context, date string) (map[string]interface{}, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db}
}

func (r *dashboardRepository) GetDashboardStats(ctx context.Context, date string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	db := r.db.WithContext(ctx)

	// 1. Total Pegawai
	var totalEmployees int64
	if err := db.Model(&model.Employee{}).Count(&totalEmployees).Error; err != nil {
		return nil, err
	}
	stats["total_employees"] = totalEmployees

	// 2. Statistik Hari Ini per status
	var daily []struct {
		Status string
		Count  int64
	}
	err := db.Model(&model.Attendance{}).
		Where("date = ?", date).
		Group("status").Select("status, count(*) as count").
		Scan(&daily).Error
	if err != nil {
		return nil, err
	}

	dailyMap := map[string]int64{
		string(model.StatusClockIn):  0,
		string(model.StatusClockOut): 0,
		string(model.StatusLeave):    0,
	}
	var recorded int64
	for _, d := range daily {
		dailyMap[d.Status] = d.Count
		recorded += d.Count
	}
	stats["today"] = dailyMap

	// 3. Pegawai yang belum punya catatan hari ini (satu baris per pegawai per tanggal)
	notRecorded := totalEmployees - recorded
	if notRecorded < 0 {
		notRecorded = 0
	}
	stats["not_recorded"] = notRecorded
	stats["date"] = date

	return stats, nil
}
