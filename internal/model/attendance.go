package model

import (
	"time"

	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	// StatusNone dipakai di proyeksi saja: belum ada catatan untuk hari itu.
	StatusNone     AttendanceStatus = "NONE"
	StatusClockIn  AttendanceStatus = "CLOCK_IN"
	StatusClockOut AttendanceStatus = "CLOCK_OUT"
	StatusLeave    AttendanceStatus = "IJIN"
	// StatusAlpha tidak pernah disimpan, hanya hasil proyeksi laporan.
	StatusAlpha AttendanceStatus = "ALPHA"
)

// DateLayout adalah format kolom Date (YYYY-MM-DD).
const DateLayout = "2006-01-02"

type Attendance struct {
	gorm.Model
	EmployeeID uint             `json:"employee_id" gorm:"not null;uniqueIndex:idx_attendance_employee_date"`
	Status     AttendanceStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	Date       string           `json:"date" gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_employee_date"`
	TimeIn     time.Time        `json:"time_in" gorm:"not null"`
	TimeOut    *time.Time       `json:"time_out"`
	Photo      string           `json:"photo"`
	Latitude   *float64         `json:"latitude"`
	Longitude  *float64         `json:"longitude"`
	Reason     string           `json:"reason"`

	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

// IsOpen: clock-in yang belum ditutup clock-out.
func (a Attendance) IsOpen() bool {
	return a.Status == StatusClockIn && a.TimeOut == nil
}
