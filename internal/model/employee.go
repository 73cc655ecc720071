package model

import "gorm.io/gorm"

type Employee struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"not null;index"`
	Name         string `json:"name" gorm:"size:100;not null"`
	Gender       string `json:"gender" gorm:"size:1"` // L / P
	PhoneNumber  string `json:"phone_number" gorm:"size:20"`
	PhotoProfile string `json:"photo_profile"`

	// Relasi
	User        *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Attendances []Attendance `json:"attendances,omitempty"`
}
