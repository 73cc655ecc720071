package model

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"size:191;uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     Role   `json:"role" gorm:"type:smallint;not null;default:0"`

	// Relasi
	Employees []Employee `json:"employees,omitempty"`
}
