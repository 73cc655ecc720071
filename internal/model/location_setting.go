package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LocationSetting adalah kebijakan titik absen. Tidak pernah di-update, setting baru selalu ditambahkan.
type LocationSetting struct {
	gorm.Model
	Latitude  float64        `json:"latitude" gorm:"not null"`
	Longitude float64        `json:"longitude" gorm:"not null"`
	Radius    float64        `json:"radius" gorm:"not null"`            // meter
	Date      *string        `json:"date" gorm:"type:varchar(10);index"` // nil = berlaku setiap hari
	ClockIn   datatypes.Time `json:"clock_in" gorm:"not null"`
	ClockOut  datatypes.Time `json:"clock_out" gorm:"not null"`
}

// ClockInOffset dan ClockOutOffset: jarak dari tengah malam.
func (l LocationSetting) ClockInOffset() time.Duration {
	return time.Duration(l.ClockIn)
}

func (l LocationSetting) ClockOutOffset() time.Duration {
	return time.Duration(l.ClockOut)
}
