package model

import "time"

// RevokedToken menyimpan jti access token yang sudah logout sampai token itu kadaluwarsa.
type RevokedToken struct {
	JTI       string    `gorm:"column:jti;primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
