package database

import (
	"fmt"
	"log"

	"absensi-backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedOptions: akun awal yang dibuat seeder. Password kosong memakai default.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	DemoEmployee  bool
}

// SeedAll bersifat idempoten (FirstOrCreate), aman dijalankan berulang.
func SeedAll(db *gorm.DB, opts SeedOptions, l *log.Logger) error {
	if opts.AdminEmail == "" {
		opts.AdminEmail = "admin@absensi.local"
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "admin123"
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// 1. Seed Akun Admin Pertama
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		admin := model.User{Email: opts.AdminEmail, Password: string(hashedPassword), Role: model.RoleAdmin}
		if err := tx.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		// Paksa update password agar selalu sinkron dengan password seeder meskipun user sudah ada
		if err := tx.Model(&admin).Update("password", string(hashedPassword)).Error; err != nil {
			return err
		}
		l.Printf("[SEED] admin %s siap", admin.Email)

		// 2. Seed Lokasi Absen Default (tanpa tanggal, berlaku setiap hari)
		var count int64
		if err := tx.Model(&model.LocationSetting{}).Where("date IS NULL").Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			lokasi := model.LocationSetting{
				Latitude:  -0.9416, // Ganti dengan koordinat kantor
				Longitude: 100.3700,
				Radius:    50,
				ClockIn:   datatypes.NewTime(7, 30, 0, 0),
				ClockOut:  datatypes.NewTime(16, 0, 0, 0),
			}
			if err := tx.Create(&lokasi).Error; err != nil {
				return fmt.Errorf("seed lokasi: %w", err)
			}
			l.Printf("[SEED] lokasi absen default dibuat id=%d", lokasi.ID)
		}

		if !opts.DemoEmployee {
			return nil
		}

		// 3. Seed Pegawai contoh
		pegawai := model.User{Email: "budi@absensi.local", Password: string(hashedPassword), Role: model.RoleEmployee}
		if err := tx.Where(model.User{Email: pegawai.Email}).FirstOrCreate(&pegawai).Error; err != nil {
			return fmt.Errorf("seed pegawai: %w", err)
		}
		profil := model.Employee{UserID: pegawai.ID, Name: "Budi Pegawai", Gender: "L", PhoneNumber: "081234567890"}
		if err := tx.Where(model.Employee{UserID: pegawai.ID}).FirstOrCreate(&profil).Error; err != nil {
			return fmt.Errorf("seed profil pegawai: %w", err)
		}
		l.Printf("[SEED] pegawai contoh %s siap", pegawai.Email)
		return nil
	})
}
