package main

import (
	"flag"
	"os"

	"absensi-backend/config"
	"absensi-backend/internal/database"
	"absensi-backend/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	demo := flag.Bool("demo", false, "buat juga akun pegawai contoh")
	flag.Parse()

	// Load .env manual karena ini script terpisah
	envErr := godotenv.Load()

	cfg := config.Load()
	l := logger.New(cfg.AppName+"-seeder", os.Stdout)
	if envErr != nil {
		l.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	l.Println("Memulai Database Seeding...")
	db, err := config.ConnectDB(cfg.DB, l)
	if err != nil {
		l.Fatalf("koneksi database gagal: %v", err)
	}

	err = database.SeedAll(db, database.SeedOptions{
		AdminEmail:    config.GetEnv("SEED_ADMIN_EMAIL", ""),
		AdminPassword: config.GetEnv("SEED_ADMIN_PASSWORD", ""),
		DemoEmployee:  *demo,
	}, l)
	if err != nil {
		l.Fatalf("seeding gagal: %v", err)
	}

	l.Println("Seeding Selesai!")
}
