package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"absensi-backend/config"
	"absensi-backend/internal/logger"
	"absensi-backend/internal/mailer"
	"absensi-backend/internal/repository"
	"absensi-backend/internal/routes"
	"absensi-backend/internal/scheduler"
	"absensi-backend/internal/storage"
	"absensi-backend/internal/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	l := logger.New(cfg.AppName, os.Stdout)

	l.Println("1. Memulai aplikasi...")
	if envErr != nil {
		l.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	shutdownTracer := telemetry.Setup(cfg.AppName, l)

	l.Println("2. Mencoba koneksi ke Database...")
	db, err := config.ConnectDB(cfg.DB, l)
	if err != nil {
		l.Fatalf("koneksi database gagal: %v", err)
	}
	l.Println("3. Database berhasil terhubung! Menyiapkan routes...")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		l.Fatalf("folder upload tidak bisa dibuat: %v", err)
	}
	photos := storage.NewLocalPhotoStore(cfg.UploadDir, cfg.PhotoMaxDim, l)
	m := mailer.New(mailer.SMTPConfig(cfg.SMTP), cfg.ResetTokenTTL, l)

	container := routes.NewContainer(db, cfg, photos, m, l)
	app := routes.NewApp(container)

	// Job berkala: foto yatim + token logout kadaluwarsa
	reaper := storage.NewOrphanReaper(photos, cfg.ReaperGrace, l,
		repository.NewAttendanceRepository(db),
		repository.NewEmployeeRepository(db),
	)
	jobs, err := scheduler.Start(cfg.ReaperSchedule, reaper, repository.NewTokenRepository(db), l)
	if err != nil {
		l.Fatalf("scheduler gagal: %v", err)
	}

	go func() {
		l.Printf("4. Server siap! Menunggu request di port :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			l.Fatalf("server berhenti: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Println("Mematikan server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		l.Printf("shutdown server: %v", err)
	}
	jobs.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(ctx); err != nil {
		l.Printf("shutdown tracer: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	l.Println("Server berhenti.")
}
