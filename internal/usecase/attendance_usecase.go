package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/geofence"
	"absensi-backend/internal/model"
	"absensi-backend/internal/repository"
	"absensi-backend/internal/storage"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type AttendanceConfig struct {
	Geofence geofence.Validator
	// EnforceOnClockOut: jalankan geofence juga saat clock-out (koordinat jadi wajib).
	EnforceOnClockOut bool
	Location          *time.Location
}

type AttendanceUsecase struct {
	db         *gorm.DB
	attendance repository.AttendanceRepository
	employees  repository.EmployeeRepository
	locations  *LocationUsecase
	photos     storage.PhotoStore
	cfg        AttendanceConfig
	log        *log.Logger
	now        func() time.Time
}

func NewAttendanceUsecase(
	db *gorm.DB,
	attendance repository.AttendanceRepository,
	employees repository.EmployeeRepository,
	locations *LocationUsecase,
	photos storage.PhotoStore,
	cfg AttendanceConfig,
	l *log.Logger,
) *AttendanceUsecase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &AttendanceUsecase{
		db:         db,
		attendance: attendance,
		employees:  employees,
		locations:  locations,
		photos:     photos,
		cfg:        cfg,
		log:        l,
		now:        time.Now,
	}
}

// SetClock dipakai test.
func (u *AttendanceUsecase) SetClock(now func() time.Time) {
	u.now = now
}

func (u *AttendanceUsecase) clock() time.Time {
	return u.now().In(u.cfg.Location)
}

type ClockInInput struct {
	Latitude  *float64  `json:"latitude" validate:"required,latitude"`
	Longitude *float64  `json:"longitude" validate:"required,longitude"`
	Photo     io.Reader `json:"-"`
}

type ClockOutInput struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type LeaveInput struct {
	Reason string    `json:"reason" validate:"required,max=500"`
	Date   string    `json:"date" validate:"required,date"`
	Photo  io.Reader `json:"-"`
}

type LocationCheckInput struct {
	Latitude  *float64        `json:"latitude" validate:"required,latitude"`
	Longitude *float64        `json:"longitude" validate:"required,longitude"`
	Action    geofence.Action `json:"action" validate:"omitempty,oneof=clock_in clock_out"`
}

type ClockResult struct {
	Attendance *model.Attendance  `json:"attendance"`
	Geofence   *geofence.Decision `json:"geofence,omitempty"`
}

type TodayStatus struct {
	Date       string                 `json:"date"`
	Status     model.AttendanceStatus `json:"status"`
	Attendance *model.Attendance      `json:"attendance,omitempty"`
}

// ClockIn: NONE -> CLOCK_IN. Foto ditulis dulu, baris dibuat dalam transaksi;
// jika transaksi gagal foto dihapus lagi.
func (u *AttendanceUsecase) ClockIn(ctx context.Context, userID uint, in ClockInInput) (res *ClockResult, err error) {
	ctx, span := tracer.Start(ctx, "attendance.ClockIn")
	defer func() { endSpan(span, err) }()

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Photo == nil {
		return nil, apperror.ValidationFields("Validasi gagal", map[string]string{"photo": "wajib diisi"})
	}

	emp, err := employeeOf(ctx, u.employees, userID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("employee.id", int(emp.ID)))

	now := u.clock()
	date := now.Format(model.DateLayout)

	// 1. Cek double clock-in sebelum menyentuh disk
	if err := ensureCanClockIn(ctx, u.attendance, emp.ID, date); err != nil {
		return nil, err
	}

	// 2. Validasi geofence (radius + jam)
	point := geofence.Point{Latitude: *in.Latitude, Longitude: *in.Longitude}
	decision, err := u.checkGeofence(ctx, point, geofence.ActionClockIn, now)
	if err != nil {
		return nil, err
	}

	// 3. Simpan foto
	ref, err := u.savePhoto(ctx, storage.FolderAttendance, in.Photo)
	if err != nil {
		return nil, err
	}

	// 4. Simpan baris absensi
	lat, lng := *in.Latitude, *in.Longitude
	attendance := &model.Attendance{
		EmployeeID: emp.ID,
		Status:     model.StatusClockIn,
		Date:       date,
		TimeIn:     now,
		Photo:      ref,
		Latitude:   &lat,
		Longitude:  &lng,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := u.employees.WithTx(tx).LockByID(ctx, emp.ID); err != nil {
			return err
		}
		repo := u.attendance.WithTx(tx)
		if err := ensureCanClockIn(ctx, repo, emp.ID, date); err != nil {
			return err
		}
		return repo.Create(ctx, attendance)
	})
	if err != nil {
		u.discardPhoto(ref)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict(apperror.CodeAlreadyClockedIn, "Anda sudah melakukan clock-in hari ini")
		}
		return nil, storageOr(err)
	}

	u.log.Printf("[ATTENDANCE] clock-in employee=%d attendance=%d distance=%.1fm", emp.ID, attendance.ID, decision.Distance)
	return &ClockResult{Attendance: attendance, Geofence: decision}, nil
}

// ensureCanClockIn menolak jika masih ada clock-in terbuka (tanggal berapa pun)
// atau hari ini sudah punya catatan.
func ensureCanClockIn(ctx context.Context, repo repository.AttendanceRepository, employeeID uint, date string) error {
	if _, err := repo.FindLatestOpen(ctx, employeeID); err == nil {
		return apperror.Conflict(apperror.CodeAlreadyClockedIn, "Anda sudah melakukan clock-in dan belum clock-out")
	} else if !isNotFound(err) {
		return err
	}

	existing, err := repo.GetByDate(ctx, employeeID, date)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	switch existing.Status {
	case model.StatusLeave:
		return apperror.Conflict(apperror.CodeOnLeave, "Anda sedang dalam status ijin hari ini")
	case model.StatusClockOut:
		return apperror.Conflict(apperror.CodeAlreadyClockedOut, "Anda sudah clock-out hari ini")
	}
	return apperror.Conflict(apperror.CodeAlreadyClockedIn, "Anda sudah melakukan clock-in hari ini")
}

// ClockOut: CLOCK_IN -> CLOCK_OUT pada baris yang sama, lewat update kondisional.
func (u *AttendanceUsecase) ClockOut(ctx context.Context, userID uint, in ClockOutInput) (res *ClockResult, err error) {
	ctx, span := tracer.Start(ctx, "attendance.ClockOut")
	defer func() { endSpan(span, err) }()

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	emp, err := employeeOf(ctx, u.employees, userID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("employee.id", int(emp.ID)))

	now := u.clock()

	var decision *geofence.Decision
	if u.cfg.EnforceOnClockOut {
		if in.Latitude == nil || in.Longitude == nil {
			return nil, apperror.ValidationFields("Validasi gagal", map[string]string{
				"latitude":  "wajib diisi",
				"longitude": "wajib diisi",
			})
		}
		point := geofence.Point{Latitude: *in.Latitude, Longitude: *in.Longitude}
		if decision, err = u.checkGeofence(ctx, point, geofence.ActionClockOut, now); err != nil {
			return nil, err
		}
	}

	var closed *model.Attendance
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := u.attendance.WithTx(tx)

		open, err := repo.FindLatestOpen(ctx, emp.ID)
		if isNotFound(err) {
			return errNoOpenClockIn()
		}
		if err != nil {
			return err
		}

		ok, err := repo.CloseOpen(ctx, open.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			// sudah ditutup request lain di antara SELECT dan UPDATE
			return errNoOpenClockIn()
		}

		closed, err = repo.FindByID(ctx, open.ID)
		return err
	})
	if err != nil {
		return nil, storageOr(err)
	}

	u.log.Printf("[ATTENDANCE] clock-out employee=%d attendance=%d", emp.ID, closed.ID)
	return &ClockResult{Attendance: closed, Geofence: decision}, nil
}

func errNoOpenClockIn() error {
	return apperror.Conflict(apperror.CodeNoOpenClockIn, "Tidak ada clock-in yang bisa di-clock-out")
}

// Leave: NONE -> IJIN untuk tanggal yang diajukan.
func (u *AttendanceUsecase) Leave(ctx context.Context, userID uint, in LeaveInput) (res *model.Attendance, err error) {
	ctx, span := tracer.Start(ctx, "attendance.Leave")
	defer func() { endSpan(span, err) }()

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	emp, err := employeeOf(ctx, u.employees, userID)
	if err != nil {
		return nil, err
	}

	if _, err := u.attendance.GetByDate(ctx, emp.ID, in.Date); err == nil {
		return nil, errAlreadyRecorded()
	} else if !isNotFound(err) {
		return nil, storageOr(err)
	}

	var ref string
	if in.Photo != nil {
		if ref, err = u.savePhoto(ctx, storage.FolderLeave, in.Photo); err != nil {
			return nil, err
		}
	}

	leave := &model.Attendance{
		EmployeeID: emp.ID,
		Status:     model.StatusLeave,
		Date:       in.Date,
		TimeIn:     u.clock(),
		Photo:      ref,
		Reason:     in.Reason,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := u.employees.WithTx(tx).LockByID(ctx, emp.ID); err != nil {
			return err
		}
		repo := u.attendance.WithTx(tx)
		if _, err := repo.GetByDate(ctx, emp.ID, in.Date); err == nil {
			return errAlreadyRecorded()
		} else if !isNotFound(err) {
			return err
		}
		return repo.Create(ctx, leave)
	})
	if err != nil {
		u.discardPhoto(ref)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errAlreadyRecorded()
		}
		return nil, storageOr(err)
	}

	u.log.Printf("[ATTENDANCE] ijin employee=%d date=%s", emp.ID, in.Date)
	return leave, nil
}

func errAlreadyRecorded() error {
	return apperror.Conflict(apperror.CodeAlreadyRecorded, "Sudah ada catatan kehadiran untuk tanggal tersebut")
}

// Today adalah point query (employee, hari ini).
func (u *AttendanceUsecase) Today(ctx context.Context, userID uint) (*TodayStatus, error) {
	emp, err := employeeOf(ctx, u.employees, userID)
	if err != nil {
		return nil, err
	}

	date := u.clock().Format(model.DateLayout)
	status := &TodayStatus{Date: date, Status: model.StatusNone}

	attendance, err := u.attendance.GetByDate(ctx, emp.ID, date)
	if isNotFound(err) {
		return status, nil
	}
	if err != nil {
		return nil, storageOr(err)
	}

	status.Status = attendance.Status
	status.Attendance = attendance
	return status, nil
}

// CheckLocation hanya mengevaluasi geofence tanpa menulis apa pun.
func (u *AttendanceUsecase) CheckLocation(ctx context.Context, in LocationCheckInput) (*geofence.Decision, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	action := in.Action
	if action == "" {
		action = geofence.ActionClockIn
	}

	now := u.clock()
	policies, err := u.locations.Policies(ctx, now.Format(model.DateLayout))
	if err != nil {
		return nil, err
	}
	decision := u.cfg.Geofence.Check(geofence.Point{Latitude: *in.Latitude, Longitude: *in.Longitude}, action, now, policies)
	return &decision, nil
}

func (u *AttendanceUsecase) checkGeofence(ctx context.Context, point geofence.Point, action geofence.Action, now time.Time) (*geofence.Decision, error) {
	policies, err := u.locations.Policies(ctx, now.Format(model.DateLayout))
	if err != nil {
		return nil, err
	}

	decision := u.cfg.Geofence.Check(point, action, now, policies)
	if decision.Accepted {
		return &decision, nil
	}

	switch decision.Reason {
	case geofence.ReasonNoPolicyConfig:
		return nil, apperror.Rejected(string(decision.Reason), "Belum ada lokasi absen yang disetting. Hubungi Admin.")
	case geofence.ReasonOutOfWindow:
		return nil, apperror.Rejected(string(decision.Reason), "Di luar jam absen yang diizinkan")
	}
	return nil, apperror.Rejected(string(decision.Reason), "Anda berada di luar radius lokasi absen")
}

func (u *AttendanceUsecase) savePhoto(ctx context.Context, folder string, r io.Reader) (string, error) {
	ref, err := u.photos.Save(ctx, folder, r)
	if errors.Is(err, storage.ErrNotImage) {
		return "", apperror.ValidationFields("Validasi gagal", map[string]string{"photo": "file harus berupa gambar"})
	}
	if err != nil {
		return "", apperror.Storage(err)
	}
	return ref, nil
}

func (u *AttendanceUsecase) discardPhoto(ref string) {
	if ref == "" {
		return
	}
	if err := u.photos.Remove(ref); err != nil {
		u.log.Printf("[PHOTO] gagal hapus foto %s setelah rollback: %v", ref, err)
	}
}
