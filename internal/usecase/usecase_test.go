package usecase

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/geofence"
	"absensi-backend/internal/logger"
	"absensi-backend/internal/model"
	"absensi-backend/internal/repository"
	"absensi-backend/internal/storage"
	"absensi-backend/internal/testutil"

	"github.com/disintegration/imaging"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fixture menyusun use case di atas SQLite in-memory dan direktori upload sementara.
type fixture struct {
	db         *gorm.DB
	uploadDir  string
	now        time.Time
	attendance *AttendanceUsecase
	reports    *ReportUsecase
	employees  *EmployeeUsecase
	locations  *LocationUsecase
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	dir := t.TempDir()
	l := logger.Discard()

	userRepo := repository.NewUserRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	attRepo := repository.NewAttendanceRepository(db)
	locRepo := repository.NewLocationSettingRepository(db)
	photos := storage.NewLocalPhotoStore(dir, 200, l)

	f := &fixture{db: db, uploadDir: dir, now: now}
	f.locations = NewLocationUsecase(locRepo)
	f.attendance = NewAttendanceUsecase(db, attRepo, empRepo, f.locations, photos, AttendanceConfig{
		Geofence: geofence.Validator{EarlyTolerance: time.Hour, LateTolerance: 4 * time.Hour},
		Location: time.UTC,
	}, l)
	f.attendance.SetClock(func() time.Time { return f.now })
	f.reports = NewReportUsecase(attRepo, empRepo, repository.NewDashboardRepository(db), time.UTC)
	f.reports.SetClock(func() time.Time { return f.now })
	f.employees = NewEmployeeUsecase(db, userRepo, empRepo, photos, l)
	return f
}

func (f *fixture) addPolicy(t *testing.T, lat, lng, radius float64, date *string) {
	t.Helper()
	setting := &model.LocationSetting{
		Latitude: lat, Longitude: lng, Radius: radius, Date: date,
		ClockIn:  datatypes.NewTime(8, 0, 0, 0),
		ClockOut: datatypes.NewTime(17, 0, 0, 0),
	}
	if err := f.db.Create(setting).Error; err != nil {
		t.Fatalf("create setting: %v", err)
	}
}

func (f *fixture) addEmployee(t *testing.T, email string, joined time.Time) *model.Employee {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	user := &model.User{Email: email, Password: string(hash), Role: model.RoleEmployee}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	emp := &model.Employee{UserID: user.ID, Name: email}
	emp.CreatedAt = joined
	if err := f.db.Create(emp).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return emp
}

func (f *fixture) countRows(t *testing.T) int64 {
	t.Helper()
	var n int64
	f.db.Model(&model.Attendance{}).Count(&n)
	return n
}

func (f *fixture) countFiles(t *testing.T) int {
	t.Helper()
	n := 0
	filepath.WalkDir(f.uploadDir, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func photo(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(32, 32, color.NRGBA{G: 255, A: 255})
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &buf
}

func ptr(v float64) *float64 { return &v }

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := apperror.CodeOf(err); got != code {
		t.Fatalf("expected code %s, got %q (%v)", code, got, err)
	}
}

var workday = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func TestClockInClockOutScenario(t *testing.T) {
	f := newFixture(t, workday)
	f.addPolicy(t, 0, 0, 100, nil)
	emp := f.addEmployee(t, "budi@example.com", workday.AddDate(0, -1, 0))
	ctx := context.Background()

	in, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
	if err != nil {
		t.Fatalf("clock in: %v", err)
	}
	row := in.Attendance
	if row.Status != model.StatusClockIn || row.Date != "2024-01-10" || row.Photo == "" || row.TimeOut != nil {
		t.Fatalf("unexpected clock-in row: %+v", row)
	}
	if _, err := os.Stat(filepath.Join(f.uploadDir, row.Photo)); err != nil {
		t.Fatalf("photo not stored: %v", err)
	}

	f.now = workday.Add(8 * time.Hour)
	out, err := f.attendance.ClockOut(ctx, emp.UserID, ClockOutInput{})
	if err != nil {
		t.Fatalf("clock out: %v", err)
	}
	if out.Attendance.ID != row.ID || out.Attendance.Status != model.StatusClockOut || out.Attendance.TimeOut == nil {
		t.Fatalf("clock-out should update the same row: %+v", out.Attendance)
	}
	if n := f.countRows(t); n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}

	_, err = f.attendance.ClockOut(ctx, emp.UserID, ClockOutInput{})
	expectCode(t, err, apperror.CodeNoOpenClockIn)

	_, err = f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
	expectCode(t, err, apperror.CodeAlreadyClockedOut)
}

func TestClockInTwiceRejected(t *testing.T) {
	f := newFixture(t, workday)
	f.addPolicy(t, 0, 0, 100, nil)
	emp := f.addEmployee(t, "a@example.com", workday)
	ctx := context.Background()

	if _, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)}); err != nil {
		t.Fatalf("first clock in: %v", err)
	}
	_, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
	expectCode(t, err, apperror.CodeAlreadyClockedIn)

	// masih terbuka keesokan harinya
	f.now = workday.AddDate(0, 0, 1)
	_, err = f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
	expectCode(t, err, apperror.CodeAlreadyClockedIn)

	if n := f.countFiles(t); n != 1 {
		t.Fatalf("rejected clock-ins must not leave photos behind, got %d files", n)
	}
}

func TestClockInGeofenceRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("no policy", func(t *testing.T) {
		f := newFixture(t, workday)
		emp := f.addEmployee(t, "a@example.com", workday)
		_, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
		expectCode(t, err, string(geofence.ReasonNoPolicyConfig))
	})

	t.Run("out of range", func(t *testing.T) {
		f := newFixture(t, workday)
		f.addPolicy(t, 0, 0, 100, nil)
		emp := f.addEmployee(t, "a@example.com", workday)
		_, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0.01), Longitude: ptr(0), Photo: photo(t)})
		expectCode(t, err, string(geofence.ReasonOutOfRange))
		if apperror.KindOf(err) != apperror.KindRejected {
			t.Fatalf("expected rejected kind, got %v", apperror.KindOf(err))
		}
		if f.countRows(t) != 0 || f.countFiles(t) != 0 {
			t.Fatalf("rejected clock-in must not write anything")
		}
	})

	t.Run("out of window", func(t *testing.T) {
		f := newFixture(t, workday.Add(-3*time.Hour)) // 06:00
		f.addPolicy(t, 0, 0, 100, nil)
		emp := f.addEmployee(t, "a@example.com", workday)
		_, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
		expectCode(t, err, string(geofence.ReasonOutOfWindow))
	})

	t.Run("dated setting wins over undated", func(t *testing.T) {
		f := newFixture(t, workday)
		day := "2024-01-10"
		f.addPolicy(t, 0, 0, 100, nil)
		f.addPolicy(t, 5, 5, 100, &day)
		emp := f.addEmployee(t, "a@example.com", workday)

		_, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
		expectCode(t, err, string(geofence.ReasonOutOfRange))

		if _, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(5), Longitude: ptr(5), Photo: photo(t)}); err != nil {
			t.Fatalf("dated policy should accept: %v", err)
		}
	})
}

func TestClockInValidation(t *testing.T) {
	f := newFixture(t, workday)
	f.addPolicy(t, 0, 0, 100, nil)
	emp := f.addEmployee(t, "a@example.com", workday)
	ctx := context.Background()

	_, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0)})
	expectCode(t, err, apperror.CodeInvalidInput)

	_, err = f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Longitude: ptr(0), Photo: photo(t)})
	expectCode(t, err, apperror.CodeInvalidInput)

	_, err = f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: bytes.NewBufferString("bukan foto")})
	expectCode(t, err, apperror.CodeInvalidInput)

	_, err = f.attendance.ClockIn(ctx, 999, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
	expectCode(t, err, apperror.CodeNoProfile)
}

func TestClockInRollbackRemovesPhoto(t *testing.T) {
	f := newFixture(t, workday)
	f.addPolicy(t, 0, 0, 100, nil)
	emp := f.addEmployee(t, "a@example.com", workday)

	// insert gagal di dalam transaksi
	f.db.Callback().Create().Before("gorm:create").Register("test:fail_attendance", func(tx *gorm.DB) {
		if tx.Statement.Table == "attendances" {
			tx.AddError(os.ErrPermission)
		}
	})

	_, err := f.attendance.ClockIn(context.Background(), emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
	if apperror.KindOf(err) != apperror.KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
	if f.countFiles(t) != 0 {
		t.Fatalf("photo must be removed after rollback")
	}
	if f.countRows(t) != 0 {
		t.Fatalf("no row must be committed")
	}
}

func TestClockOutClosesMostRecentOpen(t *testing.T) {
	f := newFixture(t, workday)
	emp := f.addEmployee(t, "a@example.com", workday.AddDate(0, -1, 0))
	base := workday.AddDate(0, 0, -5)

	older := model.Attendance{EmployeeID: emp.ID, Status: model.StatusClockIn, Date: "2024-01-05", TimeIn: base}
	closedOut := base.AddDate(0, 0, 1).Add(8 * time.Hour)
	history := model.Attendance{EmployeeID: emp.ID, Status: model.StatusClockOut, Date: "2024-01-06", TimeIn: base.AddDate(0, 0, 1), TimeOut: &closedOut}
	newest := model.Attendance{EmployeeID: emp.ID, Status: model.StatusClockIn, Date: "2024-01-09", TimeIn: base.AddDate(0, 0, 4)}
	for _, a := range []*model.Attendance{&older, &history, &newest} {
		if err := f.db.Create(a).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	out, err := f.attendance.ClockOut(context.Background(), emp.UserID, ClockOutInput{})
	if err != nil {
		t.Fatalf("clock out: %v", err)
	}
	if out.Attendance.ID != newest.ID {
		t.Fatalf("expected newest open row %d to close, got %d", newest.ID, out.Attendance.ID)
	}

	var stillOpen model.Attendance
	f.db.First(&stillOpen, older.ID)
	if !stillOpen.IsOpen() {
		t.Fatalf("older open row must be untouched: %+v", stillOpen)
	}
}

func TestClockOutEnforcedGeofence(t *testing.T) {
	f := newFixture(t, workday)
	f.attendance.cfg.EnforceOnClockOut = true
	f.addPolicy(t, 0, 0, 100, nil)
	emp := f.addEmployee(t, "a@example.com", workday)
	ctx := context.Background()

	if _, err := f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)}); err != nil {
		t.Fatalf("clock in: %v", err)
	}

	_, err := f.attendance.ClockOut(ctx, emp.UserID, ClockOutInput{})
	expectCode(t, err, apperror.CodeInvalidInput)

	_, err = f.attendance.ClockOut(ctx, emp.UserID, ClockOutInput{Latitude: ptr(1), Longitude: ptr(1)})
	expectCode(t, err, string(geofence.ReasonOutOfRange))

	if _, err := f.attendance.ClockOut(ctx, emp.UserID, ClockOutInput{Latitude: ptr(0), Longitude: ptr(0)}); err != nil {
		t.Fatalf("clock out inside fence: %v", err)
	}
}

func TestLeaveScenario(t *testing.T) {
	f := newFixture(t, workday)
	f.addPolicy(t, 0, 0, 100, nil)
	emp := f.addEmployee(t, "a@example.com", workday.AddDate(0, -1, 0))
	ctx := context.Background()

	leave, err := f.attendance.Leave(ctx, emp.UserID, LeaveInput{Reason: "sick", Date: "2024-01-10"})
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if leave.Status != model.StatusLeave || leave.Reason != "sick" || leave.Date != "2024-01-10" || leave.TimeOut != nil {
		t.Fatalf("unexpected leave row: %+v", leave)
	}

	_, err = f.attendance.Leave(ctx, emp.UserID, LeaveInput{Reason: "lagi", Date: "2024-01-10"})
	expectCode(t, err, apperror.CodeAlreadyRecorded)

	_, err = f.attendance.ClockIn(ctx, emp.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)})
	expectCode(t, err, apperror.CodeOnLeave)

	_, err = f.attendance.Leave(ctx, emp.UserID, LeaveInput{Date: "2024-01-11"})
	expectCode(t, err, apperror.CodeInvalidInput)

	_, err = f.attendance.Leave(ctx, emp.UserID, LeaveInput{Reason: "x", Date: "10-01-2024"})
	expectCode(t, err, apperror.CodeInvalidInput)

	withPhoto, err := f.attendance.Leave(ctx, emp.UserID, LeaveInput{Reason: "surat dokter", Date: "2024-01-11", Photo: photo(t)})
	if err != nil || withPhoto.Photo == "" {
		t.Fatalf("leave with photo: %+v %v", withPhoto, err)
	}

	today, err := f.attendance.Today(ctx, emp.UserID)
	if err != nil || today.Status != model.StatusLeave {
		t.Fatalf("today should be IJIN, got %+v %v", today, err)
	}
}

func TestRecapProjectsAlpha(t *testing.T) {
	f := newFixture(t, workday) // 2024-01-10
	emp := f.addEmployee(t, "a@example.com", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	out := time.Date(2024, 1, 8, 17, 0, 0, 0, time.UTC)
	rows := []model.Attendance{
		{EmployeeID: emp.ID, Status: model.StatusClockOut, Date: "2024-01-08", TimeIn: time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC), TimeOut: &out},
		{EmployeeID: emp.ID, Status: model.StatusLeave, Date: "2024-01-09", TimeIn: workday, Reason: "sick"},
	}
	for i := range rows {
		f.db.Create(&rows[i])
	}

	recap, err := f.reports.Recap(ctx, emp.UserID, "2024-01-01", "2024-01-10")
	if err != nil {
		t.Fatalf("recap: %v", err)
	}

	// 01-02 sebelum terdaftar dilewati, 03-07 ALPHA, 08 CLOCK_OUT, 09 IJIN, 10 (hari ini) kosong
	if len(recap.Entries) != 7 {
		t.Fatalf("expected 7 entries, got %d: %+v", len(recap.Entries), recap.Entries)
	}
	if recap.Entries[0].Date != "2024-01-09" || recap.Entries[0].Status != model.StatusLeave {
		t.Fatalf("expected newest first, got %+v", recap.Entries[0])
	}
	if recap.Summary[model.StatusAlpha] != 5 || recap.Summary[model.StatusClockOut] != 1 {
		t.Fatalf("unexpected summary: %+v", recap.Summary)
	}

	var stored int64
	f.db.Model(&model.Attendance{}).Where("status = ?", model.StatusAlpha).Count(&stored)
	if stored != 0 {
		t.Fatalf("ALPHA must never be stored")
	}

	_, err = f.reports.Recap(ctx, emp.UserID, "2024-01-10", "2024-01-01")
	expectCode(t, err, apperror.CodeInvalidInput)
}

func TestReportOrdersByEmployeeThenDate(t *testing.T) {
	f := newFixture(t, workday)
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	zed := f.addEmployee(t, "zed@example.com", joined)
	ani := f.addEmployee(t, "ani@example.com", joined)

	f.db.Create(&model.Attendance{EmployeeID: zed.ID, Status: model.StatusLeave, Date: "2024-01-08", TimeIn: workday})
	f.db.Create(&model.Attendance{EmployeeID: ani.ID, Status: model.StatusLeave, Date: "2024-01-09", TimeIn: workday})

	report, err := f.reports.Report(context.Background(), "2024-01-08", "2024-01-09")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 2 || report[0].Employee.ID != ani.ID || report[1].Employee.ID != zed.ID {
		t.Fatalf("expected ani before zed, got %+v", report)
	}
	entries := report[0].Entries
	if len(entries) != 2 || entries[0].Date != "2024-01-08" || entries[0].Status != model.StatusAlpha || entries[1].Status != model.StatusLeave {
		t.Fatalf("unexpected entries for ani: %+v", entries)
	}
}

func TestDashboards(t *testing.T) {
	f := newFixture(t, workday)
	f.addPolicy(t, 0, 0, 100, nil)
	a := f.addEmployee(t, "a@example.com", workday)
	f.addEmployee(t, "b@example.com", workday)
	ctx := context.Background()

	if _, err := f.attendance.ClockIn(ctx, a.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)}); err != nil {
		t.Fatalf("clock in: %v", err)
	}

	stats, err := f.reports.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats["total_employees"].(int64) != 2 || stats["not_recorded"].(int64) != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats["today"].(map[string]int64)[string(model.StatusClockIn)] != 1 {
		t.Fatalf("expected one CLOCK_IN today: %+v", stats["today"])
	}

	mine, err := f.reports.UserDashboard(ctx, a.UserID)
	if err != nil || mine.Today != model.StatusClockIn || len(mine.Recent) != 1 {
		t.Fatalf("unexpected user dashboard: %+v %v", mine, err)
	}
}

func TestCheckLocationDoesNotWrite(t *testing.T) {
	f := newFixture(t, workday)
	f.addPolicy(t, 0, 0, 100, nil)

	d, err := f.attendance.CheckLocation(context.Background(), LocationCheckInput{Latitude: ptr(0), Longitude: ptr(0)})
	if err != nil || !d.Accepted {
		t.Fatalf("expected accepted decision, got %+v %v", d, err)
	}
	d, err = f.attendance.CheckLocation(context.Background(), LocationCheckInput{Latitude: ptr(1), Longitude: ptr(1), Action: geofence.ActionClockOut})
	if err != nil || d.Accepted || d.Reason != geofence.ReasonOutOfRange {
		t.Fatalf("expected OUT_OF_RANGE, got %+v %v", d, err)
	}
	if f.countRows(t) != 0 {
		t.Fatalf("location check must not write")
	}
}

func TestLocationCreateValidation(t *testing.T) {
	f := newFixture(t, workday)
	ctx := context.Background()

	_, err := f.locations.Create(ctx, CreateLocationInput{Latitude: ptr(0), Longitude: ptr(0), Radius: ptr(-1), ClockIn: "08:00", ClockOut: "17:00"})
	expectCode(t, err, apperror.CodeInvalidInput)
	_, err = f.locations.Create(ctx, CreateLocationInput{Latitude: ptr(0), Longitude: ptr(0), Radius: ptr(10), ClockIn: "8 pagi", ClockOut: "17:00"})
	expectCode(t, err, apperror.CodeInvalidInput)

	// field wajib yang kosong tidak boleh jadi titik (0,0) radius 0
	_, err = f.locations.Create(ctx, CreateLocationInput{Date: "2024-01-10", ClockIn: "08:00", ClockOut: "17:00"})
	appErr := apperror.As(err)
	if appErr == nil || appErr.Kind != apperror.KindValidation ||
		appErr.Fields["latitude"] == "" || appErr.Fields["longitude"] == "" || appErr.Fields["radius"] == "" {
		t.Fatalf("expected field errors for latitude, longitude and radius, got %v", err)
	}
	_, err = f.locations.Create(ctx, CreateLocationInput{Latitude: ptr(-6.2), Longitude: ptr(106.8), ClockIn: "08:00", ClockOut: "17:00"})
	expectCode(t, err, apperror.CodeInvalidInput)
	if policies, _ := f.locations.Policies(ctx, "2024-01-10"); len(policies) != 0 {
		t.Fatalf("rejected input must not be stored: %+v", policies)
	}

	// titik 0,0 yang dikirim eksplisit tetap sah
	if _, err := f.locations.Create(ctx, CreateLocationInput{Latitude: ptr(0), Longitude: ptr(0), Radius: ptr(0), Date: "2024-01-09", ClockIn: "08:00", ClockOut: "17:00"}); err != nil {
		t.Fatalf("explicit zero values should be accepted: %v", err)
	}

	s, err := f.locations.Create(ctx, CreateLocationInput{Latitude: ptr(-6.2), Longitude: ptr(106.8), Radius: ptr(50), Date: "2024-01-10", ClockIn: "07:30", ClockOut: "16:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ClockInOffset() != 7*time.Hour+30*time.Minute || s.Date == nil || *s.Date != "2024-01-10" {
		t.Fatalf("unexpected setting: %+v", s)
	}

	policies, err := f.locations.Policies(ctx, "2024-01-10")
	if err != nil || len(policies) != 1 || policies[0].ClockOut != 16*time.Hour {
		t.Fatalf("unexpected policies: %+v %v", policies, err)
	}
}
