package usecase

import (
	"context"
	"sort"
	"time"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/model"
	"absensi-backend/internal/repository"
)

const maxRangeDays = 366

type ReportUsecase struct {
	attendance repository.AttendanceRepository
	employees  repository.EmployeeRepository
	dashboard  repository.DashboardRepository
	location   *time.Location
	now        func() time.Time
}

func NewReportUsecase(attendance repository.AttendanceRepository, employees repository.EmployeeRepository, dashboard repository.DashboardRepository, loc *time.Location) *ReportUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUsecase{attendance: attendance, employees: employees, dashboard: dashboard, location: loc, now: time.Now}
}

func (u *ReportUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// RecapEntry adalah satu hari pada rekap. AttendanceID kosong untuk ALPHA hasil proyeksi.
type RecapEntry struct {
	Date         string                 `json:"date"`
	Status       model.AttendanceStatus `json:"status"`
	TimeIn       *time.Time             `json:"time_in"`
	TimeOut      *time.Time             `json:"time_out"`
	Reason       string                 `json:"reason,omitempty"`
	PhotoRef     string                 `json:"photo_ref,omitempty"`
	AttendanceID uint                   `json:"attendance_id,omitempty"`
}

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Recap struct {
	Employee *model.Employee                `json:"employee"`
	Range    DateRange                      `json:"range"`
	Summary  map[model.AttendanceStatus]int `json:"summary"`
	Entries  []RecapEntry                   `json:"entries"`
}

type UserDashboard struct {
	Employee *model.Employee        `json:"employee"`
	Today    model.AttendanceStatus `json:"today"`
	Recent   []model.Attendance     `json:"recent"`
}

// Recap: rekap milik pegawai sendiri, tanggal terbaru lebih dulu.
func (u *ReportUsecase) Recap(ctx context.Context, userID uint, from, to string) (*Recap, error) {
	emp, err := employeeOf(ctx, u.employees, userID)
	if err != nil {
		return nil, err
	}

	today := u.today()
	rng, err := resolveRange(from, to, today)
	if err != nil {
		return nil, err
	}

	rows, err := u.attendance.GetHistory(ctx, emp.ID, rng.From, rng.To)
	if err != nil {
		return nil, storageOr(err)
	}

	entries := project(rows, rng, today, joinedOn(emp, u.location))
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })

	return &Recap{Employee: emp, Range: rng, Summary: summarize(entries), Entries: entries}, nil
}

// Report: laporan admin untuk semua pegawai, urut nama pegawai lalu tanggal.
func (u *ReportUsecase) Report(ctx context.Context, from, to string) ([]Recap, error) {
	today := u.today()
	rng, err := resolveRange(from, to, today)
	if err != nil {
		return nil, err
	}

	employees, err := u.employees.GetAll(ctx, "")
	if err != nil {
		return nil, storageOr(err)
	}
	rows, err := u.attendance.GetBetween(ctx, rng.From, rng.To)
	if err != nil {
		return nil, storageOr(err)
	}

	byEmployee := make(map[uint][]model.Attendance, len(employees))
	for _, row := range rows {
		byEmployee[row.EmployeeID] = append(byEmployee[row.EmployeeID], row)
	}

	report := make([]Recap, 0, len(employees))
	for i := range employees {
		emp := &employees[i]
		entries := project(byEmployee[emp.ID], rng, today, joinedOn(emp, u.location))
		sort.SliceStable(entries, func(a, b int) bool { return entries[a].Date < entries[b].Date })
		report = append(report, Recap{Employee: emp, Range: rng, Summary: summarize(entries), Entries: entries})
	}
	return report, nil
}

// Dashboard admin: jumlah pegawai dan status hari ini.
func (u *ReportUsecase) Dashboard(ctx context.Context) (map[string]interface{}, error) {
	stats, err := u.dashboard.GetDashboardStats(ctx, u.today())
	if err != nil {
		return nil, storageOr(err)
	}
	return stats, nil
}

// UserDashboard: profil, status hari ini, dan 10 catatan terakhir.
func (u *ReportUsecase) UserDashboard(ctx context.Context, userID uint) (*UserDashboard, error) {
	emp, err := employeeOf(ctx, u.employees, userID)
	if err != nil {
		return nil, err
	}

	recent, err := u.attendance.GetRecent(ctx, emp.ID, 10)
	if err != nil {
		return nil, storageOr(err)
	}

	status := model.StatusNone
	today := u.today()
	for _, a := range recent {
		if a.Date == today {
			status = a.Status
			break
		}
	}
	return &UserDashboard{Employee: emp, Today: status, Recent: recent}, nil
}

func (u *ReportUsecase) today() string {
	return u.now().In(u.location).Format(model.DateLayout)
}

// resolveRange: default awal bulan berjalan s/d hari ini.
func resolveRange(from, to, today string) (DateRange, error) {
	todayT, _ := time.Parse(model.DateLayout, today)
	if to == "" {
		to = today
	}
	if from == "" {
		from = time.Date(todayT.Year(), todayT.Month(), 1, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
	}

	fromT, err := time.Parse(model.DateLayout, from)
	if err != nil {
		return DateRange{}, apperror.ValidationFields("Validasi gagal", map[string]string{"from": "format tanggal harus YYYY-MM-DD"})
	}
	toT, err := time.Parse(model.DateLayout, to)
	if err != nil {
		return DateRange{}, apperror.ValidationFields("Validasi gagal", map[string]string{"to": "format tanggal harus YYYY-MM-DD"})
	}
	if toT.Before(fromT) {
		return DateRange{}, apperror.Validation("Tanggal awal harus sebelum tanggal akhir")
	}
	if toT.Sub(fromT) > maxRangeDays*24*time.Hour {
		return DateRange{}, apperror.Validation("Rentang tanggal maksimal 366 hari")
	}
	return DateRange{From: from, To: to}, nil
}

// project mengubah baris absensi menjadi satu entri per tanggal. Tanggal lampau
// tanpa baris menjadi ALPHA (tidak pernah disimpan); hari ini dan seterusnya
// tanpa baris dilewati, begitu juga tanggal sebelum pegawai terdaftar.
func project(rows []model.Attendance, rng DateRange, today, joined string) []RecapEntry {
	byDate := make(map[string]model.Attendance, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}

	fromT, _ := time.Parse(model.DateLayout, rng.From)
	toT, _ := time.Parse(model.DateLayout, rng.To)

	var entries []RecapEntry
	for d := fromT; !d.After(toT); d = d.AddDate(0, 0, 1) {
		date := d.Format(model.DateLayout)
		if row, ok := byDate[date]; ok {
			timeIn := row.TimeIn
			entries = append(entries, RecapEntry{
				Date:         date,
				Status:       row.Status,
				TimeIn:       &timeIn,
				TimeOut:      row.TimeOut,
				Reason:       row.Reason,
				PhotoRef:     row.Photo,
				AttendanceID: row.ID,
			})
			continue
		}
		if date < today && date >= joined {
			entries = append(entries, RecapEntry{Date: date, Status: model.StatusAlpha})
		}
	}
	return entries
}

func summarize(entries []RecapEntry) map[model.AttendanceStatus]int {
	summary := map[model.AttendanceStatus]int{
		model.StatusClockIn:  0,
		model.StatusClockOut: 0,
		model.StatusLeave:    0,
		model.StatusAlpha:    0,
	}
	for _, e := range entries {
		summary[e.Status]++
	}
	return summary
}

func joinedOn(emp *model.Employee, loc *time.Location) string {
	if emp.CreatedAt.IsZero() {
		return ""
	}
	return emp.CreatedAt.In(loc).Format(model.DateLayout)
}
