package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/auth"
	"absensi-backend/internal/logger"
	"absensi-backend/internal/model"
	"absensi-backend/internal/repository"
	"absensi-backend/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	mu    sync.Mutex
	sent  map[string]string
	calls int
	err   error
}

func (m *fakeMailer) SendResetLink(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		m.calls++
		return m.err
	}
	if m.sent == nil {
		m.sent = make(map[string]string)
	}
	m.sent[to] = link
	m.calls++
	return nil
}

func newAuth(t *testing.T, f *fixture, now func() time.Time) (*AuthUsecase, *fakeMailer) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour, 600*time.Second).WithClock(now)
	m := &fakeMailer{}
	a := NewAuthUsecase(
		repository.NewUserRepository(f.db),
		repository.NewTokenRepository(f.db),
		tokens, m, "http://localhost:3000", logger.Discard(),
	)
	return a, m
}

func TestEmployeeCreateAndDuplicateEmail(t *testing.T) {
	f := newFixture(t, workday)
	ctx := context.Background()

	emp, err := f.employees.Create(ctx, CreateEmployeeInput{
		Name: "Budi", Email: "Budi@Example.com", Password: "rahasia123", PhoneNumber: "0812", Gender: "L",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if emp.User == nil || emp.User.Role != model.RoleEmployee || emp.User.Email != "budi@example.com" {
		t.Fatalf("unexpected user: %+v", emp.User)
	}
	if bcrypt.CompareHashAndPassword([]byte(emp.User.Password), []byte("rahasia123")) != nil {
		t.Fatalf("password must be stored as bcrypt hash")
	}

	_, err = f.employees.Create(ctx, CreateEmployeeInput{
		Name: "Budi 2", Email: "budi@example.com", Password: "rahasia123", PhoneNumber: "0813",
	})
	expectCode(t, err, apperror.CodeEmailTaken)

	_, err = f.employees.Create(ctx, CreateEmployeeInput{Name: "X", Email: "bukan-email", Password: "123", PhoneNumber: "1"})
	appErr := apperror.As(err)
	if appErr == nil || appErr.Kind != apperror.KindValidation || appErr.Fields["email"] == "" || appErr.Fields["password"] == "" {
		t.Fatalf("expected field errors for email and password, got %v", err)
	}
}

func TestEmployeeUpdateAndProfile(t *testing.T) {
	f := newFixture(t, workday)
	ctx := context.Background()

	a, _ := f.employees.Create(ctx, CreateEmployeeInput{Name: "A", Email: "a@example.com", Password: "rahasia123", PhoneNumber: "1"})
	f.employees.Create(ctx, CreateEmployeeInput{Name: "B", Email: "b@example.com", Password: "rahasia123", PhoneNumber: "2"})

	_, err := f.employees.Update(ctx, a.ID, UpdateEmployeeInput{Name: "A", Email: "b@example.com"})
	expectCode(t, err, apperror.CodeEmailTaken)

	updated, err := f.employees.Update(ctx, a.ID, UpdateEmployeeInput{Name: "Ani", Email: "ani@example.com", Gender: "P"})
	if err != nil || updated.Name != "Ani" || updated.User.Email != "ani@example.com" {
		t.Fatalf("update: %+v %v", updated, err)
	}

	_, err = f.employees.Update(ctx, 999, UpdateEmployeeInput{Name: "X", Email: "x@example.com"})
	expectCode(t, err, apperror.CodeNotFound)

	self, err := f.employees.UpdateProfile(ctx, a.UserID, UpdateProfileInput{PhoneNumber: "0899", Photo: photo(t)})
	if err != nil || self.PhoneNumber != "0899" || !strings.HasPrefix(self.PhotoProfile, storage.FolderProfile+"/") {
		t.Fatalf("update profile: %+v %v", self, err)
	}
	first := self.PhotoProfile

	self, err = f.employees.UpdateProfile(ctx, a.UserID, UpdateProfileInput{Photo: photo(t)})
	if err != nil {
		t.Fatalf("replace photo: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.uploadDir, first)); !os.IsNotExist(err) {
		t.Fatalf("old profile photo should be removed")
	}

	profile, err := f.employees.Profile(ctx, a.UserID)
	if err != nil || profile.Employee == nil || profile.Employee.PhotoProfile != self.PhotoProfile {
		t.Fatalf("profile: %+v %v", profile, err)
	}
}

func TestDeleteEmployeeCascades(t *testing.T) {
	f := newFixture(t, workday)
	f.addPolicy(t, 0, 0, 100, nil)
	ctx := context.Background()

	gone, _ := f.employees.Create(ctx, CreateEmployeeInput{Name: "A", Email: "a@example.com", Password: "rahasia123", PhoneNumber: "1"})
	kept, _ := f.employees.Create(ctx, CreateEmployeeInput{Name: "B", Email: "b@example.com", Password: "rahasia123", PhoneNumber: "2"})

	for _, e := range []*model.Employee{gone, kept} {
		if _, err := f.attendance.ClockIn(ctx, e.UserID, ClockInInput{Latitude: ptr(0), Longitude: ptr(0), Photo: photo(t)}); err != nil {
			t.Fatalf("clock in: %v", err)
		}
	}

	res, err := f.employees.DeleteEmployee(ctx, gone.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.AttendanceCount != 1 || len(res.PhotoRefs) != 1 {
		t.Fatalf("unexpected cascade result: %+v", res)
	}
	if f.countRows(t) != 1 || f.countFiles(t) != 1 {
		t.Fatalf("only the deleted employee's rows and photos must go")
	}

	_, err = f.employees.Get(ctx, gone.ID)
	expectCode(t, err, apperror.CodeNotFound)
	_, err = f.employees.DeleteUser(ctx, gone.UserID)
	expectCode(t, err, apperror.CodeNotFound)

	// email bisa dipakai lagi
	if _, err := f.employees.Create(ctx, CreateEmployeeInput{Name: "A2", Email: "a@example.com", Password: "rahasia123", PhoneNumber: "3"}); err != nil {
		t.Fatalf("email should be reusable after delete: %v", err)
	}
}

func TestLoginAndLogout(t *testing.T) {
	f := newFixture(t, workday)
	a, _ := newAuth(t, f, time.Now)
	ctx := context.Background()
	f.employees.Create(ctx, CreateEmployeeInput{Name: "A", Email: "a@example.com", Password: "rahasia123", PhoneNumber: "1"})

	_, err := a.Login(ctx, LoginInput{Email: "a@example.com", Password: "salah"})
	expectCode(t, err, apperror.CodeInvalidCreds)
	_, err = a.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "rahasia123"})
	expectCode(t, err, apperror.CodeInvalidCreds)

	res, err := a.Login(ctx, LoginInput{Email: "A@example.com", Password: "rahasia123"})
	if err != nil || res.Token == "" || res.User.Role != model.RoleEmployee {
		t.Fatalf("login: %+v %v", res, err)
	}

	claims, err := a.Authenticate(ctx, res.Token)
	if err != nil || claims.UserID != res.User.ID {
		t.Fatalf("authenticate: %+v %v", claims, err)
	}

	if err := a.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = a.Authenticate(ctx, res.Token)
	expectCode(t, err, apperror.CodeUnauthenticated)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t, workday)
	now := time.Now()
	a, m := newAuth(t, f, func() time.Time { return now })
	ctx := context.Background()
	f.employees.Create(ctx, CreateEmployeeInput{Name: "A", Email: "a@example.com", Password: "rahasia123", PhoneNumber: "1"})

	if err := a.ForgotPassword(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must look like success: %v", err)
	}
	if m.calls != 0 {
		t.Fatalf("no mail for unknown email")
	}

	if err := a.ForgotPassword(ctx, "a@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	link := m.sent["a@example.com"]
	prefix := "http://localhost:3000/api/auth/reset-password/"
	if !strings.HasPrefix(link, prefix) {
		t.Fatalf("unexpected link %q", link)
	}
	token := strings.TrimPrefix(link, prefix)

	if _, err := a.VerifyResetToken(ctx, token); err != nil {
		t.Fatalf("verify: %v", err)
	}

	err := a.ResetPassword(ctx, token, ResetPasswordInput{Password: "123"})
	expectCode(t, err, apperror.CodeInvalidInput)

	if err := a.ResetPassword(ctx, token, ResetPasswordInput{Password: "baru12345"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := a.Login(ctx, LoginInput{Email: "a@example.com", Password: "baru12345"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	// kadaluwarsa setelah 600 detik
	now = now.Add(601 * time.Second)
	err = a.ResetPassword(ctx, token, ResetPasswordInput{Password: "lagi12345"})
	expectCode(t, err, apperror.CodeInvalidResetToken)

	err = a.ResetPassword(ctx, "bukan.token.jwt", ResetPasswordInput{Password: "lagi12345"})
	expectCode(t, err, apperror.CodeInvalidResetToken)
}

func TestForgotPasswordHidesMailFailure(t *testing.T) {
	f := newFixture(t, workday)
	a, m := newAuth(t, f, time.Now)
	m.err = errors.New("smtp: connection refused")
	ctx := context.Background()
	f.employees.Create(ctx, CreateEmployeeInput{Name: "A", Email: "a@example.com", Password: "rahasia123", PhoneNumber: "1"})

	known := a.ForgotPassword(ctx, "a@example.com")
	unknown := a.ForgotPassword(ctx, "nobody@example.com")
	if known != nil || unknown != nil {
		t.Fatalf("registered and unknown email must answer the same: %v / %v", known, unknown)
	}
	if m.calls != 1 {
		t.Fatalf("mail should have been attempted once, got %d", m.calls)
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, workday)
	a, _ := newAuth(t, f, time.Now)
	ctx := context.Background()
	emp, _ := f.employees.Create(ctx, CreateEmployeeInput{Name: "A", Email: "a@example.com", Password: "rahasia123", PhoneNumber: "1"})

	err := a.ChangePassword(ctx, emp.UserID, ChangePasswordInput{OldPassword: "salah", NewPassword: "baru12345"})
	expectCode(t, err, apperror.CodeInvalidCreds)

	if err := a.ChangePassword(ctx, emp.UserID, ChangePasswordInput{OldPassword: "rahasia123", NewPassword: "baru12345"}); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := a.Login(ctx, LoginInput{Email: "a@example.com", Password: "baru12345"}); err != nil {
		t.Fatalf("login after change: %v", err)
	}
}
