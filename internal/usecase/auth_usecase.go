package usecase

import (
	"context"
	"log"
	"time"

	"absensi-backend/internal/apperror"
	"absensi-backend/internal/auth"
	"absensi-backend/internal/mailer"
	"absensi-backend/internal/model"
	"absensi-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash dipakai saat email tidak ditemukan agar waktu respon login tetap mirip.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)

type AuthUsecase struct {
	users   repository.UserRepository
	revoked repository.TokenRepository
	tokens  *auth.TokenManager
	mailer  mailer.Mailer
	baseURL string
	log     *log.Logger
}

func NewAuthUsecase(users repository.UserRepository, revoked repository.TokenRepository, tokens *auth.TokenManager, m mailer.Mailer, baseURL string, l *log.Logger) *AuthUsecase {
	return &AuthUsecase{users: users, revoked: revoked, tokens: tokens, mailer: m, baseURL: baseURL, log: l}
}

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type ResetPasswordInput struct {
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=6,max=72"`
}

func errInvalidCredentials() error {
	return apperror.Auth(apperror.CodeInvalidCreds, "Email atau password salah")
}

func errInvalidResetToken() error {
	return apperror.Auth(apperror.CodeInvalidResetToken, "Link reset password tidak valid atau sudah kadaluwarsa")
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	// 1. Cari user berdasarkan email
	user, err := u.users.FindByEmail(ctx, in.Email)
	if isNotFound(err) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, errInvalidCredentials()
	}
	if err != nil {
		return nil, storageOr(err)
	}

	// 2. Bandingkan password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials()
	}

	// 3. Buat token
	token, claims, err := u.tokens.IssueAccess(user)
	if err != nil {
		return nil, apperror.Storage(err)
	}

	u.log.Printf("[AUTH] login user=%d role=%s", user.ID, user.Role)
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Authenticate dipakai middleware: token harus valid dan belum di-logout.
func (u *AuthUsecase) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := u.tokens.ParseAccess(token)
	if err != nil {
		return nil, apperror.Auth(apperror.CodeUnauthenticated, "Token tidak valid atau kadaluwarsa")
	}

	revoked, err := u.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, storageOr(err)
	}
	if revoked {
		return nil, apperror.Auth(apperror.CodeUnauthenticated, "Sesi sudah berakhir, silakan login kembali")
	}
	return claims, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := u.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return storageOr(err)
	}
	u.log.Printf("[AUTH] logout user=%d", claims.UserID)
	return nil
}

// ForgotPassword selalu sukses dari sisi pemanggil agar email terdaftar tidak bisa ditebak.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return apperror.ValidationFields("Validasi gagal", map[string]string{"email": "format email tidak valid"})
	}

	user, err := u.users.FindByEmail(ctx, email)
	if isNotFound(err) {
		u.log.Printf("[AUTH] forgot-password untuk email tidak terdaftar")
		return nil
	}
	if err != nil {
		return storageOr(err)
	}

	token, err := u.tokens.IssueReset(user.ID)
	if err != nil {
		return apperror.Storage(err)
	}

	// gagal kirim email cukup dicatat; respon harus sama dengan email tidak terdaftar
	link := u.baseURL + "/api/auth/reset-password/" + token
	if err := u.mailer.SendResetLink(ctx, user.Email, link); err != nil {
		u.log.Printf("[AUTH] kirim reset link user=%d gagal: %v", user.ID, err)
	}
	return nil
}

// VerifyResetToken gagal tertutup untuk token rusak, kadaluwarsa, atau user yang sudah dihapus.
func (u *AuthUsecase) VerifyResetToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := u.tokens.ParseReset(token)
	if err != nil {
		return nil, errInvalidResetToken()
	}

	user, err := u.users.FindByID(ctx, userID)
	if isNotFound(err) {
		return nil, errInvalidResetToken()
	}
	if err != nil {
		return nil, storageOr(err)
	}
	return user, nil
}

func (u *AuthUsecase) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) error {
	user, err := u.VerifyResetToken(ctx, token)
	if err != nil {
		return err
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	return u.setPassword(ctx, user.ID, in.Password)
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	user, err := u.users.FindByID(ctx, userID)
	if isNotFound(err) {
		return apperror.NotFound(apperror.CodeNotFound, "User tidak ditemukan")
	}
	if err != nil {
		return storageOr(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); err != nil {
		return apperror.Auth(apperror.CodeInvalidCreds, "Password lama salah")
	}
	return u.setPassword(ctx, user.ID, in.NewPassword)
}

func (u *AuthUsecase) setPassword(ctx context.Context, userID uint, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Storage(err)
	}
	if err := u.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if isNotFound(err) {
			return apperror.NotFound(apperror.CodeNotFound, "User tidak ditemukan")
		}
		return storageOr(err)
	}
	u.log.Printf("[AUTH] password diganti user=%d", userID)
	return nil
}
