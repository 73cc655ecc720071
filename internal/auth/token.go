package auth

import (
	"errors"
	"fmt"
	"time"

	"absensi-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("token tidak valid atau kadaluwarsa")
	ErrWrongPurpose = errors.New("token bukan untuk keperluan ini")
)

const (
	purposeAccess = "access"
	purposeReset  = "reset_password"
)

// Claims adalah isi access token.
type Claims struct {
	UserID  uint       `json:"uid"`
	Role    model.Role `json:"role"`
	Purpose string     `json:"pur"`
	jwt.RegisteredClaims
}

// ResetClaims membawa user id di claim "reset_password".
type ResetClaims struct {
	ResetPassword uint `json:"reset_password"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

func NewTokenManager(secret string, accessTTL, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		now:       time.Now,
	}
}

// WithClock dipakai test untuk menggeser waktu.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *TokenManager) IssueAccess(user *model.User) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID:  user.ID,
		Role:    user.Role,
		Purpose: purposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func (m *TokenManager) ParseAccess(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != purposeAccess || claims.UserID == 0 || claims.ID == "" {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

func (m *TokenManager) IssueReset(userID uint) (string, error) {
	now := m.now()
	claims := &ResetClaims{
		ResetPassword: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.resetTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseReset gagal tertutup: signature salah, algoritma lain, expired, atau claim kosong semua ditolak.
func (m *TokenManager) ParseReset(tokenString string) (uint, error) {
	claims := &ResetClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return 0, err
	}
	if claims.ResetPassword == 0 {
		return 0, ErrWrongPurpose
	}
	return claims.ResetPassword, nil
}

func (m *TokenManager) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
