package handler

import (
	"log"
	"time"

	"absensi-backend/internal/helper"
	"absensi-backend/internal/middleware"
	"absensi-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	log          *log.Logger
	secureCookie bool
}

func NewAuthHandler(uc *usecase.AuthUsecase, secureCookie bool, l *log.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, secureCookie: secureCookie, log: l}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginInput
	if err := parseBody(c, &req); err != nil {
		return helper.Fail(c, h.log, err)
	}

	res, err := h.uc.Login(c.UserContext(), req)
	if err != nil {
		return helper.Fail(c, h.log, err)
	}

	// Web memakai cookie, mobile memakai token di body
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return helper.Success(c, "Login berhasil", res)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), middleware.Claims(c)); err != nil {
		return helper.Fail(c, h.log, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return helper.Success(c, "Logout berhasil", nil)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" form:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return helper.Fail(c, h.log, err)
	}

	if err := h.uc.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Jika email terdaftar, link reset password sudah dikirim", nil)
}

func (h *AuthHandler) VerifyResetToken(c *fiber.Ctx) error {
	user, err := h.uc.VerifyResetToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Token valid", fiber.Map{"email": user.Email})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req usecase.ResetPasswordInput
	if err := parseBody(c, &req); err != nil {
		return helper.Fail(c, h.log, err)
	}

	if err := h.uc.ResetPassword(c.UserContext(), c.Params("token"), req); err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Password berhasil direset, silakan login", nil)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req usecase.ChangePasswordInput
	if err := parseBody(c, &req); err != nil {
		return helper.Fail(c, h.log, err)
	}

	if err := h.uc.ChangePassword(c.UserContext(), middleware.UserID(c), req); err != nil {
		return helper.Fail(c, h.log, err)
	}
	return helper.Success(c, "Password berhasil diubah", nil)
}
