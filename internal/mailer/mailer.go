package mailer

import (
	"context"
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendResetLink(ctx context.Context, to, link string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	ttl    time.Duration
	log    *log.Logger
}

// New mengembalikan mailer SMTP. Jika host kosong (mode dev), link hanya ditulis ke log.
// ttl = masa berlaku token reset, ditampilkan di isi email.
func New(cfg SMTPConfig, ttl time.Duration, l *log.Logger) Mailer {
	if cfg.Host == "" {
		return &logMailer{log: l}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		ttl:    ttl,
		log:    l,
	}
}

func (m *smtpMailer) SendResetLink(ctx context.Context, to, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset Password Absensi")
	msg.SetBody("text/plain", resetBody(link, m.ttl))
	msg.AddAlternative("text/html", resetHTML(link, m.ttl))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("kirim email reset: %w", err)
	}
	m.log.Printf("[MAIL] reset link terkirim ke %s", to)
	return nil
}

type logMailer struct {
	log *log.Logger
}

func (m *logMailer) SendResetLink(_ context.Context, to, link string) error {
	m.log.Printf("[MAIL] SMTP_HOST kosong, reset link untuk %s: %s", to, link)
	return nil
}

func resetBody(link string, ttl time.Duration) string {
	return "Klik link berikut untuk reset password:\n\n" + link + "\n\nLink berlaku " + validity(ttl) + ". Abaikan email ini jika Anda tidak meminta reset password.\n"
}

func resetHTML(link string, ttl time.Duration) string {
	return fmt.Sprintf(`<p>Klik link berikut untuk reset password:</p><p><a href="%s">%s</a></p><p>Link berlaku %s.</p>`, link, link, validity(ttl))
}

// validity: "10 menit", "1 jam", atau "90 detik" kalau tidak bulat per menit.
func validity(ttl time.Duration) string {
	switch {
	case ttl >= time.Hour && ttl%time.Hour == 0:
		return fmt.Sprintf("%d jam", int(ttl/time.Hour))
	case ttl >= time.Minute && ttl%time.Minute == 0:
		return fmt.Sprintf("%d menit", int(ttl/time.Minute))
	default:
		return fmt.Sprintf("%d detik", int(ttl/time.Second))
	}
}
