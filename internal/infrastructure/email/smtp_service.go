package email

import (
	"context"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"charmi-backend/internal/config"
)

// Message is a plain-text email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

type EmailService interface {
	Send(ctx context.Context, msg Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	addr string
	from mail.Address
	auth smtp.Auth
	send sendFunc
}

// NewSMTPEmailService sends through cfg.Host:cfg.Port. Auth is only used when a username is set,
// so a local catcher such as MailHog works without credentials.
func NewSMTPEmailService(cfg config.SMTPConfig) EmailService {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpEmailService{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: mail.Address{Name: cfg.FromName, Address: cfg.From},
		auth: auth,
		send: smtp.SendMail,
	}
}

func (s *smtpEmailService) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("send email: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(s.addr, s.auth, s.from.Address, msg.To, buildMessage(s.from, msg)); err != nil {
		log.Error().
			Err(err).
			Strs("to", msg.To).
			Str("smtp_addr", s.addr).
			Msg("Failed to send email")
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func buildMessage(from mail.Address, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
