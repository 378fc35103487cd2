package services

import (
	"blog/internal/config"
	"crypto/tls"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

// EmailService отправляет письма через SMTP (STARTTLS при MAIL_USE_TLS).
type EmailService struct {
	auth   smtp.Auth
	from   string
	host   string
	addr   string
	useTLS bool
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		auth:   smtp.PlainAuth("", cfg.MailUsername, cfg.MailPassword, cfg.MailServer),
		from:   cfg.MailSender,
		host:   cfg.MailServer,
		addr:   cfg.MailAddr(),
		useTLS: cfg.MailUseTLS,
	}
}

func (s *EmailService) Send(to []string, subject, body string) error {
	return s.send(to, buildMessage(s.from, to, subject, body, "text/plain"))
}

func (s *EmailService) SendHTML(to []string, subject, body string) error {
	return s.send(to, buildMessage(s.from, to, subject, body, "text/html"))
}

func (s *EmailService) send(to []string, msg []byte) error {
	if !s.useTLS {
		return smtp.SendMail(s.addr, s.auth, envelopeAddress(s.from), to, msg)
	}

	c, err := smtp.Dial(s.addr)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	if err := c.Auth(s.auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Mail(envelopeAddress(s.from)); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from string, to []string, subject, body, contentType string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: " + contentType + "; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// envelopeAddress вынимает адрес из "Name <addr>".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}
