package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTP is the fallback email provider for self-hosted relays.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTP(host, port, username, password, from string) *SMTP {
	return &SMTP{Host: host, Port: port, Username: username, Password: password, From: from}
}

func (s *SMTP) Name() string { return "smtp" }

func (s *SMTP) IsConfigured() bool { return s.Host != "" }

func (s *SMTP) SendEmail(_ context.Context, to, subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := s.Host + ":" + s.Port
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	return smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg.String()))
}
