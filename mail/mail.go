package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Sender delivers mail over SMTP with implicit TLS (SMTPS, typically port
// 465), the transport the upstream mail host speaks.
type Sender struct {
	host     string
	port     int
	from     string
	password string
	timeout  time.Duration
	logger   *slog.Logger
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithTimeout sets the connect timeout. Default: 15s.
func WithTimeout(d time.Duration) SenderOption {
	return func(s *Sender) { s.timeout = d }
}

// WithSenderLogger sets a custom logger.
func WithSenderLogger(l *slog.Logger) SenderOption {
	return func(s *Sender) { s.logger = l }
}

// NewSender creates a Sender authenticating as from with the given password.
func NewSender(host string, port int, from, password string, opts ...SenderOption) *Sender {
	s := &Sender{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		timeout:  15 * time.Second,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Send delivers one HTML mail to all recipients.
func (s *Sender) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	dialer := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: s.timeout},
		Config:    &tls.Config{ServerName: s.host},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: smtp client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("mail: auth: %w", err)
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(message(s.from, recipients, subject, htmlBody)); err != nil {
		w.Close()
		return fmt.Errorf("mail: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: close data: %w", err)
	}

	s.logger.Info("mail sent", "recipients", len(recipients))
	return client.Quit()
}

// message assembles the MIME envelope for an HTML mail.
func message(from string, recipients []string, subject, htmlBody string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")
	return []byte(sb.String())
}
