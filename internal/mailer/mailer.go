package mailer

import (
	"crypto/tls"
	"fmt"
	"math/rand"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/logger"
)

// Mailer is a sending handle built from one account's Configuration.
// It holds no cross-call state; every dispatch constructs its own handle so
// different accounts never share SMTP credentials.
type Mailer struct {
	cfg     domain.Configuration
	auth    smtp.Auth
	timeout time.Duration
}

func New(cfg domain.Configuration, timeout time.Duration) (*Mailer, error) {
	if !cfg.Complete() {
		return nil, internal_errors.Validation("Incomplete email configuration")
	}
	if _, err := mail.ParseAddress(cfg.EmailFrom); err != nil {
		return nil, internal_errors.Validation("Invalid from address")
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	return &Mailer{cfg: cfg, auth: auth, timeout: timeout}, nil
}

// ValidateAddress checks that email parses as an RFC 5322 address.
func ValidateAddress(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return internal_errors.Validation(err.Error())
	}
	return nil
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := m.buildMessage(to, subject, htmlBody)
	address := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	// Port 465 = implicit TLS, otherwise STARTTLS
	if m.cfg.SMTPPort == 465 {
		return m.sendImplicitTLS(address, to, msg)
	}
	return m.sendSTARTTLS(address, to, msg)
}

// sendImplicitTLS sends email over a connection that is TLS from the start (port 465).
func (m *Mailer) sendImplicitTLS(address, to string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: m.cfg.SMTPHost}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: m.timeout}, "tcp", address, tlsConfig)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	return m.sendOverConn(conn, to, msg)
}

// sendSTARTTLS sends email by upgrading a plain connection to TLS (port 587).
func (m *Mailer) sendSTARTTLS(address, to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, m.timeout)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: m.cfg.SMTPHost}
	if err = client.StartTLS(tlsConfig); err != nil {
		logger.Log.Error("failed to start TLS", "error", err)
		return err
	}

	return m.sendViaClient(client, to, msg)
}

// sendOverConn creates an SMTP client from an existing connection and sends the message.
func (m *Mailer) sendOverConn(conn net.Conn, to string, msg []byte) error {
	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return m.sendViaClient(client, to, msg)
}

// sendViaClient performs auth, sets sender/recipient, and sends the message body.
func (m *Mailer) sendViaClient(client *smtp.Client, to string, msg []byte) error {
	if err := client.Auth(m.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return err
	}

	if err := client.Mail(m.cfg.EmailFrom); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}

	if err := client.Rcpt(to); err != nil {
		logger.Log.Error("failed to set recipient", "recipient", to, "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}

	if _, err = w.Write(msg); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}

	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func generateMessageID(domain string) string {
	t := time.Now().UnixNano()
	pid := rand.Int63()
	return fmt.Sprintf("<%d.%d@%s>", t, pid, domain)
}

// fromDomain extracts the domain part of the configured from address for the
// Message-ID header.
func (m *Mailer) fromDomain() string {
	if i := strings.LastIndex(m.cfg.EmailFrom, "@"); i >= 0 && i+1 < len(m.cfg.EmailFrom) {
		return strings.TrimRight(m.cfg.EmailFrom[i+1:], ">")
	}
	return "localhost"
}

func (m *Mailer) buildMessage(to, subject, htmlBody string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)

	msgID := generateMessageID(m.fromDomain())
	date := time.Now().Format(time.RFC1123Z)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		msgID, date, to, m.cfg.EmailFrom, encodedSubject, htmlBody,
	)
}
