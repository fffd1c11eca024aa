package mailer

import (
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/smtp"

	"github.com/maksv/social-network-api/internal/config"
)

// SMTP sends plain-text account mail over an implicit-TLS connection,
// the transport the deployment's provider expects on port 465.
type SMTP struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func New(cfg *config.Config) *SMTP {
	return &SMTP{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
}

func (m *SMTP) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	// Some relays don't advertise AUTH; only authenticate when offered.
	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.envelopeSender()); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// envelopeSender is the bare address for MAIL FROM; the configured From
// may carry a display name.
func (m *SMTP) envelopeSender() string {
	if addr, err := mail.ParseAddress(m.from); err == nil {
		return addr.Address
	}
	return m.from
}
