package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("mailer missing configuration")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// UseTLS requires STARTTLS before authenticating.
	UseTLS bool
}

type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
	useTLS   bool
	now      func() time.Time
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{
		host:     strings.TrimSpace(cfg.Host),
		port:     strings.TrimSpace(cfg.Port),
		username: cfg.Username,
		password: cfg.Password,
		from:     strings.TrimSpace(cfg.From),
		useTLS:   cfg.UseTLS,
		now:      time.Now,
	}
}

// Send delivers msg and returns the Message-ID it was sent with.
func (m *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if m == nil || m.host == "" || m.port == "" || m.from == "" {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(msg.To) == "" {
		return "", errors.New("mail: recipient required")
	}

	messageID := newMessageID(m.from)
	raw, err := buildMessage(m.from, messageID, m.now(), msg)
	if err != nil {
		return "", err
	}

	if err := m.deliver(ctx, msg.To, raw); err != nil {
		return "", fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return messageID, nil
}

func (m *SMTPSender) deliver(ctx context.Context, to string, raw []byte) error {
	addr := net.JoinHostPort(m.host, m.port)
	dialer := &net.Dialer{Timeout: 15 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if m.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}
	if m.username != "" || m.password != "" {
		if err := client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return err
		}
	}
	if err := client.Mail(envelopeAddress(m.from)); err != nil {
		return err
	}
	if err := client.Rcpt(envelopeAddress(to)); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, messageID string, now time.Time, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	boundary := "alt-" + strings.ReplaceAll(uuid.NewString(), "-", "")

	header := func(k, v string) {
		buf.WriteString(k + ": " + v + "\r\n")
	}
	header("From", from)
	header("To", msg.To)
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", messageID)
	header("MIME-Version", "1.0")

	if msg.HTML == "" {
		header("Content-Type", "text/plain; charset=UTF-8")
		header("Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		if err := writeQP(&buf, msg.Text); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	header("Content-Type", `multipart/alternative; boundary="`+boundary+`"`)
	buf.WriteString("\r\n")
	for _, part := range []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	} {
		buf.WriteString("--" + boundary + "\r\n")
		header("Content-Type", part.contentType)
		header("Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		if err := writeQP(&buf, part.body); err != nil {
			return nil, err
		}
		buf.WriteString("\r\n")
	}
	buf.WriteString("--" + boundary + "--\r\n")
	return buf.Bytes(), nil
}

func writeQP(buf *bytes.Buffer, body string) error {
	w := quotedprintable.NewWriter(buf)
	if _, err := w.Write([]byte(body)); err != nil {
		return err
	}
	return w.Close()
}

func newMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(envelopeAddress(from), "@"); at >= 0 {
		domain = envelopeAddress(from)[at+1:]
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}

// envelopeAddress strips a display name ("Campus Tours <no-reply@uni.edu>").
func envelopeAddress(addr string) string {
	if parsed, err := mail.ParseAddress(addr); err == nil {
		return parsed.Address
	}
	return strings.TrimSpace(addr)
}
