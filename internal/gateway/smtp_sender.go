package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const sendTimeout = 30 * time.Second

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// SMTPSender delivers notifications as plain text email.
type SMTPSender struct {
	addr     string
	host     string
	username string
	password string
	from     string
	timeout  time.Duration
	dial     dialFunc
}

func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	return &SMTPSender{
		addr:     net.JoinHostPort(host, port),
		host:     host,
		username: username,
		password: password,
		from:     from,
		timeout:  sendTimeout,
		dial:     (&net.Dialer{}).DialContext,
	}
}

func (s *SMTPSender) auth() smtp.Auth {
	if s.username == "" {
		return nil
	}
	return smtp.PlainAuth("", s.username, s.password, s.host)
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg := buildMessage(s.from, to, subject, body, time.Now())
	if err := s.deliver(ctx, to, msg); err != nil {
		return deliveryFailed(to, err)
	}
	return nil
}

// deliver runs one SMTP session. The connection is closed as soon as ctx is
// done, so a stalled server cannot hold the caller past its deadline.
func (s *SMTPSender) deliver(ctx context.Context, to string, msg []byte) error {
	conn, err := s.dial(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	err = s.session(conn, to, msg)
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

func (s *SMTPSender) session(conn net.Conn, to string, msg []byte) error {
	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}
	if a := s.auth(); a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return err
		}
	}

	if err := c.Mail(s.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// buildMessage renders an RFC 5322 message with CRLF line endings.
func buildMessage(from, to, subject, body string, date time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", stripNewlines(from))
	fmt.Fprintf(&b, "To: %s\r\n", stripNewlines(to))
	fmt.Fprintf(&b, "Subject: %s\r\n", stripNewlines(subject))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
