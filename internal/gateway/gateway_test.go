package gateway

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/apperr"
)

// -- Log sender tests --

func TestLogSender_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.Out = &buf
	logger.SetFormatter(&logrus.JSONFormatter{})

	err := NewLogSender(logger).Send(context.Background(), "sam@example.com", "Budget Warning: food", "hello")
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Gateway.Log.Send", entry["msg"])
	assert.Equal(t, "sam@example.com", entry["to"])
	assert.Equal(t, "Budget Warning: food", entry["subject"])
}

// -- SMTP sender tests --

func TestBuildMessage(t *testing.T) {
	date := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	msg := string(buildMessage("alerts@example.com", "sam@example.com", "Goal Achieved: Laptop\n", "line one\nline two", date))

	assert.True(t, strings.HasPrefix(msg, "From: alerts@example.com\r\nTo: sam@example.com\r\n"))
	assert.Contains(t, msg, "Subject: Goal Achieved: Laptop \r\n")
	assert.Contains(t, msg, "Date: Sun, 01 Jun 2025 09:00:00 +0000\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nline one\r\nline two"))
}

// fakeSMTPServer speaks just enough SMTP on conn to accept one message and
// sends the received DATA lines once the client quits.
func fakeSMTPServer(conn net.Conn) <-chan []string {
	received := make(chan []string, 1)
	go func() {
		defer conn.Close()
		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 mail.local ESMTP")

		var data []string
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			switch verb, _, _ := strings.Cut(line, " "); strings.ToUpper(verb) {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250 mail.local")
			case "MAIL", "RCPT":
				_ = tp.PrintfLine("250 OK")
			case "DATA":
				_ = tp.PrintfLine("354 go ahead")
				if data, err = tp.ReadDotLines(); err != nil {
					return
				}
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				received <- data
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()
	return received
}

func pipeDialer(server func(net.Conn)) (dialFunc, *string) {
	var dialed string
	return func(_ context.Context, _, addr string) (net.Conn, error) {
		dialed = addr
		client, srv := net.Pipe()
		server(srv)
		return client, nil
	}, &dialed
}

func TestSMTPSender_Send(t *testing.T) {
	sender := NewSMTPSender("mail.local", "2525", "", "", "alerts@example.com")

	var received <-chan []string
	dial, dialed := pipeDialer(func(conn net.Conn) { received = fakeSMTPServer(conn) })
	sender.dial = dial

	require.NoError(t, sender.Send(context.Background(), "sam@example.com", "Goal Milestone: Laptop", "halfway there"))
	assert.Equal(t, "mail.local:2525", *dialed)

	lines := <-received
	assert.Contains(t, lines, "To: sam@example.com")
	assert.Contains(t, lines, "Subject: Goal Milestone: Laptop")
	assert.Equal(t, "halfway there", lines[len(lines)-1])
}

func TestSMTPSender_StalledServerHonoursDeadline(t *testing.T) {
	sender := NewSMTPSender("mail.local", "2525", "", "", "alerts@example.com")
	sender.timeout = 50 * time.Millisecond

	// The server accepts the connection but never greets.
	dial, _ := pipeDialer(func(net.Conn) {})
	sender.dial = dial

	start := time.Now()
	err := sender.Send(context.Background(), "sam@example.com", "s", "b")
	assert.ErrorIs(t, err, apperr.ErrNotificationDeliveryFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSMTPSender_FailureIsDeliveryFailed(t *testing.T) {
	sender := NewSMTPSender("mail.local", "2525", "user", "pass", "alerts@example.com")
	sender.dial = func(context.Context, string, string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}

	err := sender.Send(context.Background(), "sam@example.com", "s", "b")
	assert.ErrorIs(t, err, apperr.ErrNotificationDeliveryFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestBuildMessage_RecipientCannotInjectHeaders(t *testing.T) {
	date := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	msg := string(buildMessage("alerts@example.com", "sam@example.com\r\nBcc: eve@example.com", "s", "b", date))

	assert.Contains(t, msg, "To: sam@example.com  Bcc: eve@example.com\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
}

// -- AMQP sender tests --

type recordingPublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (p *recordingPublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	p.exchange = exchange
	p.key = key
	p.msg = msg
	return p.err
}

func TestAMQPSender_PublishesPersistentJSON(t *testing.T) {
	pub := &recordingPublisher{}
	sender := &AMQPSender{channel: pub, exchange: "ledger", queueName: "ledger.notifications"}

	require.NoError(t, sender.Send(context.Background(), "sam@example.com", "Goal Milestone: Bike", "halfway"))
	assert.Equal(t, "ledger", pub.exchange)
	assert.Equal(t, "ledger.notifications", pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "application/json", pub.msg.ContentType)

	var msg NotificationMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &msg))
	assert.Equal(t, "sam@example.com", msg.To)
	assert.Equal(t, "Goal Milestone: Bike", msg.Subject)
	assert.Equal(t, "halfway", msg.Body)
}

func TestAMQPSender_FailureIsDeliveryFailed(t *testing.T) {
	sender := &AMQPSender{channel: &recordingPublisher{err: amqp.ErrClosed}, exchange: "x", queueName: "q"}

	err := sender.Send(context.Background(), "sam@example.com", "s", "b")
	assert.ErrorIs(t, err, apperr.ErrNotificationDeliveryFailed)
}
