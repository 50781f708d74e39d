package gateway

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/config"
)

// Sender delivers one notification. A returned error is an expected outcome
// and wraps apperr.ErrNotificationDeliveryFailed.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Closer is implemented by senders holding a connection.
type Closer interface {
	Close() error
}

func deliveryFailed(to string, err error) error {
	return fmt.Errorf("%w: to %s: %w", apperr.ErrNotificationDeliveryFailed, to, err)
}

// NewSender builds the sender selected by NOTIFY_BACKEND.
func NewSender(env *config.Config, logger *logrus.Logger) (Sender, error) {
	switch env.NotifyBackend {
	case config.NotifySMTP:
		return NewSMTPSender(env.SMTPHost, env.SMTPPort, env.SMTPUsername, env.SMTPPassword, env.SMTPFrom), nil
	case config.NotifyAMQP:
		return NewAMQPSender(env.AMQPURL, env.AMQPExchange, env.AMQPQueue)
	default:
		return NewLogSender(logger), nil
	}
}
