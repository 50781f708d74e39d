package gateway

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes notifications to the application log. It never fails.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    body,
	}).Info("Gateway.Log.Send")
	return nil
}
