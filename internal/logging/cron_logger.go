package logging

import (
	"github.com/sirupsen/logrus"
)

// CronLogger routes robfig/cron's logging into logrus.
type CronLogger struct {
	Logger *logrus.Logger
}

func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.Logger.WithFields(keyValueFields(keysAndValues)).Debugf("Scheduler.Cron.%v", msg)
}

func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.Logger.WithFields(keyValueFields(keysAndValues)).WithError(err).Errorf("Scheduler.Cron.%v", msg)
}

func keyValueFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
