package operator

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage    *storage.Storage
	queue      chan ActionItem
	maxRetries int
	logger     *logrus.Logger
}

func NewOperator(s *storage.Storage, queue chan ActionItem, maxRetries int, logger *logrus.Logger) *Operator {
	return &Operator{
		storage:    s,
		queue:      queue,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

// processItem runs the action in a fresh unit of work, starting over when a
// goal was changed concurrently, up to maxRetries extra attempts.
func (o *Operator) processItem(item ActionItem) error {
	var err error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if ctxErr := item.ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = o.perform(item)
		if !errors.Is(err, apperr.ErrConcurrentUpdateConflict) {
			return err
		}
		o.logger.WithFields(logrus.Fields{
			"action":  actionName(item.action),
			"attempt": attempt + 1,
		}).Debug("Operator.Process.Conflict")
	}

	o.logger.WithError(err).WithField("action", actionName(item.action)).Warn("Operator.Process.RetriesExhausted")
	return err
}

func (o *Operator) perform(item ActionItem) error {
	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return err
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		_ = writer.Rollback()
		return err
	}

	return writer.Commit()
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}

func actionName(action actions.IAction) string {
	if named, ok := action.(interface{ ActionName() string }); ok {
		return named.ActionName()
	}
	return "unknown"
}
