package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/storage/budget"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/storage/user"
)

type committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer is one unit of work. Everything done through it commits or rolls back together.
type Writer struct {
	tx           committer
	Transactions transaction.IWriter
	Goals        goal.IWriter
	Budgets      budget.IWriter
	Users        user.IWriter
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:           tx,
		Transactions: transaction.NewWriter(tx),
		Goals:        goal.NewWriter(tx),
		Budgets:      budget.NewWriter(tx),
		Users:        user.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
