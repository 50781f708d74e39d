package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/storage/budget"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/storage/user"
)

type Reader struct {
	Transactions transaction.IReader
	Goals        goal.IReader
	Budgets      budget.IReader
	Users        user.IReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Transactions: transaction.NewReader(exec),
		Goals:        goal.NewReader(exec),
		Budgets:      budget.NewReader(exec),
		Users:        user.NewReader(exec),
	}
}
