// Package dberr maps driver errors onto the apperr taxonomy.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/carson-networks/ledger-server/internal/apperr"
)

// BudgetPeriodConstraint is the unique constraint on (user_id, category, month, year).
const BudgetPeriodConstraint = "budgets_user_category_period_key"

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Translate wraps err with the matching apperr sentinel, if any.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case codeUniqueViolation:
		if pqErr.Constraint == BudgetPeriodConstraint {
			return fmt.Errorf("%w: %s", apperr.ErrDuplicateBudget, pqErr.Message)
		}
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, pqErr.Message)
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %s", apperr.ErrConcurrentUpdateConflict, pqErr.Message)
	}
	return err
}
