package transaction

import (
	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction UUID"`
	GoalID      string `json:"goalID,omitempty" doc:"Linked goal UUID"`
	Amount      int64  `json:"amount" doc:"Positive amount in whole currency units"`
	Type        string `json:"type" doc:"income or expense"`
	Category    string `json:"category" doc:"Category label"`
	Date        string `json:"date" doc:"RFC3339 transaction date"`
	Description string `json:"description,omitempty" doc:"Free text"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
}

func toTransaction(tx *service.Transaction) Transaction {
	result := Transaction{
		ID:          tx.ID.String(),
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Date:        common.FormatTime(tx.Date),
		Description: tx.Description,
		CreatedAt:   common.FormatTime(tx.CreatedAt),
	}
	if tx.GoalID != nil {
		result.GoalID = tx.GoalID.String()
	}
	return result
}

// TransactionOutput wraps a single transaction response.
type TransactionOutput struct {
	Body Transaction
}
