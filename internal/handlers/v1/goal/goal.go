package goal

import (
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/service"
)

// Goal is the API response model for a savings goal. Amounts are decimal strings.
type Goal struct {
	ID                string `json:"id" doc:"Goal UUID"`
	Name              string `json:"name" doc:"Goal name"`
	TargetAmount      string `json:"targetAmount" doc:"Decimal target"`
	CurrentAmount     string `json:"currentAmount" doc:"Decimal amount saved so far"`
	Percent           string `json:"percent" doc:"Progress percent, two decimals"`
	Category          string `json:"category" doc:"Category label"`
	Deadline          string `json:"deadline" doc:"RFC3339 deadline"`
	Status            string `json:"status" doc:"active, completed or cancelled"`
	MilestoneNotified bool   `json:"milestoneNotified" doc:"Whether the halfway alert was delivered"`
	CreatedAt         string `json:"createdAt" doc:"RFC3339 creation time"`
}

func toGoal(g *service.Goal) Goal {
	return Goal{
		ID:                g.ID.String(),
		Name:              g.Name,
		TargetAmount:      g.TargetAmount.StringFixed(2),
		CurrentAmount:     g.CurrentAmount.StringFixed(2),
		Percent:           g.Percent.StringFixed(2),
		Category:          g.Category,
		Deadline:          common.FormatTime(g.Deadline),
		Status:            string(g.Status),
		MilestoneNotified: g.MilestoneNotified,
		CreatedAt:         common.FormatTime(g.CreatedAt),
	}
}

type GoalOutput struct {
	Body Goal
}

// GoalIDInput addresses one of the caller's goals.
type GoalIDInput struct {
	common.Identity
	ID string `path:"id" doc:"Goal UUID"`
}

func (in *GoalIDInput) parse() (userID, id uuid.UUID, err error) {
	if userID, err = in.Caller(); err != nil {
		return
	}
	id, err = common.ParseID(in.ID, "id")
	return
}
