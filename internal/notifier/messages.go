package notifier

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/storage/budget"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/user"
)

const signature = "\n\nBest,\nFinance Manager"

type message struct {
	Subject string
	Body    string
}

func budgetExceeded(u *user.User, b *budget.Budget, spent int64) message {
	return message{
		Subject: fmt.Sprintf("Budget Exceeded: %s", b.Category),
		Body: fmt.Sprintf("Dear %s,\n\nYour %s budget for %d/%d ($%d) has been exceeded. You've spent $%d.\n\nPlease review your expenses.%s",
			u.Name, b.Category, b.Month, b.Year, b.Amount, spent, signature),
	}
}

func budgetWarning(u *user.User, b *budget.Budget, spent int64, pct decimal.Decimal) message {
	return message{
		Subject: fmt.Sprintf("Budget Warning: %s", b.Category),
		Body: fmt.Sprintf("Dear %s,\n\nYou're approaching your %s budget limit for %d/%d ($%d). You've spent $%d (%s%%).\n\nConsider adjusting your spending.%s",
			u.Name, b.Category, b.Month, b.Year, b.Amount, spent, pct.StringFixed(2), signature),
	}
}

func goalAchieved(u *user.User, g *goal.Goal) message {
	return message{
		Subject: fmt.Sprintf("Goal Achieved: %s", g.Name),
		Body: fmt.Sprintf("Dear %s,\n\nCongratulations! You've achieved your goal %q ($%s).\n\nKeep up the great work!%s",
			u.Name, g.Name, g.TargetAmount.StringFixed(2), signature),
	}
}

func goalMilestone(u *user.User, g *goal.Goal, pct decimal.Decimal) message {
	return message{
		Subject: fmt.Sprintf("Goal Milestone: %s", g.Name),
		Body: fmt.Sprintf("Dear %s,\n\nYou're halfway to your goal %q! You've saved $%s of $%s (%s%%).\n\nKeep going!%s",
			u.Name, g.Name, g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), pct.StringFixed(2), signature),
	}
}
