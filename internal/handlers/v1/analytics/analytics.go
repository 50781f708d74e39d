package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/service"
)

type RangeInput struct {
	common.Identity
	From string `query:"from" doc:"RFC3339 inclusive lower date bound"`
	To   string `query:"to" doc:"RFC3339 inclusive upper date bound"`
}

func (in *RangeInput) parse() (userID uuid.UUID, from, to *time.Time, err error) {
	if userID, err = in.Caller(); err != nil {
		return
	}
	if from, err = common.ParseOptionalTime(in.From, "from"); err != nil {
		return
	}
	to, err = common.ParseOptionalTime(in.To, "to")
	return
}

type SummaryBody struct {
	Income   int64 `json:"income" doc:"Total income"`
	Expenses int64 `json:"expenses" doc:"Total expenses"`
	Savings  int64 `json:"savings" doc:"Income minus expenses"`
}

type SummaryOutput struct {
	Body SummaryBody
}

type CategoryTotal struct {
	Category string `json:"category" doc:"Category label"`
	Total    int64  `json:"total" doc:"Total expenses"`
}

type CategoriesBody struct {
	Categories []CategoryTotal `json:"categories" doc:"Expense totals, largest first"`
}

type CategoriesOutput struct {
	Body CategoriesBody
}

type analyticsService interface {
	Summary(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*service.Summary, error)
	CategoryBreakdown(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]service.CategoryTotal, error)
}

// Handler serves /v1/analytics.
type Handler struct {
	AnalyticsService analyticsService
}

func NewHandler(svc analyticsService) *Handler {
	return &Handler{AnalyticsService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/v1/analytics/summary",
		Summary:     "Income and expense summary",
		Tags:        []string{"Analytics"},
	}, h.summary)

	huma.Register(api, huma.Operation{
		OperationID: "get-category-breakdown",
		Method:      http.MethodGet,
		Path:        "/v1/analytics/categories",
		Summary:     "Expenses by category",
		Tags:        []string{"Analytics"},
	}, h.categories)
}

func (h *Handler) summary(ctx context.Context, input *RangeInput) (*SummaryOutput, error) {
	userID, from, to, err := input.parse()
	if err != nil {
		return nil, err
	}

	s, err := h.AnalyticsService.Summary(ctx, userID, from, to)
	if err != nil {
		return nil, common.Error(err, "failed to compute summary")
	}
	return &SummaryOutput{Body: SummaryBody{Income: s.Income, Expenses: s.Expenses, Savings: s.Savings}}, nil
}

func (h *Handler) categories(ctx context.Context, input *RangeInput) (*CategoriesOutput, error) {
	userID, from, to, err := input.parse()
	if err != nil {
		return nil, err
	}

	totals, err := h.AnalyticsService.CategoryBreakdown(ctx, userID, from, to)
	if err != nil {
		return nil, common.Error(err, "failed to compute category breakdown")
	}

	out := &CategoriesOutput{Body: CategoriesBody{Categories: make([]CategoryTotal, len(totals))}}
	for i, total := range totals {
		out.Body.Categories[i] = CategoryTotal{Category: total.Category, Total: total.Total}
	}
	return out, nil
}
