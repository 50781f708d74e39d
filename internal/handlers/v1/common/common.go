// Package common holds what every v1 controller shares: caller identity and
// error translation.
package common

import (
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
)

// Identity is embedded in every input that acts on behalf of a user.
type Identity struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller user UUID"`
}

func (i Identity) Caller() (uuid.UUID, error) {
	id, err := uuid.FromString(i.UserID)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusUnauthorized, "invalid X-User-ID", err)
	}
	return id, nil
}

// ParseID parses a path or body UUID, reporting field on failure.
func ParseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

// ParseOptionalID returns nil for an empty value.
func ParseOptionalID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := ParseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseOptionalTime parses an RFC3339 value, returning nil for an empty value.
func ParseOptionalTime(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return &t, nil
}

func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Error maps domain errors onto HTTP statuses.
func Error(err error, msg string) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return huma.NewError(http.StatusNotFound, msg, err)
	case errors.Is(err, apperr.ErrDuplicateBudget),
		errors.Is(err, apperr.ErrConcurrentUpdateConflict),
		errors.Is(err, apperr.ErrInvalidStatusTransition):
		return huma.NewError(http.StatusConflict, msg, err)
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}
