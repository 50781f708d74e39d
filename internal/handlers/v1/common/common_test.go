package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/ledger-server/internal/apperr"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected huma.StatusError, got %T", err)
	}
	return se.GetStatus()
}

func TestError_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("goal: %w", apperr.ErrNotFound), http.StatusNotFound},
		{apperr.ErrDuplicateBudget, http.StatusConflict},
		{apperr.ErrConcurrentUpdateConflict, http.StatusConflict},
		{apperr.ErrInvalidStatusTransition, http.StatusConflict},
		{errors.New("database unavailable"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, statusOf(t, Error(tc.err, "failed")), tc.err.Error())
	}
}

func TestIdentity_Caller(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	got, err := Identity{UserID: id.String()}.Caller()
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = Identity{UserID: "nope"}.Caller()
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestParseOptional(t *testing.T) {
	id, err := ParseOptionalID("", "goalID")
	assert.NoError(t, err)
	assert.Nil(t, id)

	_, err = ParseOptionalID("bad", "goalID")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	ts, err := ParseOptionalTime("2025-06-01T00:00:00Z", "from")
	assert.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())

	_, err = ParseOptionalTime("June", "from")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
