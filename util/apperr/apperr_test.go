package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindValidation, KindOf(Validation("bad")))
	require.Equal(t, KindNotFound, KindOf(NotFoundf("member %d not found", 7)))
	require.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("issue failed: %w", Validation("copy unavailable"))
	require.Equal(t, KindValidation, KindOf(err))

	e, ok := As(err)
	require.True(t, ok)
	require.Equal(t, "copy unavailable", e.Message)
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)
	require.Equal(t, "internal error", err.Message)
	require.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	require.Equal(t, http.StatusUnauthorized, HTTPStatus(KindAuthentication))
	require.Equal(t, http.StatusForbidden, HTTPStatus(KindAuthorization))
	require.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}

func TestWithDetails(t *testing.T) {
	err := Validation("loan limit reached").WithDetails(map[string]int{"active_loans": 3, "loan_limit": 3})
	require.NotNil(t, err.Details)
	require.Equal(t, KindValidation, err.Kind)
}
