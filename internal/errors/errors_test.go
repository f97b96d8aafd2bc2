package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/wildlands/internal/errors"
)

func TestErrorFormatting(t *testing.T) {
	err := errors.NotFoundf("character %s not found", "char_123")
	assert.Equal(t, "NOT_FOUND: character char_123 not found", err.Error())

	wrapped := errors.Wrap(fmt.Errorf("connection refused"), "failed to load save")
	assert.Equal(t, errors.CodeInternal, wrapped.Code)
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestWrapPreservesCode(t *testing.T) {
	inner := errors.FailedPrecondition("training is on cooldown")
	outer := errors.Wrap(inner, "train failed")

	assert.True(t, errors.IsFailedPrecondition(outer))
	assert.Equal(t, errors.CodeFailedPrecondition, errors.GetCode(outer))
	assert.Equal(t, "train failed", errors.GetMessage(outer))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "ignored"))
	assert.Nil(t, errors.WrapWithCode(nil, errors.CodeUnavailable, "ignored"))
}

func TestCodeChecks(t *testing.T) {
	testCases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", errors.NotFound("missing tile"), errors.IsNotFound},
		{"invalid argument", errors.InvalidArgument("mismatched gem types"), errors.IsInvalidArgument},
		{"failed precondition", errors.FailedPrecondition("character is dead"), errors.IsFailedPrecondition},
		{"unavailable", errors.Unavailable("save store unreachable"), errors.IsUnavailable},
		{"out of range", errors.OutOfRange("tile outside map"), errors.IsOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(tc.err))
			assert.False(t, errors.IsInternal(tc.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, errors.CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, errors.CodeInvalidArgument.HTTPStatus())
	assert.Equal(t, http.StatusPreconditionFailed, errors.CodeFailedPrecondition.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, errors.CodeUnavailable.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, errors.Code("BOGUS").HTTPStatus())
}

func TestValidationBuilder(t *testing.T) {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("Clock")
	vb.Fieldf("SpawnRate", "must be between %v and %v", 0.0, 1.0)

	err := vb.Build()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "Clock")

	empty := errors.NewValidationBuilder().Build()
	assert.NoError(t, empty)
}
