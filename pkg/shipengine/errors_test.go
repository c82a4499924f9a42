package shipengine_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/shipengine/pkg/shipengine"
)

func TestAdapterError_Message(t *testing.T) {
	err := shipengine.NewAdapterError(shipengine.KindUpstream, "rate limit exceeded")

	assert.Equal(t, "shipengine upstream error: rate limit exceeded", err.Error())
}

func TestAdapterError_MessageWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := shipengine.NewAdapterError(shipengine.KindUpstream, "request failed").WithCause(cause)

	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAdapterError_Unwrap(t *testing.T) {
	err := shipengine.NewAdapterError(shipengine.KindConfiguration, "missing credential").
		WithCause(shipengine.ErrMissingAPIKey)

	assert.True(t, errors.Is(err, shipengine.ErrMissingAPIKey))
}

func TestAdapterError_IsMatchesOnKind(t *testing.T) {
	err := shipengine.NewAdapterError(shipengine.KindNoCarrierAccounts, "catalog is empty")

	assert.True(t, errors.Is(err, shipengine.NewAdapterError(shipengine.KindNoCarrierAccounts, "other message")))
	assert.False(t, errors.Is(err, shipengine.NewAdapterError(shipengine.KindUpstream, "catalog is empty")))
}

func TestAdapterError_As(t *testing.T) {
	wrapped := fmt.Errorf("settings check: %w",
		shipengine.NewAdapterError(shipengine.KindConfiguration, "missing credential"))

	var adapterErr *shipengine.AdapterError
	require.ErrorAs(t, wrapped, &adapterErr)
	assert.Equal(t, shipengine.KindConfiguration, adapterErr.Kind)
}
