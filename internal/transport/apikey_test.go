package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/temporal-xray/internal/repository"
	"github.com/rpggio/temporal-xray/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyResolver(t *testing.T) {
	keys := &mocks.APIKeyRepository{}
	keys.On("Resolve", context.Background(), HashToken("good")).Return("ops", nil)
	keys.On("Resolve", context.Background(), HashToken("bad")).Return("", repository.ErrNotFound)

	resolver := APIKeyResolver{Keys: keys}

	callerID, err := resolver.ResolveCaller(context.Background(), "good")
	require.NoError(t, err)
	require.Equal(t, "ops", callerID)

	_, err = resolver.ResolveCaller(context.Background(), "bad")
	require.True(t, errors.Is(err, ErrUnauthorized))
	keys.AssertExpectations(t)
}

func TestHashToken(t *testing.T) {
	require.Len(t, HashToken("x"), 64)
	require.NotEqual(t, HashToken("x"), HashToken("y"))
}
