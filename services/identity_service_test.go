package services

import (
	"context"
	"sync"
	"testing"

	"habit-pact/apperrors"
	"habit-pact/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.identity.ResolveOrCreate(ctx, "  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.NotEmpty(t, first.ID)

	again, err := env.identity.ResolveOrCreate(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := env.identity.ResolveOrCreate(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	byID, err := env.identity.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func TestResolveOrCreateRejectsBlank(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.identity.ResolveOrCreate(context.Background(), "   ")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = env.identity.GetByID(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestResolveOrCreateConcurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 12
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "race@example.com"
			if i%2 == 0 {
				email = "RACE@example.com"
			}
			p, err := env.identity.ResolveOrCreate(ctx, email)
			if assert.NoError(t, err) {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Participant{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
