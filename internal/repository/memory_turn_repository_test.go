package repository

import (
	"context"
	"testing"
	"time"

	"adventure-server/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTurn(sessionID string, seq int) domain.Turn {
	return domain.Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sequence:  seq,
		FromScene: "start",
		ToScene:   "genclikiktidar",
		Kind:      "normal",
		Stats:     domain.InitialStats(),
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryTurnRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTurnRepository()
	session := uuid.NewString()

	require.NoError(t, repo.Append(ctx, newTurn(session, 2)))
	require.NoError(t, repo.Append(ctx, newTurn(session, 1)))
	require.NoError(t, repo.Append(ctx, newTurn(uuid.NewString(), 1)))

	turns, err := repo.ListBySession(ctx, session)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, 1, turns[0].Sequence)
	assert.Equal(t, 2, turns[1].Sequence)

	err = repo.Append(ctx, newTurn(session, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	err = repo.Append(ctx, domain.Turn{SessionID: session, Sequence: 9})
	require.Error(t, err)

	empty, err := repo.ListBySession(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
