package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"adventure-server/internal/domain"
)

// memoryTurnRepository keeps the journal in process memory. Used when DATABASE_URL is unset.
type memoryTurnRepository struct {
	mu    sync.RWMutex
	turns map[string][]domain.Turn
}

var _ TurnRepository = (*memoryTurnRepository)(nil)

// NewMemoryTurnRepository creates an empty in-memory journal.
func NewMemoryTurnRepository() TurnRepository {
	return &memoryTurnRepository{turns: make(map[string][]domain.Turn)}
}

func (r *memoryTurnRepository) Append(_ context.Context, turn domain.Turn) error {
	if turn.ID == "" {
		return fmt.Errorf("turn id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.turns[turn.SessionID] {
		if t.Sequence == turn.Sequence {
			return fmt.Errorf("turn %d of session %s already exists", turn.Sequence, turn.SessionID)
		}
	}
	r.turns[turn.SessionID] = append(r.turns[turn.SessionID], turn)
	return nil
}

func (r *memoryTurnRepository) ListBySession(_ context.Context, sessionID string) ([]domain.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	turns := append([]domain.Turn(nil), r.turns[sessionID]...)
	sort.Slice(turns, func(i, j int) bool { return turns[i].Sequence < turns[j].Sequence })
	return turns, nil
}
