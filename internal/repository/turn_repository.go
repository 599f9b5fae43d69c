// Package repository stores the journal of committed turns.
package repository

import (
	"context"

	"adventure-server/internal/domain"
)

// TurnRepository persists committed transitions per session.
type TurnRepository interface {
	// Append stores a turn. Turn.ID must be set.
	Append(ctx context.Context, turn domain.Turn) error
	// ListBySession returns the turns of a session ordered by sequence.
	ListBySession(ctx context.Context, sessionID string) ([]domain.Turn, error)
}
