package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"adventure-server/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type pgTurnRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

var _ TurnRepository = (*pgTurnRepository)(nil)

// NewPgTurnRepository creates a PostgreSQL backed journal.
func NewPgTurnRepository(db *pgxpool.Pool, logger *zap.Logger) TurnRepository {
	return &pgTurnRepository{db: db, logger: logger.Named("PgTurnRepo")}
}

const insertTurnQuery = `
	INSERT INTO session_turns (id, session_id, sequence, from_scene, to_scene, choice_text, effects, kind, stats, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (r *pgTurnRepository) Append(ctx context.Context, turn domain.Turn) error {
	stats, err := json.Marshal(turn.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	_, err = r.db.Exec(ctx, insertTurnQuery,
		turn.ID, turn.SessionID, turn.Sequence, turn.FromScene, turn.ToScene,
		turn.ChoiceText, turn.Effects, turn.Kind, stats, turn.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert turn",
			zap.String("sessionID", turn.SessionID),
			zap.Int("sequence", turn.Sequence),
			zap.Error(err),
		)
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	r.logger.Debug("Turn stored", zap.String("sessionID", turn.SessionID), zap.Int("sequence", turn.Sequence))
	return nil
}

const listTurnsQuery = `
	SELECT id, session_id, sequence, from_scene, to_scene, choice_text, effects, kind, stats, created_at
	FROM session_turns
	WHERE session_id = $1
	ORDER BY sequence`

func (r *pgTurnRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	rows, err := r.db.Query(ctx, listTurnsQuery, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var (
			t     domain.Turn
			stats []byte
		)
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Sequence, &t.FromScene, &t.ToScene,
			&t.ChoiceText, &t.Effects, &t.Kind, &stats, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if err := json.Unmarshal(stats, &t.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats of turn %s: %w", t.ID, err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return turns, nil
}
