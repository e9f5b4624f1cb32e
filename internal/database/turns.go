// internal/database/turns.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/game"
)

// AppendTurn writes a turn to the history table. Re-appending the same turn id is a no-op.
func (s *Store) AppendTurn(ctx context.Context, t game.Turn) error {
	return appendTurn(ctx, s.pool, t)
}

// ListTurns returns a session's turns, most recent first. A non-nil playerID
// restricts the result to that player's turns.
func (s *Store) ListTurns(ctx context.Context, sessionID uuid.UUID, playerID *uuid.UUID) ([]game.Turn, error) {
	query := `
		SELECT id, session_id, player_id, card_id, card_name, card_kind, action, score_before, score_after, created_at
		FROM turns WHERE session_id = $1`
	args := []any{sessionID}
	if playerID != nil {
		query += ` AND player_id = $2`
		args = append(args, *playerID)
	}
	// seq breaks ties between turns committed with the same timestamp.
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list turns for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []game.Turn
	for rows.Next() {
		var (
			t              game.Turn
			cardName, kind string
		)
		if err := rows.Scan(&t.ID, &t.SessionID, &t.PlayerID, &t.CardID, &cardName, &kind,
			&t.Action, &t.ScoreBefore, &t.ScoreAfter, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.CardName = game.CardName(cardName)
		t.CardKind = game.CardKind(kind)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list turns for session %s: %w", sessionID, err)
	}
	return out, nil
}

func appendTurn(ctx context.Context, db execer, t game.Turn) error {
	_, err := db.Exec(ctx, `
		INSERT INTO turns (id, session_id, player_id, card_id, card_name, card_kind, action, score_before, score_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		t.ID, t.SessionID, t.PlayerID, t.CardID, string(t.CardName), string(t.CardKind),
		t.Action, t.ScoreBefore, t.ScoreAfter, t.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("append turn %s: %w", t.ID, err)
	}
	return nil
}
