// internal/database/sessions.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jason-s-yu/kokodi/internal/game"
)

// The session row stores the whole arena (players, deck, turn log, scores) as
// one JSONB document; status, version and timestamps are lifted into columns.
// The version column is authoritative and guards every write.

// LoadSession reads one session.
func (s *Store) LoadSession(ctx context.Context, id uuid.UUID) (*game.Session, error) {
	var (
		state   []byte
		version int64
	)
	err := s.pool.QueryRow(ctx, `SELECT state, version FROM game_sessions WHERE id = $1`, id).Scan(&state, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return decodeSession(state, version)
}

// SaveSession inserts a new session or updates one whose version is unchanged.
func (s *Store) SaveSession(ctx context.Context, sess *game.Session) error {
	next, err := saveSession(ctx, s.pool, sess)
	if err != nil {
		return err
	}
	sess.Version = next
	return nil
}

// ListActiveSessions returns unfinished sessions, oldest first.
func (s *Store) ListActiveSessions(ctx context.Context) ([]*game.Session, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT state, version FROM game_sessions WHERE status <> $1 ORDER BY created_at`,
		string(game.StatusFinished))
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	defer rows.Close()

	var out []*game.Session
	for rows.Next() {
		var (
			state   []byte
			version int64
		)
		if err := rows.Scan(&state, &version); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess, err := decodeSession(state, version)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return out, nil
}

// CommitTurn saves the session and appends the turn in one transaction.
// A stale version rolls back both writes.
func (s *Store) CommitTurn(ctx context.Context, sess *game.Session, t game.Turn) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin commit turn: %w", err)
	}
	defer tx.Rollback(ctx) // No-op after Commit.

	next, err := saveSession(ctx, tx, sess)
	if err != nil {
		return err
	}
	if err := appendTurn(ctx, tx, t); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit turn: %w", err)
	}
	sess.Version = next
	return nil
}

// saveSession writes sess as version sess.Version+1 and returns that version.
// Version 0 inserts; anything else updates only the row still at sess.Version.
func saveSession(ctx context.Context, db execer, sess *game.Session) (int64, error) {
	next := sess.Version + 1
	snapshot := *sess
	snapshot.Version = next
	state, err := json.Marshal(&snapshot)
	if err != nil {
		return 0, fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	var tag pgconn.CommandTag
	if sess.Version == 0 {
		tag, err = db.Exec(ctx, `
			INSERT INTO game_sessions (id, status, state, version, created_at, updated_at)
			VALUES ($1, $2, $3::jsonb, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			sess.ID, string(sess.Status), string(state), next, sess.CreatedAt.UTC(), sess.UpdatedAt.UTC())
	} else {
		tag, err = db.Exec(ctx, `
			UPDATE game_sessions
			SET status = $2, state = $3::jsonb, version = $4, updated_at = $5
			WHERE id = $1 AND version = $6`,
			sess.ID, string(sess.Status), string(state), next, sess.UpdatedAt.UTC(), sess.Version)
	}
	if err != nil {
		return 0, fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, game.ErrConcurrentUpdate
	}
	return next, nil
}

func decodeSession(state []byte, version int64) (*game.Session, error) {
	var sess game.Session
	if err := json.Unmarshal(state, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.Version = version
	if sess.Scores == nil {
		sess.Scores = make(map[uuid.UUID]int)
	}
	return &sess, nil
}
