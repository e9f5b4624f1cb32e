// internal/game/collaborators.go
package game

import (
	"context"

	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/models"
)

// PlayerDirectory resolves player ids to identities.
// Unknown ids must yield an error matching ErrPlayerNotFound.
type PlayerDirectory interface {
	ResolvePlayer(ctx context.Context, id uuid.UUID) (models.User, error)
}

// SessionStore loads and saves whole sessions. Implementations must not
// retain or hand out references shared with the caller.
type SessionStore interface {
	// LoadSession returns an error matching ErrSessionNotFound for unknown ids.
	LoadSession(ctx context.Context, id uuid.UUID) (*Session, error)
	// SaveSession writes s only if s.Version is still the stored version
	// (0 for a new session), then sets s.Version to the new one. A stale
	// version yields an error matching ErrConcurrentUpdate.
	SaveSession(ctx context.Context, s *Session) error
	// ListActiveSessions returns every session whose status is not FINISHED.
	ListActiveSessions(ctx context.Context) ([]*Session, error)
}

// TurnSink is the append-only turn history consumer.
type TurnSink interface {
	AppendTurn(ctx context.Context, t Turn) error
}

// TurnCommitter is implemented by stores that can save a session and append
// its new turn atomically, with the same version check as SaveSession.
// The Manager prefers it over SaveSession+AppendTurn.
type TurnCommitter interface {
	CommitTurn(ctx context.Context, s *Session, t Turn) error
}

// EventPublisher receives every committed turn. Delivery is best effort.
type EventPublisher interface {
	PublishTurn(ctx context.Context, result TurnResult) error
}

// TurnHistory serves turn history queries from the turn log, most recent
// first. A non-nil playerID restricts the result to that player's turns.
type TurnHistory interface {
	ListTurns(ctx context.Context, sessionID uuid.UUID, playerID *uuid.UUID) ([]Turn, error)
}
