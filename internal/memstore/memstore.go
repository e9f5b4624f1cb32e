// Package memstore keeps sessions, turns and users in process memory. It backs
// tests and single-process deployments that run without DATABASE_URL.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/auth"
	"github.com/jason-s-yu/kokodi/internal/game"
	"github.com/jason-s-yu/kokodi/internal/models"
)

// Store implements every collaborator the game and auth packages consume.
// Sessions are cloned on the way in and out so callers never share state.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*game.Session
	order    []uuid.UUID // Session creation order for stable listings.
	turns    map[uuid.UUID][]game.Turn
	users    map[uuid.UUID]models.User
	byName   map[string]uuid.UUID
}

// New returns an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*game.Session),
		turns:    make(map[uuid.UUID][]game.Turn),
		users:    make(map[uuid.UUID]models.User),
		byName:   make(map[string]uuid.UUID),
	}
}

// LoadSession returns a copy of the stored session.
func (s *Store) LoadSession(ctx context.Context, id uuid.UUID) (*game.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// SaveSession stores a copy of sess if sess.Version is still current.
func (s *Store) SaveSession(ctx context.Context, sess *game.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(sess)
}

// saveLocked applies the version check shared by SaveSession and CommitTurn.
func (s *Store) saveLocked(sess *game.Session) error {
	stored, ok := s.sessions[sess.ID]
	var current int64
	if ok {
		current = stored.Version
	}
	if sess.Version != current {
		return game.ErrConcurrentUpdate
	}
	if !ok {
		s.order = append(s.order, sess.ID)
	}
	sess.Version = current + 1
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// ListActiveSessions returns copies of unfinished sessions in creation order.
func (s *Store) ListActiveSessions(ctx context.Context) ([]*game.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*game.Session, 0, len(s.order))
	for _, id := range s.order {
		if sess := s.sessions[id]; sess.Status != game.StatusFinished {
			out = append(out, sess.Clone())
		}
	}
	return out, nil
}

// AppendTurn records a turn in the session's history.
func (s *Store) AppendTurn(ctx context.Context, t game.Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[t.SessionID] = append(s.turns[t.SessionID], t)
	return nil
}

// CommitTurn saves the session and appends the turn under one lock.
func (s *Store) CommitTurn(ctx context.Context, sess *game.Session, t game.Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveLocked(sess); err != nil {
		return err
	}
	s.turns[t.SessionID] = append(s.turns[t.SessionID], t)
	return nil
}

// ListTurns returns the appended turns of a session, most recent first,
// optionally only those of playerID.
func (s *Store) ListTurns(ctx context.Context, sessionID uuid.UUID, playerID *uuid.UUID) ([]game.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	turns := s.Turns(sessionID)
	slices.Reverse(turns)
	if playerID != nil {
		turns = slices.DeleteFunc(turns, func(t game.Turn) bool { return t.PlayerID != *playerID })
	}
	return turns, nil
}

// Turns returns the appended turns of a session, oldest first.
func (s *Store) Turns(sessionID uuid.UUID) []game.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.turns[sessionID])
}

// ResolvePlayer looks a user up by id.
func (s *Store) ResolvePlayer(ctx context.Context, id uuid.UUID) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, game.ErrPlayerNotFound
	}
	return u, nil
}

// CreateUser registers u. Usernames are unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := strings.ToLower(u.Username)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[key]; taken {
		return auth.ErrUsernameTaken
	}
	s.users[u.ID] = u
	s.byName[key] = u.ID
	return nil
}

// GetUserByUsername looks a user up by name.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[strings.ToLower(username)]
	if !ok {
		return models.User{}, game.ErrPlayerNotFound
	}
	return s.users[id], nil
}
