// internal/game/manager.go
package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/models"
	"github.com/sirupsen/logrus"
)

// Manager is the session lifecycle orchestrator. Mutating operations on the
// same session id are serialized; different sessions run in parallel.
type Manager struct {
	players  PlayerDirectory
	sessions SessionStore
	turns    TurnSink       // Used only when sessions is not a TurnCommitter.
	history  TurnHistory    // Optional; history reads fall back to the session log.
	events   EventPublisher // Optional.

	rng   Rand
	now   func() time.Time
	locks *sessionLocks
	log   *logrus.Entry
}

// Option customizes a Manager.
type Option func(*Manager)

// WithTurnSink sets the turn history sink used when the session store cannot commit turns itself.
func WithTurnSink(sink TurnSink) Option {
	return func(m *Manager) { m.turns = sink }
}

// WithTurnHistory serves GetTurnHistory and GetPlayerTurnHistory from a turn log query.
func WithTurnHistory(h TurnHistory) Option {
	return func(m *Manager) { m.history = h }
}

// WithEventPublisher sets the publisher notified after each committed turn.
func WithEventPublisher(p EventPublisher) Option {
	return func(m *Manager) { m.events = p }
}

// WithClock overrides the time source for turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the log entry used by the manager.
func WithLogger(entry *logrus.Entry) Option {
	return func(m *Manager) { m.log = entry }
}

// NewManager wires the lifecycle manager to its collaborators.
func NewManager(players PlayerDirectory, sessions SessionStore, rng Rand, opts ...Option) *Manager {
	m := &Manager{
		players:  players,
		sessions: sessions,
		rng:      rng,
		now:      time.Now,
		locks:    newSessionLocks(),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithField("component", "game")
	return m
}

// CreateSession opens a WAITING session with creatorID as player 0.
func (m *Manager) CreateSession(ctx context.Context, creatorID uuid.UUID) (SessionView, error) {
	creator, err := m.resolvePlayer(ctx, creatorID)
	if err != nil {
		return SessionView{}, err
	}

	s := NewSession(uuid.New(), creatorID, m.now())
	if err := m.sessions.SaveSession(ctx, s); err != nil {
		return SessionView{}, fmt.Errorf("save session %s: %w", s.ID, err)
	}
	m.log.WithFields(logrus.Fields{"session_id": s.ID, "player_id": creatorID}).Info("Session created.")
	return newSessionView(s, map[uuid.UUID]string{creatorID: creator.DisplayName()}), nil
}

// JoinSession seats userID in a WAITING session.
func (m *Manager) JoinSession(ctx context.Context, sessionID, userID uuid.UUID) (SessionView, error) {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	stored, err := m.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if _, err := m.resolvePlayer(ctx, userID); err != nil {
		return SessionView{}, err
	}

	switch {
	case stored.HasPlayer(userID):
		return SessionView{}, ErrAlreadyJoined
	case stored.Status == StatusFinished:
		return SessionView{}, ErrGameFinished
	case stored.Status != StatusWaiting:
		return SessionView{}, ErrAlreadyStarted
	case len(stored.Players) >= MaxPlayers:
		return SessionView{}, ErrSessionFull
	}

	s := stored.Clone()
	s.addPlayer(userID)
	s.UpdatedAt = m.now()
	if err := m.sessions.SaveSession(ctx, s); err != nil {
		return SessionView{}, fmt.Errorf("save session %s: %w", s.ID, err)
	}
	m.log.WithFields(logrus.Fields{"session_id": s.ID, "player_id": userID, "players": len(s.Players)}).Info("Player joined session.")
	return m.view(ctx, s)
}

// StartSession deals the deck and moves the session to IN_PROGRESS.
// Only the creator may start, and only with at least MinPlayers seated.
func (m *Manager) StartSession(ctx context.Context, sessionID, userID uuid.UUID) (SessionView, error) {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	stored, err := m.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if _, err := m.resolvePlayer(ctx, userID); err != nil {
		return SessionView{}, err
	}

	switch {
	case stored.CreatorID() != userID:
		return SessionView{}, ErrNotCreator
	case stored.Status != StatusWaiting:
		return SessionView{}, ErrAlreadyStarted
	case len(stored.Players) < MinPlayers:
		return SessionView{}, ErrNotEnoughPlayers
	}

	s := stored.Clone()
	InitializeDeck(s, m.rng)
	s.Status = StatusInProgress
	s.CurrentPlayerIndex = 0
	s.NextPlayerIndex = 0
	s.UpdatedAt = m.now()
	if err := m.sessions.SaveSession(ctx, s); err != nil {
		return SessionView{}, fmt.Errorf("save session %s: %w", s.ID, err)
	}
	m.log.WithFields(logrus.Fields{"session_id": s.ID, "players": len(s.Players)}).Info("Session started.")
	return m.view(ctx, s)
}

// PlayTurn runs one full turn for userID: draw, resolve, then finish or rotate.
// The turn is applied to a copy of the session and committed as a whole; any
// error leaves the stored session unchanged.
func (m *Manager) PlayTurn(ctx context.Context, sessionID, userID uuid.UUID) (TurnResult, error) {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	stored, err := m.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return TurnResult{}, err
	}
	if _, err := m.resolvePlayer(ctx, userID); err != nil {
		return TurnResult{}, err
	}

	switch {
	case stored.Status == StatusFinished:
		return TurnResult{}, ErrGameFinished
	case stored.Status != StatusInProgress:
		return TurnResult{}, ErrGameNotStarted
	case stored.CurrentPlayerID() != userID:
		return TurnResult{}, ErrNotYourTurn
	}

	// Names are resolved before any mutation so a lookup failure cannot abort mid-turn.
	names, err := m.playerNames(ctx, stored.Players)
	if err != nil {
		return TurnResult{}, err
	}
	logger := m.log.WithFields(logrus.Fields{"session_id": sessionID, "player_id": userID})

	s := stored.Clone()
	now := m.now()

	card, reshuffled, err := DrawCard(s, m.rng)
	if err != nil {
		return TurnResult{}, m.defect(logger, err)
	}
	if reshuffled {
		logger.Info("Deck reshuffled.")
	}

	turn, err := ResolveCard(s, card, userID, m.rng, now, func(id uuid.UUID) string { return nameOr(names, id) })
	if err != nil {
		return TurnResult{}, m.defect(logger, err)
	}

	if CheckWinCondition(s) {
		// The acting player is credited even when a steal pushed someone else past the threshold.
		s.Status = StatusFinished
		s.WinnerID = userID
	} else {
		MoveToNextPlayer(s)
	}
	s.UpdatedAt = now

	if err := m.commit(ctx, s, turn); err != nil {
		if errors.Is(err, ErrConcurrentUpdate) {
			logger.Warn("Turn rejected: session changed while it was being played.")
		}
		return TurnResult{}, err
	}

	result := newTurnResult(s, turn, reshuffled, names)
	logger.WithFields(logrus.Fields{
		"card":         turn.CardName,
		"score_before": turn.ScoreBefore,
		"score_after":  turn.ScoreAfter,
		"finished":     result.Finished,
	}).Info(turn.Action)

	if m.events != nil {
		if err := m.events.PublishTurn(ctx, result); err != nil {
			logger.WithError(err).Warn("Failed publishing turn event.")
		}
	}
	return result, nil
}

// GetActiveSessions lists every session that has not finished.
func (m *Manager) GetActiveSessions(ctx context.Context) ([]SessionView, error) {
	sessions, err := m.sessions.ListActiveSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		if s.Status == StatusFinished {
			continue
		}
		v, err := m.view(ctx, s)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// GetDetailedStatus returns the scoreboard of a session.
func (m *Manager) GetDetailedStatus(ctx context.Context, sessionID uuid.UUID) (DetailedStatus, error) {
	s, err := m.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return DetailedStatus{}, err
	}
	names, err := m.playerNames(ctx, s.Players)
	if err != nil {
		return DetailedStatus{}, err
	}
	return newDetailedStatus(s, names), nil
}

// GetTurnHistory returns every turn of the session, most recent first.
func (m *Manager) GetTurnHistory(ctx context.Context, sessionID uuid.UUID) ([]Turn, error) {
	return m.turnHistory(ctx, sessionID, nil)
}

// GetPlayerTurnHistory returns playerID's turns in the session, most recent first.
func (m *Manager) GetPlayerTurnHistory(ctx context.Context, sessionID, playerID uuid.UUID) ([]Turn, error) {
	return m.turnHistory(ctx, sessionID, &playerID)
}

func (m *Manager) turnHistory(ctx context.Context, sessionID uuid.UUID, playerID *uuid.UUID) ([]Turn, error) {
	s, err := m.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if m.history != nil {
		turns, err := m.history.ListTurns(ctx, sessionID, playerID)
		if err != nil {
			return nil, fmt.Errorf("list turns for session %s: %w", sessionID, err)
		}
		return turns, nil
	}
	turns := slices.Clone(s.Turns)
	slices.Reverse(turns)
	if playerID != nil {
		turns = slices.DeleteFunc(turns, func(t Turn) bool { return t.PlayerID != *playerID })
	}
	return turns, nil
}

// commit persists the finished turn, atomically when the store supports it.
func (m *Manager) commit(ctx context.Context, s *Session, turn Turn) error {
	if c, ok := m.sessions.(TurnCommitter); ok {
		if err := c.CommitTurn(ctx, s, turn); err != nil {
			return fmt.Errorf("commit turn for session %s: %w", s.ID, err)
		}
		return nil
	}
	if err := m.sessions.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	if m.turns != nil {
		// The session's own log already holds the turn; the sink is a secondary copy.
		if err := m.turns.AppendTurn(ctx, turn); err != nil {
			m.log.WithError(err).WithField("session_id", s.ID).Error("Failed appending turn to history sink.")
		}
	}
	return nil
}

// defect logs an invariant violation for operator attention and returns err unchanged.
func (m *Manager) defect(logger *logrus.Entry, err error) error {
	if errors.Is(err, ErrInvariant) {
		logger.WithError(err).WithField("defect", true).Error("Turn aborted: game state invariant violated.")
	}
	return err
}

func (m *Manager) resolvePlayer(ctx context.Context, id uuid.UUID) (models.User, error) {
	u, err := m.players.ResolvePlayer(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("resolve player %s: %w", id, err)
	}
	return u, nil
}

func (m *Manager) playerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		u, err := m.resolvePlayer(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// A deleted account keeps its seat; fall back to the raw id.
				continue
			}
			return nil, err
		}
		names[id] = u.DisplayName()
	}
	return names, nil
}

func (m *Manager) view(ctx context.Context, s *Session) (SessionView, error) {
	names, err := m.playerNames(ctx, s.Players)
	if err != nil {
		return SessionView{}, err
	}
	return newSessionView(s, names), nil
}

func newTurnResult(s *Session, turn Turn, reshuffled bool, names map[uuid.UUID]string) TurnResult {
	r := TurnResult{
		SessionID:   s.ID,
		TurnID:      turn.ID,
		PlayerID:    turn.PlayerID,
		PlayerName:  nameOr(names, turn.PlayerID),
		CardID:      turn.CardID,
		CardName:    turn.CardName,
		CardKind:    turn.CardKind,
		Action:      turn.Action,
		ScoreBefore: turn.ScoreBefore,
		ScoreAfter:  turn.ScoreAfter,
		Reshuffled:  reshuffled,
		Finished:    s.Status == StatusFinished,
		WinnerID:    winnerOf(s),
		Timestamp:   turn.Timestamp,
	}
	if !r.Finished {
		next := s.CurrentPlayerID()
		r.NextPlayerID = &next
		r.NextPlayerName = nameOr(names, next)
	}
	return r
}
