// internal/game/session.go
package game

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	MaxPlayers   = 4
	MinPlayers   = 2
	WinThreshold = 30
)

// Status is the lifecycle phase of a session. Transitions only move forward:
// WAITING -> IN_PROGRESS -> FINISHED.
type Status string

const (
	StatusWaiting    Status = "WAITING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// Turn is the immutable record of one resolved turn.
type Turn struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"sessionId"`
	PlayerID    uuid.UUID `json:"playerId"`
	CardID      uuid.UUID `json:"cardId"`
	CardName    CardName  `json:"cardName"`
	CardKind    CardKind  `json:"cardKind"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	ScoreBefore int       `json:"scoreBefore"`
	ScoreAfter  int       `json:"scoreAfter"`
}

// Session is one game from creation to finish. It owns its deck and turn log;
// players are referenced by id only.
type Session struct {
	ID     uuid.UUID `json:"id"`
	Status Status    `json:"status"`

	Players []uuid.UUID       `json:"players"` // Join order; Players[0] is the creator.
	Deck    []Card            `json:"deck"`
	Turns   []Turn            `json:"turns"` // Append-only, oldest first.
	Scores  map[uuid.UUID]int `json:"scores"`

	CurrentPlayerIndex int  `json:"currentPlayerIndex"`
	NextPlayerIndex    int  `json:"nextPlayerIndex"` // Target of the most recent rotation.
	BlockNextPlayer    bool `json:"blockNextPlayer"`

	WinnerID uuid.UUID `json:"winnerId"` // uuid.Nil unless Status is FINISHED.

	// Version is the stored revision this copy was loaded from; 0 before the
	// first save. Stores reject a save whose Version is not the current one
	// and advance it on success.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates a WAITING session with the creator seated as player 0.
func NewSession(id, creatorID uuid.UUID, now time.Time) *Session {
	s := &Session{
		ID:        id,
		Status:    StatusWaiting,
		Scores:    make(map[uuid.UUID]int),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.addPlayer(creatorID)
	return s
}

// addPlayer seats a player with a zero score. Callers enforce capacity.
func (s *Session) addPlayer(playerID uuid.UUID) {
	s.Players = append(s.Players, playerID)
	if s.Scores == nil {
		s.Scores = make(map[uuid.UUID]int)
	}
	s.Scores[playerID] = 0
}

// HasPlayer reports whether playerID is seated in the session.
func (s *Session) HasPlayer(playerID uuid.UUID) bool {
	return slices.Contains(s.Players, playerID)
}

// CreatorID returns the id of the player who created the session.
func (s *Session) CreatorID() uuid.UUID {
	if len(s.Players) == 0 {
		return uuid.Nil
	}
	return s.Players[0]
}

// CurrentPlayerID returns the id of the player whose turn it is, or uuid.Nil.
func (s *Session) CurrentPlayerID() uuid.UUID {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return uuid.Nil
	}
	return s.Players[s.CurrentPlayerIndex]
}

// Clone returns a deep copy. Turn processing works on a clone so a failed
// step never leaks partial changes into the stored session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Players = slices.Clone(s.Players)
	c.Deck = slices.Clone(s.Deck)
	c.Turns = slices.Clone(s.Turns)
	c.Scores = maps.Clone(s.Scores)
	if c.Scores == nil {
		c.Scores = make(map[uuid.UUID]int)
	}
	return &c
}
