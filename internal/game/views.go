// internal/game/views.go
package game

import (
	"time"

	"github.com/google/uuid"
)

// PlayerView is a seated player with display name and current score.
type PlayerView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
}

// SessionView is the caller-facing summary of a session.
type SessionView struct {
	ID              uuid.UUID    `json:"id"`
	Status          Status       `json:"status"`
	Players         []PlayerView `json:"players"`
	CardsInDeck     int          `json:"cardsInDeck"`
	CurrentPlayerID uuid.UUID    `json:"currentPlayerId"`
	NextPlayerID    uuid.UUID    `json:"nextPlayerId"`
	CanStart        bool         `json:"canStart"`
	CanJoin         bool         `json:"canJoin"`
	Finished        bool         `json:"finished"`
	WinnerID        *uuid.UUID   `json:"winnerId,omitempty"`
}

// TurnResult is returned by PlayTurn and published to event subscribers.
type TurnResult struct {
	SessionID      uuid.UUID  `json:"sessionId"`
	TurnID         uuid.UUID  `json:"turnId"`
	PlayerID       uuid.UUID  `json:"playerId"`
	PlayerName     string     `json:"playerName"`
	CardID         uuid.UUID  `json:"cardId"`
	CardName       CardName   `json:"cardName"`
	CardKind       CardKind   `json:"cardKind"`
	Action         string     `json:"action"`
	ScoreBefore    int        `json:"scoreBefore"`
	ScoreAfter     int        `json:"scoreAfter"`
	Reshuffled     bool       `json:"reshuffled"`
	NextPlayerID   *uuid.UUID `json:"nextPlayerId,omitempty"` // Nil once the session finished.
	NextPlayerName string     `json:"nextPlayerName,omitempty"`
	Finished       bool       `json:"finished"`
	WinnerID       *uuid.UUID `json:"winnerId,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
}

// DetailedStatus is the full scoreboard projection of a session.
type DetailedStatus struct {
	SessionID       uuid.UUID    `json:"sessionId"`
	Status          Status       `json:"status"`
	CurrentPlayerID uuid.UUID    `json:"currentPlayerId"`
	Scores          []PlayerView `json:"scores"`
	CardsRemaining  int          `json:"cardsRemaining"`
	WinnerID        *uuid.UUID   `json:"winnerId,omitempty"`
}

func newSessionView(s *Session, names map[uuid.UUID]string) SessionView {
	v := SessionView{
		ID:              s.ID,
		Status:          s.Status,
		Players:         playerViews(s, names),
		CardsInDeck:     len(s.Deck),
		CurrentPlayerID: s.CurrentPlayerID(),
		CanStart:        s.Status == StatusWaiting && len(s.Players) >= MinPlayers,
		CanJoin:         s.Status == StatusWaiting && len(s.Players) < MaxPlayers,
		Finished:        s.Status == StatusFinished,
		WinnerID:        winnerOf(s),
	}
	if len(s.Players) > 0 {
		v.NextPlayerID = s.Players[PeekNextPlayer(s)]
	}
	return v
}

func newDetailedStatus(s *Session, names map[uuid.UUID]string) DetailedStatus {
	return DetailedStatus{
		SessionID:       s.ID,
		Status:          s.Status,
		CurrentPlayerID: s.CurrentPlayerID(),
		Scores:          playerViews(s, names),
		CardsRemaining:  CardsRemaining(s),
		WinnerID:        winnerOf(s),
	}
}

func playerViews(s *Session, names map[uuid.UUID]string) []PlayerView {
	out := make([]PlayerView, 0, len(s.Players))
	for _, id := range s.Players {
		out = append(out, PlayerView{ID: id, Name: nameOr(names, id), Score: GetScore(s, id)})
	}
	return out
}

func winnerOf(s *Session) *uuid.UUID {
	if s.Status != StatusFinished || s.WinnerID == uuid.Nil {
		return nil
	}
	id := s.WinnerID
	return &id
}

func nameOr(names map[uuid.UUID]string, id uuid.UUID) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id.String()
}
