// internal/game/scoring.go
package game

import "github.com/google/uuid"

// GetScore returns the player's score, or 0 if the player has no entry.
func GetScore(s *Session, playerID uuid.UUID) int {
	return s.Scores[playerID]
}

// AddScore applies delta and floors the result at zero. Returns the new score.
func AddScore(s *Session, playerID uuid.UUID, delta int) int {
	if s.Scores == nil {
		s.Scores = make(map[uuid.UUID]int)
	}
	score := max(0, s.Scores[playerID]+delta)
	s.Scores[playerID] = score
	return score
}
