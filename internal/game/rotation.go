// internal/game/rotation.go
package game

// nextIndex is the single rotation rule shared by MoveToNextPlayer and
// PeekNextPlayer: advance one seat, or two when the next player is blocked.
func nextIndex(s *Session) int {
	n := len(s.Players)
	if n == 0 {
		return 0
	}
	step := 1
	if s.BlockNextPlayer {
		step = 2
	}
	return (s.CurrentPlayerIndex + step) % n
}

// MoveToNextPlayer advances the turn and consumes a pending block.
// With two players a block lands the turn back on the blocking player.
func MoveToNextPlayer(s *Session) {
	next := nextIndex(s)
	s.BlockNextPlayer = false
	s.NextPlayerIndex = next
	s.CurrentPlayerIndex = next
}

// PeekNextPlayer returns the index MoveToNextPlayer would move to, without
// changing the session.
func PeekNextPlayer(s *Session) int {
	return nextIndex(s)
}

// CheckWinCondition reports whether any seated player reached WinThreshold.
func CheckWinCondition(s *Session) bool {
	for _, id := range s.Players {
		if GetScore(s, id) >= WinThreshold {
			return true
		}
	}
	return false
}
