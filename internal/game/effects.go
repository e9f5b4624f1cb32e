// internal/game/effects.go
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NameFunc resolves a player id to the name used in turn descriptions.
type NameFunc func(playerID uuid.UUID) string

// ResolveCard applies card's effect for actor, marks the card as played by
// actor and appends the resulting Turn to the session log.
// On error the session may be partially modified; callers resolve on a clone.
func ResolveCard(s *Session, card *Card, actor uuid.UUID, rng Rand, now time.Time, name NameFunc) (Turn, error) {
	before := GetScore(s, actor)
	after := before
	var action string

	switch card.Effect {
	case EffectPoints:
		after = AddScore(s, actor, card.Value)
		action = fmt.Sprintf("%s gained %d points", name(actor), card.Value)

	case EffectBlock:
		s.BlockNextPlayer = true
		action = fmt.Sprintf("%s blocks the next player", name(actor))

	case EffectSteal:
		opponent, err := chooseRandomOpponent(s, actor, rng)
		if err != nil {
			return Turn{}, err
		}
		stolen := min(card.Value, GetScore(s, opponent))
		AddScore(s, opponent, -stolen)
		after = AddScore(s, actor, stolen)
		action = fmt.Sprintf("%s stole %d points from %s", name(actor), stolen, name(opponent))

	case EffectDoubleDown:
		// Never pushes the score past WinThreshold and never lowers it.
		gain := max(0, min(before, WinThreshold-before))
		after = AddScore(s, actor, gain)
		action = fmt.Sprintf("%s doubled points: %d -> %d", name(actor), before, after)

	default:
		return Turn{}, ErrUnknownCard.withDetail("card %s (%q) has effect %d", card.ID, card.Name, card.Effect)
	}

	card.Played = true
	card.PlayedBy = actor

	turn := Turn{
		ID:          uuid.New(),
		SessionID:   s.ID,
		PlayerID:    actor,
		CardID:      card.ID,
		CardName:    card.Name,
		CardKind:    card.Kind,
		Action:      action,
		Timestamp:   now,
		ScoreBefore: before,
		ScoreAfter:  after,
	}
	s.Turns = append(s.Turns, turn)
	return turn, nil
}

// chooseRandomOpponent picks uniformly among every seated player except actor.
func chooseRandomOpponent(s *Session, actor uuid.UUID, rng Rand) (uuid.UUID, error) {
	opponents := make([]uuid.UUID, 0, len(s.Players))
	for _, id := range s.Players {
		if id != actor {
			opponents = append(opponents, id)
		}
	}
	if len(opponents) == 0 {
		return uuid.Nil, ErrNoOpponents.withDetail("session %s", s.ID)
	}
	return opponents[rng.IntN(len(opponents))], nil
}
