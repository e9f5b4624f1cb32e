// internal/game/deck.go
package game

import "github.com/google/uuid"

// InitializeDeck discards any existing deck and builds a freshly shuffled
// copy of the catalog. All cards start unplayed.
func InitializeDeck(s *Session, rng Rand) {
	deck := make([]Card, 0, DeckSize)
	for _, entry := range catalog {
		deck = append(deck, Card{
			ID:     uuid.New(),
			Name:   entry.name,
			Kind:   entry.kind,
			Effect: entry.effect,
			Value:  entry.value,
		})
	}
	shuffleOrder(deck, rng)
	s.Deck = deck
}

// DrawCard takes the unplayed card with the lowest order index and marks it
// played. When every card has been played the deck is reshuffled first and
// reshuffled is reported as true. The returned pointer aliases s.Deck.
func DrawCard(s *Session, rng Rand) (card *Card, reshuffled bool, err error) {
	idx := topCardIndex(s.Deck)
	if idx < 0 {
		shuffleOrder(s.Deck, rng)
		reshuffled = true
		idx = topCardIndex(s.Deck)
		if idx < 0 {
			return nil, reshuffled, ErrDeckExhausted.withDetail("session %s has %d cards", s.ID, len(s.Deck))
		}
	}
	card = &s.Deck[idx]
	card.Played = true
	return card, reshuffled, nil
}

// CardsRemaining counts the unplayed cards of the current shuffle cycle.
func CardsRemaining(s *Session) int {
	n := 0
	for i := range s.Deck {
		if !s.Deck[i].Played {
			n++
		}
	}
	return n
}

// shuffleOrder assigns a uniform random permutation of 0..len-1 as the draw
// order and returns every card to the unplayed state.
func shuffleOrder(deck []Card, rng Rand) {
	perm := rng.Perm(len(deck))
	for i := range deck {
		deck[i].OrderIndex = perm[i]
		deck[i].Played = false
	}
}

func topCardIndex(deck []Card) int {
	best := -1
	for i := range deck {
		if deck[i].Played {
			continue
		}
		if best < 0 || deck[i].OrderIndex < deck[best].OrderIndex {
			best = i
		}
	}
	return best
}
