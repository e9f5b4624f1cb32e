// internal/game/deck_test.go
package game

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession seats n players in an IN_PROGRESS session with a dealt deck.
func newTestSession(t *testing.T, n int, rng Rand) (*Session, []uuid.UUID) {
	t.Helper()
	players := make([]uuid.UUID, n)
	for i := range players {
		players[i] = uuid.New()
	}
	s := NewSession(uuid.New(), players[0], time.Now())
	for _, p := range players[1:] {
		s.addPlayer(p)
	}
	InitializeDeck(s, rng)
	s.Status = StatusInProgress
	return s, players
}

func TestInitializeDeck(t *testing.T) {
	s, _ := newTestSession(t, 2, NewRand(1))

	require.Len(t, s.Deck, DeckSize)
	orders := make([]int, 0, DeckSize)
	names := make([]CardName, 0, DeckSize)
	ids := make(map[uuid.UUID]bool)
	for _, c := range s.Deck {
		assert.False(t, c.Played)
		assert.Equal(t, uuid.Nil, c.PlayedBy)
		orders = append(orders, c.OrderIndex)
		names = append(names, c.Name)
		ids[c.ID] = true
	}
	slices.Sort(orders)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, orders)
	assert.ElementsMatch(t, []CardName{CardBlock, CardSteal, CardDoubleDown, CardSmallPoints, CardMediumPoints, CardMegaPoints}, names)
	assert.Len(t, ids, DeckSize, "card ids must be unique")
}

func TestInitializeDeck_ReplacesExistingDeck(t *testing.T) {
	s, _ := newTestSession(t, 2, NewRand(1))
	old := s.Deck[0].ID
	s.Deck[0].Played = true

	InitializeDeck(s, NewRand(2))
	require.Len(t, s.Deck, DeckSize)
	for _, c := range s.Deck {
		assert.NotEqual(t, old, c.ID)
		assert.False(t, c.Played)
	}
}

func TestDrawCard_FollowsOrderIndex(t *testing.T) {
	rng := newScriptedRand().queuePerm(5, 4, 3, 2, 1, 0)
	s, _ := newTestSession(t, 2, rng)

	// Catalog order reversed: Mega is drawn first, Block last.
	want := []CardName{CardMegaPoints, CardMediumPoints, CardSmallPoints, CardDoubleDown, CardSteal, CardBlock}
	for i, name := range want {
		card, reshuffled, err := DrawCard(s, rng)
		require.NoError(t, err)
		assert.False(t, reshuffled)
		assert.Equal(t, name, card.Name, "draw %d", i)
		assert.Equal(t, i, card.OrderIndex)
		assert.True(t, card.Played)
		assert.Equal(t, DeckSize-i-1, CardsRemaining(s))
	}
}

func TestDrawCard_NeverRepeatsWithinCycle(t *testing.T) {
	rng := NewRand(99)
	s, _ := newTestSession(t, 3, rng)

	for cycle := range 3 {
		seen := make(map[uuid.UUID]bool)
		for i := range DeckSize {
			card, reshuffled, err := DrawCard(s, rng)
			require.NoError(t, err)
			assert.Equal(t, cycle > 0 && i == 0, reshuffled)
			assert.False(t, seen[card.ID], "card %s drawn twice in cycle %d", card.Name, cycle)
			seen[card.ID] = true
		}
	}
}

func TestDrawCard_ReshufflesWhenExhausted(t *testing.T) {
	rng := newScriptedRand()
	s, players := newTestSession(t, 2, rng)
	for range DeckSize {
		card, _, err := DrawCard(s, rng)
		require.NoError(t, err)
		card.PlayedBy = players[0]
	}
	require.Zero(t, CardsRemaining(s))

	rng.queuePerm(2, 0, 1, 5, 4, 3)
	card, reshuffled, err := DrawCard(s, rng)
	require.NoError(t, err)
	assert.True(t, reshuffled)
	assert.Equal(t, CardSteal, card.Name, "Steal holds order 0 after the reshuffle")
	assert.Equal(t, DeckSize-1, CardsRemaining(s))

	for _, c := range s.Deck {
		// Attribution survives the reshuffle; only the played flags reset.
		assert.Equal(t, players[0], c.PlayedBy)
	}
}

func TestDrawCard_EmptyDeckIsInvariantError(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New(), time.Now())

	card, reshuffled, err := DrawCard(s, newScriptedRand())
	assert.Nil(t, card)
	assert.True(t, reshuffled)
	assert.ErrorIs(t, err, ErrDeckExhausted)
	assert.ErrorIs(t, err, ErrInvariant)
}
