// internal/game/card.go
package game

import "github.com/google/uuid"

// CardKind separates flat point cards from cards with special effects.
type CardKind string

const (
	KindPoints CardKind = "POINTS"
	KindAction CardKind = "ACTION"
)

// CardName identifies an entry of the fixed card catalog.
type CardName string

const (
	CardBlock        CardName = "Block"
	CardSteal        CardName = "Steal"
	CardDoubleDown   CardName = "Double Down"
	CardSmallPoints  CardName = "Small Points"
	CardMediumPoints CardName = "Medium Points"
	CardMegaPoints   CardName = "Mega Points"
)

// EffectKind is the closed set of effects a card can resolve to.
// The zero value is never assigned to a catalog card.
type EffectKind uint8

const (
	EffectPoints     EffectKind = iota + 1 // Actor gains Value points.
	EffectBlock                            // Next player in rotation is skipped once.
	EffectSteal                            // Up to Value points move from a random opponent to the actor.
	EffectDoubleDown                       // Actor's score doubles, capped at WinThreshold.
)

func (e EffectKind) String() string {
	switch e {
	case EffectPoints:
		return "points"
	case EffectBlock:
		return "block"
	case EffectSteal:
		return "steal"
	case EffectDoubleDown:
		return "double_down"
	default:
		return "unknown"
	}
}

// Card is one card of a session deck. Cards are created in a batch when the
// deck is initialized and recycled by reshuffles for the rest of the session.
type Card struct {
	ID         uuid.UUID  `json:"id"`
	Name       CardName   `json:"name"`
	Kind       CardKind   `json:"kind"`
	Effect     EffectKind `json:"effect"`
	Value      int        `json:"value"`
	OrderIndex int        `json:"orderIndex"` // Draw order within the current shuffle cycle; lowest is the top.
	Played     bool       `json:"played"`
	PlayedBy   uuid.UUID  `json:"playedBy"` // uuid.Nil until the card is first played.
}

type catalogEntry struct {
	name   CardName
	kind   CardKind
	effect EffectKind
	value  int
}

// catalog is the full deck composition, one card per entry.
var catalog = [...]catalogEntry{
	{CardBlock, KindAction, EffectBlock, 1},
	{CardSteal, KindAction, EffectSteal, 3},
	{CardDoubleDown, KindAction, EffectDoubleDown, 2},
	{CardSmallPoints, KindPoints, EffectPoints, 2},
	{CardMediumPoints, KindPoints, EffectPoints, 7},
	{CardMegaPoints, KindPoints, EffectPoints, 10},
}

// DeckSize is the number of cards in every initialized deck.
const DeckSize = len(catalog)
