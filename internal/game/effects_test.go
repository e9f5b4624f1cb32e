// internal/game/effects_test.go
package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNames = func(id uuid.UUID) string { return id.String()[:8] }

func cardNamed(t *testing.T, s *Session, name CardName) *Card {
	t.Helper()
	for i := range s.Deck {
		if s.Deck[i].Name == name {
			return &s.Deck[i]
		}
	}
	t.Fatalf("no %q card in deck", name)
	return nil
}

func TestResolveCard_Points(t *testing.T) {
	for _, tc := range []struct {
		card CardName
		gain int
	}{
		{CardSmallPoints, 2},
		{CardMediumPoints, 7},
		{CardMegaPoints, 10},
	} {
		t.Run(string(tc.card), func(t *testing.T) {
			s, players := newTestSession(t, 2, newScriptedRand())
			a := players[0]
			s.Scores[a] = 3
			now := time.Now()

			turn, err := ResolveCard(s, cardNamed(t, s, tc.card), a, newScriptedRand(), now, testNames)
			require.NoError(t, err)
			assert.Equal(t, 3, turn.ScoreBefore)
			assert.Equal(t, 3+tc.gain, turn.ScoreAfter)
			assert.Equal(t, 3+tc.gain, GetScore(s, a))
			assert.Equal(t, KindPoints, turn.CardKind)
			assert.Equal(t, testNames(a)+" gained "+itoa(tc.gain)+" points", turn.Action)
			assert.Equal(t, now, turn.Timestamp)
		})
	}
}

func TestResolveCard_Block(t *testing.T) {
	s, players := newTestSession(t, 3, newScriptedRand())
	card := cardNamed(t, s, CardBlock)

	turn, err := ResolveCard(s, card, players[0], newScriptedRand(), time.Now(), testNames)
	require.NoError(t, err)
	assert.True(t, s.BlockNextPlayer)
	assert.Equal(t, 0, turn.ScoreBefore)
	assert.Equal(t, 0, turn.ScoreAfter)
	assert.Equal(t, KindAction, turn.CardKind)
	assert.True(t, card.Played)
	assert.Equal(t, players[0], card.PlayedBy)

	MoveToNextPlayer(s)
	assert.Equal(t, 2, s.CurrentPlayerIndex, "B is skipped and C plays next")
}

func TestResolveCard_Steal(t *testing.T) {
	tests := []struct {
		name          string
		oppScore      int
		wantStolen    int
		wantOppAfter  int
		wantActorFrom int
	}{
		{"clamped to opponent score", 1, 1, 0, 4},
		{"full value", 9, 3, 6, 4},
		{"nothing to steal", 0, 0, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, players := newTestSession(t, 2, newScriptedRand())
			a, b := players[0], players[1]
			s.Scores[a] = tt.wantActorFrom
			s.Scores[b] = tt.oppScore

			turn, err := ResolveCard(s, cardNamed(t, s, CardSteal), a, newScriptedRand(), time.Now(), testNames)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOppAfter, GetScore(s, b))
			assert.Equal(t, tt.wantActorFrom+tt.wantStolen, GetScore(s, a))
			assert.Equal(t, tt.wantActorFrom+tt.wantStolen, turn.ScoreAfter)
			assert.Equal(t, testNames(a)+" stole "+itoa(tt.wantStolen)+" points from "+testNames(b), turn.Action)
		})
	}
}

func TestResolveCard_StealPicksOpponentFromRand(t *testing.T) {
	s, players := newTestSession(t, 4, newScriptedRand())
	for _, p := range players[1:] {
		s.Scores[p] = 5
	}

	// Opponents of players[1] are [players[0], players[2], players[3]]; index 2 picks players[3].
	_, err := ResolveCard(s, cardNamed(t, s, CardSteal), players[1], newScriptedRand().queueInt(2), time.Now(), testNames)
	require.NoError(t, err)
	assert.Equal(t, 2, GetScore(s, players[3]))
	assert.Equal(t, 5, GetScore(s, players[2]))
	assert.Equal(t, 8, GetScore(s, players[1]))
}

func TestResolveCard_StealWithoutOpponents(t *testing.T) {
	s, players := newTestSession(t, 2, newScriptedRand())
	s.Players = players[:1]

	_, err := ResolveCard(s, cardNamed(t, s, CardSteal), players[0], newScriptedRand(), time.Now(), testNames)
	assert.ErrorIs(t, err, ErrNoOpponents)
	assert.Equal(t, KindInvariant, KindOf(err))
	assert.Empty(t, s.Turns)
}

func TestResolveCard_DoubleDown(t *testing.T) {
	tests := []struct {
		before int
		after  int
	}{
		{0, 0},
		{5, 10},
		{15, 30},
		{20, 30},
		{28, 30},
	}
	for _, tt := range tests {
		t.Run(itoa(tt.before), func(t *testing.T) {
			s, players := newTestSession(t, 2, newScriptedRand())
			a := players[0]
			s.Scores[a] = tt.before

			turn, err := ResolveCard(s, cardNamed(t, s, CardDoubleDown), a, newScriptedRand(), time.Now(), testNames)
			require.NoError(t, err)
			assert.Equal(t, tt.after, GetScore(s, a))
			assert.LessOrEqual(t, GetScore(s, a), WinThreshold)
			assert.Equal(t, testNames(a)+" doubled points: "+itoa(tt.before)+" -> "+itoa(tt.after), turn.Action)
		})
	}
}

func TestResolveCard_UnknownEffect(t *testing.T) {
	s, players := newTestSession(t, 2, newScriptedRand())
	card := &s.Deck[0]
	card.Effect = EffectKind(99)

	_, err := ResolveCard(s, card, players[0], newScriptedRand(), time.Now(), testNames)
	assert.ErrorIs(t, err, ErrUnknownCard)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Empty(t, s.Turns)
}

func TestResolveCard_AppendsTurn(t *testing.T) {
	s, players := newTestSession(t, 2, newScriptedRand())
	card := cardNamed(t, s, CardMegaPoints)

	turn, err := ResolveCard(s, card, players[1], newScriptedRand(), time.Now(), testNames)
	require.NoError(t, err)
	require.Len(t, s.Turns, 1)
	assert.Equal(t, turn, s.Turns[0])
	assert.Equal(t, s.ID, turn.SessionID)
	assert.Equal(t, players[1], turn.PlayerID)
	assert.Equal(t, card.ID, turn.CardID)
	assert.Equal(t, CardMegaPoints, turn.CardName)
	assert.NotEqual(t, uuid.Nil, turn.ID)
}
