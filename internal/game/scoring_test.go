// internal/game/scoring_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAddScore_FloorsAtZero(t *testing.T) {
	s, players := newTestSession(t, 2, newScriptedRand())
	a := players[0]

	assert.Equal(t, 5, AddScore(s, a, 5))
	assert.Equal(t, 2, AddScore(s, a, -3))
	assert.Equal(t, 0, AddScore(s, a, -10))
	assert.Equal(t, 0, GetScore(s, a))
}

func TestGetScore_UnknownPlayerIsZero(t *testing.T) {
	s, _ := newTestSession(t, 2, newScriptedRand())
	assert.Zero(t, GetScore(s, uuid.New()))
}
