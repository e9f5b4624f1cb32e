// internal/game/errors_test.go
package game

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func itoa(n int) string { return strconv.Itoa(n) }

func TestError_IsMatchesCodeAndKind(t *testing.T) {
	err := fmt.Errorf("join: %w", ErrSessionFull)

	assert.ErrorIs(t, err, ErrSessionFull)
	assert.ErrorIs(t, err, ErrRuleViolation)
	assert.NotErrorIs(t, err, ErrAlreadyJoined)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindRuleViolation, KindOf(err))
	assert.Equal(t, CodeSessionFull, CodeOf(err))
}

func TestError_WithDetailKeepsIdentity(t *testing.T) {
	err := ErrDeckExhausted.withDetail("session %d", 7)

	assert.Equal(t, "no cards available after reshuffle: session 7", err.Error())
	assert.ErrorIs(t, err, ErrDeckExhausted)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Equal(t, "no cards available after reshuffle", ErrDeckExhausted.Error(), "sentinel must not change")
}

func TestKindOf_ForeignError(t *testing.T) {
	err := errors.New("boom")
	assert.Zero(t, KindOf(err))
	assert.Empty(t, CodeOf(err))
	assert.Equal(t, "unknown", KindOf(err).String())
	assert.Equal(t, "not_found", KindOf(ErrPlayerNotFound).String())
}
