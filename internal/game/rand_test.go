// internal/game/rand_test.go
package game

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// scriptedRand replays queued permutations and opponent picks.
// Once a queue is empty it falls back to the identity permutation and index 0.
type scriptedRand struct {
	mu    sync.Mutex
	perms [][]int
	ints  []int
}

func newScriptedRand() *scriptedRand { return &scriptedRand{} }

func (r *scriptedRand) queuePerm(p ...int) *scriptedRand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perms = append(r.perms, p)
	return r
}

func (r *scriptedRand) queueInt(n ...int) *scriptedRand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, n...)
	return r
}

func (r *scriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.perms) > 0 && len(r.perms[0]) == n {
		p := r.perms[0]
		r.perms = r.perms[1:]
		return slices.Clone(p)
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func TestNewRand_SameSeedSameSequence(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for range 20 {
		assert.Equal(t, a.Perm(DeckSize), b.Perm(DeckSize))
		assert.Equal(t, a.IntN(3), b.IntN(3))
	}
}

func TestNewRand_PermIsPermutation(t *testing.T) {
	rng := NewRand(7)
	for range 50 {
		p := rng.Perm(DeckSize)
		sorted := slices.Sorted(slices.Values(p))
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, sorted)
	}
}
