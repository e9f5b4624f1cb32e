// internal/game/export_test.go
package game

// Test hooks for the external game_test package.

type ScriptedRand = scriptedRand

var NewScriptedRand = newScriptedRand

func (r *scriptedRand) QueuePerm(p ...int) *scriptedRand { return r.queuePerm(p...) }
func (r *scriptedRand) QueueInt(n ...int) *scriptedRand  { return r.queueInt(n...) }

func (m *Manager) LockedSessions() int { return m.locks.size() }
