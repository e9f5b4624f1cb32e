// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

// ErrorKind groups error codes into the three outcome classes callers act on.
type ErrorKind uint8

const (
	KindNotFound      ErrorKind = iota + 1 // Unknown session or player.
	KindRuleViolation                      // Request rejected by a game rule.
	KindInvariant                          // Corrupted state; must be investigated.
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRuleViolation:
		return "rule_violation"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeRuleViolation    Code = "RULE_VIOLATION"
	CodeInvariant        Code = "INVARIANT"
	CodeSessionNotFound  Code = "SESSION_NOT_FOUND"
	CodePlayerNotFound   Code = "PLAYER_NOT_FOUND"
	CodeAlreadyJoined    Code = "ALREADY_JOINED"
	CodeSessionFull      Code = "SESSION_FULL"
	CodeNotCreator       Code = "NOT_CREATOR"
	CodeAlreadyStarted   Code = "ALREADY_STARTED"
	CodeNotEnoughPlayers Code = "NOT_ENOUGH_PLAYERS"
	CodeNotYourTurn      Code = "NOT_YOUR_TURN"
	CodeGameFinished     Code = "GAME_FINISHED"
	CodeGameNotStarted   Code = "GAME_NOT_STARTED"
	CodeConcurrentUpdate Code = "CONCURRENT_UPDATE"
	CodeUnknownCard      Code = "UNKNOWN_CARD"
	CodeNoOpponents      Code = "NO_OPPONENTS"
	CodeDeckExhausted    Code = "DECK_EXHAUSTED"
)

// Error is the structured error returned by every core operation.
// errors.Is matches either the exact code or, for the kind-level sentinels
// (ErrNotFound, ErrRuleViolation, ErrInvariant), any error of that kind.
type Error struct {
	Kind    ErrorKind
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the same code, or a kind-level sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Kind == e.Kind && isKindCode(t.Code)
}

func isKindCode(c Code) bool {
	return c == CodeNotFound || c == CodeRuleViolation || c == CodeInvariant
}

// withDetail returns a copy of e whose message carries extra context; errors.Is still matches e.
func (e *Error) withDetail(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message + ": " + fmt.Sprintf(format, args...)}
}

// Kind-level sentinels.
var (
	ErrNotFound      = &Error{Kind: KindNotFound, Code: CodeNotFound, Message: "not found"}
	ErrRuleViolation = &Error{Kind: KindRuleViolation, Code: CodeRuleViolation, Message: "rule violation"}
	ErrInvariant     = &Error{Kind: KindInvariant, Code: CodeInvariant, Message: "invariant violated"}
)

var (
	ErrSessionNotFound = &Error{Kind: KindNotFound, Code: CodeSessionNotFound, Message: "game session not found"}
	ErrPlayerNotFound  = &Error{Kind: KindNotFound, Code: CodePlayerNotFound, Message: "player not found"}

	ErrAlreadyJoined    = &Error{Kind: KindRuleViolation, Code: CodeAlreadyJoined, Message: "you are already in this game"}
	ErrSessionFull      = &Error{Kind: KindRuleViolation, Code: CodeSessionFull, Message: "game is full"}
	ErrNotCreator       = &Error{Kind: KindRuleViolation, Code: CodeNotCreator, Message: "only the creator can start the game"}
	ErrAlreadyStarted   = &Error{Kind: KindRuleViolation, Code: CodeAlreadyStarted, Message: "game already started"}
	ErrNotEnoughPlayers = &Error{Kind: KindRuleViolation, Code: CodeNotEnoughPlayers, Message: "at least 2 players are required to start"}
	ErrNotYourTurn      = &Error{Kind: KindRuleViolation, Code: CodeNotYourTurn, Message: "it's not your turn"}
	ErrGameFinished     = &Error{Kind: KindRuleViolation, Code: CodeGameFinished, Message: "game is finished"}
	ErrGameNotStarted   = &Error{Kind: KindRuleViolation, Code: CodeGameNotStarted, Message: "game has not started"}

	// ErrConcurrentUpdate is returned by stores when the session changed since
	// it was loaded; the losing request is rejected and nothing is written.
	ErrConcurrentUpdate = &Error{Kind: KindRuleViolation, Code: CodeConcurrentUpdate, Message: "game was updated by another request"}

	ErrUnknownCard   = &Error{Kind: KindInvariant, Code: CodeUnknownCard, Message: "unknown card"}
	ErrNoOpponents   = &Error{Kind: KindInvariant, Code: CodeNoOpponents, Message: "no opponents to steal from"}
	ErrDeckExhausted = &Error{Kind: KindInvariant, Code: CodeDeckExhausted, Message: "no cards available after reshuffle"}
)

// KindOf returns the kind of a core error, or 0 for anything else.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}

// CodeOf returns the code of a core error, or "" for anything else.
func CodeOf(err error) Code {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}
