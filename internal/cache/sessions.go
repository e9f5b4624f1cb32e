// internal/cache/sessions.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/game"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// SessionCache is a read-through Redis cache in front of another SessionStore.
// The backing store stays authoritative: writes go there first, and any Redis
// failure degrades to a cache miss rather than an error.
type SessionCache struct {
	inner game.SessionStore
	rdb   *redis.Client
	ttl   time.Duration
	log   *logrus.Entry
}

// NewSessionCache wraps inner with a cache whose entries expire after ttl.
func NewSessionCache(inner game.SessionStore, rdb *redis.Client, ttl time.Duration, log *logrus.Entry) *SessionCache {
	return &SessionCache{inner: inner, rdb: rdb, ttl: ttl, log: log.WithField("component", "session_cache")}
}

// LoadSession serves from Redis when possible and fills the cache on a miss.
func (c *SessionCache) LoadSession(ctx context.Context, id uuid.UUID) (*game.Session, error) {
	raw, err := c.rdb.Get(ctx, sessionKey(id)).Bytes()
	switch {
	case err == nil:
		var s game.Session
		if err := json.Unmarshal(raw, &s); err == nil {
			if s.Scores == nil {
				s.Scores = make(map[uuid.UUID]int)
			}
			return &s, nil
		}
		c.log.WithField("session_id", id).Warn("Discarding undecodable cached session.")
		c.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		c.log.WithError(err).WithField("session_id", id).Warn("Session cache read failed.")
	}

	s, err := c.inner.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, s)
	return s, nil
}

// SaveSession writes through to the backing store, then refreshes the cache.
func (c *SessionCache) SaveSession(ctx context.Context, s *game.Session) error {
	if err := c.inner.SaveSession(ctx, s); err != nil {
		c.evict(ctx, s.ID)
		return err
	}
	c.store(ctx, s)
	return nil
}

// ListActiveSessions always reads the backing store.
func (c *SessionCache) ListActiveSessions(ctx context.Context) ([]*game.Session, error) {
	return c.inner.ListActiveSessions(ctx)
}

// CommitTurn commits through the backing store, atomically if it supports it.
func (c *SessionCache) CommitTurn(ctx context.Context, s *game.Session, t game.Turn) error {
	var err error
	if committer, ok := c.inner.(game.TurnCommitter); ok {
		err = committer.CommitTurn(ctx, s, t)
	} else {
		err = c.inner.SaveSession(ctx, s)
		if sink, ok := c.inner.(game.TurnSink); ok && err == nil {
			if appendErr := sink.AppendTurn(ctx, t); appendErr != nil {
				c.log.WithError(appendErr).WithField("session_id", s.ID).Error("Failed appending turn to history sink.")
			}
		}
	}
	if err != nil {
		c.evict(ctx, s.ID)
		return err
	}
	c.store(ctx, s)
	return nil
}

func (c *SessionCache) store(ctx context.Context, s *game.Session) {
	raw, err := json.Marshal(s)
	if err != nil {
		c.log.WithError(err).WithField("session_id", s.ID).Warn("Failed encoding session for cache.")
		c.evict(ctx, s.ID)
		return
	}
	if err := c.rdb.Set(ctx, sessionKey(s.ID), raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("session_id", s.ID).Warn("Session cache write failed.")
		// A stale entry would shadow the new state until it expires.
		c.evict(ctx, s.ID)
	}
}

func (c *SessionCache) evict(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		c.log.WithError(err).WithField("session_id", id).Warn("Session cache eviction failed.")
	}
}
