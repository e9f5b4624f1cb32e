// internal/cache/events.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/game"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Publisher fans turn results out to every process subscribed to the session's channel.
type Publisher struct {
	rdb *redis.Client
	log *logrus.Entry
}

// NewPublisher returns a Redis pub/sub publisher.
func NewPublisher(rdb *redis.Client, log *logrus.Entry) *Publisher {
	return &Publisher{rdb: rdb, log: log.WithField("component", "turn_events")}
}

// PublishTurn broadcasts a committed turn on the session channel.
func (p *Publisher) PublishTurn(ctx context.Context, result game.TurnResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode turn result: %w", err)
	}
	if err := p.rdb.Publish(ctx, turnChannel(result.SessionID), payload).Err(); err != nil {
		return fmt.Errorf("publish turn for session %s: %w", result.SessionID, err)
	}
	return nil
}

// Subscribe streams turn results of one session until ctx is done.
// The returned channel is closed when the subscription ends.
func (p *Publisher) Subscribe(ctx context.Context, sessionID uuid.UUID) (<-chan game.TurnResult, error) {
	sub := p.rdb.Subscribe(ctx, turnChannel(sessionID))
	// Wait for the subscription confirmation so no publish is missed after return.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to session %s: %w", sessionID, err)
	}

	out := make(chan game.TurnResult)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var result game.TurnResult
				if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
					p.log.WithError(err).WithField("session_id", sessionID).Warn("Dropping undecodable turn event.")
					continue
				}
				select {
				case out <- result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
