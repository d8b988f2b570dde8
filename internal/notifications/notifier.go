// Package notifications publishes domain events onto Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"reelhub/internal/middleware"
	"reelhub/internal/models"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
)

// ModerationChannel carries every moderation event.
const ModerationChannel = "moderation:events"

// EventModerationAction is the envelope type of moderation events.
const EventModerationAction = "moderation_action"

// Envelope wraps a published payload with its type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Notifier provides helpers to publish notifications into Redis channels.
// Publishing goes through a circuit breaker so a sick Redis does not add
// latency to every moderation action.
type Notifier struct {
	rdb     *redis.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client makes every publish a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	settings := gobreaker.Settings{
		Name:        "redis-notifier",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			middleware.Logger.Warn("Notifier circuit state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &Notifier{rdb: rdb, breaker: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

func (n *Notifier) publish(ctx context.Context, channel, payload string) error {
	if n.rdb == nil {
		return nil
	}
	_, err := n.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, n.rdb.Publish(ctx, channel, payload).Err()
	})
	return err
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	return n.publish(ctx, UserChannel(userID), payload)
}

// PublishModerationEvent announces a moderation action on the shared channel
// and on the author's channel.
func (n *Notifier) PublishModerationEvent(ctx context.Context, ev models.ModerationEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal moderation event: %w", err)
	}
	payload, err := json.Marshal(Envelope{Type: EventModerationAction, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := n.publish(ctx, ModerationChannel, string(payload)); err != nil {
		return err
	}
	if ev.AuthorID != 0 {
		return n.PublishUser(ctx, ev.AuthorID, string(payload))
	}
	return nil
}

// ModerationHook adapts PublishModerationEvent to the moderation service hook
// signature. Failures are logged; moderation has already happened.
func (n *Notifier) ModerationHook(ctx context.Context, ev models.ModerationEvent) {
	if err := n.PublishModerationEvent(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to publish moderation event",
			slog.Uint64("post_id", uint64(ev.PostID)),
			slog.String("action", string(ev.Action)),
			slog.String("error", err.Error()),
		)
	}
}

// SubscribeModeration delivers moderation events to onEvent until ctx ends.
func (n *Notifier) SubscribeModeration(ctx context.Context, onEvent func(models.ModerationEvent)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, ModerationChannel)
	// Wait for the subscription so events published right after return are seen.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", ModerationChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil || env.Type != EventModerationAction {
					continue
				}
				var ev models.ModerationEvent
				if err := json.Unmarshal(env.Data, &ev); err != nil {
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("PANIC in moderation subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
