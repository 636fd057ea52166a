package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sliceapp/authserver/internal/mq"
	"github.com/sliceapp/authserver/types"
)

const publishTimeout = 5 * time.Second

// Publisher emits user lifecycle events to the notification bus.
//
// Publishing is best-effort: by the time an event fires the database change
// is already committed, so a publish failure is logged and swallowed rather
// than surfaced to the caller.
type Publisher struct {
	bus *mq.MQ
	log *slog.Logger
}

// NewPublisher constructs a Publisher. A nil bus disables publishing; every
// event is then dropped with a warning.
func NewPublisher(bus *mq.MQ, log *slog.Logger) *Publisher {
	return &Publisher{bus: bus, log: log}
}

// UserRegistered publishes an auth_user_registered event for the given user.
func (p *Publisher) UserRegistered(ctx context.Context, user types.User) {
	p.publish(ctx, types.ChannelUserRegistered, types.UserRegisteredEvent{
		ID:        user.ID,
		Email:     user.Email,
		Timestamp: time.Now().UTC(),
	})
}

// UserDeleted publishes an auth_user_deleted event for the given user id.
func (p *Publisher) UserDeleted(ctx context.Context, userID string) {
	p.publish(ctx, types.ChannelUserDeleted, types.UserDeletedEvent{
		ID:        userID,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, channel string, payload any) {
	if p.bus == nil {
		p.log.Warn("notification bus not configured, dropping event", "channel", channel)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("failed to encode event", "channel", channel, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	messageID, err := p.bus.Publish(ctx, channel, data, nil)
	if err != nil {
		p.log.Error("failed to publish event", "channel", channel, "error", err)
		return
	}
	p.log.Info("event published", "channel", channel, "message_id", messageID)
}
