package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/zengest/platform/internal/events"
)

// StartAuditWorker subscribes an audit logger to every identity event. This
// is the authority's paper trail: who registered, who logged in, whose
// session was revoked.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	log := func(ctx context.Context, event events.Event) error {
		logger.Info("identity event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("identity_id", event.IdentityID),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	dispatcher.Subscribe(events.EventIdentityRegistered, log)
	dispatcher.Subscribe(events.EventIdentityLoggedIn, log)
	dispatcher.Subscribe(events.EventSessionRevoked, log)
	dispatcher.Subscribe(events.EventIdentityActiveState, log)
}
