package application

import (
	"context"
	"time"

	"warden/events"

	log "github.com/sirupsen/logrus"
)

// modLogTimeout bounds a single mod log post or edit
const modLogTimeout = 30 * time.Second

// RegisterApplicationSubscriptions registers the handlers that mirror domain events to Discord
func RegisterApplicationSubscriptions(bus *events.Bus, uowFactory UnitOfWorkFactory, poster ModLogPoster) {
	handler := NewModLogEventHandler(uowFactory, poster)

	bus.Subscribe(events.EventTypeCaseCreated, func(ctx context.Context, event events.Event) {
		ctx, cancel := context.WithTimeout(ctx, modLogTimeout)
		defer cancel()
		if err := handler.HandleCaseCreated(ctx, event); err != nil {
			log.WithError(err).Error("Failed to post case to mod log")
		}
	})

	bus.Subscribe(events.EventTypeCaseUpdated, func(ctx context.Context, event events.Event) {
		ctx, cancel := context.WithTimeout(ctx, modLogTimeout)
		defer cancel()
		if err := handler.HandleCaseUpdated(ctx, event); err != nil {
			log.WithError(err).Error("Failed to update case in mod log")
		}
	})
}
