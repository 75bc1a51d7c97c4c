package cmd

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/chatforge/chatforge/pkg/eventbus"
)

// NewEventBus builds the in-process lifecycle event bus. Flow lifecycle
// events fan out to subscribers inside the same process, so one pub/sub
// channel serves both roles.
func NewEventBus(logger *slog.Logger) eventbus.EventBus {
	channel := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

	return eventbus.NewWatermillEventBus(channel, channel)
}
