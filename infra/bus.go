package infra

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/plugin"
)

// NullBus is a no-op event bus implementation.
type NullBus struct{}

func (NullBus) Emit(context.Context, string, map[string]any) error { return nil }

// LogBus writes every event at debug level to the logger carried by ctx.
type LogBus struct{}

func (LogBus) Emit(ctx context.Context, event string, fields map[string]any) error {
	zerolog.Ctx(ctx).Debug().Fields(fields).Str("event", event).Msg("flow event")
	return nil
}

// Ensure interface implementation at compile time
var (
	_ plugin.EventBus = NullBus{}
	_ plugin.EventBus = LogBus{}
)
