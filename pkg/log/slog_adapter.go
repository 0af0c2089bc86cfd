package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes storage events to an slog.Logger.
// Useful for development when you want to see bus traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event at Debug level, or Warn level for error events.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.DeviceAddress != nil {
		attrs = append(attrs, slog.Uint64("device_address", uint64(*event.DeviceAddress)))
	}

	level := slog.LevelDebug
	switch {
	case event.Access != nil:
		attrs = append(attrs,
			slog.Uint64("address", uint64(event.Access.Address)),
			slog.Int("size", event.Access.Size),
			slog.Int("chunk", event.Access.Chunk),
		)
	case event.Retry != nil:
		attrs = append(attrs,
			slog.Uint64("address", uint64(event.Retry.Address)),
			slog.Int("attempt", event.Retry.Attempt),
		)
	case event.Record != nil:
		attrs = append(attrs,
			slog.String("record", event.Record.Kind.String()),
			slog.Uint64("address", uint64(event.Record.Address)),
			slog.Int("size", event.Record.Size),
		)
		if event.Record.Kind == RecordEventProcessors {
			attrs = append(attrs, slog.Int("count", event.Record.Count))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Address != nil {
			attrs = append(attrs, slog.Uint64("address", uint64(*event.Error.Address)))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "eeprom", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
