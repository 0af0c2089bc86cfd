package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		SessionID: "test-session",
		Direction: DirectionOut,
		Layer:     LayerTransport,
		Category:  CategoryAccess,
	}
	logger.Log(event)

	event.Access = &AccessEvent{Address: 0x20, Size: 3, Data: []byte{1, 2, 3}}
	logger.Log(event)

	event.Access = nil
	event.Retry = &RetryEvent{Address: 0x20, Attempt: 1}
	logger.Log(event)

	event.Retry = nil
	event.Record = &RecordEvent{Kind: RecordEventProcessors, Size: 17, Count: 1}
	logger.Log(event)

	event.Record = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}
