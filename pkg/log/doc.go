// Package log provides structured storage event logging for ROSS EEPROM access.
//
// This package defines the Logger interface and Event types for capturing
// storage-level events at multiple layers (transport, codec, store). It is
// separate from operational logging (slog) - the event trace is a complete
// machine-readable record of every page write, retry and decode failure.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For field diagnostics: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/ross/eeprom.elog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Page writes and raw reads (AccessEvent), bus retries (RetryEvent)
//   - Store: Records persisted or loaded (RecordEvent)
//   - Codec: Decode and encode failures (ErrorEventData)
//
// Errors at any layer have a dedicated event type. Decoded events are
// validated: enums must be in range and at most one payload may be set.
//
// # Reading
//
// Reader streams events back with a Filter. Besides session, layer and
// time, a filter can select a node address, a record kind or a device
// address range, so a single page or the rule list area can be traced.
//
// # File Format
//
// Log files are a plain sequence of CBOR events with the .elog extension.
// FileLogger buffers writes; Flush or Close make them durable. The
// ross-eeprom events command prints them.
package log
