// Package transport defines the raw EEPROM bus boundary used by the storage layers.
//
// A Bus reads arbitrary byte ranges and writes at most one page per call. Serial
// EEPROMs of the 24x family NACK every command while an internal write cycle is
// in progress; drivers report that condition as ErrWouldBlock so callers can
// poll until the chip accepts the next command.
//
// # Implementations
//
//   - Memory: an in-process simulation of a 24x-series chip, including page
//     wrap-around on oversized writes, busy cycles after each write, and fault
//     injection for tests.
//   - FileBus: a Memory whose cell array is mirrored to an image file, used by
//     the ross-eeprom tool on hosts without an I2C adapter.
//
// # Delays
//
// The Sleeper interface abstracts the blocking millisecond delay the device
// needs after every page write. SystemSleeper uses time.Sleep.
package transport
