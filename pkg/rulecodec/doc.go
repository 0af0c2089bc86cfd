// Package rulecodec implements the binary format of a node's event processor
// list.
//
// All integers are big-endian:
//
//	payload := u32 item_count, item*
//	item    := u32 matcher_count, matcher*, tagged(extractor), tagged(producer)
//	matcher := tagged(extractor), tagged(filter)
//	tagged  := u16 code, <fixed payload for that code>
//
// Each component family has a Registry that maps a kind's code to its payload
// size and constructor for decoding, and the kind's Go type back to its code
// for encoding. Adding a kind is a single Register call; decoding old data
// with a newer registry is safe as long as existing codes and payload sizes
// never change.
//
// Decoding checks the remaining length before every read. Short input fails
// with ErrWrongSize and unknown codes fail with ErrUnknownExtractor,
// ErrUnknownFilter or ErrUnknownProducer, each wrapped in a *DecodeError that
// records the offset. Decoding never panics on malformed input.
package rulecodec
