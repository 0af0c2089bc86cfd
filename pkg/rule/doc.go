// Package rule defines the event processor model evaluated by a ROSS node.
//
// An EventProcessor is a match-then-act record: every Matcher (an Extractor
// feeding a Filter) must pass before the processor's Extractor selects a
// value and its Producer emits the resulting action. Processors in a List are
// evaluated top to bottom.
//
// Extractors, filters and producers are closed sets of kinds. Each kind has a
// stable 16-bit code and a fixed-size payload; the payload layout of a kind
// must never change once devices have been provisioned with it. Payload fields
// are encoded big-endian with no padding.
//
// This package only models the persisted data. Evaluating rules is the job of
// the node firmware.
package rule
