// Package rulefile reads and writes event processor lists as YAML.
//
// A rule file names every component by kind and spells out its payload
// fields:
//
//	event_processors:
//	  - matchers:
//	      - extractor: {kind: event_code}
//	        filter: {kind: u16_is_equal, value: 3}
//	    extractor: {kind: none}
//	    producer: {kind: bcm_change_brightness, bcm_address: 16, channel: 0, brightness: 255}
//
// Fields a kind does not use must be omitted. Fields a kind uses default to
// zero when absent.
package rulefile
