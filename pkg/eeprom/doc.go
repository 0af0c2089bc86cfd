// Package eeprom persists a node's device info and event processor list in
// a page-oriented serial EEPROM.
//
// Layout:
//
//	DeviceInfoAddress                 deviceinfo record (12 bytes)
//	info.EventProcessorInfoAddress    u32 big-endian payload length
//	info.EventProcessorInfoAddress+4  rulecodec payload
//
// The store keeps no copy of either record. Every read goes to the device
// and every write is split into page writes by package paged.
package eeprom
