// Package image stores complete EEPROM contents in a CBOR file.
//
// An image carries the raw cell array, the geometry it was taken from and a
// BLAKE2b-256 digest of the cells. Decode rejects images whose digest does
// not match, so a corrupted file is never written back to a device.
package image
