// Package deviceinfo encodes the fixed-layout device info block stored at the
// start of a node's EEPROM.
//
// The block mirrors the in-memory layout of the descriptor struct on the
// node's little-endian 32-bit MCU, padding included:
//
//	offset  size  field
//	0       2     device address (little-endian)
//	2       2     padding (written as zero, ignored on read)
//	4       4     firmware version (little-endian)
//	8       4     event processor info address (little-endian)
//
// The layout is written out field by field so it does not depend on the host
// compiler.
package deviceinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the encoded size of a DeviceInfo in bytes.
const Size = 12

// Field offsets.
const (
	offsetDeviceAddress             = 0
	offsetFirmwareVersion           = 4
	offsetEventProcessorInfoAddress = 8
)

// ErrWrongSize indicates a buffer that is not exactly Size bytes.
var ErrWrongSize = errors.New("wrong device info size")

// DeviceInfo identifies a node and locates its event processors.
type DeviceInfo struct {
	// DeviceAddress is the node's bus address.
	DeviceAddress uint16

	// FirmwareVersion is the firmware version the block was provisioned for.
	FirmwareVersion uint32

	// EventProcessorInfoAddress is the EEPROM address of the length-prefixed
	// event processor list.
	EventProcessorInfoAddress uint32
}

// String returns a compact human-readable form.
func (d DeviceInfo) String() string {
	return fmt.Sprintf("device=0x%04x firmware=0x%08x event_processors=0x%08x",
		d.DeviceAddress, d.FirmwareVersion, d.EventProcessorInfoAddress)
}

// Decode parses a device info block. Any bit pattern of the right size is a
// valid block.
func Decode(data []byte) (DeviceInfo, error) {
	if len(data) != Size {
		return DeviceInfo{}, fmt.Errorf("%w: got %d bytes, want %d", ErrWrongSize, len(data), Size)
	}

	return DeviceInfo{
		DeviceAddress:             binary.LittleEndian.Uint16(data[offsetDeviceAddress:]),
		FirmwareVersion:           binary.LittleEndian.Uint32(data[offsetFirmwareVersion:]),
		EventProcessorInfoAddress: binary.LittleEndian.Uint32(data[offsetEventProcessorInfoAddress:]),
	}, nil
}

// Encode returns the Size-byte encoding of info.
func Encode(info DeviceInfo) []byte {
	return AppendEncode(make([]byte, 0, Size), info)
}

// AppendEncode appends the encoding of info to dst.
func AppendEncode(dst []byte, info DeviceInfo) []byte {
	var b [Size]byte
	binary.LittleEndian.PutUint16(b[offsetDeviceAddress:], info.DeviceAddress)
	binary.LittleEndian.PutUint32(b[offsetFirmwareVersion:], info.FirmwareVersion)
	binary.LittleEndian.PutUint32(b[offsetEventProcessorInfoAddress:], info.EventProcessorInfoAddress)
	return append(dst, b[:]...)
}
