package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/ross-protocol/ross-go/pkg/deviceinfo"
)

// RunInit creates an erased image and provisions its device info.
func RunInit(ctx context.Context, p Profile, info deviceinfo.DeviceInfo, force bool, w io.Writer) error {
	if err := CreateImage(p, force); err != nil {
		return err
	}

	s, err := OpenSession(p, SessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := RunSetInfo(ctx, s, info, io.Discard); err != nil {
		return err
	}

	fmt.Fprintf(w, "Created %s (%d bytes, %d-byte pages)\n", p.Image, p.Size, p.PageSize)
	return printInfo(w, info)
}

// RunInfo prints the device info record.
func RunInfo(ctx context.Context, s *Session, w io.Writer) error {
	info, err := s.Store.ReadDeviceInfo(ctx)
	if err != nil {
		return err
	}
	return printInfo(w, info)
}

// RunSetInfo writes the device info record.
func RunSetInfo(ctx context.Context, s *Session, info deviceinfo.DeviceInfo, w io.Writer) error {
	if uint64(info.EventProcessorInfoAddress) >= uint64(s.Profile.Size) {
		return fmt.Errorf("event processor address 0x%x outside device", info.EventProcessorInfoAddress)
	}
	if err := s.Store.WriteDeviceInfo(ctx, info); err != nil {
		return err
	}
	fmt.Fprintln(w, "Device info written")
	return printInfo(w, info)
}

// RunDump prints n raw bytes starting at address.
func RunDump(ctx context.Context, s *Session, address uint32, n int, w io.Writer) error {
	buf := make([]byte, n)
	if err := s.Store.ReadData(ctx, address, buf); err != nil {
		return err
	}

	dumper := hex.Dumper(w)
	defer dumper.Close()
	_, err := dumper.Write(buf)
	return err
}

// RunWrite writes raw bytes at address.
func RunWrite(ctx context.Context, s *Session, address uint32, data []byte, w io.Writer) error {
	if err := s.Store.WriteData(ctx, address, data); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d bytes at 0x%04x\n", len(data), address)
	return nil
}

func printInfo(w io.Writer, info deviceinfo.DeviceInfo) error {
	_, err := fmt.Fprintf(w, "Device address:          0x%04x\nFirmware version:        0x%08x\nEvent processor address: 0x%04x\n",
		info.DeviceAddress, info.FirmwareVersion, info.EventProcessorInfoAddress)
	return err
}

// ParseUint parses a decimal or 0x-prefixed value that must fit in bits.
func ParseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}

// ParseDeviceInfo builds a device info record from its three fields.
func ParseDeviceInfo(deviceAddress, firmware, listAddress string) (deviceinfo.DeviceInfo, error) {
	var info deviceinfo.DeviceInfo

	addr, err := ParseUint(deviceAddress, 16)
	if err != nil {
		return info, fmt.Errorf("device address: %w", err)
	}
	fw, err := ParseUint(firmware, 32)
	if err != nil {
		return info, fmt.Errorf("firmware version: %w", err)
	}
	list, err := ParseUint(listAddress, 32)
	if err != nil {
		return info, fmt.Errorf("event processor address: %w", err)
	}

	info.DeviceAddress = uint16(addr)
	info.FirmwareVersion = uint32(fw)
	info.EventProcessorInfoAddress = uint32(list)
	return info, nil
}
