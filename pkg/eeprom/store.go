package eeprom

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ross-protocol/ross-go/pkg/deviceinfo"
	"github.com/ross-protocol/ross-go/pkg/log"
	"github.com/ross-protocol/ross-go/pkg/paged"
	"github.com/ross-protocol/ross-go/pkg/rule"
	"github.com/ross-protocol/ross-go/pkg/rulecodec"
	"github.com/ross-protocol/ross-go/pkg/transport"
)

const (
	// LengthPrefixSize is the size of the event processor payload length.
	LengthPrefixSize = 4

	// DefaultMaxPayloadSize bounds the event processor payload (64 KB).
	DefaultMaxPayloadSize = 65536
)

// ErrPayloadTooLarge indicates an event processor payload above
// Config.MaxPayloadSize. On read this usually means the list was never
// written: erased cells read as a length of 0xffffffff.
var ErrPayloadTooLarge = errors.New("event processor payload too large")

// Config configures a Store.
type Config struct {
	// DeviceInfoAddress is where the device info record lives.
	DeviceInfoAddress uint32

	// Paged configures page writes. Its Logger, Sleeper and SessionID are
	// set by the store.
	Paged paged.Config

	// Logger receives storage events. Optional.
	Logger log.Logger

	// Sleeper implements settle delays. Defaults to transport.SystemSleeper.
	Sleeper transport.Sleeper

	// MaxPayloadSize bounds the event processor payload. Zero means
	// DefaultMaxPayloadSize.
	MaxPayloadSize int

	// Codec encodes event processor lists. Nil uses the built-in kinds.
	Codec *rulecodec.Codec
}

// DefaultConfig returns a configuration for a 32-byte page part with the
// device info at address zero.
func DefaultConfig() Config {
	return Config{
		Paged:          paged.DefaultConfig(),
		MaxPayloadSize: DefaultMaxPayloadSize,
	}
}

// Store reads and writes the persisted records of one device.
type Store struct {
	writer    *paged.Writer
	config    Config
	codec     *rulecodec.Codec
	sessionID string

	// deviceAddress is stamped on events once device info was seen.
	deviceAddress *uint16
}

// New creates a store on bus.
func New(bus transport.Bus, config Config) (*Store, error) {
	if config.MaxPayloadSize <= 0 {
		config.MaxPayloadSize = DefaultMaxPayloadSize
	}
	if config.Sleeper == nil {
		config.Sleeper = transport.SystemSleeper
	}

	s := &Store{
		config:    config,
		codec:     config.Codec,
		sessionID: uuid.New().String(),
	}
	if s.codec == nil {
		s.codec = rulecodec.NewCodec()
	}

	pcfg := config.Paged
	pcfg.Sleeper = config.Sleeper
	pcfg.SessionID = s.sessionID
	if config.Logger != nil {
		pcfg.Logger = stampLogger{store: s}
	}

	w, err := paged.New(bus, pcfg)
	if err != nil {
		return nil, err
	}
	s.writer = w
	return s, nil
}

// SessionID returns the identifier stamped on this store's events.
func (s *Store) SessionID() string {
	return s.sessionID
}

// ReadDeviceInfo loads the device info record.
func (s *Store) ReadDeviceInfo(ctx context.Context) (deviceinfo.DeviceInfo, error) {
	var buf [deviceinfo.Size]byte
	if err := s.writer.Read(ctx, s.config.DeviceInfoAddress, buf[:]); err != nil {
		return deviceinfo.DeviceInfo{}, fmt.Errorf("read device info: %w", err)
	}

	info, err := deviceinfo.Decode(buf[:])
	if err != nil {
		s.logError(log.LayerCodec, &s.config.DeviceInfoAddress, err, "decode device info")
		return deviceinfo.DeviceInfo{}, err
	}

	s.setDeviceAddress(info.DeviceAddress)
	s.logRecord(log.DirectionIn, log.RecordEvent{
		Kind:    log.RecordDeviceInfo,
		Address: s.config.DeviceInfoAddress,
		Size:    deviceinfo.Size,
	})
	return info, nil
}

// WriteDeviceInfo persists the device info record.
func (s *Store) WriteDeviceInfo(ctx context.Context, info deviceinfo.DeviceInfo) error {
	if err := s.writer.Write(ctx, s.config.DeviceInfoAddress, deviceinfo.Encode(info)); err != nil {
		return fmt.Errorf("write device info: %w", err)
	}

	s.setDeviceAddress(info.DeviceAddress)
	s.logRecord(log.DirectionOut, log.RecordEvent{
		Kind:    log.RecordDeviceInfo,
		Address: s.config.DeviceInfoAddress,
		Size:    deviceinfo.Size,
	})
	return nil
}

// ReadEventProcessors loads and decodes the event processor list at the
// address recorded in the device info.
func (s *Store) ReadEventProcessors(ctx context.Context) (rule.List, error) {
	address, payload, err := s.readPayload(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.codec.Decode(payload)
	if err != nil {
		s.logError(log.LayerCodec, &address, err, "decode event processors")
		return nil, fmt.Errorf("decode event processors: %w", err)
	}

	s.logRecord(log.DirectionIn, log.RecordEvent{
		Kind:    log.RecordEventProcessors,
		Address: address,
		Size:    len(payload),
		Count:   len(list),
	})
	return list, nil
}

// ReadEventProcessorData returns the raw event processor payload without
// decoding it.
func (s *Store) ReadEventProcessorData(ctx context.Context) ([]byte, error) {
	address, payload, err := s.readPayload(ctx)
	if err != nil {
		return nil, err
	}

	s.logRecord(log.DirectionIn, log.RecordEvent{
		Kind:    log.RecordEventProcessors,
		Address: address,
		Size:    len(payload),
	})
	return payload, nil
}

// WriteEventProcessors encodes list and persists it at the address recorded
// in the device info.
func (s *Store) WriteEventProcessors(ctx context.Context, list rule.List) error {
	payload, err := s.codec.Encode(list)
	if err != nil {
		s.logError(log.LayerCodec, nil, err, "encode event processors")
		return fmt.Errorf("encode event processors: %w", err)
	}
	return s.writePayload(ctx, payload, len(list))
}

// WriteEventProcessorData persists an already encoded payload with its
// length prefix. The payload is not validated.
func (s *Store) WriteEventProcessorData(ctx context.Context, payload []byte) error {
	return s.writePayload(ctx, payload, 0)
}

// ReadData reads raw bytes at address.
func (s *Store) ReadData(ctx context.Context, address uint32, buf []byte) error {
	return s.writer.Read(ctx, address, buf)
}

// WriteData writes raw bytes at address.
func (s *Store) WriteData(ctx context.Context, address uint32, data []byte) error {
	return s.writer.Write(ctx, address, data)
}

func (s *Store) readPayload(ctx context.Context) (uint32, []byte, error) {
	info, err := s.ReadDeviceInfo(ctx)
	if err != nil {
		return 0, nil, err
	}
	address := info.EventProcessorInfoAddress

	var lengthBuf [LengthPrefixSize]byte
	if err := s.writer.Read(ctx, address, lengthBuf[:]); err != nil {
		return 0, nil, fmt.Errorf("read event processor length: %w", err)
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])
	if uint64(length) > uint64(s.config.MaxPayloadSize) {
		err := fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, length, s.config.MaxPayloadSize)
		s.logError(log.LayerStore, &address, err, "read event processor length")
		return 0, nil, err
	}
	if !paged.Fits(address, LengthPrefixSize+int(length)) {
		err := fmt.Errorf("%w: %d byte list at 0x%08x", paged.ErrAddressOverflow, length, address)
		s.logError(log.LayerStore, &address, err, "read event processors")
		return 0, nil, err
	}

	payload := make([]byte, length)
	if err := s.writer.Read(ctx, address+LengthPrefixSize, payload); err != nil {
		return 0, nil, fmt.Errorf("read event processors: %w", err)
	}
	return address, payload, nil
}

func (s *Store) writePayload(ctx context.Context, payload []byte, count int) error {
	if len(payload) > s.config.MaxPayloadSize {
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), s.config.MaxPayloadSize)
	}

	info, err := s.ReadDeviceInfo(ctx)
	if err != nil {
		return err
	}
	address := info.EventProcessorInfoAddress
	if !paged.Fits(address, LengthPrefixSize+len(payload)) {
		err := fmt.Errorf("%w: %d byte list at 0x%08x", paged.ErrAddressOverflow, len(payload), address)
		s.logError(log.LayerStore, &address, err, "write event processors")
		return err
	}

	frame := make([]byte, LengthPrefixSize, LengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	frame = append(frame, payload...)

	if err := s.writer.Write(ctx, address, frame); err != nil {
		return fmt.Errorf("write event processors: %w", err)
	}

	s.logRecord(log.DirectionOut, log.RecordEvent{
		Kind:    log.RecordEventProcessors,
		Address: address,
		Size:    len(payload),
		Count:   count,
	})
	return nil
}

func (s *Store) setDeviceAddress(address uint16) {
	s.deviceAddress = &address
}

func (s *Store) logRecord(dir log.Direction, record log.RecordEvent) {
	s.log(log.Event{
		Direction: dir,
		Layer:     log.LayerStore,
		Category:  log.CategoryRecord,
		Record:    &record,
	})
}

// logError records a failure. address is nil when the failure has no
// device location.
func (s *Store) logError(layer log.Layer, address *uint32, err error, op string) {
	s.log(log.Event{
		Layer:    layer,
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Address: address,
			Context: op,
		},
	})
}

func (s *Store) log(event log.Event) {
	if s.config.Logger == nil {
		return
	}
	event.Timestamp = time.Now()
	event.SessionID = s.sessionID
	s.stamp(&event)
	s.config.Logger.Log(event)
}

func (s *Store) stamp(event *log.Event) {
	if s.deviceAddress != nil && event.DeviceAddress == nil {
		addr := *s.deviceAddress
		event.DeviceAddress = &addr
	}
}

// stampLogger adds the known device address to transport events.
type stampLogger struct {
	store *Store
}

func (l stampLogger) Log(event log.Event) {
	l.store.stamp(&event)
	l.store.config.Logger.Log(event)
}
