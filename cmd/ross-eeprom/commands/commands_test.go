package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ross-protocol/ross-go/pkg/deviceinfo"
	"github.com/ross-protocol/ross-go/pkg/log"
	"github.com/ross-protocol/ross-go/pkg/retry"
	"github.com/ross-protocol/ross-go/pkg/rulefile"
)

const testRules = `
event_processors:
  - matchers:
      - extractor: {kind: event_code}
        filter: {kind: u16_is_equal, value: 3}
    extractor: {kind: none}
    producer: {kind: bcm_change_brightness, bcm_address: 16, channel: 0, brightness: 255}
  - matchers:
      - extractor: {kind: none}
        filter: {kind: flip_flop}
    extractor: {kind: none}
    producer: {kind: bcm_change_brightness_state, bcm_address: 16, channel: 1, state_index: 0}
`

var testInfo = deviceinfo.DeviceInfo{
	DeviceAddress:             0x0123,
	FirmwareVersion:           0x00010000,
	EventProcessorInfoAddress: 0x20,
}

func testProfile(t *testing.T) Profile {
	t.Helper()
	p := DefaultProfile()
	p.Image = filepath.Join(t.TempDir(), "node.img")
	p.Size = 512
	p.PageSize = 16
	p.SettleTime = 0
	return p
}

func initSession(t *testing.T, p Profile) *Session {
	t.Helper()
	require.NoError(t, RunInit(context.Background(), p, testInfo, false, &bytes.Buffer{}))

	s, err := OpenSession(p, SessionOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func writeRules(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRules), 0o644))
	return path
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.NoError(t, p.Validate())
	assert.Equal(t, 32, p.PageSize)
	assert.Equal(t, 5*time.Millisecond, p.SettleTime)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
image: /tmp/node.img
size: 8192
page_size: 64
settle_time: 10ms
retry_attempts: 50
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/node.img", p.Image)
	assert.Equal(t, 8192, p.Size)
	assert.Equal(t, 64, p.PageSize)
	assert.Equal(t, 10*time.Millisecond, p.SettleTime)
	assert.Equal(t, 50, p.RetryAttempts)
	assert.Equal(t, uint32(0), p.DeviceInfoAddress)

	cfg := p.StoreConfig()
	assert.Equal(t, 64, cfg.Paged.PageSize)
	assert.Equal(t, 50, cfg.Paged.Retry.MaxAttempts)
}

func TestLoadProfileInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("size: 16\npage_size: 32\n"), 0o644))
	_, err := LoadProfile(bad)
	assert.ErrorContains(t, err, "invalid page size")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("size: [\n"), 0o644))
	_, err = LoadProfile(broken)
	assert.ErrorContains(t, err, "failed to parse profile")

	_, err = LoadProfile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read profile")
}

func TestProfileValidate(t *testing.T) {
	p := DefaultProfile()
	p.Size = 0
	p.RetryAttempts = -1
	err := p.Validate()
	assert.ErrorContains(t, err, "invalid size")
	assert.ErrorContains(t, err, "invalid retry attempts")

	p = DefaultProfile()
	p.DeviceInfoAddress = uint32(p.Size)
	assert.ErrorContains(t, p.Validate(), "outside device")
}

func TestProfileRetryBackoff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
retry_attempts: 10
retry_backoff: exponential
retry_interval: 1ms
retry_max_interval: 4ms
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)

	cfg := p.StoreConfig()
	assert.Equal(t, 10, cfg.Paged.Retry.MaxAttempts)
	b := cfg.Paged.Retry.Backoff
	require.NotNil(t, b)
	assert.Equal(t, time.Millisecond, b.Next())
	assert.Equal(t, 2*time.Millisecond, b.Next())
	assert.Equal(t, 4*time.Millisecond, b.Next())
	assert.Equal(t, 4*time.Millisecond, b.Next())

	p.RetryBackoff = BackoffConstant
	assert.Equal(t, retry.ConstantBackoff{Interval: time.Millisecond}, p.StoreConfig().Paged.Retry.Backoff)

	p.RetryBackoff = BackoffExponential
	p.RetryMaxInterval = 0
	b = p.StoreConfig().Paged.Retry.Backoff
	for i := 0; i < 10; i++ {
		b.Next()
	}
	assert.Equal(t, 64*time.Millisecond, b.Next())

	assert.Nil(t, DefaultProfile().StoreConfig().Paged.Retry.Backoff)
}

func TestProfileRetryBackoffInvalid(t *testing.T) {
	tests := []struct {
		name    string
		backoff string
		every   time.Duration
		ceiling time.Duration
		want    string
	}{
		{"unknown", "linear", time.Millisecond, 0, "unknown retry backoff"},
		{"no interval", BackoffConstant, 0, 0, "needs a positive retry interval"},
		{"ceiling below interval", BackoffExponential, 4 * time.Millisecond, time.Millisecond, "invalid retry max interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			p.RetryBackoff = tt.backoff
			p.RetryInterval = tt.every
			p.RetryMaxInterval = tt.ceiling
			assert.ErrorContains(t, p.Validate(), tt.want)
		})
	}
}

func TestRunInit(t *testing.T) {
	p := testProfile(t)

	var out bytes.Buffer
	require.NoError(t, RunInit(context.Background(), p, testInfo, false, &out))
	assert.Contains(t, out.String(), "Created")
	assert.Contains(t, out.String(), "0x0123")

	data, err := os.ReadFile(p.Image)
	require.NoError(t, err)
	require.Len(t, data, p.Size)
	assert.Equal(t, deviceinfo.Encode(testInfo), data[:deviceinfo.Size])
	assert.Equal(t, byte(0xff), data[deviceinfo.Size])

	err = RunInit(context.Background(), p, testInfo, false, &out)
	assert.ErrorIs(t, err, ErrImageExists)

	assert.NoError(t, RunInit(context.Background(), p, testInfo, true, &out))
}

func TestRunInfo(t *testing.T) {
	s := initSession(t, testProfile(t))

	var out bytes.Buffer
	require.NoError(t, RunInfo(context.Background(), s, &out))
	assert.Contains(t, out.String(), "Device address:          0x0123")
	assert.Contains(t, out.String(), "Firmware version:        0x00010000")
	assert.Contains(t, out.String(), "Event processor address: 0x0020")
}

func TestRunSetInfo(t *testing.T) {
	s := initSession(t, testProfile(t))

	info := testInfo
	info.FirmwareVersion = 2
	require.NoError(t, RunSetInfo(context.Background(), s, info, &bytes.Buffer{}))

	got, err := s.Store.ReadDeviceInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, info, got)

	info.EventProcessorInfoAddress = 0x1000
	assert.ErrorContains(t, RunSetInfo(context.Background(), s, info, &bytes.Buffer{}), "outside device")
}

func TestLoadRulesAndPrint(t *testing.T) {
	s := initSession(t, testProfile(t))

	var out bytes.Buffer
	require.NoError(t, RunLoadRules(context.Background(), s, writeRules(t), &out))
	assert.Contains(t, out.String(), "Stored 2 event processor(s)")

	out.Reset()
	require.NoError(t, RunRules(context.Background(), s, &out))

	printed, err := rulefile.Parse(out.Bytes())
	require.NoError(t, err)
	want, err := rulefile.Parse([]byte(testRules))
	require.NoError(t, err)
	assert.Equal(t, want, printed)
}

func TestRunRulesErasedList(t *testing.T) {
	s := initSession(t, testProfile(t))
	assert.Error(t, RunRules(context.Background(), s, &bytes.Buffer{}))
}

func TestExportImport(t *testing.T) {
	src := initSession(t, testProfile(t))
	require.NoError(t, RunLoadRules(context.Background(), src, writeRules(t), &bytes.Buffer{}))

	imgPath := filepath.Join(t.TempDir(), "node.rimg")
	var out bytes.Buffer
	require.NoError(t, RunExport(context.Background(), src, imgPath, &out))
	assert.Contains(t, out.String(), "Exported 512 bytes")

	dstProfile := testProfile(t)
	require.NoError(t, CreateImage(dstProfile, false))
	dst, err := OpenSession(dstProfile, SessionOptions{})
	require.NoError(t, err)
	defer dst.Close()

	require.NoError(t, RunImport(context.Background(), dst, imgPath, &out))

	srcBytes, err := os.ReadFile(src.Profile.Image)
	require.NoError(t, err)
	dstBytes, err := os.ReadFile(dstProfile.Image)
	require.NoError(t, err)
	assert.Equal(t, srcBytes, dstBytes)

	list, err := dst.Store.ReadEventProcessors(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestImportGeometryMismatch(t *testing.T) {
	src := initSession(t, testProfile(t))
	imgPath := filepath.Join(t.TempDir(), "node.rimg")
	require.NoError(t, RunExport(context.Background(), src, imgPath, &bytes.Buffer{}))

	p := testProfile(t)
	p.Size = 1024
	dst := initSession(t, p)

	err := RunImport(context.Background(), dst, imgPath, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrGeometryMismatch)
}

func TestRunDumpAndWrite(t *testing.T) {
	s := initSession(t, testProfile(t))

	var out bytes.Buffer
	require.NoError(t, RunWrite(context.Background(), s, 0x100, []byte{0xde, 0xad, 0xbe, 0xef}, &out))
	assert.Contains(t, out.String(), "Wrote 4 bytes at 0x0100")

	out.Reset()
	require.NoError(t, RunDump(context.Background(), s, 0x100, 6, &out))
	assert.Contains(t, out.String(), "de ad be ef ff ff")
}

func TestSessionTrace(t *testing.T) {
	p := testProfile(t)
	require.NoError(t, CreateImage(p, false))

	var trace bytes.Buffer
	s, err := OpenSession(p, SessionOptions{Trace: &trace})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Store.WriteDeviceInfo(context.Background(), testInfo))
	assert.Contains(t, trace.String(), "msg=eeprom")
	assert.Contains(t, trace.String(), "layer=STORE")
}

func TestRunEvents(t *testing.T) {
	p := testProfile(t)
	p.EventLog = filepath.Join(t.TempDir(), "node.elog")
	p.BusyCycles = 1

	s := initSession(t, p)
	require.NoError(t, RunLoadRules(context.Background(), s, writeRules(t), &bytes.Buffer{}))
	require.NoError(t, s.Close())

	var out bytes.Buffer
	require.NoError(t, RunEvents(p.EventLog, EventOptions{Category: "record", Direction: "out"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "DEVICE_INFO")
	assert.Contains(t, lines[1], "EVENT_PROCESSORS")
	assert.Contains(t, lines[1], "count=2")
	assert.Equal(t, "2 event(s)", lines[2])

	out.Reset()
	require.NoError(t, RunEvents(p.EventLog, EventOptions{Category: "retry"}, &out))
	assert.Contains(t, out.String(), "attempt=1")

	out.Reset()
	require.NoError(t, RunEvents(p.EventLog, EventOptions{Category: "record", Direction: "out", Record: "event-processors"}, &out))
	assert.Contains(t, out.String(), "1 event(s)")

	assert.Error(t, RunEvents(p.EventLog, EventOptions{Layer: "wire"}, &out))
	assert.Error(t, RunEvents(filepath.Join(t.TempDir(), "none.elog"), EventOptions{}, &out))
}

func TestEventOptionsFilter(t *testing.T) {
	f, err := EventOptions{
		SessionID: "abc",
		Layer:     "codec",
		Direction: "IN",
		Category:  "error",
		TimeStart: "2026-01-01T00:00:00Z",
		TimeEnd:   "2026-01-02T00:00:00Z",
	}.Filter()
	require.NoError(t, err)

	assert.Equal(t, "abc", f.SessionID)
	assert.Equal(t, log.LayerCodec, *f.Layer)
	assert.Equal(t, log.DirectionIn, *f.Direction)
	assert.Equal(t, log.CategoryError, *f.Category)
	assert.True(t, f.TimeStart.Before(*f.TimeEnd))

	_, err = EventOptions{TimeStart: "yesterday"}.Filter()
	assert.ErrorContains(t, err, "invalid time-start")
	_, err = EventOptions{Direction: "up"}.Filter()
	assert.Error(t, err)
	_, err = EventOptions{Category: "frame"}.Filter()
	assert.Error(t, err)
}

func TestEventOptionsDomainFilter(t *testing.T) {
	f, err := EventOptions{Device: "0x0123", Record: "rules", From: "0x40", To: "256"}.Filter()
	require.NoError(t, err)

	assert.Equal(t, uint16(0x0123), *f.DeviceAddress)
	assert.Equal(t, log.RecordEventProcessors, *f.Record)
	assert.Equal(t, uint32(0x40), *f.AddressFrom)
	assert.Equal(t, uint32(0x100), *f.AddressTo)

	_, err = EventOptions{Device: "0x10000"}.Filter()
	assert.ErrorContains(t, err, "device")
	_, err = EventOptions{Record: "crc"}.Filter()
	assert.ErrorContains(t, err, "unknown record")
	_, err = EventOptions{From: "-1"}.Filter()
	assert.ErrorContains(t, err, "from")
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	addr := uint16(0x0123)

	line := FormatEvent(log.Event{
		Timestamp:     ts,
		SessionID:     "0123456789abcdef",
		Direction:     log.DirectionOut,
		Layer:         log.LayerTransport,
		Category:      log.CategoryAccess,
		DeviceAddress: &addr,
		Access:        &log.AccessEvent{Address: 0x20, Size: 4, Data: []byte{1, 2}, Truncated: true},
	})
	assert.Equal(t, "12:00:00.000000 01234567 OUT TRANSPORT ACCESS dev=0x0123 addr=0x0020 size=4 chunk=0 data=0102...", line)

	line = FormatEvent(log.Event{
		Timestamp: ts,
		Layer:     log.LayerCodec,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Message: "boom", Context: "decode event processors"},
	})
	assert.Contains(t, line, "decode event processors: boom")
}

func TestParseDeviceInfo(t *testing.T) {
	info, err := ParseDeviceInfo("0x0123", "65536", "0x40")
	require.NoError(t, err)
	assert.Equal(t, deviceinfo.DeviceInfo{DeviceAddress: 0x0123, FirmwareVersion: 65536, EventProcessorInfoAddress: 0x40}, info)

	_, err = ParseDeviceInfo("0x10000", "0", "0")
	assert.ErrorContains(t, err, "device address")
	_, err = ParseDeviceInfo("1", "x", "0")
	assert.ErrorContains(t, err, "firmware version")
	_, err = ParseDeviceInfo("1", "0", "-1")
	assert.ErrorContains(t, err, "event processor address")
}
