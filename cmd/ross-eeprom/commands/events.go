package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ross-protocol/ross-go/pkg/log"
)

// EventOptions selects the events to print.
type EventOptions struct {
	SessionID string
	Layer     string
	Direction string
	Category  string
	TimeStart string
	TimeEnd   string

	// Device is a node bus address, Record a record kind name.
	Device string
	Record string

	// From and To bound the device addresses of interest.
	From string
	To   string
}

// Filter converts the options into a log filter.
func (o EventOptions) Filter() (log.Filter, error) {
	filter := log.Filter{SessionID: o.SessionID}

	if o.Layer != "" {
		l, err := ParseLayerFlag(o.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if o.Direction != "" {
		d, err := ParseDirectionFlag(o.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if o.Device != "" {
		v, err := ParseUint(o.Device, 16)
		if err != nil {
			return filter, fmt.Errorf("device: %w", err)
		}
		addr := uint16(v)
		filter.DeviceAddress = &addr
	}
	if o.Record != "" {
		k, err := ParseRecordFlag(o.Record)
		if err != nil {
			return filter, err
		}
		filter.Record = &k
	}
	if o.From != "" {
		v, err := ParseUint(o.From, 32)
		if err != nil {
			return filter, fmt.Errorf("from: %w", err)
		}
		from := uint32(v)
		filter.AddressFrom = &from
	}
	if o.To != "" {
		v, err := ParseUint(o.To, 32)
		if err != nil {
			return filter, fmt.Errorf("to: %w", err)
		}
		to := uint32(v)
		filter.AddressTo = &to
	}
	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end: %w", err)
		}
		filter.TimeEnd = &t
	}
	return filter, nil
}

// RunEvents prints the matching events of an event log, one per line.
func RunEvents(path string, opts EventOptions, w io.Writer) error {
	filter, err := opts.Filter()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		fmt.Fprintln(w, FormatEvent(event))
		count++
	}

	fmt.Fprintf(w, "%d event(s)\n", count)
	return nil
}

// FormatEvent renders an event on one line.
func FormatEvent(e log.Event) string {
	var b strings.Builder

	session := e.SessionID
	if len(session) > 8 {
		session = session[:8]
	}
	fmt.Fprintf(&b, "%s %s %-3s %-9s %-6s",
		e.Timestamp.UTC().Format("15:04:05.000000"), session, e.Direction, e.Layer, e.Category)

	if e.DeviceAddress != nil {
		fmt.Fprintf(&b, " dev=0x%04x", *e.DeviceAddress)
	}

	switch {
	case e.Access != nil:
		fmt.Fprintf(&b, " addr=0x%04x size=%d chunk=%d", e.Access.Address, e.Access.Size, e.Access.Chunk)
		if len(e.Access.Data) > 0 {
			fmt.Fprintf(&b, " data=%x", e.Access.Data)
			if e.Access.Truncated {
				b.WriteString("...")
			}
		}
	case e.Retry != nil:
		fmt.Fprintf(&b, " addr=0x%04x attempt=%d", e.Retry.Address, e.Retry.Attempt)
	case e.Record != nil:
		fmt.Fprintf(&b, " %s addr=0x%04x size=%d", e.Record.Kind, e.Record.Address, e.Record.Size)
		if e.Record.Kind == log.RecordEventProcessors && e.Record.Count > 0 {
			fmt.Fprintf(&b, " count=%d", e.Record.Count)
		}
	case e.Error != nil:
		fmt.Fprintf(&b, " %s: %s", e.Error.Context, e.Error.Message)
	}

	return b.String()
}

// ParseLayerFlag parses a layer name.
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "codec":
		return log.LayerCodec, nil
	case "store":
		return log.LayerStore, nil
	default:
		return 0, fmt.Errorf("unknown layer: %s (valid: transport, codec, store)", s)
	}
}

// ParseDirectionFlag parses a direction name.
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction: %s (valid: in, out)", s)
	}
}

// ParseCategoryFlag parses a category name.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "access":
		return log.CategoryAccess, nil
	case "retry":
		return log.CategoryRetry, nil
	case "record":
		return log.CategoryRecord, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category: %s (valid: access, retry, record, error)", s)
	}
}

// ParseRecordFlag parses a record kind name.
func ParseRecordFlag(s string) (log.RecordKind, error) {
	switch strings.ToLower(s) {
	case "device-info":
		return log.RecordDeviceInfo, nil
	case "event-processors", "rules":
		return log.RecordEventProcessors, nil
	default:
		return 0, fmt.Errorf("unknown record: %s (valid: device-info, event-processors)", s)
	}
}
