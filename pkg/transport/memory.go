package transport

import (
	"fmt"
	"sync"
)

// ErasedByte is the value of a cell that has never been written.
const ErasedByte = 0xff

// Memory simulates a 24x-series serial EEPROM.
//
// Writes that run past the end of the addressed page wrap around to the start
// of that page, as the real part does. After every write the chip answers the
// next BusyCycles commands with ErrWouldBlock.
type Memory struct {
	mu       sync.Mutex
	cells    []byte
	pageSize int

	busyCycles int
	busy       int

	writes     int
	faultAfter int
	fault      error
}

// NewMemory creates an erased device of size bytes with the given page size.
func NewMemory(size, pageSize int) *Memory {
	if size <= 0 || pageSize <= 0 {
		panic(fmt.Sprintf("transport: invalid memory geometry size=%d page=%d", size, pageSize))
	}
	cells := make([]byte, size)
	for i := range cells {
		cells[i] = ErasedByte
	}
	return &Memory{
		cells:      cells,
		pageSize:   pageSize,
		faultAfter: -1,
	}
}

// Size returns the device capacity in bytes.
func (m *Memory) Size() int {
	return len(m.cells)
}

// PageSize returns the device page size in bytes.
func (m *Memory) PageSize() int {
	return m.pageSize
}

// SetBusyCycles sets how many commands are rejected with ErrWouldBlock after
// each completed write.
func (m *Memory) SetBusyCycles(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busyCycles = n
}

// FailAfter makes the write issued after n successful writes fail with err.
// A nil err clears the fault.
func (m *Memory) FailAfter(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		m.faultAfter = -1
		m.fault = nil
		return
	}
	m.faultAfter = m.writes + n
	m.fault = err
}

// Writes returns the number of completed page writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Bytes returns a copy of the cell array.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.cells))
	copy(out, m.cells)
	return out
}

// Load replaces the cell array. data must match the device size.
func (m *Memory) Load(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(data) != len(m.cells) {
		return fmt.Errorf("image is %d bytes, device is %d bytes", len(data), len(m.cells))
	}
	copy(m.cells, data)
	return nil
}

// Read implements Bus.
func (m *Memory) Read(address uint32, buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busy > 0 {
		m.busy--
		return ErrWouldBlock
	}
	if err := m.checkRange(address, len(buf)); err != nil {
		return err
	}
	copy(buf, m.cells[address:])
	return nil
}

// WritePage implements Bus.
func (m *Memory) WritePage(address uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busy > 0 {
		m.busy--
		return ErrWouldBlock
	}
	if m.fault != nil && m.writes == m.faultAfter {
		err := m.fault
		m.fault = nil
		m.faultAfter = -1
		return err
	}
	if err := m.checkRange(address, 1); err != nil {
		return err
	}

	pageStart := int(address) - int(address)%m.pageSize
	offset := int(address) - pageStart
	for _, b := range data {
		idx := pageStart + offset
		if idx < len(m.cells) {
			m.cells[idx] = b
		}
		offset = (offset + 1) % m.pageSize
	}

	m.writes++
	m.busy = m.busyCycles
	return nil
}

func (m *Memory) checkRange(address uint32, n int) error {
	if uint64(address)+uint64(n) > uint64(len(m.cells)) {
		return fmt.Errorf("%w: 0x%04x+%d exceeds %d bytes", ErrOutOfRange, address, n, len(m.cells))
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Bus = (*Memory)(nil)
