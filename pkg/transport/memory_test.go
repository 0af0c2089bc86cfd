package transport

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStartsErased(t *testing.T) {
	mem := NewMemory(64, 8)

	buf := make([]byte, 64)
	require.NoError(t, mem.Read(0, buf))
	assert.Equal(t, bytes.Repeat([]byte{ErasedByte}, 64), buf)
	assert.Equal(t, 64, mem.Size())
	assert.Equal(t, 8, mem.PageSize())
}

func TestMemoryWriteRead(t *testing.T) {
	mem := NewMemory(64, 8)

	require.NoError(t, mem.WritePage(10, []byte{1, 2, 3}))

	buf := make([]byte, 3)
	require.NoError(t, mem.Read(10, buf))
	assert.Equal(t, []byte{1, 2, 3}, buf)
	assert.Equal(t, 1, mem.Writes())
}

func TestMemoryWriteWrapsWithinPage(t *testing.T) {
	mem := NewMemory(32, 8)

	// Address 14 leaves two bytes in the page [8,16); the rest wraps to 8.
	require.NoError(t, mem.WritePage(14, []byte{0xa0, 0xa1, 0xa2, 0xa3}))

	got := mem.Bytes()
	assert.Equal(t, byte(0xa0), got[14])
	assert.Equal(t, byte(0xa1), got[15])
	assert.Equal(t, byte(0xa2), got[8], "write must wrap to the start of the page")
	assert.Equal(t, byte(0xa3), got[9])
	assert.Equal(t, byte(ErasedByte), got[16], "next page must be untouched")
}

func TestMemoryBusyAfterWrite(t *testing.T) {
	mem := NewMemory(32, 8)
	mem.SetBusyCycles(2)

	require.NoError(t, mem.WritePage(0, []byte{1}))

	buf := make([]byte, 1)
	assert.ErrorIs(t, mem.Read(0, buf), ErrWouldBlock)
	assert.ErrorIs(t, mem.WritePage(1, []byte{2}), ErrWouldBlock)
	require.NoError(t, mem.Read(0, buf))
	assert.Equal(t, byte(1), buf[0])
}

func TestMemoryFailAfter(t *testing.T) {
	mem := NewMemory(32, 8)
	boom := errors.New("nack")
	mem.FailAfter(1, boom)

	require.NoError(t, mem.WritePage(0, []byte{1}))
	assert.ErrorIs(t, mem.WritePage(8, []byte{2}), boom)
	require.NoError(t, mem.WritePage(8, []byte{3}), "fault fires once")
	assert.Equal(t, 2, mem.Writes())
}

func TestMemoryOutOfRange(t *testing.T) {
	mem := NewMemory(16, 8)

	err := mem.Read(10, make([]byte, 8))
	assert.ErrorIs(t, err, ErrOutOfRange)

	err = mem.WritePage(16, []byte{1})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMemoryLoad(t *testing.T) {
	mem := NewMemory(4, 4)

	require.NoError(t, mem.Load([]byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{1, 2, 3, 4}, mem.Bytes())
	assert.Error(t, mem.Load([]byte{1}))
}

func TestSleeperFunc(t *testing.T) {
	var slept []time.Duration
	s := SleeperFunc(func(d time.Duration) { slept = append(slept, d) })

	s.Sleep(5 * time.Millisecond)
	s.Sleep(time.Millisecond)

	assert.Equal(t, []time.Duration{5 * time.Millisecond, time.Millisecond}, slept)
}
