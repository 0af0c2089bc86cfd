package paged

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunks(t *testing.T) {
	tests := []struct {
		name     string
		address  uint32
		n        int
		pageSize int
		want     []Chunk
	}{
		{
			name:    "misaligned start",
			address: 3, n: 10, pageSize: 8,
			want: []Chunk{
				{Address: 3, Offset: 0, Len: 5},
				{Address: 8, Offset: 5, Len: 5},
			},
		},
		{
			name:    "aligned with tail",
			address: 8, n: 9, pageSize: 8,
			want: []Chunk{
				{Address: 8, Offset: 0, Len: 8},
				{Address: 16, Offset: 8, Len: 1},
			},
		},
		{
			name:    "exact fill",
			address: 16, n: 16, pageSize: 8,
			want: []Chunk{
				{Address: 16, Offset: 0, Len: 8},
				{Address: 24, Offset: 8, Len: 8},
			},
		},
		{
			name:    "single aligned byte",
			address: 32, n: 1, pageSize: 32,
			want: []Chunk{{Address: 32, Offset: 0, Len: 1}},
		},
		{
			name:    "fits in first partial page",
			address: 5, n: 2, pageSize: 8,
			want: []Chunk{{Address: 5, Offset: 0, Len: 2}},
		},
		{
			name:    "ends on boundary from misaligned start",
			address: 6, n: 10, pageSize: 8,
			want: []Chunk{
				{Address: 6, Offset: 0, Len: 2},
				{Address: 8, Offset: 2, Len: 8},
			},
		},
		{
			name:    "empty",
			address: 3, n: 0, pageSize: 8,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunks(tt.address, tt.n, tt.pageSize))
		})
	}
}

func TestChunksInvariants(t *testing.T) {
	for _, pageSize := range []int{1, 8, 16, 32, 64} {
		for address := uint32(0); address < 70; address += 7 {
			for _, n := range []int{1, 5, 31, 32, 33, 200} {
				chunks := Chunks(address, n, pageSize)

				next := uint64(address)
				total := 0
				for _, c := range chunks {
					assert.Equal(t, next, uint64(c.Address))
					assert.Equal(t, total, c.Offset)
					assert.Positive(t, c.Len)
					assert.LessOrEqual(t, c.Len, pageSize)
					assert.Equal(t, uint64(c.Address)/uint64(pageSize), (c.End()-1)/uint64(pageSize),
						"chunk %+v crosses a page boundary", c)
					next = c.End()
					total += c.Len
				}
				assert.Equal(t, n, total)
			}
		}
	}
}

func TestChunksRejectsBadPageSize(t *testing.T) {
	assert.Nil(t, Chunks(0, 10, 0))
	assert.Nil(t, Chunks(0, 10, -8))
}

func TestChunksTopOfAddressSpace(t *testing.T) {
	assert.Nil(t, Chunks(0xfffffffc, 8, 8), "range past 2^32 must not wrap to 0")
	assert.Nil(t, Chunks(0xffffffff, 2, 8))

	chunks := Chunks(0xfffffff0, 16, 8)
	assert.Equal(t, []Chunk{
		{Address: 0xfffffff0, Offset: 0, Len: 8},
		{Address: 0xfffffff8, Offset: 8, Len: 8},
	}, chunks)
	assert.Equal(t, uint64(AddressSpace), chunks[1].End())
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(0, 0))
	assert.True(t, Fits(0xffffffff, 1))
	assert.True(t, Fits(0xfffffffc, 4))
	assert.False(t, Fits(0xfffffffc, 5))
	assert.False(t, Fits(0xffffffff, 2))
	assert.False(t, Fits(0, -1))
}
