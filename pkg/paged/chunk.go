package paged

// AddressSpace is the size of the 32-bit device address space.
const AddressSpace = 1 << 32

// Chunk is one page-bounded slice of a write.
type Chunk struct {
	// Address is the device address of the first byte.
	Address uint32

	// Offset is the index of the first byte within the source buffer.
	Offset int

	// Len is the number of bytes in the chunk.
	Len int
}

// End returns the address one past the last byte of the chunk. A chunk
// ending at the top of the address space ends at AddressSpace.
func (c Chunk) End() uint64 {
	return uint64(c.Address) + uint64(c.Len)
}

// Fits reports whether n bytes starting at address stay inside the 32-bit
// address space.
func Fits(address uint32, n int) bool {
	return n >= 0 && uint64(address)+uint64(n) <= AddressSpace
}

// Chunks plans the page writes for n bytes starting at address. The first
// chunk runs up to the next page boundary, the following chunks are at most
// one page long. n <= 0 yields no chunks. pageSize must be positive. A range
// running past the top of the address space yields no chunks.
func Chunks(address uint32, n, pageSize int) []Chunk {
	if n <= 0 || pageSize <= 0 || !Fits(address, n) {
		return nil
	}

	page := uint32(pageSize)
	chunks := make([]Chunk, 0, n/pageSize+2)

	offset := 0
	for offset < n {
		addr := address + uint32(offset)
		room := int(page - addr%page)
		size := min(room, n-offset)

		chunks = append(chunks, Chunk{Address: addr, Offset: offset, Len: size})
		offset += size
	}

	return chunks
}
