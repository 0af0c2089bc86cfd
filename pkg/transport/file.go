package transport

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileBus is a simulated device whose contents are persisted to an image file
// after every page write.
type FileBus struct {
	*Memory
	path string
}

// OpenFile opens the image at path, creating an erased device when the file
// does not exist. An existing file must be exactly size bytes.
func OpenFile(path string, size, pageSize int) (*FileBus, error) {
	mem := NewMemory(size, pageSize)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := mem.Load(data); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	return &FileBus{Memory: mem, path: path}, nil
}

// Path returns the image file path.
func (f *FileBus) Path() string {
	return f.path
}

// WritePage writes through to the simulated device and persists the image.
func (f *FileBus) WritePage(address uint32, data []byte) error {
	if err := f.Memory.WritePage(address, data); err != nil {
		return err
	}
	return f.Sync()
}

// Sync writes the current device contents to the image file.
func (f *FileBus) Sync() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(f.path, f.Memory.Bytes(), 0644)
}

// Compile-time interface satisfaction check.
var _ Bus = (*FileBus)(nil)
