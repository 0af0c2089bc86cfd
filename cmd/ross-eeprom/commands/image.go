package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ross-protocol/ross-go/pkg/image"
)

// ErrGeometryMismatch indicates an image taken from a differently sized
// device.
var ErrGeometryMismatch = errors.New("image geometry does not match device")

// RunExport snapshots the whole device into an image file.
func RunExport(ctx context.Context, s *Session, path string, w io.Writer) error {
	cells := make([]byte, s.Profile.Size)
	if err := s.Store.ReadData(ctx, 0, cells); err != nil {
		return err
	}

	img := image.New(cells, s.Profile.PageSize, s.Profile.DeviceInfoAddress)
	if err := image.Save(path, img); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %d bytes to %s (blake2b %x)\n", len(cells), path, img.Digest[:8])
	return nil
}

// RunImport writes an image file back to the device page by page.
func RunImport(ctx context.Context, s *Session, path string, w io.Writer) error {
	img, err := image.Load(path)
	if err != nil {
		return err
	}
	if len(img.Data) != s.Profile.Size || img.PageSize != s.Profile.PageSize {
		return fmt.Errorf("%w: image %d bytes/%d-byte pages, device %d bytes/%d-byte pages",
			ErrGeometryMismatch, len(img.Data), img.PageSize, s.Profile.Size, s.Profile.PageSize)
	}

	if err := s.Store.WriteData(ctx, 0, img.Data); err != nil {
		return err
	}
	fmt.Fprintf(w, "Imported %d bytes from %s\n", len(img.Data), path)
	return nil
}
