package image

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// FormatVersion is the current image format version.
const FormatVersion = 1

// Image errors.
var (
	// ErrDigestMismatch indicates the cells do not match the stored digest.
	ErrDigestMismatch = errors.New("image digest mismatch")

	// ErrUnsupportedVersion indicates an image written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported image version")
)

// Image is a snapshot of a device's cell array.
type Image struct {
	// Version is the image format version.
	Version int `cbor:"1,keyasint"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `cbor:"2,keyasint"`

	// PageSize is the page size of the source device.
	PageSize int `cbor:"3,keyasint"`

	// DeviceInfoAddress is where the source device keeps its device info.
	DeviceInfoAddress uint32 `cbor:"4,keyasint"`

	// Data is the full cell array.
	Data []byte `cbor:"5,keyasint"`

	// Digest is the BLAKE2b-256 sum of Data.
	Digest []byte `cbor:"6,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create image CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create image CBOR decoder mode: %v", err))
	}
}

// New snapshots data. The slice is copied.
func New(data []byte, pageSize int, deviceInfoAddress uint32) *Image {
	cells := bytes.Clone(data)
	if cells == nil {
		cells = []byte{}
	}
	return &Image{
		Version:           FormatVersion,
		CreatedAt:         time.Now().UTC(),
		PageSize:          pageSize,
		DeviceInfoAddress: deviceInfoAddress,
		Data:              cells,
		Digest:            Sum(cells),
	}
}

// Sum returns the BLAKE2b-256 digest of data.
func Sum(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Verify checks the version and digest.
func (img *Image) Verify() error {
	if img.Version < 1 || img.Version > FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, img.Version)
	}
	if !bytes.Equal(Sum(img.Data), img.Digest) {
		return ErrDigestMismatch
	}
	return nil
}

// Encode serialises img.
func Encode(img *Image) ([]byte, error) {
	return encMode.Marshal(img)
}

// Decode parses and verifies an image.
func Decode(data []byte) (*Image, error) {
	var img Image
	if err := decMode.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if err := img.Verify(); err != nil {
		return nil, err
	}
	return &img, nil
}

// Save writes img to path.
func Save(path string, img *Image) error {
	data, err := Encode(img)
	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

// Load reads and verifies the image at path.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return Decode(data)
}
