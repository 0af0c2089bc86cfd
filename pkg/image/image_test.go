package image

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	// BLAKE2b-256 of the empty input.
	assert.Equal(t,
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		hex.EncodeToString(Sum(nil)))
	assert.Len(t, Sum([]byte("ross")), 32)
}

func TestNewCopiesData(t *testing.T) {
	data := []byte{1, 2, 3}
	img := New(data, 32, 0)
	data[0] = 9

	assert.Equal(t, []byte{1, 2, 3}, img.Data)
	assert.Equal(t, FormatVersion, img.Version)
	assert.NoError(t, img.Verify())
}

func TestEncodeDecode(t *testing.T) {
	img := New([]byte{0xff, 0x00, 0x12}, 8, 0x10)

	data, err := Encode(img)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, img.Data, got.Data)
	assert.Equal(t, 8, got.PageSize)
	assert.Equal(t, uint32(0x10), got.DeviceInfoAddress)
	assert.True(t, img.CreatedAt.Equal(got.CreatedAt))
}

func TestDecodeDetectsCorruption(t *testing.T) {
	img := New([]byte{1, 2, 3, 4}, 8, 0)
	img.Data[2] = 0

	data, err := Encode(img)
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	img := New([]byte{1}, 8, 0)
	img.Version = FormatVersion + 1

	data, err := Encode(img)
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte{0xff, 0x00})
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.img")
	img := New([]byte("cells"), 32, 0)

	require.NoError(t, Save(path, img))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("cells"), got.Data)

	_, err = Load(filepath.Join(t.TempDir(), "missing.img"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
