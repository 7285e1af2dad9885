package roundtrip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Testing example from rfc:
// https://datatracker.ietf.org/doc/html/rfc7692#section-7.2.3.1
func TestCompressDecompress(t *testing.T) {
	plain := []byte("Hello")

	c, err := newCompressor(7)
	require.NoError(t, err)
	data, err := c.compress(plain)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xf2, 0x48, 0xcd, 0xc9, 0xc9, 0x07, 0x00}, data)

	d := decompressors.Get().(*decompressor)
	defer decompressors.Put(d)
	plain2, err := d.decompress(data)
	assert.NoError(t, err)
	assert.Equal(t, plain, plain2)
}

func TestDecompressDoesNotModifyPayload(t *testing.T) {
	payload := make([]byte, 7, 64)
	copy(payload, []byte{0xf2, 0x48, 0xcd, 0xc9, 0xc9, 0x07, 0x00})
	backing := payload[:cap(payload)]

	d := newDecompressor()
	plain, err := d.decompress(payload)
	assert.NoError(t, err)
	assert.Equal(t, "Hello", string(plain))
	assert.Equal(t, make([]byte, cap(payload)-len(payload)), backing[len(payload):])
}

func TestPermessageDeflatePools(t *testing.T) {
	var c permessageDeflate
	for _, level := range Levels() {
		payload, err := c.Compress("Hello", level)
		assert.NoError(t, err)
		text, err := c.Decompress(payload)
		assert.NoError(t, err)
		assert.Equal(t, "Hello", text)
	}
	empty, err := c.Compress("", BestSpeed)
	assert.NoError(t, err)
	text, err := c.Decompress(empty)
	assert.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestCompressorInvalidLevel(t *testing.T) {
	_, err := newCompressor(42)
	assert.Error(t, err)

	_, err = permessageDeflate{}.Compress("Hello", 42)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}
