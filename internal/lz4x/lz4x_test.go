package lz4x

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for name, src := range map[string][]byte{
		"empty":      {},
		"short":      []byte("D3DA"),
		"repetitive": bytes.Repeat([]byte("positions"), 500),
	} {
		framed, err := Compress(src)
		require.NoError(t, err, name)
		assert.True(t, IsFramed(framed), name)
		assert.Equal(t, uint32(len(src)), binary.LittleEndian.Uint32(framed[8:12]), name)

		back, err := Decompress(framed)
		require.NoError(t, err, name)
		assert.Equal(t, len(src), len(back), name)
		assert.True(t, bytes.Equal(src, back), name)
	}
}

func TestCompresses(t *testing.T) {
	src := bytes.Repeat([]byte{0, 0, 128, 63}, 1024)
	framed, err := Compress(src)
	require.NoError(t, err)
	assert.Less(t, len(framed), len(src))
	assert.NotZero(t, binary.LittleEndian.Uint32(framed[4:8]))
}

func TestStored(t *testing.T) {
	framed, err := Compress([]byte("abc"))
	require.NoError(t, err)
	assert.Zero(t, binary.LittleEndian.Uint32(framed[4:8]), "incompressible data is stored")
	assert.Equal(t, "abc", string(framed[HeaderLength:]))
}

func TestDecompressErrors(t *testing.T) {
	_, err := Decompress([]byte("D3LZ"))
	var lerr LengthError
	assert.ErrorAs(t, err, &lerr)

	_, err = Decompress(make([]byte, HeaderLength))
	assert.ErrorIs(t, err, ErrSignature)

	framed, err := Compress(bytes.Repeat([]byte("abcd"), 256))
	require.NoError(t, err)
	_, err = Decompress(framed[:len(framed)-1])
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "compressed", lerr.Field)

	stored, err := Compress([]byte("abc"))
	require.NoError(t, err)
	_, err = Decompress(append(stored, 'd'))
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "stored", lerr.Field)

	huge := append([]byte(nil), framed...)
	binary.LittleEndian.PutUint32(huge[8:12], MaxLength+1)
	_, err = Decompress(huge)
	assert.ErrorIs(t, err, ErrTooLarge)

	assert.False(t, IsFramed([]byte("D3DA")))
}
