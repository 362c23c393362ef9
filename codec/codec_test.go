package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCodec(t *testing.T) {
	var c Codec = &DefaultCodec{}
	assert.Equal(t, []byte("G20210675010604"), c.EncodeString("G20210675010604"))

	s, err := c.DecodeString([]byte{0x00, 0x00, 0x00, 0x3c})
	require.NoError(t, err)
	assert.Equal(t, "\x00\x00\x00<", s)
}

func TestStrictCodec(t *testing.T) {
	var c Codec = &StrictCodec{}
	assert.Equal(t, []byte("黄"), c.EncodeString("黄"))

	s, err := c.DecodeString([]byte("黄晓迪"))
	require.NoError(t, err)
	assert.Equal(t, "黄晓迪", s)

	_, err = c.DecodeString([]byte{0xff, 0xfe})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
