package codec

import (
	"errors"
	"unicode/utf8"
)

var ErrInvalidUTF8 = errors.New("failed to parse bytes to string, invalid utf-8 encoding")

// Codec converts cell values between their string form and the bytes
// stored in HBase.
type Codec interface {
	EncodeString(string) []byte
	DecodeString([]byte) (string, error)
}

// DefaultCodec stores strings as their raw UTF-8 bytes, the same layout
// the HBase shell and Bytes.toBytes produce.
type DefaultCodec struct{}

func (*DefaultCodec) EncodeString(s string) []byte {
	return []byte(s)
}

func (*DefaultCodec) DecodeString(b []byte) (string, error) {
	return string(b), nil
}

// StrictCodec is DefaultCodec that refuses to decode bytes which are not
// valid UTF-8, e.g. numbers written by another client with a binary codec.
type StrictCodec struct {
	DefaultCodec
}

func (c *StrictCodec) DecodeString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
