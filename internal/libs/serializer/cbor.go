package serializer

import (
	"github.com/ugorji/go/codec"

	"github.com/hyp3rd/binstat/internal/constants"
)

// cborHandle is safe for concurrent use once configured.
//
//nolint:gochecknoglobals
var cborHandle = &codec.CborHandle{}

// NewCBOR returns a CBOR codec. Struct fields are named after their `json` tags.
func NewCBOR() ISerializer { //nolint:ireturn
	return &format{
		name:        constants.CBORSerializer,
		contentType: "application/cbor",
		encode: func(v any) ([]byte, error) {
			var data []byte

			err := codec.NewEncoderBytes(&data, cborHandle).Encode(v)

			return data, err
		},
		decode: func(data []byte, v any) error {
			return codec.NewDecoderBytes(data, cborHandle).Decode(v)
		},
	}
}
