// Package serializer encodes store snapshots for the persistence backends and
// the snapshot export route.
//
// Three wire formats are registered by default: JSON (goccy/go-json), msgpack
// (shamaton/msgpack) and CBOR (ugorji/go/codec). Each carries a media type so
// HTTP clients can pick one through the Accept header.
package serializer

import (
	"github.com/hyp3rd/ewrap"
)

// ISerializer encodes and decodes snapshots in a single wire format.
type ISerializer interface {
	// Name is the key the format is registered under.
	Name() string
	// ContentType is the media type of the encoded bytes.
	ContentType() string
	// Marshal serializes the given value into a byte slice.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes the given byte slice into the value v points to.
	Unmarshal(data []byte, v any) error
}

// format adapts a pair of library functions to ISerializer.
type format struct {
	name        string
	contentType string
	encode      func(v any) ([]byte, error)
	decode      func(data []byte, v any) error
}

func (c *format) Name() string        { return c.name }
func (c *format) ContentType() string { return c.contentType }

func (c *format) Marshal(v any) ([]byte, error) {
	data, err := c.encode(v)
	if err != nil {
		return nil, ewrap.Wrapf(err, "encode %s", c.name)
	}

	return data, nil
}

func (c *format) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return ewrap.Newf("decode %s: empty payload", c.name)
	}

	err := c.decode(data, v)
	if err != nil {
		return ewrap.Wrapf(err, "decode %s", c.name)
	}

	return nil
}
