package serializer

import (
	"github.com/shamaton/msgpack/v2"

	"github.com/hyp3rd/binstat/internal/constants"
)

// NewMsgpack returns a msgpack codec. Snapshots are written as maps keyed by
// their msgpack tags, so fields can be added without breaking old payloads.
func NewMsgpack() ISerializer { //nolint:ireturn
	return &format{
		name:        constants.MsgpackSerializer,
		contentType: "application/vnd.msgpack",
		encode:      msgpack.MarshalAsMap,
		decode:      msgpack.UnmarshalAsMap,
	}
}
