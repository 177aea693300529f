package serializer

import (
	"github.com/goccy/go-json"

	"github.com/hyp3rd/binstat/internal/constants"
)

// NewJSON returns the goccy/go-json codec, the default snapshot format.
func NewJSON() ISerializer { //nolint:ireturn
	return &format{
		name:        constants.JSONSerializer,
		contentType: "application/json",
		encode:      json.Marshal,
		decode:      json.Unmarshal,
	}
}
