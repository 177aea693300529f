package serializer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

type payload struct {
	Name    string      `json:"name"    msgpack:"name"`
	Present []bool      `json:"present" msgpack:"present"`
	Counts  []uint64    `json:"counts"  msgpack:"counts"`
	Values  []float64   `json:"values"  msgpack:"values"`
	Edges   [][]float64 `json:"edges" msgpack:"edges"`
}

func TestSerializers_RoundTrip(t *testing.T) {
	in := payload{
		Name:    "grid",
		Present: []bool{false, true},
		Counts:  []uint64{0, 2},
		Values:  []float64{0, 1.5},
		Edges:   [][]float64{{-1, 0, 1}, {-1, 0, 1}},
	}

	registry := NewSerializerRegistry()
	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			ser, err := registry.New(name)
			assert.NoError(t, err)

			data, err := ser.Marshal(&in)
			assert.NoError(t, err)

			var out payload
			assert.NoError(t, ser.Unmarshal(data, &out))

			if diff := cmp.Diff(in, out); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegistry_New(t *testing.T) {
	registry := NewSerializerRegistry()
	assert.Equal(t, []string{"cbor", "json", "msgpack"}, registry.Names())

	ser, err := registry.New("msgpack")
	assert.NoError(t, err)
	assert.Equal(t, "application/vnd.msgpack", ser.ContentType())

	_, err = registry.New("")
	assert.True(t, errors.Is(err, sentinel.ErrParamCannotBeEmpty))

	_, err = registry.New("gob")
	assert.True(t, errors.Is(err, sentinel.ErrSerializerNotFound))

	empty := NewEmptySerializerRegistry()
	empty.Register(NewJSON())
	assert.Equal(t, []string{"json"}, empty.Names())
}

func TestRegistry_Negotiate(t *testing.T) {
	registry := NewSerializerRegistry()

	cases := []struct {
		accept string
		want   string
	}{
		{accept: "", want: "json"},
		{accept: "*/*", want: "msgpack"},
		{accept: "application/cbor", want: "cbor"},
		{accept: "text/html, application/vnd.msgpack;q=0.9", want: "msgpack"},
		{accept: "application/json; charset=utf-8", want: "json"},
		{accept: "application/json;q=0, application/cbor", want: "cbor"},
		{accept: "application/*", want: "json"},
		{accept: "application/json;q=0, application/*", want: "cbor"},
		{accept: "application/json;q=0, */*", want: "cbor"},
	}

	for _, tc := range cases {
		fallback := "json"
		if tc.accept == "*/*" {
			fallback = "msgpack"
		}

		ser, err := registry.Negotiate(tc.accept, fallback)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, ser.Name())
	}

	for _, accept := range []string{"text/html", "application/json;q=0", "text/*"} {
		_, err := registry.Negotiate(accept, "json")
		assert.True(t, errors.Is(err, sentinel.ErrSerializerNotFound))
	}

	ser, err := registry.Negotiate("application/*", "cbor")
	assert.NoError(t, err)
	assert.Equal(t, "cbor", ser.Name())
}

func TestSerializers_RejectEmptyPayload(t *testing.T) {
	for _, ser := range []ISerializer{NewJSON(), NewMsgpack(), NewCBOR()} {
		var out payload
		assert.True(t, ser.Unmarshal(nil, &out) != nil)
	}
}
