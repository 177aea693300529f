package serializer

import (
	"mime"
	"slices"
	"strconv"
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

// Registry indexes snapshot formats by name and by media type.
type Registry struct {
	byName map[string]ISerializer
}

// NewSerializerRegistry creates a registry with JSON, msgpack and CBOR registered.
func NewSerializerRegistry() *Registry {
	registry := NewEmptySerializerRegistry()

	for _, ser := range []ISerializer{NewJSON(), NewMsgpack(), NewCBOR()} {
		registry.Register(ser)
	}

	return registry
}

// NewEmptySerializerRegistry creates a registry with no formats.
func NewEmptySerializerRegistry() *Registry {
	return &Registry{byName: make(map[string]ISerializer)}
}

// Register adds ser under its name, replacing any format with the same name.
func (r *Registry) Register(ser ISerializer) {
	r.byName[ser.Name()] = ser
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// New returns the format registered under name.
func (r *Registry) New(name string) (ISerializer, error) { //nolint:ireturn
	if name == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "serializer name")
	}

	ser, ok := r.byName[name]
	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrSerializerNotFound, name)
	}

	return ser, nil
}

// Negotiate picks the format for an Accept header value. Entries are tried
// in header order; q=0 excludes a media type, "type/*" matches on the type
// and "*/*" or an empty header selects fallback. Other q-values are not ranked.
func (r *Registry) Negotiate(accept, fallback string) (ISerializer, error) { //nolint:ireturn
	if strings.TrimSpace(accept) == "" {
		return r.New(fallback)
	}

	type entry struct {
		mediaType string
		refused   bool
	}

	var (
		entries []entry
		refused = map[string]bool{}
	)

	for part := range strings.SplitSeq(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}

		e := entry{mediaType: mediaType, refused: excluded(params["q"])}
		if e.refused {
			refused[mediaType] = true
		}

		entries = append(entries, e)
	}

	for _, e := range entries {
		if e.refused {
			continue
		}

		ser, ok := r.match(e.mediaType, fallback, refused)
		if ok {
			return ser, nil
		}
	}

	return nil, ewrap.Wrapf(sentinel.ErrSerializerNotFound, "no format for %q", accept)
}

// match finds the format for an exact media type or a range, trying
// fallback first and skipping refused media types.
func (r *Registry) match(mediaType, fallback string, refused map[string]bool) (ISerializer, bool) { //nolint:ireturn
	major, minor, _ := strings.Cut(mediaType, "/")

	names := r.Names()
	if i := slices.Index(names, fallback); i > 0 {
		names = append([]string{fallback}, slices.Delete(names, i, i+1)...)
	}

	for _, name := range names {
		ct := r.byName[name].ContentType()
		if refused[ct] {
			continue
		}

		if ct == mediaType || mediaType == "*/*" || (minor == "*" && strings.HasPrefix(ct, major+"/")) {
			return r.byName[name], true
		}
	}

	return nil, false
}

func excluded(q string) bool {
	if q == "" {
		return false
	}

	v, err := strconv.ParseFloat(q, 64)

	return err == nil && v <= 0
}

// New returns a format from the default registry.
func New(name string) (ISerializer, error) { //nolint:ireturn
	return NewSerializerRegistry().New(name)
}
