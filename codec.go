package shuttle

// Codec provides content-type aware marshaling for the wire Header.
//
// A Header is a nested, picklable value (see Header in header.go); Codec
// implementations put it on the wire. Submodules json, xml, yaml, msgpack,
// and bson each provide one.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
