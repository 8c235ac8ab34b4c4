package shuttle

// Node is the wire header of one serialized value: the common 4-tuple
// prefix (serializer_id, obj_id, num_subs, final), the codec's own
// header tail H, and -- for non-final nodes -- the child node trees in
// subcomponent order.
//
// Node is a recursive struct rather than a flattened
// "common ⊕ H ⊕ child_headers" tuple; the two are equivalent once
// marshaled (every Codec here encodes it as ordinary nested data), and
// the struct form lets Deserialize recover H's codec-specific length
// without guessing it from a flat slice.
type Node struct {
	SerializerID uint32 `json:"sid" xml:"sid" yaml:"sid" msgpack:"sid" bson:"sid"`
	ObjID        uint32 `json:"oid" xml:"oid" yaml:"oid" msgpack:"oid" bson:"oid"`
	NumSubs      int    `json:"n" xml:"n" yaml:"n" msgpack:"n" bson:"n"`
	Final        bool   `json:"f" xml:"f" yaml:"f" msgpack:"f" bson:"f"`
	Tail         []any  `json:"tail" xml:"tail" yaml:"tail" msgpack:"tail" bson:"tail"`
	Children     []Node `json:"children,omitempty" xml:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty" bson:"children,omitempty"`
}

// Header is the root wire value: an empty auxiliary metadata map
// reserved for future extension, plus the root node tree. Header is
// picklable -- every field is a plain value any Codec can marshal --
// and may itself be passed through the opaque fallback codec for
// transmission.
type Header struct {
	Meta map[string]any `json:"meta" xml:"meta" yaml:"meta" msgpack:"meta" bson:"meta"`
	Root Node           `json:"root" xml:"root" yaml:"root" msgpack:"root" bson:"root"`
}

// EncodeHeader marshals a Header for transport through the given Codec.
func EncodeHeader(codec Codec, h Header) ([]byte, error) {
	data, err := codec.Marshal(h)
	if err != nil {
		return nil, newCodecError("marshal", codec.ContentType(), err)
	}
	return data, nil
}

// DecodeHeader unmarshals a Header previously produced by EncodeHeader
// with a Codec of the same content type.
func DecodeHeader(codec Codec, data []byte) (Header, error) {
	var h Header
	if err := codec.Unmarshal(data, &h); err != nil {
		return Header{}, newCodecError("unmarshal", codec.ContentType(), err)
	}
	return h, nil
}
