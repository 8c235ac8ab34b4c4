package shuttle

import (
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// opaqueSerializer is built-in codec ID 0: the root-type fallback bound
// to every value no other registered codec claims. It
// satisfies the opaque fallback contract's "self-describing encoding"
// requirement by recording the value's concrete type name alongside a
// msgpack-encoded prefix buffer, so Deserial can reconstruct the original
// Go type via reflection rather than handing back a bare map. A
// deployment that needs a different black-box encoding (the engine
// treats this codec as replaceable, not load-bearing) can install its
// own via SetFallback.
type opaqueSerializer struct{}

func newOpaqueSerializer() *opaqueSerializer { return &opaqueSerializer{} }

func (*opaqueSerializer) ID() uint32 { return idOpaque }

func (*opaqueSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	typ := reflect.TypeOf(obj)
	defaultRegistry.ensureTypeName(typ)

	data, err := msgpack.Marshal(obj)
	if err != nil {
		return nil, nil, false, newCodecError("serial", "opaque/msgpack", err)
	}
	return []any{typeName(typ)}, []any{data}, true, nil
}

func (*opaqueSerializer) Deserial(tail []any, _ *Context, subs []any) (any, error) {
	if len(subs) != 1 {
		return nil, &BufferCountMismatchError{Expected: 1, Have: len(subs)}
	}
	data, ok := subs[0].([]byte)
	if !ok {
		return nil, &MalformedHeaderError{Reason: "opaque subcomponent is not a buffer"}
	}

	if len(tail) == 1 {
		if name, ok := tail[0].(string); ok {
			if typ, ok := defaultRegistry.typeByName(name); ok {
				ptr := reflect.New(typ)
				if err := msgpack.Unmarshal(data, ptr.Interface()); err != nil {
					return nil, newCodecError("deserial", "opaque/msgpack", err)
				}
				return ptr.Elem().Interface(), nil
			}
		}
	}

	var v any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, newCodecError("deserial", "opaque/msgpack", err)
	}
	return v, nil
}
