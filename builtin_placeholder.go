package shuttle

import "reflect"

var placeholderType = reflect.TypeOf(&Placeholder{})

// placeholderSerializer is built-in codec ID 7. The driver constructs
// the Placeholder value itself once an identity has already
// been seen this call; this codec only needs to carry it onto the wire
// and, on the way back, resolve it against the Context or hand back a
// stand-in for the parent to register a fixup against.
type placeholderSerializer struct{}

func (placeholderSerializer) ID() uint32 { return idPlaceholder }

func (placeholderSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	ph, ok := obj.(*Placeholder)
	if !ok {
		return nil, nil, false, &MalformedHeaderError{Reason: "placeholder codec given a non-Placeholder value"}
	}
	return []any{ph.ID}, nil, true, nil
}

// Deserial looks up the identity in ctx. If it has already materialized,
// the real value is returned directly. Otherwise a *Placeholder stand-in
// is returned; the parent collection codec is responsible for detecting
// that stand-in and registering the actual fixup callback via
// ctx.resolvePlaceholder, since only the parent knows where the real
// value needs to be written once it arrives.
func (placeholderSerializer) Deserial(tail []any, ctx *Context, _ []any) (any, error) {
	if len(tail) != 1 {
		return nil, &MalformedHeaderError{Reason: "placeholder header must carry exactly one id"}
	}
	id, ok := toUint32(tail[0])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "placeholder id is not an integer"}
	}
	if v, ok := ctx.valueFor(id); ok {
		return v, nil
	}
	return &Placeholder{ID: id}, nil
}

// toUint32 normalizes the numeric types a Header's Tail may hold after a
// round trip through a wire Codec (JSON decodes numbers as float64,
// msgpack as the smallest sized integer that fits, BSON as int32 or
// int64, etc.) back to uint32.
func toUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case uint32:
		return n, true
	case int:
		return uint32(n), true
	case int8:
		return uint32(n), true
	case int16:
		return uint32(n), true
	case int32:
		return uint32(n), true
	case int64:
		return uint32(n), true
	case uint:
		return uint32(n), true
	case uint8:
		return uint32(n), true
	case uint16:
		return uint32(n), true
	case uint64:
		return uint32(n), true
	case float64:
		return uint32(n), true
	case float32:
		return uint32(n), true
	default:
		return 0, false
	}
}
