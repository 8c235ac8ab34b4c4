package shuttle

import (
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})
var durationType = reflect.TypeOf(time.Duration(0))

// primitiveSerializer is built-in codec ID 1: values carried directly
// in the header tail, no buffers. Bound to every primitive kind. Go
// funcs have no built-in/user-defined distinction at runtime the way
// some dynamically typed languages do, so func values are routed to the
// opaque fallback instead of this codec.
type primitiveSerializer struct{}

func (primitiveSerializer) ID() uint32 { return idPrimitive }

func (primitiveSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	return []any{obj}, nil, true, nil
}

func (primitiveSerializer) Deserial(tail []any, _ *Context, _ []any) (any, error) {
	if len(tail) != 1 {
		return nil, &MalformedHeaderError{Reason: "primitive header must carry exactly one value"}
	}
	return tail[0], nil
}

// isPrimitiveType reports whether typ is handled by the primitive codec,
// used both by kindFallback and by the collection rule's inlining test.
func isPrimitiveType(typ reflect.Type) bool {
	if typ == timeType || typ == durationType {
		return true
	}
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
