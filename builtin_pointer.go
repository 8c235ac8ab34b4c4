package shuttle

import "reflect"

// pointerSerializer is a Go-specific addition (ID 8, see ids.go):
// pointers carry identity the same way a slice or map does, so they get
// their own codec instead of being folded into Tuple or the opaque
// fallback. Dedup of the pointer itself is already handled upstream by
// the driver's shared dedup wrapper; this codec only needs to carry the
// pointee across.
type pointerSerializer struct{}

func (pointerSerializer) ID() uint32 { return idPointer }

func (pointerSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Ptr {
		return nil, nil, false, &MalformedHeaderError{Reason: "pointer codec given a non-pointer value"}
	}
	elemType := rv.Type().Elem()
	defaultRegistry.ensureTypeName(elemType)
	if rv.IsNil() {
		return []any{typeName(elemType), true}, nil, true, nil
	}
	return []any{typeName(elemType), false}, []any{rv.Elem().Interface()}, false, nil
}

func (pointerSerializer) Deserial(tail []any, ctx *Context, subs []any) (any, error) {
	if len(tail) != 2 {
		return nil, &MalformedHeaderError{Reason: "pointer header must carry exactly a type name and a nil flag"}
	}
	typeNameStr, ok := tail[0].(string)
	if !ok {
		return nil, &MalformedHeaderError{Reason: "pointer elem type is not a string"}
	}
	typ, ok := defaultRegistry.typeByName(typeNameStr)
	if !ok {
		return nil, &NoHandlerError{Type: nil}
	}
	if isNil, _ := tail[1].(bool); isNil {
		return reflect.Zero(reflect.PtrTo(typ)).Interface(), nil
	}
	if len(subs) != 1 {
		return nil, &BufferCountMismatchError{Expected: 1, Have: len(subs)}
	}

	ptr := reflect.New(typ)
	if v := subs[0]; v != nil {
		if ph, isPlaceholder := v.(*Placeholder); isPlaceholder {
			target := ptr
			ctx.resolvePlaceholder(ph.ID, func(real any) {
				trySet(target.Elem(), real)
			})
		} else {
			trySet(ptr.Elem(), v)
		}
	}
	return ptr.Interface(), nil
}
