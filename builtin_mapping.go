package shuttle

import "reflect"

var anyMapType = reflect.TypeOf(map[any]any{})

// mappingSerializer is built-in codec ID 6: the base map[any]any
// container plus any concrete map type registered via RegisterMapping,
// reconstructed via reflect.MakeMap.
type mappingSerializer struct{}

func (mappingSerializer) ID() uint32 { return idMapping }

func (mappingSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Map {
		return nil, nil, false, &MalformedHeaderError{Reason: "mapping codec given a non-map value"}
	}

	keys := rv.MapKeys()
	keySeq := make([]any, len(keys))
	valSeq := make([]any, len(keys))
	for i, k := range keys {
		keySeq[i] = k.Interface()
		valSeq[i] = rv.MapIndex(k).Interface()
	}

	keyResidual, keyIndices, keyChildren := partitionSequence(keySeq)
	valResidual, valIndices, valChildren := partitionSequence(valSeq)

	var objType any
	if t := rv.Type(); t != anyMapType {
		defaultRegistry.ensureTypeName(t)
		objType = typeName(t)
	}

	tail := []any{keyResidual, intsToAny(keyIndices), valResidual, intsToAny(valIndices), objType}
	children := append(append([]any{}, keyChildren...), valChildren...)
	return tail, children, false, nil
}

func (mappingSerializer) Deserial(tail []any, ctx *Context, subs []any) (any, error) {
	if len(tail) != 5 {
		return nil, &MalformedHeaderError{Reason: "mapping header must carry (keyResidual, keyIndices, valResidual, valIndices, type)"}
	}
	keyResidual, ok := anyToAnySlice(tail[0])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "mapping key residual is not a sequence"}
	}
	keyIndices, ok := anyToInts(tail[1])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "mapping key indices are malformed"}
	}
	valResidual, ok := anyToAnySlice(tail[2])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "mapping value residual is not a sequence"}
	}
	valIndices, ok := anyToInts(tail[3])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "mapping value indices are malformed"}
	}

	if len(keyIndices) > len(subs) {
		return nil, &MalformedHeaderError{Reason: "mapping key children exceed available subcomponents"}
	}
	keyChildren := subs[:len(keyIndices)]
	valChildren := subs[len(keyIndices):]

	keys := reassembleSequence(keyResidual, keyIndices, keyChildren, ctx)
	vals := reassembleSequence(valResidual, valIndices, valChildren, ctx)

	if len(keys) != len(vals) {
		return nil, &MalformedHeaderError{Reason: "mapping key/value count mismatch"}
	}

	if tail[4] == nil {
		out := make(map[any]any, len(keys))
		for i := range keys {
			out[keys[i]] = vals[i]
		}
		return out, nil
	}

	typeNameStr, ok := tail[4].(string)
	if !ok {
		return nil, &MalformedHeaderError{Reason: "mapping obj_type is not a string"}
	}
	typ, ok := mappingTypeByName(typeNameStr)
	if !ok {
		if t, ok2 := defaultRegistry.typeByName(typeNameStr); ok2 {
			typ = t
		} else {
			return nil, &NoHandlerError{Type: nil}
		}
	}

	out := reflect.MakeMapWithSize(typ, len(keys))
	for i := range keys {
		k, kok := convertibleValue(keys[i], typ.Key())
		v, vok := convertibleValue(vals[i], typ.Elem())
		if !kok || !vok {
			continue
		}
		out.SetMapIndex(k, v)
	}
	return out.Interface(), nil
}

// opaqueMappingSerializer handles a mapping subclass whose constructor
// takes only the receiver: it cannot be safely reconstructed
// element-wise, so the whole value is routed through the opaque
// fallback instead. This bypasses dedup for anything reachable only
// through such a mapping -- an accepted, documented gap (see DESIGN.md),
// not a bug to fix here.
type opaqueMappingSerializer struct {
	inner *opaqueSerializer
}

func (s *opaqueMappingSerializer) ID() uint32 {
	return DeriveSerializerID("shuttle.opaqueMapping")
}

func (s *opaqueMappingSerializer) Serial(obj any, ctx *Context) ([]any, []any, bool, error) {
	return s.inner.Serial(obj, ctx)
}

func (s *opaqueMappingSerializer) Deserial(tail []any, ctx *Context, subs []any) (any, error) {
	return s.inner.Deserial(tail, ctx, subs)
}
