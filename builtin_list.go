package shuttle

import "reflect"

// listSerializer is built-in codec ID 5: the base []any container plus
// any concrete slice type registered via RegisterList, reconstructed
// via reflect.MakeSlice.
type listSerializer struct{}

func (listSerializer) ID() uint32 { return idList }

func (listSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Slice {
		return nil, nil, false, &MalformedHeaderError{Reason: "list codec given a non-slice value"}
	}

	seq := make([]any, rv.Len())
	for i := range seq {
		seq[i] = rv.Index(i).Interface()
	}

	residual, indices, children := partitionSequence(seq)

	var objType any
	if t := rv.Type(); t != anySliceType {
		defaultRegistry.ensureTypeName(t)
		objType = typeName(t)
	}

	return []any{residual, intsToAny(indices), objType}, children, false, nil
}

var anySliceType = reflect.TypeOf([]any{})

func (listSerializer) Deserial(tail []any, ctx *Context, subs []any) (any, error) {
	if len(tail) != 3 {
		return nil, &MalformedHeaderError{Reason: "list header must carry (residual, indices, type)"}
	}
	residual, ok := anyToAnySlice(tail[0])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "list residual is not a sequence"}
	}
	indices, ok := anyToInts(tail[1])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "list propagated indices are malformed"}
	}

	seq := reassembleSequence(residual, indices, subs, ctx)

	if tail[2] == nil {
		return []any(seq), nil
	}

	typeNameStr, ok := tail[2].(string)
	if !ok {
		return nil, &MalformedHeaderError{Reason: "list obj_type is not a string"}
	}
	typ, ok := listTypeByName(typeNameStr)
	if !ok {
		if t, ok2 := defaultRegistry.typeByName(typeNameStr); ok2 {
			typ = t
		} else {
			return nil, &NoHandlerError{Type: nil}
		}
	}

	out := reflect.MakeSlice(typ, len(seq), len(seq))
	for i, v := range seq {
		trySet(out.Index(i), v)
	}
	return out.Interface(), nil
}
