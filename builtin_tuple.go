package shuttle

import "reflect"

// tupleSerializer is built-in codec ID 4: handles both the base Tuple
// container and any struct type registered via RegisterStruct,
// reconstructing the latter via its field plan rather than a positional
// constructor since Go has no variadic struct literal.
type tupleSerializer struct{}

func (tupleSerializer) ID() uint32 { return idTuple }

func (tupleSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	if t, ok := obj.(Tuple); ok {
		residual, indices, children := partitionSequence([]any(t))
		return []any{residual, intsToAny(indices), nil}, children, false, nil
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Struct {
		return nil, nil, false, &MalformedHeaderError{Reason: "tuple codec given a non-Tuple, non-struct value"}
	}
	plan, ok := planFor(rv.Type())
	if !ok {
		return nil, nil, false, &NoHandlerError{Type: rv.Type()}
	}

	seq := make([]any, len(plan.fields))
	for i, f := range plan.fields {
		seq[i] = rv.FieldByIndex(f.index).Interface()
	}
	residual, indices, children := partitionSequence(seq)
	return []any{residual, intsToAny(indices), typeName(rv.Type())}, children, false, nil
}

func (tupleSerializer) Deserial(tail []any, ctx *Context, subs []any) (any, error) {
	if len(tail) != 3 {
		return nil, &MalformedHeaderError{Reason: "tuple header must carry (residual, indices, type)"}
	}
	residual, ok := anyToAnySlice(tail[0])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "tuple residual is not a sequence"}
	}
	indices, ok := anyToInts(tail[1])
	if !ok {
		return nil, &MalformedHeaderError{Reason: "tuple propagated indices are malformed"}
	}

	if tail[2] == nil {
		seq := reassembleSequence(residual, indices, subs, ctx)
		return Tuple(seq), nil
	}

	typeNameStr, ok := tail[2].(string)
	if !ok {
		return nil, &MalformedHeaderError{Reason: "tuple obj_type is not a string"}
	}
	typ, ok := defaultRegistry.typeByName(typeNameStr)
	if !ok {
		return nil, &NoHandlerError{Type: nil}
	}
	plan, ok := planFor(typ)
	if !ok {
		return nil, &NoHandlerError{Type: typ}
	}

	seq := reassembleSequence(residual, indices, subs, ctx)
	ptr := reflect.New(typ)
	for i, f := range plan.fields {
		if i >= len(seq) {
			break
		}
		trySet(ptr.Elem().FieldByIndex(f.index), seq[i])
	}
	return ptr.Elem().Interface(), nil
}
