package shuttle

import "reflect"

// inlineThreshold is the byte/text length below which a string or bytes
// element is kept inline in a collection's header rather than propagated
// as a child.
const inlineThreshold = 1024

// shouldInline reports whether v belongs in a collection's residual
// sequence (kept inline) rather than its child list (propagated and
// recursively serialized).
func shouldInline(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	typ := rv.Type()
	if isPrimitiveType(typ) {
		return true
	}
	switch typ.Kind() {
	case reflect.String:
		return rv.Len() < inlineThreshold
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			return rv.Len() < inlineThreshold
		}
	}
	return false
}

// partitionSequence splits seq into a residual sequence (nils at
// propagated positions), the propagated indices, and the propagated
// values themselves, in index order.
func partitionSequence(seq []any) (residual []any, indices []int, children []any) {
	residual = make([]any, len(seq))
	for i, v := range seq {
		if shouldInline(v) {
			residual[i] = v
			continue
		}
		indices = append(indices, i)
		children = append(children, v)
	}
	return residual, indices, children
}

// reassembleSequence scatters deserialized children back into residual
// at the recorded indices, registering a fixup for any child that is
// still an unresolved Placeholder.
func reassembleSequence(residual []any, indices []int, children []any, ctx *Context) []any {
	result := make([]any, len(residual))
	copy(result, residual)
	for i, idx := range indices {
		v := children[i]
		result[idx] = v
		if ph, ok := v.(*Placeholder); ok {
			slot := idx
			ctx.resolvePlaceholder(ph.ID, func(real any) {
				result[slot] = real
			})
		}
	}
	return result
}

// intsToAny and anyToInts convert between []int (used internally for
// propagated indices) and the []any a Tail element holds, normalizing
// the numeric types a wire Codec round trip may introduce (JSON decodes
// numbers as float64).
func intsToAny(ints []int) []any {
	out := make([]any, len(ints))
	for i, v := range ints {
		out[i] = v
	}
	return out
}

func anyToInts(vals any) ([]int, bool) {
	raw, ok := anyToAnySlice(vals)
	if !ok {
		return nil, false
	}
	out := make([]int, len(raw))
	for i, v := range raw {
		n, ok := toUint32(v)
		if !ok {
			return nil, false
		}
		out[i] = int(n)
	}
	return out, true
}

// anyToAnySlice also accepts a named []any type, which is how BSON
// decodes a nested array.
func anyToAnySlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().ConvertibleTo(anySliceType) {
		return rv.Convert(anySliceType).Interface().([]any), true
	}
	return nil, false
}

// convertibleValue is trySet's counterpart for destinations that aren't
// directly addressable (a reflect.Map has no settable elements; entries
// are written whole via SetMapIndex), returning the converted Value and
// whether conversion succeeded.
func convertibleValue(v any, typ reflect.Type) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(typ) {
		return rv, true
	}
	if rv.Type().ConvertibleTo(typ) {
		return rv.Convert(typ), true
	}
	return reflect.Value{}, false
}

// trySet assigns v into dst if v's type is assignable or convertible to
// dst's type, and reports whether it did. A typed collection or
// registered struct field can only ever be set from a value of a
// compatible type; when v is still an unresolved *Placeholder (a true
// cycle through a value-typed slot -- see DESIGN.md's accepted gap for
// reconstructed-by-value types, since unlike a slice a freshly built
// struct field or map entry is not a live reference any later fixup can
// still reach), leaving dst at its zero value is the only safe outcome.
func trySet(dst reflect.Value, v any) bool {
	if v == nil || !dst.CanSet() {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return true
	}
	if rv.Type().ConvertibleTo(dst.Type()) {
		dst.Set(rv.Convert(dst.Type()))
		return true
	}
	return false
}
