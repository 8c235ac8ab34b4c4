package shuttle

import "reflect"

// init wires the built-in codecs to their default types and kinds: the
// opaque fallback to the root type, and tuple, list, mapping and
// placeholder to their exact bound types. Kind-level fallbacks for unregistered
// primitive/string/byte/slice/map/pointer types are handled by
// kindFallback, consulted by registry.resolveLocked only after an exact
// byType match misses.
func init() {
	SetFallback(newOpaqueSerializer())

	Register(reflect.TypeOf(Tuple{}), tupleSerializer{})
	Register(anySliceType, listSerializer{})
	Register(anyMapType, mappingSerializer{})
	Register(placeholderType, placeholderSerializer{})

	// primitive, bytes, text, and pointer have no single exact type to
	// bind -- they're only ever selected through kindFallback -- but
	// Deserialize still needs their ID reachable via byIDLookup.
	defaultRegistry.registerByID(primitiveSerializer{})
	defaultRegistry.registerByID(bytesSerializer{})
	defaultRegistry.registerByID(textSerializer{})
	defaultRegistry.registerByID(pointerSerializer{})
}

// kindFallback buckets a type with no exact registration by reflect.Kind,
// generalizing an ancestor-type walk to Go's nominal type system. Struct
// kinds are deliberately absent:
// an unregistered struct has no field plan to serialize by, so it falls
// through to the opaque codec like any other unrecognized value.
func kindFallback(typ reflect.Type) (Serializer, bool) {
	if isPrimitiveType(typ) {
		return primitiveSerializer{}, true
	}
	switch typ.Kind() {
	case reflect.String:
		return textSerializer{}, true
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			return bytesSerializer{}, true
		}
		return listSerializer{}, true
	case reflect.Map:
		return mappingSerializer{}, true
	case reflect.Ptr:
		return pointerSerializer{}, true
	default:
		return nil, false
	}
}
