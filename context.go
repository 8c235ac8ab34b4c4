package shuttle

import "reflect"

// Placeholder is emitted by a codec the second and later time an object
// identity is seen within one call. It carries the identity; on
// deserialization it resolves to whatever the context
// eventually records for that identity, or -- if that hasn't happened
// yet, as with a forward reference inside a cycle -- a stand-in that
// accumulates fixup callbacks to run once the real value appears.
type Placeholder struct {
	ID uint32
}

// fixup is a callback a parent registers against a not-yet-resolved
// identity while reconstructing; it is invoked with the real value once
// that identity's object materializes.
type fixup func(real any)

// placeholderRecord is what Context stores for an identity that has been
// referenced (via Placeholder) but not yet fully deserialized.
type placeholderRecord struct {
	callbacks []fixup
}

// Context is the per-call mapping from obj_id -> object during
// serialization (to detect repeat identities), and
// obj_id -> deserialized value (or a pending placeholderRecord) during
// deserialization (to resolve placeholders as they arrive).
//
// A fresh Context is created per call by Serialize/Deserialize by
// default; NewContext lets advanced callers share dedup scope across a
// batch of calls that are known to reference the same objects.
type Context struct {
	// seen tracks identities already fully started during serialization.
	seen map[uint32]struct{}

	// values holds deserialized objects (or *placeholderRecord for
	// identities referenced but not yet materialized) during deserialize.
	values map[uint32]any
}

// NewContext returns a fresh, empty Context.
func NewContext() *Context {
	return &Context{
		seen:   make(map[uint32]struct{}),
		values: make(map[uint32]any),
	}
}

// identityOf reports the 32-bit truncated identity of v and whether v is
// a kind that has a stable address at all. Plain value structs, arrays,
// and scalars have no such address in Go and are never deduplicated --
// each occurrence serializes in full. The truncation means the ID can in
// principle collide across distinct objects; this never applies to
// value types since they're never assigned one.
func identityOf(v reflect.Value) (id uint32, ok bool) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if v.IsNil() {
			return 0, false
		}
		return uint32(v.Pointer()), true
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return 0, false
		}
		return uint32(v.Pointer()), true
	default:
		return 0, false
	}
}

// markSeen records an identity as fully started during serialization and
// reports whether it was already present (the caller must then emit a
// Placeholder instead of descending into the value again).
func (c *Context) markSeen(id uint32) (alreadySeen bool) {
	if _, ok := c.seen[id]; ok {
		return true
	}
	c.seen[id] = struct{}{}
	return false
}

// resolvePlaceholder returns the value recorded for id during
// deserialization, or registers cb as a fixup and returns a fresh
// placeholder value if the identity hasn't materialized yet.
func (c *Context) resolvePlaceholder(id uint32, cb fixup) any {
	if v, ok := c.values[id]; ok {
		if rec, pending := v.(*placeholderRecord); pending {
			rec.callbacks = append(rec.callbacks, cb)
			return &Placeholder{ID: id}
		}
		return v
	}
	rec := &placeholderRecord{callbacks: []fixup{cb}}
	c.values[id] = rec
	return &Placeholder{ID: id}
}

// record stores the just-materialized value for id, firing any fixup
// callbacks accumulated against a prior placeholder for the same
// identity -- this is how a forward reference gets resolved.
func (c *Context) record(id uint32, value any) {
	if prev, ok := c.values[id]; ok {
		if rec, pending := prev.(*placeholderRecord); pending {
			for _, cb := range rec.callbacks {
				cb(value)
			}
			emitPlaceholderResolved(id, len(rec.callbacks))
		}
	}
	c.values[id] = value
}

// valueFor returns the object recorded for id during deserialization, if
// any -- used by the Placeholder codec itself.
func (c *Context) valueFor(id uint32) (any, bool) {
	v, ok := c.values[id]
	if !ok {
		return nil, false
	}
	if _, pending := v.(*placeholderRecord); pending {
		return nil, false
	}
	return v, true
}
