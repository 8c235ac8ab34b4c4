package shuttle

import (
	"reflect"
	"sync"
)

// Serializer is the codec contract every built-in and user-registered
// type handler implements.
//
// Serial inspects obj and returns the node's header tail H, its
// subcomponents S, and whether S holds buffers (final) or values still
// needing recursive serialization. Repeated or cyclic references never
// reach Serial: the driver emits a Placeholder node for them itself.
//
// Deserial is handed the codec-specific header tail and either the
// recursively-deserialized children or raw buffers (mirroring final),
// and must materialize the object.
//
// Implementations must not mutate ctx except through the dedup protocol
// the driver already applies uniformly before calling Serial.
type Serializer interface {
	// ID returns the codec's stable 31-bit serializer ID.
	ID() uint32

	// Serial produces this node's wire representation.
	Serial(obj any, ctx *Context) (header []any, subs []any, final bool, err error)

	// Deserial rebuilds the object from its header tail and children.
	Deserial(tail []any, ctx *Context, subs []any) (any, error)
}

// registry is the type dispatcher: a mapping from runtime type to codec,
// plus the ancestor-walk resolution rule and its per-type cache.
type registry struct {
	mu sync.RWMutex

	// byType holds exact-type registrations (RegisterStruct, RegisterList,
	// RegisterMapping, or a raw Register call).
	byType map[reflect.Type]Serializer

	// byID is the deserializer-ID lookup used by Deserialize.
	byID map[uint32]Serializer

	// cache memoizes the resolved codec for a concrete type so repeated
	// dispatch on the same type skips the kind-fallback walk. Cleared
	// whenever byType changes so stale resolutions never leak.
	cache map[reflect.Type]Serializer

	// typeNames lets a deserializing process recover the concrete Go
	// type behind a subtype name recorded in a header (named slice/map/
	// struct types).
	typeNames map[string]reflect.Type

	fallback Serializer // root-type opaque codec, always non-nil after init
}

var defaultRegistry = newRegistry()

func newRegistry() *registry {
	return &registry{
		byType:    make(map[reflect.Type]Serializer),
		byID:      make(map[uint32]Serializer),
		cache:     make(map[reflect.Type]Serializer),
		typeNames: make(map[string]reflect.Type),
	}
}

// Register binds codec to typ, the low-level form of a type registration.
// Panics on a serializer-ID collision with a different already-registered
// codec -- registration happens at startup/init time, not on a request
// path, so failing loudly is correct.
func Register(typ reflect.Type, codec Serializer) {
	defaultRegistry.register(typ, codec)
}

// Unregister removes typ's dispatch entry and, if no other type still
// uses that serializer ID, the deserializer-ID entry too.
func Unregister(typ reflect.Type) {
	defaultRegistry.unregister(typ)
}

// SetFallback replaces the opaque root-type codec, the catch-all bound
// to every type with no more specific registration.
func SetFallback(codec Serializer) {
	defaultRegistry.setFallback(codec)
}

func (r *registry) register(typ reflect.Type, codec Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[codec.ID()]; ok && existing != codec {
		panic("shuttle: serializer ID collision on registration")
	}

	r.byType[typ] = codec
	r.byID[codec.ID()] = codec
	r.typeNames[typeName(typ)] = typ
	r.cache = make(map[reflect.Type]Serializer)

	emitCodecRegistered(typeName(typ), codec.ID())
}

// registerByID makes codec reachable by deserializer ID without binding
// it to any exact type, for built-ins that are only ever selected via
// kindFallback on the serialize side (primitive, bytes, text, pointer).
// Without this, deserializeNode's byIDLookup never finds their ID and
// every node they produced fails with UnknownSerializerIDError.
func (r *registry) registerByID(codec Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[codec.ID()]; ok && existing != codec {
		panic("shuttle: serializer ID collision on registration")
	}
	r.byID[codec.ID()] = codec
}

func (r *registry) unregister(typ reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	codec, ok := r.byType[typ]
	if !ok {
		return
	}
	delete(r.byType, typ)
	delete(r.typeNames, typeName(typ))

	stillUsed := false
	for _, c := range r.byType {
		if c.ID() == codec.ID() {
			stillUsed = true
			break
		}
	}
	if !stillUsed {
		delete(r.byID, codec.ID())
	}
	r.cache = make(map[reflect.Type]Serializer)
}

func (r *registry) setFallback(codec Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = codec
	r.byID[codec.ID()] = codec
	r.cache = make(map[reflect.Type]Serializer)
}

func (r *registry) byIDLookup(id uint32) (Serializer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

func (r *registry) typeByName(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.typeNames[name]
	return t, ok
}

// ensureTypeName lazily records typ under its stable name so a header
// naming a concrete subtype (an ordinary slice/map type, not just a
// user-registered one) can be reconstructed by name during Deserialize
// in the same process. Cross-process reconstruction of a type nobody
// explicitly registered on the receiving end is out of scope -- the
// receiving process must have loaded code that references the type, the
// same constraint pickle-like systems place on unpickling a class.
func (r *registry) ensureTypeName(typ reflect.Type) {
	name := typeName(typ)

	r.mu.RLock()
	_, ok := r.typeNames[name]
	r.mu.RUnlock()
	if ok {
		return
	}

	r.mu.Lock()
	r.typeNames[name] = typ
	r.mu.Unlock()
}

// resolve implements the dispatcher's ancestor walk: exact type, then a
// kind-based fallback bucket, then the opaque root codec.
// Resolutions are cached per concrete type under a read-mostly lock
// (double-checked: an RLock hit returns immediately, a miss upgrades to
// a full Lock to populate the cache).
func (r *registry) resolve(typ reflect.Type) Serializer {
	r.mu.RLock()
	if c, ok := r.cache[typ]; ok {
		r.mu.RUnlock()
		return c
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache[typ]; ok {
		return c
	}

	c := r.resolveLocked(typ)
	r.cache[typ] = c
	return c
}

func (r *registry) resolveLocked(typ reflect.Type) Serializer {
	if c, ok := r.byType[typ]; ok {
		return c
	}
	if c, ok := kindFallback(typ); ok {
		return c
	}
	return r.fallback
}

// typeName derives the stable name used both for serializer-ID hashing
// and for recovering a registered type by name on the deserializing side.
func typeName(typ reflect.Type) string {
	if typ.PkgPath() == "" {
		return typ.String()
	}
	return typ.PkgPath() + "." + typ.Name()
}
