package shuttle

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

// structField is one exported field of a registered struct type, in
// declaration order -- the order the named-tuple codec serializes and
// reconstructs fields by.
type structField struct {
	name  string
	index []int
}

// structPlan is the cached, reflection-free-after-build description of a
// struct type registered via RegisterStruct, built once from a
// sentinel.Metadata scan and reused on every subsequent Serial/Deserial.
type structPlan struct {
	typ    reflect.Type
	fields []structField
}

var (
	structPlansMu sync.RWMutex
	structPlans   = make(map[reflect.Type]*structPlan)
)

func buildStructPlan(typ reflect.Type, spec sentinel.Metadata) *structPlan {
	plan := &structPlan{typ: typ}
	for _, f := range spec.Fields {
		plan.fields = append(plan.fields, structField{name: f.Name, index: f.Index})
	}
	return plan
}

func planFor(typ reflect.Type) (*structPlan, bool) {
	structPlansMu.RLock()
	defer structPlansMu.RUnlock()
	p, ok := structPlans[typ]
	return p, ok
}

// RegisterStruct records T as a named-tuple: its exported fields
// serialize in declaration order and deserialize back into a T value,
// preserving the concrete type across the round trip. Bound to the
// Tuple codec (ID 4) rather than a dedicated ID, since tuples and
// named-tuples share the same wire representation.
func RegisterStruct[T any]() {
	var zero T
	typ := reflect.TypeOf(zero)

	plan := buildStructPlan(typ, sentinel.Scan[T]())

	structPlansMu.Lock()
	structPlans[typ] = plan
	structPlansMu.Unlock()

	Register(typ, tupleSerializer{})
}

// listPlans and mappingPlans record a concrete subtype by type name so
// Deserialize can rebuild it via reflect.MakeSlice/MakeMap
// instead of defaulting to the base []any / map[any]any container.
var (
	listPlansMu sync.RWMutex
	listPlans   = make(map[string]reflect.Type) // type name -> concrete type
)

// RegisterList records a named slice type so its concrete type survives
// a round trip instead of decaying to []any.
func RegisterList[T any]() {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ.Kind() != reflect.Slice {
		panic("shuttle: RegisterList requires a slice type")
	}

	listPlansMu.Lock()
	listPlans[typeName(typ)] = typ
	listPlansMu.Unlock()

	defaultRegistry.ensureTypeName(typ)
	Register(typ, listSerializer{})
}

var (
	mappingPlansMu sync.RWMutex
	mappingPlans   = make(map[string]reflect.Type) // type name -> concrete type

	// opaqueMappingTypes holds mapping subclasses whose constructor takes
	// only the receiver: these are not safely reconstructable element-wise
	// and fall back to the opaque codec, bypassing dedup (see DESIGN.md's
	// open question on this).
	opaqueMappingTypesMu sync.RWMutex
	opaqueMappingTypes   = make(map[reflect.Type]struct{})
)

// RegisterMapping records a named map type so its concrete type survives
// a round trip instead of decaying to map[any]any.
func RegisterMapping[T any]() {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ.Kind() != reflect.Map {
		panic("shuttle: RegisterMapping requires a map type")
	}

	mappingPlansMu.Lock()
	mappingPlans[typeName(typ)] = typ
	mappingPlansMu.Unlock()

	defaultRegistry.ensureTypeName(typ)
	Register(typ, mappingSerializer{})
}

// RegisterOpaqueMapping marks a mapping subclass as one whose constructor
// takes only the receiver: it is routed through the opaque fallback in
// full rather than element-wise. This intentionally bypasses dedup for
// values reachable only through such a mapping (see DESIGN.md's open
// question on this) -- preserved, not fixed.
func RegisterOpaqueMapping[T any]() {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ.Kind() != reflect.Map {
		panic("shuttle: RegisterOpaqueMapping requires a map type")
	}

	opaqueMappingTypesMu.Lock()
	opaqueMappingTypes[typ] = struct{}{}
	opaqueMappingTypesMu.Unlock()

	defaultRegistry.ensureTypeName(typ)
	Register(typ, &opaqueMappingSerializer{inner: newOpaqueSerializer()})
}

func isOpaqueMappingType(typ reflect.Type) bool {
	opaqueMappingTypesMu.RLock()
	defer opaqueMappingTypesMu.RUnlock()
	_, ok := opaqueMappingTypes[typ]
	return ok
}

func listTypeByName(name string) (reflect.Type, bool) {
	listPlansMu.RLock()
	defer listPlansMu.RUnlock()
	t, ok := listPlans[name]
	return t, ok
}

func mappingTypeByName(name string) (reflect.Type, bool) {
	mappingPlansMu.RLock()
	defer mappingPlansMu.RUnlock()
	t, ok := mappingPlans[name]
	return t, ok
}
