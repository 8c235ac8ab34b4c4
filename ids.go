package shuttle

import "hash/fnv"

// Built-in serializer IDs. Every codec needs a stable, unique ID either
// set explicitly or derived deterministically, and the built-ins take
// the former.
const (
	idOpaque      uint32 = 0
	idPrimitive   uint32 = 1
	idBytes       uint32 = 2
	idText        uint32 = 3
	idTuple       uint32 = 4
	idList        uint32 = 5
	idMapping     uint32 = 6
	idPlaceholder uint32 = 7

	// idPointer extends the built-in table to give Go pointers their own
	// identity-preserving codec rather than folding them into Tuple/Opaque.
	idPointer uint32 = 8
)

// DeriveSerializerID hashes a codec's fully-qualified name into a stable
// 31-bit serializer ID, for codecs that don't set one explicitly. Masking
// to 31 bits keeps the value representable as a non-negative int32 on
// platforms that round-trip serializer IDs through signed wire formats.
func DeriveSerializerID(qualifiedName string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(qualifiedName))
	return h.Sum32() & 0x7fffffff
}
