// Package shuttle is a zero-copy object graph serializer for distributed
// compute systems that shuffle heterogeneous values -- primitives, strings,
// nested containers, large binary payloads, and user-defined objects --
// between processes and machines.
//
// Its defining property is zero-copy buffer passthrough: bulk payloads
// (raw bytes, array memory) travel as a separate list of buffers alongside
// a compact, picklable header, so a transport can use scatter/gather I/O
// instead of copying large blobs through an intermediate byte string.
//
// # Core
//
// Serialize and Deserialize drive a recursive, dispatch-based traversal
// built from four tightly coupled pieces:
//
//   - a type dispatcher that maps a runtime value to a registered
//     Serializer, walking from the exact type down to a kind-based
//     fallback and finally the opaque root codec
//   - the Serializer protocol itself: Serial/Deserial
//   - Placeholder dedup, which avoids re-serializing an object identity
//     seen more than once within a single call, and resolves shared
//     structure and cycles on the way back in
//   - an explicit-stack driver, so neither direction recurses on the Go
//     call stack and risks overflow on deeply nested input
//
// # Basic usage
//
//	header, buffers, err := shuttle.Serialize(value, nil)
//	...
//	restored, err := shuttle.Deserialize(header, buffers, nil)
//
// # Registering types
//
//	shuttle.RegisterStruct[Order]()  // field-name-preserving reconstruction
//	shuttle.RegisterList[Tags]()     // named slice type, e.g. type Tags []string
//	shuttle.RegisterMapping[Attrs]() // named map type
//
// # Wire transport
//
// Serialize returns a Header, a picklable nested value. EncodeHeader and
// DecodeHeader put it on the wire through any Codec; codec implementations
// for JSON, XML, YAML, MessagePack, and BSON are provided as submodules:
//
//	github.com/zoobzio/shuttle/json
//	github.com/zoobzio/shuttle/xml
//	github.com/zoobzio/shuttle/yaml
//	github.com/zoobzio/shuttle/msgpack
//	github.com/zoobzio/shuttle/bson
//
// # Concurrency
//
// Serialize and Deserialize are synchronous, single-threaded per call, and
// pure with respect to their Context argument. The dispatcher registry is
// process-wide and meant to be initialized once and read many times;
// registering codecs concurrently with in-flight Serialize/Deserialize
// calls is the caller's responsibility to serialize externally.
package shuttle
