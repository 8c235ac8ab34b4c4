// Package testing provides shared fixtures for exercising shuttle across
// its own test suite and the integration/benchmark submodules.
package testing

import "github.com/zoobzio/shuttle"

func init() {
	shuttle.RegisterStruct[Point]()
	shuttle.RegisterStruct[Profile]()
	shuttle.RegisterStruct[Node]()
	shuttle.RegisterList[Tags]()
	shuttle.RegisterMapping[Scores]()
}

// Point is a flat named-tuple fixture.
type Point struct {
	X int
	Y string
}

// Profile nests another registered struct plus a pointer field, for
// exercising recursive named-tuple and pointer dereferencing together.
type Profile struct {
	Name  string
	Home  Point
	Email *string
}

// Tags is a named slice subtype fixture for RegisterList.
type Tags []string

// Scores is a named map subtype fixture for RegisterMapping.
type Scores map[string]int

// Node is a linked-list fixture for exercising pointer fields and shared
// references across a registered struct. It is registered via
// RegisterStruct so a self-referencing
// Node never reaches the opaque fallback, which has no cycle detection
// of its own and would recurse forever trying to encode one.
type Node struct {
	Value int
	Next  *Node
}

// UnregisteredThing has no codec binding, so the dispatcher always routes
// it to the opaque fallback.
type UnregisteredThing struct {
	Label string
	Count int
}

// LargeBuffer returns an n-byte slice with deterministic content, for
// exercising zero-copy passthrough of large payloads.
func LargeBuffer(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// ShortStrings returns n strings of length shorter than the collection
// rule's inline threshold.
func ShortStrings(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = "abcdefgh"
	}
	return out
}
