package integration

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zoobzio/shuttle"
	"github.com/zoobzio/shuttle/bson"
	"github.com/zoobzio/shuttle/json"
	"github.com/zoobzio/shuttle/msgpack"
	shuttletest "github.com/zoobzio/shuttle/testing"
	"github.com/zoobzio/shuttle/yaml"
)

// codecs under test for full Header round trips. XML is exercised
// separately (encoding/xml cannot marshal the arbitrary map[string]any /
// []any values a Header's Tail and Meta fields may hold).
func wireCodecs() []shuttle.Codec {
	return []shuttle.Codec{json.New(), yaml.New(), msgpack.New(), bson.New()}
}

// roundTrip runs the full pipeline: serialize, encode the header through
// codec, decode it back, then deserialize against the original buffers.
func roundTrip(t *testing.T, codec shuttle.Codec, obj any) any {
	t.Helper()

	h, buffers, err := shuttle.Serialize(obj, nil)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}

	data, err := shuttle.EncodeHeader(codec, h)
	if err != nil {
		t.Fatalf("EncodeHeader error: %v", err)
	}

	h2, err := shuttle.DecodeHeader(codec, data)
	if err != nil {
		t.Fatalf("DecodeHeader error: %v", err)
	}

	restored, err := shuttle.Deserialize(h2, buffers, nil)
	if err != nil {
		t.Fatalf("Deserialize error: %v", err)
	}
	return restored
}

// scalarEqual compares a primitive against its round-tripped counterpart.
// The Header's Tail carries inlined scalars straight through the wire
// codec, so a codec without a Go-native int type (JSON decodes numbers
// as float64; msgpack/bson commonly widen to int64) can legitimately
// change the concrete numeric type without changing the value. This
// helper only loosens numeric comparisons, never string/bool ones.
func scalarEqual(want, got any) bool {
	if want == got {
		return true
	}
	for _, v := range []any{want, got} {
		switch v.(type) {
		case string, bool:
			return false
		}
	}
	return fmt.Sprint(want) == fmt.Sprint(got)
}

func TestRoundTrip_Scalars(t *testing.T) {
	values := []any{5, "abc", true, 3.14}

	for _, codec := range wireCodecs() {
		for _, v := range values {
			restored := roundTrip(t, codec, v)
			if !scalarEqual(v, restored) {
				t.Errorf("[%s] roundTrip(%v) = %v (%T), want %v (%T)", codec.ContentType(), v, restored, restored, v, v)
			}
		}
	}
}

func TestRoundTrip_Mapping(t *testing.T) {
	for _, codec := range wireCodecs() {
		original := map[any]any{"k": "v"}
		restored := roundTrip(t, codec, original)

		m, ok := restored.(map[any]any)
		if !ok {
			t.Fatalf("[%s] restored value is %T, want map[any]any", codec.ContentType(), restored)
		}
		if m["k"] != "v" {
			t.Errorf("[%s] restored map = %v, want %v", codec.ContentType(), m, original)
		}
	}
}

func TestRoundTrip_NamedTuple(t *testing.T) {
	for _, codec := range wireCodecs() {
		original := shuttletest.Point{X: 1, Y: "hello"}
		restored := roundTrip(t, codec, original)

		p, ok := restored.(shuttletest.Point)
		if !ok {
			t.Fatalf("[%s] restored value is %T, want shuttletest.Point", codec.ContentType(), restored)
		}
		if p != original {
			t.Errorf("[%s] restored = %+v, want %+v", codec.ContentType(), p, original)
		}
	}
}

func TestDedup_SharedReference(t *testing.T) {
	for _, codec := range wireCodecs() {
		x := &shuttletest.Point{X: 1, Y: "a"}
		original := shuttle.Tuple{x, x}

		restored := roundTrip(t, codec, original)
		tup, ok := restored.(shuttle.Tuple)
		if !ok || len(tup) != 2 {
			t.Fatalf("[%s] restored = %#v, want a 2-element Tuple", codec.ContentType(), restored)
		}

		a, aok := tup[0].(*shuttletest.Point)
		b, bok := tup[1].(*shuttletest.Point)
		if !aok || !bok {
			t.Fatalf("[%s] restored elements are %T, %T, want *Point", codec.ContentType(), tup[0], tup[1])
		}
		if a != b {
			t.Errorf("[%s] shared reference did not survive round trip: %p != %p", codec.ContentType(), a, b)
		}
	}
}

// TestCycles_ForwardReference exercises a genuine forward reference: a
// Tuple whose own second element is itself. A Tuple is reconstructed from
// the same backing slice its placeholder fixups write into (collection.go's
// reassembleSequence), so -- unlike a value-typed struct field, see
// DESIGN.md's Open Question on named-tuple fixups -- the self-reference
// survives the round trip intact.
func TestCycles_ForwardReference(t *testing.T) {
	for _, codec := range wireCodecs() {
		self := shuttle.Tuple{1, nil}
		self[1] = self

		restored := roundTrip(t, codec, self)
		tup, ok := restored.(shuttle.Tuple)
		if !ok || len(tup) != 2 {
			t.Fatalf("[%s] restored = %#v, want a 2-element Tuple", codec.ContentType(), restored)
		}
		if !scalarEqual(1, tup[0]) {
			t.Errorf("[%s] restored[0] = %v, want 1", codec.ContentType(), tup[0])
		}
		inner, ok := tup[1].(shuttle.Tuple)
		if !ok || len(inner) != 2 || !scalarEqual(1, inner[0]) {
			t.Errorf("[%s] restored[1] = %#v, want the Tuple to reference itself", codec.ContentType(), tup[1])
		}
	}
}

// TestRoundTrip_PointerChain exercises an acyclic linked structure through
// a registered struct's pointer field -- the case that does reconstruct
// correctly even though a true self-cycle through the same field cannot
// (see DESIGN.md).
func TestRoundTrip_PointerChain(t *testing.T) {
	for _, codec := range wireCodecs() {
		tail := &shuttletest.Node{Value: 2}
		head := &shuttletest.Node{Value: 1, Next: tail}

		restored := roundTrip(t, codec, head)
		n, ok := restored.(*shuttletest.Node)
		if !ok {
			t.Fatalf("[%s] restored value is %T, want *Node", codec.ContentType(), restored)
		}
		if n.Value != 1 || n.Next == nil || n.Next.Value != 2 {
			t.Errorf("[%s] restored = %+v, want a chain 1 -> 2", codec.ContentType(), n)
		}
	}
}

func TestLargeBufferPassthrough(t *testing.T) {
	const size = 64 << 20
	obj := shuttletest.LargeBuffer(size)

	h, buffers, err := shuttle.Serialize(obj, nil)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	if len(buffers) != 1 {
		t.Fatalf("len(buffers) = %d, want 1", len(buffers))
	}
	if len(buffers[0]) != size {
		t.Fatalf("len(buffers[0]) = %d, want %d", len(buffers[0]), size)
	}

	data, err := shuttle.EncodeHeader(msgpack.New(), h)
	if err != nil {
		t.Fatalf("EncodeHeader error: %v", err)
	}
	if len(data) >= 1024 {
		t.Errorf("encoded header is %d bytes, want < 1024", len(data))
	}

	restored, err := shuttle.Deserialize(h, buffers, nil)
	if err != nil {
		t.Fatalf("Deserialize error: %v", err)
	}
	b, ok := restored.([]byte)
	if !ok || len(b) != size {
		t.Fatalf("restored value is %T len %d, want []byte len %d", restored, len(b), size)
	}
}

func TestShortStringInlining(t *testing.T) {
	obj := shuttle.Tuple(shuttletest.ShortStrings(1000))

	_, buffers, err := shuttle.Serialize(obj, nil)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	if len(buffers) != 0 {
		t.Errorf("len(buffers) = %d, want 0 for 1000 short strings", len(buffers))
	}

	longObj := strings.Repeat("x", 4096)
	_, buffers, err = shuttle.Serialize(longObj, nil)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	if len(buffers) != 1 {
		t.Errorf("len(buffers) = %d, want 1 for a 4096-byte string", len(buffers))
	}
}

func TestOpaqueFallback(t *testing.T) {
	for _, codec := range wireCodecs() {
		original := shuttletest.UnregisteredThing{Label: "x", Count: 3}
		restored := roundTrip(t, codec, original)

		u, ok := restored.(shuttletest.UnregisteredThing)
		if !ok {
			t.Fatalf("[%s] restored value is %T, want UnregisteredThing", codec.ContentType(), restored)
		}
		if u != original {
			t.Errorf("[%s] restored = %+v, want %+v", codec.ContentType(), u, original)
		}
	}
}

func TestRoundTrip_NamedList(t *testing.T) {
	for _, codec := range wireCodecs() {
		original := shuttletest.Tags{"a", "b", "c"}
		restored := roundTrip(t, codec, original)

		tags, ok := restored.(shuttletest.Tags)
		if !ok {
			t.Fatalf("[%s] restored value is %T, want Tags", codec.ContentType(), restored)
		}
		if len(tags) != 3 || tags[0] != "a" || tags[2] != "c" {
			t.Errorf("[%s] restored = %v, want %v", codec.ContentType(), tags, original)
		}
	}
}

func TestCodec_ContentTypes(t *testing.T) {
	want := map[string]string{
		"application/json":    "",
		"application/yaml":    "",
		"application/msgpack": "",
		"application/bson":    "",
	}
	for _, codec := range wireCodecs() {
		if _, ok := want[codec.ContentType()]; !ok {
			t.Errorf("unexpected content type %q", codec.ContentType())
		}
	}
}
