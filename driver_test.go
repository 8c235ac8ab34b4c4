package shuttle

import (
	"errors"
	"testing"
)

func roundTrip(t *testing.T, obj any) any {
	t.Helper()
	h, buffers, err := Serialize(obj, nil)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	restored, err := Deserialize(h, buffers, nil)
	if err != nil {
		t.Fatalf("Deserialize error: %v", err)
	}
	return restored
}

func TestSerialize_Scalars(t *testing.T) {
	for _, v := range []any{42, "hello", true, 3.14, nil} {
		restored := roundTrip(t, v)
		if restored != v {
			t.Errorf("roundTrip(%v) = %v, want %v", v, restored, v)
		}
	}
}

func TestSerialize_Bytes(t *testing.T) {
	b := []byte("raw bytes passthrough")
	_, buffers, err := Serialize(b, nil)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	if len(buffers) != 1 {
		t.Fatalf("len(buffers) = %d, want 1", len(buffers))
	}
	restored := roundTrip(t, b)
	got, ok := restored.([]byte)
	if !ok || string(got) != string(b) {
		t.Errorf("restored = %v, want %v", restored, b)
	}
}

func TestSerialize_Tuple(t *testing.T) {
	original := Tuple{1, "two", 3.0}
	restored := roundTrip(t, original)
	tup, ok := restored.(Tuple)
	if !ok || len(tup) != 3 {
		t.Fatalf("restored = %#v, want a 3-element Tuple", restored)
	}
	if tup[0] != 1 || tup[1] != "two" || tup[2] != 3.0 {
		t.Errorf("restored = %v, want %v", tup, original)
	}
}

func TestSerialize_Mapping(t *testing.T) {
	original := map[any]any{"a": 1, "b": 2}
	restored := roundTrip(t, original)
	m, ok := restored.(map[any]any)
	if !ok {
		t.Fatalf("restored is %T, want map[any]any", restored)
	}
	if m["a"] != 1 || m["b"] != 2 {
		t.Errorf("restored = %v, want %v", m, original)
	}
}

func TestSerialize_DedupSharedReference(t *testing.T) {
	type pair struct{ X int }
	x := &pair{X: 1}
	original := Tuple{x, x}

	restored := roundTrip(t, original)
	tup, ok := restored.(Tuple)
	if !ok || len(tup) != 2 {
		t.Fatalf("restored = %#v, want a 2-element Tuple", restored)
	}
	a, aok := tup[0].(*pair)
	b, bok := tup[1].(*pair)
	if !aok || !bok {
		t.Fatalf("restored elements are %T, %T, want *pair", tup[0], tup[1])
	}
	if a != b {
		t.Errorf("shared reference not preserved: %p != %p", a, b)
	}
}

// TestSerialize_Cycle exercises a Tuple that references itself. A Tuple's
// reconstructed backing slice is exactly what its own placeholder fixups
// write into (collection.go's reassembleSequence), so the self-reference
// survives even though an equivalent cycle through a registered struct's
// field would not (see DESIGN.md's named-tuple fixup note).
func TestSerialize_Cycle(t *testing.T) {
	self := Tuple{1, nil}
	self[1] = self

	restored := roundTrip(t, self)
	tup, ok := restored.(Tuple)
	if !ok || len(tup) != 2 {
		t.Fatalf("restored = %#v, want a 2-element Tuple", restored)
	}
	inner, ok := tup[1].(Tuple)
	if !ok || len(inner) != 2 || inner[0] != 1 {
		t.Errorf("restored[1] = %#v, want the Tuple to reference itself", tup[1])
	}
}

func TestSerialize_ExceedsMaxDepth(t *testing.T) {
	old := MaxDepth
	MaxDepth = 3
	defer func() { MaxDepth = old }()

	// Only non-leaf nodes take a frame: five nested Tuples need four.
	deep := Tuple{Tuple{Tuple{Tuple{Tuple{1}}}}}
	_, _, err := Serialize(deep, nil)
	if err == nil {
		t.Fatal("expected RecursionDepthExceededError, got nil")
	}
	var rde *RecursionDepthExceededError
	if !errors.As(err, &rde) {
		t.Errorf("error = %v, want *RecursionDepthExceededError", err)
	}
}

func TestRegistry_ResolveFallsBackToOpaque(t *testing.T) {
	type unregistered struct{ Label string }
	restored := roundTrip(t, unregistered{Label: "x"})
	u, ok := restored.(unregistered)
	if !ok {
		t.Fatalf("restored is %T, want unregistered", restored)
	}
	if u.Label != "x" {
		t.Errorf("restored.Label = %q, want %q", u.Label, "x")
	}
}
