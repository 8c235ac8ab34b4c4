package shuttle

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for programmatic error handling. Use errors.Is to check
// for these across the three error taxa the engine distinguishes:
//
//   - input errors (unregistered type, malformed header, wrong buffer
//     count) are surfaced to the caller verbatim
//   - codec errors (the opaque fallback failing to encode/decode) are
//     propagated verbatim, wrapped only for context
//   - internal invariant violations (a serializer ID with no registered
//     codec) are raised as bugs, not tolerated
var (
	// ErrNoHandler indicates no codec is registered for a value's type,
	// its kind fallback, or the opaque root -- should not occur in
	// practice since the opaque fallback is always bound to the root type.
	ErrNoHandler = errors.New("no handler registered for type")

	// ErrUnknownSerializerID indicates a wire header names a serializer ID
	// with no corresponding registered codec on this process.
	ErrUnknownSerializerID = errors.New("unknown serializer id")

	// ErrMalformedHeader indicates a wire header's shape does not match
	// what the driver or a codec expects.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrBufferCountMismatch indicates a final node's declared subcomponent
	// count does not match the number of buffers available to satisfy it.
	ErrBufferCountMismatch = errors.New("buffer count mismatch")

	// ErrRecursionDepthExceeded indicates the explicit-stack driver's
	// configured MaxDepth was exceeded while walking the object graph.
	ErrRecursionDepthExceeded = errors.New("recursion depth exceeded")
)

// NoHandlerError reports the type the dispatcher could not resolve.
type NoHandlerError struct {
	Type reflect.Type
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNoHandler, e.Type)
}

func (e *NoHandlerError) Unwrap() error { return ErrNoHandler }

// UnknownSerializerIDError reports the serializer ID a wire header named.
type UnknownSerializerIDError struct {
	SerializerID uint32
}

func (e *UnknownSerializerIDError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnknownSerializerID, e.SerializerID)
}

func (e *UnknownSerializerIDError) Unwrap() error { return ErrUnknownSerializerID }

// MalformedHeaderError reports where header parsing went wrong.
type MalformedHeaderError struct {
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedHeader, e.Reason)
}

func (e *MalformedHeaderError) Unwrap() error { return ErrMalformedHeader }

// BufferCountMismatchError reports the expected vs. available buffer count.
type BufferCountMismatchError struct {
	Expected int
	Have     int
}

func (e *BufferCountMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d, have %d", ErrBufferCountMismatch, e.Expected, e.Have)
}

func (e *BufferCountMismatchError) Unwrap() error { return ErrBufferCountMismatch }

// RecursionDepthExceededError reports the configured bound that was hit.
type RecursionDepthExceededError struct {
	MaxDepth int
}

func (e *RecursionDepthExceededError) Error() string {
	return fmt.Sprintf("%s: max depth %d", ErrRecursionDepthExceeded, e.MaxDepth)
}

func (e *RecursionDepthExceededError) Unwrap() error { return ErrRecursionDepthExceeded }

// CodecError wraps a failure from a Serializer's Serial/Deserial or from a
// header Codec's Marshal/Unmarshal, preserving the original error via Unwrap.
type CodecError struct {
	Op    string // "serial", "deserial", "marshal" or "unmarshal"
	Codec string // codec name for context
	Cause error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Codec, e.Cause)
}

func (e *CodecError) Unwrap() error { return e.Cause }

func newCodecError(op, codec string, cause error) error {
	return &CodecError{Op: op, Codec: codec, Cause: cause}
}
