package shuttle

// bytesSerializer is built-in codec ID 2: a raw []byte value passed
// through as a single buffer, zero-copy.
type bytesSerializer struct{}

func (bytesSerializer) ID() uint32 { return idBytes }

func (bytesSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	b, ok := obj.([]byte)
	if !ok {
		return nil, nil, false, &MalformedHeaderError{Reason: "bytes codec given a non-[]byte value"}
	}
	return nil, []any{b}, true, nil
}

func (bytesSerializer) Deserial(_ []any, _ *Context, subs []any) (any, error) {
	if len(subs) != 1 {
		return nil, &BufferCountMismatchError{Expected: 1, Have: len(subs)}
	}
	b, ok := subs[0].([]byte)
	if !ok {
		return nil, &MalformedHeaderError{Reason: "bytes subcomponent is not a buffer"}
	}
	return b, nil
}
