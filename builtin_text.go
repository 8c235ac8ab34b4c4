package shuttle

// textSerializer is built-in codec ID 3: a string encoded as UTF-8 bytes
// and passed through as a single buffer.
type textSerializer struct{}

func (textSerializer) ID() uint32 { return idText }

func (textSerializer) Serial(obj any, _ *Context) ([]any, []any, bool, error) {
	s, ok := obj.(string)
	if !ok {
		return nil, nil, false, &MalformedHeaderError{Reason: "text codec given a non-string value"}
	}
	return nil, []any{[]byte(s)}, true, nil
}

func (textSerializer) Deserial(_ []any, _ *Context, subs []any) (any, error) {
	if len(subs) != 1 {
		return nil, &BufferCountMismatchError{Expected: 1, Have: len(subs)}
	}
	b, ok := subs[0].([]byte)
	if !ok {
		return nil, &MalformedHeaderError{Reason: "text subcomponent is not a buffer"}
	}
	return string(b), nil
}
