package shuttle

// Tuple is the base container bound to serializer ID 4 alongside any
// struct type registered via RegisterStruct. Go has no distinct tuple
// literal; Tuple fills that role the same way ogórek.Tuple represents
// Python's pickle tuples in a Go decoder.
type Tuple []any
