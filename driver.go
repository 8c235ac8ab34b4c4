package shuttle

import (
	"context"
	"reflect"
	"time"
)

// MaxDepth bounds the explicit-stack driver's frame growth: an unbounded
// Go slice-backed stack can still exhaust process memory on adversarial
// input even though it never touches the host call stack. Safe to
// change at startup; not meant to be mutated mid-traffic.
var MaxDepth int64 = 100000

// Serialize walks obj with an explicit-stack, depth-first traversal,
// producing a picklable Header and a flat, ordered list of buffers for
// zero-copy transport. If ctx is nil a fresh, caller-scoped Context is
// created for this call.
func Serialize(obj any, ctx *Context) (Header, [][]byte, error) {
	if ctx == nil {
		ctx = NewContext()
	}

	bgCtx := context.Background()
	start := time.Now()
	emitSerializeStart(bgCtx)

	root, buffers, err := serializeValue(obj, ctx)

	bufBytes := 0
	for _, b := range buffers {
		bufBytes += len(b)
	}
	emitSerializeComplete(bgCtx, time.Since(start), len(buffers), bufBytes, err)

	if err != nil {
		return Header{}, nil, err
	}
	return Header{Meta: map[string]any{}, Root: root}, buffers, nil
}

// Deserialize performs the dual traversal: it walks the Header's node
// tree, consuming buffers from a single forward cursor for final nodes,
// and reconstructs the object graph bottom-up, resolving placeholders as
// their identities materialize.
func Deserialize(h Header, buffers [][]byte, ctx *Context) (any, error) {
	if ctx == nil {
		ctx = NewContext()
	}

	bgCtx := context.Background()
	start := time.Now()
	emitDeserializeStart(bgCtx)

	cursor := 0
	obj, err := deserializeNode(h.Root, ctx, buffers, &cursor)

	emitDeserializeComplete(bgCtx, time.Since(start), err)
	return obj, err
}

// --- serialize side ---

// pendingFrame is one non-final node on the serialize stack: its common
// prefix and tail, the child values still to visit, and the child nodes
// already produced.
type pendingFrame struct {
	serializerID uint32
	objID        uint32
	tail         []any
	pending      []any // remaining child values still to visit
	done         []Node
}

func serializeValue(root any, ctx *Context) (Node, [][]byte, error) {
	var buffers [][]byte
	var stack []*pendingFrame

	cur := root
	haveCur := true
	var node Node

	for {
		if haveCur {
			sid, objID, tail, subs, final, err := dispatchSerial(cur, ctx)
			if err != nil {
				return Node{}, nil, err
			}

			if final || len(subs) == 0 {
				if final {
					for _, s := range subs {
						buf, ok := s.([]byte)
						if !ok {
							return Node{}, nil, &MalformedHeaderError{Reason: "final node subcomponent is not a buffer"}
						}
						buffers = append(buffers, buf)
					}
				}
				node = Node{SerializerID: sid, ObjID: objID, NumSubs: len(subs), Final: final, Tail: tail}
			} else {
				if int64(len(stack)) >= MaxDepth {
					return Node{}, nil, &RecursionDepthExceededError{MaxDepth: int(MaxDepth)}
				}
				stack = append(stack, &pendingFrame{
					serializerID: sid,
					objID:        objID,
					tail:         tail,
					pending:      subs,
				})
				cur = subs[0]
				haveCur = true
				continue
			}
		}

		for {
			if len(stack) == 0 {
				return node, buffers, nil
			}
			top := stack[len(stack)-1]
			top.done = append(top.done, node)
			top.pending = top.pending[1:]
			if len(top.pending) > 0 {
				cur = top.pending[0]
				haveCur = true
				break
			}
			node = Node{SerializerID: top.serializerID, ObjID: top.objID, NumSubs: len(top.done), Final: false, Tail: top.tail, Children: top.done}
			stack = stack[:len(stack)-1]
			haveCur = false
		}
	}
}

// dispatchSerial applies the dedup wrapper uniformly before calling the
// resolved codec's Serial, centralizing logic every codec would
// otherwise have to repeat at the top of its own Serial.
func dispatchSerial(obj any, ctx *Context) (serializerID, objID uint32, tail, subs []any, final bool, err error) {
	if obj == nil {
		return idPrimitive, 0, []any{nil}, nil, true, nil
	}

	rv := reflect.ValueOf(obj)
	if id, ok := identityOf(rv); ok {
		if ctx.markSeen(id) {
			return idPlaceholder, id, []any{id}, nil, true, nil
		}
		objID = id
	}

	typ := rv.Type()
	defaultRegistry.ensureTypeName(typ)
	codec := defaultRegistry.resolve(typ)
	if codec == nil {
		return 0, 0, nil, nil, false, &NoHandlerError{Type: typ}
	}

	tail, subs, final, serr := codec.Serial(obj, ctx)
	if serr != nil {
		return 0, 0, nil, nil, false, newCodecError("serial", typ.String(), serr)
	}
	return codec.ID(), objID, tail, subs, final, nil
}

// --- deserialize side ---

type pendingDeserFrame struct {
	node     Node
	codec    Serializer
	pending  []Node
	done     []any
}

func deserializeNode(root Node, ctx *Context, buffers [][]byte, cursor *int) (any, error) {
	var stack []*pendingDeserFrame

	cur := root
	haveCur := true
	var result any

	for {
		if haveCur {
			codec, ok := defaultRegistry.byIDLookup(cur.SerializerID)
			if !ok {
				return nil, &UnknownSerializerIDError{SerializerID: cur.SerializerID}
			}

			if cur.Final || cur.NumSubs == 0 {
				var subs []any
				if cur.Final {
					if *cursor+cur.NumSubs > len(buffers) {
						return nil, &BufferCountMismatchError{Expected: cur.NumSubs, Have: len(buffers) - *cursor}
					}
					subs = make([]any, cur.NumSubs)
					for i := 0; i < cur.NumSubs; i++ {
						subs[i] = buffers[*cursor+i]
					}
					*cursor += cur.NumSubs
				}
				obj, derr := deserializeLeaf(codec, cur, ctx, subs)
				if derr != nil {
					return nil, derr
				}
				result = obj
			} else {
				if len(cur.Children) != cur.NumSubs {
					return nil, &MalformedHeaderError{Reason: "child count does not match num_subs"}
				}
				if int64(len(stack)) >= MaxDepth {
					return nil, &RecursionDepthExceededError{MaxDepth: int(MaxDepth)}
				}
				stack = append(stack, &pendingDeserFrame{node: cur, codec: codec, pending: cur.Children})
				cur = cur.Children[0]
				haveCur = true
				continue
			}
		}

		for {
			if len(stack) == 0 {
				return result, nil
			}
			top := stack[len(stack)-1]
			top.done = append(top.done, result)
			top.pending = top.pending[1:]
			if len(top.pending) > 0 {
				cur = top.pending[0]
				haveCur = true
				break
			}
			obj, derr := deserializeLeaf(top.codec, top.node, ctx, top.done)
			if derr != nil {
				return nil, derr
			}
			result = obj
			stack = stack[:len(stack)-1]
			haveCur = false
		}
	}
}

func deserializeLeaf(codec Serializer, node Node, ctx *Context, subs []any) (any, error) {
	obj, err := codec.Deserial(node.Tail, ctx, subs)
	if err != nil {
		return nil, newCodecError("deserial", "", err)
	}
	if node.SerializerID != idPlaceholder && node.ObjID != 0 {
		ctx.record(node.ObjID, obj)
	}
	return obj, nil
}
