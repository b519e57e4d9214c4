package overlay

import (
	"encoding/binary"
	"hash/fnv"
)

// ID uniquely identifies a widget for cross-frame state.
// IDs are stable across frames for the same widget.
type ID uint64

// GetID derives a stable ID from a label. The hash covers the parent ID on
// the stack, the label and how many times that label was already used under
// the same parent this frame, so repeated labels in a loop stay distinct
// while the IDs of other widgets do not shift when one call is skipped.
func (ctx *Context) GetID(label string) ID {
	parent := ctx.CurrentID()
	base := hashID(parent, label, 0)
	n := ctx.idSeen[base]
	ctx.idSeen[base] = n + 1
	if n == 0 {
		return base
	}
	return hashID(parent, label, n)
}

func hashID(parent ID, label string, n uint32) ID {
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(parent))
	binary.LittleEndian.PutUint32(buf[8:], n)
	h := fnv.New64a()
	h.Write(buf[:])
	h.Write([]byte(label))
	return ID(h.Sum64())
}

// PushID pushes an ID onto the stack for nested widgets.
// All GetID calls will be relative to this parent ID.
func (ctx *Context) PushID(label string) {
	ctx.idStack = append(ctx.idStack, ctx.GetID(label))
}

// PopID removes the last ID from the stack.
func (ctx *Context) PopID() {
	if len(ctx.idStack) > 0 {
		ctx.idStack = ctx.idStack[:len(ctx.idStack)-1]
	}
}

// CurrentID returns the current parent ID (top of stack).
func (ctx *Context) CurrentID() ID {
	if len(ctx.idStack) > 0 {
		return ctx.idStack[len(ctx.idStack)-1]
	}
	return 0
}

// widgetID resolves the ID of a widget call, honoring WithID.
func (ctx *Context) widgetID(label string, o options) ID {
	if optID := GetOpt(o, OptID); optID != "" {
		return ctx.GetID(optID)
	}
	return ctx.GetID(label)
}
