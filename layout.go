package overlay

// LayoutType defines the direction of a layout.
type LayoutType uint8

const (
	LayoutVertical LayoutType = iota
	LayoutHorizontal
)

// Layout tracks one flow container. Layouts live only for the duration of
// the closure passed to VStack/HStack.
type Layout struct {
	Type LayoutType

	StartX, StartY float32
	Width          float32

	// Accumulated content size.
	MaxWidth, MaxHeight float32

	Gap     float32
	Padding float32

	ItemCount int
}

// LayoutOption configures a layout container.
type LayoutOption func(*Layout)

// Gap sets spacing between children.
func Gap(pixels float32) LayoutOption {
	return func(l *Layout) { l.Gap = pixels }
}

// Padding sets inner padding on every side.
func Padding(pixels float32) LayoutOption {
	return func(l *Layout) { l.Padding = pixels }
}

// Width sets a fixed width for the layout.
func Width(w float32) LayoutOption {
	return func(l *Layout) { l.Width = w }
}

// VStack stacks the widgets emitted by contents vertically.
//
//	ctx.VStack(overlay.Gap(8))(func() {
//	    ctx.Label("Throttle")
//	    ctx.Slider("##throttle", overlay.Ptr(&throttle))
//	})
func (ctx *Context) VStack(opts ...LayoutOption) func(func()) {
	return ctx.stack(LayoutVertical, opts)
}

// HStack places the widgets emitted by contents on one row.
func (ctx *Context) HStack(opts ...LayoutOption) func(func()) {
	return ctx.stack(LayoutHorizontal, opts)
}

func (ctx *Context) stack(typ LayoutType, opts []LayoutOption) func(func()) {
	return func(contents func()) {
		layout := &Layout{Type: typ, Gap: ctx.style.ItemSpacing}
		for _, opt := range opts {
			opt(layout)
		}
		ctx.beginItem()
		layout.StartX, layout.StartY = ctx.cursor.X, ctx.cursor.Y
		if layout.Width == 0 {
			layout.Width = ctx.availWidth()
		}
		ctx.cursor.X += layout.Padding
		ctx.cursor.Y += layout.Padding
		ctx.layoutStack = append(ctx.layoutStack, layout)

		contents()

		ctx.layoutStack = ctx.layoutStack[:len(ctx.layoutStack)-1]
		size := Vec2{X: layout.MaxWidth + 2*layout.Padding, Y: layout.MaxHeight + 2*layout.Padding}
		ctx.cursor = Vec2{X: layout.StartX, Y: layout.StartY}
		ctx.AdvanceCursor(size)
	}
}

func (ctx *Context) currentLayout() *Layout {
	if n := len(ctx.layoutStack); n > 0 {
		return ctx.layoutStack[n-1]
	}
	return nil
}

// availWidth returns the width available to the next item.
func (ctx *Context) availWidth() float32 {
	if l := ctx.currentLayout(); l != nil {
		return l.Width - 2*l.Padding
	}
	return float32(ctx.viewport.Width) - ctx.cursor.X
}

// beginItem applies the layout gap before every item but the first.
func (ctx *Context) beginItem() {
	l := ctx.currentLayout()
	if l == nil || l.ItemCount == 0 {
		return
	}
	if l.Type == LayoutVertical {
		ctx.cursor.Y += l.Gap
	} else {
		ctx.cursor.X += l.Gap
	}
}

// ItemPos returns the position for the next widget with the gap applied.
func (ctx *Context) ItemPos() Vec2 {
	ctx.beginItem()
	return ctx.cursor
}

// AdvanceCursor moves the cursor past an item of the given size.
func (ctx *Context) AdvanceCursor(size Vec2) {
	ctx.lastItem = Rect{X: ctx.cursor.X, Y: ctx.cursor.Y, W: size.X, H: size.Y}
	l := ctx.currentLayout()
	if l == nil {
		ctx.cursor.Y += size.Y + ctx.style.ItemSpacing
		return
	}
	if l.Type == LayoutVertical {
		ctx.cursor.Y += size.Y
		l.MaxWidth = max(l.MaxWidth, ctx.cursor.X-l.StartX-l.Padding+size.X)
		l.MaxHeight = ctx.cursor.Y - l.StartY - l.Padding
	} else {
		ctx.cursor.X += size.X
		l.MaxWidth = ctx.cursor.X - l.StartX - l.Padding
		l.MaxHeight = max(l.MaxHeight, ctx.cursor.Y-l.StartY-l.Padding+size.Y)
	}
	l.ItemCount++
}

// LastItemRect returns the rectangle of the most recent widget.
func (ctx *Context) LastItemRect() Rect { return ctx.lastItem }

// Cursor returns the current flow position.
func (ctx *Context) Cursor() Vec2 { return ctx.cursor }

// SetCursorPos moves the flow cursor to an absolute position.
func (ctx *Context) SetCursorPos(x, y float32) {
	ctx.cursor = Vec2{X: x, Y: y}
}

// Spacing adds vertical space.
func (ctx *Context) Spacing(pixels float32) {
	ctx.cursor.Y += pixels
}

// Separator draws a horizontal rule across the available width.
func (ctx *Context) Separator() {
	pos := ctx.ItemPos()
	w := ctx.availWidth()
	y := pos.Y + 2
	ctx.DrawList.AddLine(pos.X, y, pos.X+w, y, ctx.style.SeparatorColor, 1)
	ctx.AdvanceCursor(Vec2{X: w, Y: 4})
}
