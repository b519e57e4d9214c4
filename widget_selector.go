package overlay

// clampIndex maps an out-of-range bound index into [0, n) for display.
func clampIndex(i, n int) int {
	if n == 0 {
		return -1
	}
	return min(max(i, 0), n-1)
}

// Selector draws a "< item >" cycler bound to an index into items. The
// arrows step backwards and forwards, wrapping at both ends. Returns true
// when the index changed.
func (ctx *Context) Selector(label string, b Binding[int], items []string, opts ...Option) bool {
	pos := ctx.ItemPos()
	o := applyOptions(opts)
	ctx.widgetID(label, o)
	text := displayLabel(label)
	on := enabled(o)

	labelW := float32(0)
	if text != "" {
		labelW = ctx.MeasureText(text).X + ctx.style.ItemSpacing
	}
	w := ctx.controlWidth(o)
	h := ctx.widgetHeight(o)
	body := Rect{X: pos.X + labelW, Y: pos.Y, W: w, H: h}
	prev := Rect{X: body.X, Y: body.Y, W: h, H: h}
	next := Rect{X: body.X + w - h, Y: body.Y, W: h, H: h}

	n := len(items)
	changed := false
	if on && n > 0 {
		cur := clampIndex(b.Get(), n)
		switch {
		case ctx.clicked(prev):
			b.Set((cur - 1 + n) % n)
			changed = true
		case ctx.clicked(next):
			b.Set((cur + 1) % n)
			changed = true
		}
	}

	if text != "" {
		ctx.addTextIn(Rect{X: pos.X, Y: pos.Y, W: labelW, H: h}, text, AlignLeft, 0, dim(ctx.style.TextColor, on))
	}
	ctx.DrawList.AddRectRounded(body.X, body.Y, w, h, ctx.style.Rounding, dim(ctx.style.ButtonColor, on))
	arrow := dim(accent(o, ctx.style.TextColor), on)
	ah := h / 4
	ctx.DrawList.AddTriangle(
		Vec2{X: prev.X + h/2 - ah/2, Y: prev.Y + h/2},
		Vec2{X: prev.X + h/2 + ah/2, Y: prev.Y + h/2 - ah},
		Vec2{X: prev.X + h/2 + ah/2, Y: prev.Y + h/2 + ah},
		arrow)
	ctx.DrawList.AddTriangle(
		Vec2{X: next.X + h/2 + ah/2, Y: next.Y + h/2},
		Vec2{X: next.X + h/2 - ah/2, Y: next.Y + h/2 + ah},
		Vec2{X: next.X + h/2 - ah/2, Y: next.Y + h/2 - ah},
		arrow)
	if i := clampIndex(b.Get(), n); i >= 0 {
		ctx.addTextIn(body, items[i], AlignCenter, 0, dim(ctx.style.TextColor, on))
	}
	ctx.AdvanceCursor(Vec2{X: labelW + w, Y: h})
	return changed
}

// Combo draws a dropdown bound to an index into items. The open list is
// drawn on LayerOverlay so it covers widgets emitted later in the frame,
// and while it is open no other widget sees the pointer over it.
// Choosing an item or clicking outside closes it. Returns true when the
// index changed.
func (ctx *Context) Combo(label string, b Binding[int], items []string, opts ...Option) bool {
	pos := ctx.ItemPos()
	o := applyOptions(opts)
	id := ctx.widgetID(label, o)
	text := displayLabel(label)
	st := ctx.state(id)
	on := enabled(o)

	labelW := float32(0)
	if text != "" {
		labelW = ctx.MeasureText(text).X + ctx.style.ItemSpacing
	}
	w := ctx.controlWidth(o)
	h := ctx.widgetHeight(o)
	header := Rect{X: pos.X + labelW, Y: pos.Y, W: w, H: h}
	n := len(items)
	popup := Rect{X: header.X, Y: header.Y + h, W: w, H: h * float32(n)}

	changed := false
	if !on {
		st.open = false
	} else if ctx.input.MouseClicked(MouseButtonLeft) {
		switch {
		case st.open && popup.Contains(ctx.mouse()):
			i := int((ctx.input.MouseY - popup.Y) / h)
			if i = clampIndex(i, n); i >= 0 && i != b.Get() {
				b.Set(i)
				changed = true
			}
			st.open = false
		case ctx.hovered(header):
			st.open = !st.open
			ctx.log.Debug("combo toggled", "id", id, "open", st.open)
		default:
			st.open = false
		}
	}

	if text != "" {
		ctx.addTextIn(Rect{X: pos.X, Y: pos.Y, W: labelW, H: h}, text, AlignLeft, 0, dim(ctx.style.TextColor, on))
	}
	bg := ctx.style.ButtonColor
	if st.open {
		bg = ctx.style.ButtonHoveredColor
	}
	ctx.DrawList.AddRect(header.X, header.Y, w, h, dim(bg, on))
	ctx.DrawList.AddRectOutline(header.X, header.Y, w, h, dim(ctx.style.InputBorderColor, on), 1)
	cur := clampIndex(b.Get(), n)
	if cur >= 0 {
		ctx.addTextIn(Rect{X: header.X, Y: header.Y, W: w - h, H: h}, items[cur], AlignLeft, ctx.style.ButtonPadding, dim(ctx.style.TextColor, on))
	}
	a := h / 4
	cx, cy := header.X+w-h/2, header.Y+h/2
	ctx.DrawList.AddTriangle(Vec2{X: cx - a, Y: cy - a/2}, Vec2{X: cx + a, Y: cy - a/2}, Vec2{X: cx, Y: cy + a/2},
		dim(accent(o, ctx.style.TextColor), on))

	if st.open && n > 0 {
		ctx.blockPointer(popup)
		ctx.WantCaptureMouse = ctx.WantCaptureMouse || popup.Contains(ctx.mouse())
		old := ctx.DrawList.SetLayer(LayerOverlay)
		ctx.DrawList.AddRect(popup.X, popup.Y, popup.W, popup.H, ctx.style.DropdownBgColor)
		for i, item := range items {
			row := Rect{X: popup.X, Y: popup.Y + float32(i)*h, W: w, H: h}
			if i == cur {
				ctx.DrawList.AddRect(row.X, row.Y, row.W, row.H, ctx.style.SelectedBgColor)
			} else if row.Contains(ctx.mouse()) {
				ctx.DrawList.AddRect(row.X, row.Y, row.W, row.H, ctx.style.ButtonHoveredColor)
			}
			ctx.addTextIn(row, item, AlignLeft, ctx.style.ButtonPadding, ctx.style.TextColor)
		}
		ctx.DrawList.AddRectOutline(popup.X, popup.Y, popup.W, popup.H, ctx.style.InputBorderColor, 1)
		ctx.DrawList.SetLayer(old)
	}
	ctx.AdvanceCursor(Vec2{X: labelW + w, Y: h})
	return changed
}
