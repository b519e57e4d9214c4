package overlay

import (
	"fmt"
	"strings"
)

// displayLabel strips an "##suffix" used only to make IDs unique.
func displayLabel(label string) string {
	if before, _, ok := strings.Cut(label, "##"); ok {
		return before
	}
	return label
}

// Label draws a line of text.
func (ctx *Context) Label(s string, opts ...Option) {
	pos := ctx.ItemPos()
	o := applyOptions(opts)
	size := ctx.MeasureText(s)
	size.Y = max(size.Y, ctx.lineHeight())
	if w := GetOpt(o, OptWidth); w > 0 {
		size.X = w
	}
	if h := GetOpt(o, OptHeight); h > 0 {
		size.Y = h
	}
	r := Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
	c := dim(accent(o, ctx.style.TextColor), enabled(o))
	ctx.addTextIn(r, s, GetOpt(o, OptLabelAlign), 0, c)
	ctx.AdvanceCursor(size)
}

// Button draws a push button and returns true on the frame it is clicked.
func (ctx *Context) Button(label string, opts ...Option) bool {
	pos := ctx.ItemPos()
	o := applyOptions(opts)
	ctx.widgetID(label, o)
	text := displayLabel(label)

	textSize := ctx.MeasureText(text)
	size := Vec2{X: textSize.X + ctx.style.ButtonPadding*2, Y: ctx.widgetHeight(o)}
	if w := GetOpt(o, OptWidth); w > 0 {
		size.X = w
	}
	r := Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}

	on := enabled(o)
	bg := accent(o, ctx.style.ButtonColor)
	clicked := false
	if on && ctx.hovered(r) {
		bg = ctx.style.ButtonHoveredColor
		if ctx.input.MouseDown(MouseButtonLeft) {
			bg = ctx.style.ButtonActiveColor
		}
		clicked = ctx.input.MouseClicked(MouseButtonLeft)
	}

	ctx.DrawList.AddRectRounded(r.X, r.Y, r.W, r.H, ctx.style.Rounding, dim(bg, on))
	align := AlignCenter
	if HasOpt(o, OptLabelAlign) {
		align = GetOpt(o, OptLabelAlign)
	}
	ctx.addTextIn(r, text, align, ctx.style.ButtonPadding, dim(ctx.style.TextColor, on))
	ctx.AdvanceCursor(size)
	return clicked
}

// toggle runs the release-inside gesture shared by Switch and Checkbox.
// It returns true on the frame the bound value flips.
func (ctx *Context) toggle(st *widgetState, r Rect, on bool, b Binding[bool]) bool {
	if !on {
		st.pressed = false
		return false
	}
	inside := ctx.hovered(r)
	if inside && ctx.input.MouseClicked(MouseButtonLeft) {
		st.pressed = true
	}
	if ctx.input.MouseDown(MouseButtonLeft) {
		return false
	}
	flip := st.pressed && inside
	st.pressed = false
	if flip {
		b.Set(!b.Get())
	}
	return flip
}

// Switch draws an on/off switch bound to b. The value flips when the
// pointer is released inside the switch after being pressed on it.
func (ctx *Context) Switch(label string, b Binding[bool], opts ...Option) bool {
	pos := ctx.ItemPos()
	o := applyOptions(opts)
	id := ctx.widgetID(label, o)
	text := displayLabel(label)
	st := ctx.state(id)
	on := enabled(o)

	h := ctx.widgetHeight(o)
	trackW := h * 1.8
	textSize := ctx.MeasureText(text)
	size := Vec2{X: trackW, Y: h}
	if text != "" {
		size.X += ctx.style.ItemSpacing*2 + textSize.X
	}
	r := Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
	changed := ctx.toggle(st, r, on, b)

	v := b.Get()
	track := ctx.style.SliderTrackColor
	knobX := pos.X + 2
	if v {
		track = accent(o, ctx.style.SliderFillColor)
		knobX = pos.X + trackW - h + 2
	}
	ctx.DrawList.AddRectRounded(pos.X, pos.Y, trackW, h, h/2, dim(track, on))
	ctx.DrawList.AddRectRounded(knobX, pos.Y+2, h-4, h-4, (h-4)/2, dim(ctx.style.SliderGrabActive, on))
	if text != "" {
		lr := Rect{X: pos.X + trackW + ctx.style.ItemSpacing*2, Y: pos.Y, W: textSize.X, H: h}
		ctx.addTextIn(lr, text, AlignLeft, 0, dim(ctx.style.TextColor, on))
	}
	ctx.AdvanceCursor(size)
	return changed
}

// Checkbox draws a check box bound to b with the same gesture as Switch.
func (ctx *Context) Checkbox(label string, b Binding[bool], opts ...Option) bool {
	pos := ctx.ItemPos()
	o := applyOptions(opts)
	id := ctx.widgetID(label, o)
	text := displayLabel(label)
	st := ctx.state(id)
	on := enabled(o)

	h := ctx.widgetHeight(o)
	textSize := ctx.MeasureText(text)
	size := Vec2{X: h, Y: h}
	if text != "" {
		size.X += ctx.style.ItemSpacing*2 + textSize.X
	}
	r := Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
	changed := ctx.toggle(st, r, on, b)

	bg := ctx.style.InputBgColor
	if on && ctx.pointerIn(r) {
		bg = ctx.style.ButtonHoveredColor
	}
	ctx.DrawList.AddRect(pos.X, pos.Y, h, h, dim(bg, on))
	ctx.DrawList.AddRectOutline(pos.X, pos.Y, h, h, dim(ctx.style.InputBorderColor, on), 1)
	if b.Get() {
		inset := h / 4
		ctx.DrawList.AddRect(pos.X+inset, pos.Y+inset, h-2*inset, h-2*inset, dim(accent(o, ctx.style.CheckColor), on))
	}
	if text != "" {
		lr := Rect{X: pos.X + h + ctx.style.ItemSpacing*2, Y: pos.Y, W: textSize.X, H: h}
		ctx.addTextIn(lr, text, AlignLeft, 0, dim(ctx.style.TextColor, on))
	}
	ctx.AdvanceCursor(size)
	return changed
}

// ProgressBar draws the fraction of b between WithMin and WithMax
// (default 0..1). Values outside the range or NaN are clamped for display.
func (ctx *Context) ProgressBar(b Binding[float32], opts ...Option) {
	pos := ctx.ItemPos()
	o := applyOptions(opts)
	on := enabled(o)
	lo, hi := bounds(o)

	w := ctx.availWidth()
	if ow := GetOpt(o, OptWidth); ow > 0 {
		w = ow
	}
	h := ctx.widgetHeight(o)
	frac := float32(0)
	if hi > lo {
		frac = clampf((b.Get()-lo)/(hi-lo), 0, 1)
	}

	ctx.DrawList.AddRect(pos.X, pos.Y, w, h, dim(ctx.style.SliderTrackColor, on))
	ctx.DrawList.AddRect(pos.X, pos.Y, w*frac, h, dim(accent(o, ctx.style.SliderFillColor), on))
	format := GetOpt(o, OptFormat)
	if format == "" {
		format = "%.0f%%"
	}
	label := fmt.Sprintf(format, frac*100)
	ctx.addTextIn(Rect{X: pos.X, Y: pos.Y, W: w, H: h}, label, AlignCenter, 0, dim(ctx.style.TextColor, on))
	ctx.AdvanceCursor(Vec2{X: w, Y: h})
}
