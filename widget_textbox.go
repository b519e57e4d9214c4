package overlay

// TextBox draws a single-line text field bound to b. Clicking inside gives
// it keyboard focus; clicking elsewhere, Enter or Escape drops focus.
// Returns true when the bound text changed this frame.
func (ctx *Context) TextBox(label string, b Binding[string], opts ...Option) bool {
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
	box := Rect{X: pos.X + labelW, Y: pos.Y, W: w, H: h}

	runes := []rune(b.Get())
	changed := false
	if !on {
		st.focused = false
	} else {
		if ctx.input.MouseClicked(MouseButtonLeft) {
			inside := ctx.hovered(box)
			if inside && !st.focused {
				st.caret = len(runes)
				ctx.log.Debug("text box focused", "id", id)
			}
			st.focused = inside
		}
		if st.focused {
			ctx.WantCaptureKeyboard = true
			st.caret = min(max(st.caret, 0), len(runes))
			var edited bool
			runes, edited = ctx.editText(st, runes)
			if edited {
				b.Set(string(runes))
				changed = true
			}
		}
	}

	bg := ctx.style.InputBgColor
	if st.focused {
		bg = ctx.style.InputFocusedBgColor
	}
	if text != "" {
		ctx.addTextIn(Rect{X: pos.X, Y: pos.Y, W: labelW, H: h}, text, AlignLeft, 0, dim(ctx.style.TextColor, on))
	}
	ctx.DrawList.AddRect(box.X, box.Y, w, h, dim(bg, on))
	ctx.DrawList.AddRectOutline(box.X, box.Y, w, h, dim(accent(o, ctx.style.InputBorderColor), on), 1)

	pad := ctx.style.InputPadding
	inner := Rect{X: box.X + pad, Y: box.Y, W: w - 2*pad, H: h}
	caretX := float32(0)
	if st.focused {
		caretX = ctx.MeasureText(string(runes[:st.caret])).X
	}
	// Scroll so the caret stays inside the box.
	scroll := max(0, caretX-inner.W)
	ctx.DrawList.PushClipRect(inner)
	ctx.AddText(inner.X-scroll, box.Y+(h-ctx.lineHeight())/2, string(runes), dim(ctx.style.TextColor, on))
	ctx.DrawList.PopClipRect()
	if st.focused {
		x := inner.X + caretX - scroll
		ctx.DrawList.AddLine(x, box.Y+3, x, box.Y+h-3, ctx.style.TextColor, 1)
	}

	ctx.AdvanceCursor(Vec2{X: labelW + w, Y: h})
	return changed
}

// editText applies this frame's typed characters and editing keys.
func (ctx *Context) editText(st *widgetState, runes []rune) ([]rune, bool) {
	in := &ctx.input
	changed := false
	if in.KeyPressed(KeyEnter) || in.KeyPressed(KeyEscape) {
		st.focused = false
		return runes, false
	}
	if in.ModCtrl {
		switch {
		case in.KeyPressed(KeyC):
			ctx.setClipboardText(string(runes))
		case in.KeyPressed(KeyV):
			runes, changed = insertRunes(runes, &st.caret, []rune(ctx.clipboardText()))
		}
	} else {
		runes, changed = insertRunes(runes, &st.caret, in.InputChars)
	}
	switch {
	case in.KeyRepeated(KeyBackspace) && st.caret > 0:
		runes = append(runes[:st.caret-1], runes[st.caret:]...)
		st.caret--
		changed = true
	case in.KeyRepeated(KeyDelete) && st.caret < len(runes):
		runes = append(runes[:st.caret], runes[st.caret+1:]...)
		changed = true
	case in.KeyRepeated(KeyLeft) && st.caret > 0:
		st.caret--
	case in.KeyRepeated(KeyRight) && st.caret < len(runes):
		st.caret++
	case in.KeyPressed(KeyHome):
		st.caret = 0
	case in.KeyPressed(KeyEnd):
		st.caret = len(runes)
	}
	return runes, changed
}

// insertRunes inserts the printable runes of rs at *caret and advances it.
func insertRunes(runes []rune, caret *int, rs []rune) ([]rune, bool) {
	n := 0
	for _, r := range rs {
		if r < ' ' || r == 0x7f {
			continue
		}
		runes = append(runes[:*caret], append([]rune{r}, runes[*caret:]...)...)
		*caret++
		n++
	}
	return runes, n > 0
}
