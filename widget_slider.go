package overlay

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Slider draws a horizontal slider bound to b over [WithMin, WithMax]
// (default 0..1). Pressing on the track captures the pointer: the value
// follows the pointer until release, even outside the track. Returns true
// when the bound value changed this frame.
//
//	ctx.Slider("Gain", overlay.Ptr(&gain), overlay.WithRange(0, 10), overlay.WithStep(0.5))
func (ctx *Context) Slider(label string, b Binding[float32], opts ...Option) bool {
	o := applyOptions(opts)
	return ctx.slider(label, b, o, false)
}

// SliderInt is Slider for integers; the step defaults to 1.
func (ctx *Context) SliderInt(label string, b Binding[int], opts ...Option) bool {
	o := applyOptions(opts)
	if !HasOpt(o, OptStep) || GetOpt(o, OptStep) < 1 {
		WithStep(1)(&o)
	}
	fb := Func(
		func() float32 { return float32(b.Get()) },
		func(v float32) { b.Set(int(math32.Round(v))) },
	)
	return ctx.slider(label, fb, o, true)
}

func (ctx *Context) slider(label string, b Binding[float32], o options, integer bool) bool {
	pos := ctx.ItemPos()
	id := ctx.widgetID(label, o)
	text := displayLabel(label)
	st := ctx.state(id)
	on := enabled(o)
	lo, hi := bounds(o)
	step := GetOpt(o, OptStep)

	labelW := float32(0)
	if text != "" {
		labelW = ctx.MeasureText(text).X + ctx.style.ItemSpacing
	}
	w := ctx.controlWidth(o)
	h := ctx.widgetHeight(o)
	grab := min(ctx.style.GrabWidth, w)
	track := Rect{X: pos.X + labelW, Y: pos.Y, W: w, H: h}

	changed := false
	if !on {
		st.captured = false
	} else {
		hovered := ctx.hovered(track)
		if hovered && ctx.input.MouseClicked(MouseButtonLeft) && !st.captured {
			st.captured = true
			ctx.log.Debug("slider captured", "id", id)
		}
		if st.captured {
			if ctx.input.MouseDown(MouseButtonLeft) {
				ctx.WantCaptureMouse = true
				rel := ctx.input.MouseX - track.X - grab/2
				ratio := float32(0)
				if w > grab {
					ratio = clampf(rel/(w-grab), 0, 1)
				}
				changed = setSlider(b, lo+ratio*(hi-lo), lo, hi, step)
			} else {
				st.captured = false
				ctx.log.Debug("slider released", "id", id)
			}
		}
		if hovered && !st.captured && ctx.input.MouseWheelY != 0 {
			ws := step
			if ws == 0 {
				ws = (hi - lo) / 100
			}
			cur := clampf(b.Get(), lo, hi)
			changed = setSlider(b, cur+ctx.input.MouseWheelY*ws, lo, hi, step) || changed
		}
	}

	// Draw from the current, possibly just written, value.
	v := clampf(b.Get(), lo, hi)
	ratio := float32(0)
	if hi > lo {
		ratio = (v - lo) / (hi - lo)
	}
	if text != "" {
		lr := Rect{X: pos.X, Y: pos.Y, W: labelW, H: h}
		ctx.addTextIn(lr, text, AlignLeft, 0, dim(ctx.style.TextColor, on))
	}
	trackH := h * 0.5
	trackY := pos.Y + (h-trackH)/2
	ctx.DrawList.AddRect(track.X, trackY, w, trackH, dim(ctx.style.SliderTrackColor, on))
	if fill := ratio * w; fill > 0 {
		ctx.DrawList.AddRect(track.X, trackY, fill, trackH, dim(accent(o, ctx.style.SliderFillColor), on))
	}
	grabColor := ctx.style.SliderGrabColor
	if st.captured {
		grabColor = ctx.style.SliderGrabActive
	}
	grabX := track.X + ratio*(w-grab)
	ctx.DrawList.AddRect(grabX, pos.Y, grab, h, dim(grabColor, on))
	ctx.DrawList.AddRectOutline(grabX, pos.Y, grab, h, dim(ctx.style.InputBorderColor, on), 1)

	ctx.addTextIn(track, formatValue(GetOpt(o, OptFormat), v, integer), AlignCenter, 0, dim(ctx.style.TextColor, on))
	ctx.AdvanceCursor(Vec2{X: labelW + w, Y: h})
	return changed
}

// setSlider quantizes v to the step grid anchored at lo, clamps it and
// writes it if it differs from the bound value.
func setSlider(b Binding[float32], v, lo, hi, step float32) bool {
	if step > 0 {
		v = lo + math32.Floor((v-lo)/step+0.5)*step
	}
	v = clampf(v, lo, hi)
	if v == b.Get() {
		return false
	}
	b.Set(v)
	return true
}

func formatValue(format string, v float32, integer bool) string {
	switch {
	case format == "" && integer:
		return fmt.Sprintf("%d", int(math32.Round(v)))
	case format == "":
		return fmt.Sprintf("%.2f", v)
	case strings.Contains(format, "%d"):
		return fmt.Sprintf(format, int(math32.Round(v)))
	default:
		return fmt.Sprintf(format, v)
	}
}
