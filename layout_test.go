package overlay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/overlay"
)

func TestVStackPlacement(t *testing.T) {
	ctx, _ := newContext(t)

	var first, second, stack overlay.Rect
	require.NoError(t, frame(t, ctx, nil, func() {
		ctx.SetCursorPos(10, 20)
		ctx.VStack(overlay.Gap(5), overlay.Padding(2))(func() {
			ctx.Button("A")
			first = ctx.LastItemRect()
			ctx.Button("B")
			second = ctx.LastItemRect()
		})
		stack = ctx.LastItemRect()
	}))

	// Buttons without a font: 7px per rune plus 6px padding each side.
	assert.Equal(t, overlay.Rect{X: 12, Y: 22, W: 19, H: 22}, first)
	assert.Equal(t, overlay.Rect{X: 12, Y: 49, W: 19, H: 22}, second)
	assert.Equal(t, overlay.Rect{X: 10, Y: 20, W: 23, H: 53}, stack)
}

func TestHStackPlacement(t *testing.T) {
	ctx, _ := newContext(t)

	var a, b overlay.Rect
	var after overlay.Vec2
	require.NoError(t, frame(t, ctx, nil, func() {
		ctx.HStack(overlay.Gap(3))(func() {
			ctx.Button("A")
			a = ctx.LastItemRect()
			ctx.Button("B")
			b = ctx.LastItemRect()
		})
		after = ctx.Cursor()
	}))

	assert.Equal(t, float32(0), a.X)
	assert.Equal(t, float32(22), b.X)
	assert.Equal(t, a.Y, b.Y)
	assert.Equal(t, overlay.Vec2{X: 0, Y: 22 + 4}, after)
}

func TestFlowLayoutAdvancesBySpacing(t *testing.T) {
	ctx, _ := newContext(t)

	require.NoError(t, frame(t, ctx, nil, func() {
		ctx.Label("one")
		assert.Equal(t, overlay.Vec2{Y: 14 + 4}, ctx.Cursor())
		ctx.Spacing(10)
		ctx.Separator()
		assert.Equal(t, overlay.Rect{Y: 28, W: 800, H: 4}, ctx.LastItemRect())
	}))
}

func TestIDs(t *testing.T) {
	ctx, _ := newContext(t)

	var a1, a2, scoped, b overlay.ID
	require.NoError(t, frame(t, ctx, nil, func() {
		a1 = ctx.GetID("row")
		a2 = ctx.GetID("row")
		ctx.PushID("group")
		scoped = ctx.GetID("row")
		ctx.PopID()
		b = ctx.GetID("other")
	}))
	assert.NotEqual(t, a1, a2, "repeated label gets an occurrence suffix")
	assert.NotEqual(t, a1, scoped)
	assert.NotEqual(t, a1, b)

	// Stable across frames, including when a call is skipped.
	require.NoError(t, frame(t, ctx, nil, func() {
		assert.Equal(t, b, ctx.GetID("other"))
		assert.Equal(t, a1, ctx.GetID("row"))
		ctx.PushID("group")
		assert.Equal(t, scoped, ctx.GetID("row"))
		ctx.PopID()
		assert.Equal(t, overlay.ID(0), ctx.CurrentID())
	}))
}

func TestHiddenLabelSuffix(t *testing.T) {
	ctx, _ := newContext(t)
	in := overlay.NewInputState()
	left, right := float32(0), float32(0)

	// Same caption, distinct IDs: only the pressed one captures.
	press(in, 80+28+4, rowY)
	require.NoError(t, frame(t, ctx, in, func() {
		ctx.Slider("Gain##left", overlay.Ptr(&left), overlay.WithRange(0, 10))
	}))
	in.SetMousePos(80+28+4, rowY+26)
	require.NoError(t, frame(t, ctx, in, func() {
		ctx.Slider("Gain##left", overlay.Ptr(&left), overlay.WithRange(0, 10))
		ctx.Slider("Gain##right", overlay.Ptr(&right), overlay.WithRange(0, 10))
	}))
	assert.InDelta(t, 5, left, 1e-4)
	assert.Zero(t, right)
}
