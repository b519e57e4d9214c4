package overlay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/overlay"
)

func TestParseStyle(t *testing.T) {
	s, err := overlay.ParseStyle([]byte(`
text: "#FF0000"
slider_fill: "#00FF0080"
font_size: 18
`))
	require.NoError(t, err)
	assert.Equal(t, overlay.ColorRed, s.TextColor)
	assert.Equal(t, overlay.RGBA(0, 255, 0, 128), s.SliderFillColor)
	assert.Equal(t, float32(18), s.FontSize)

	// Unset fields keep their defaults.
	def := overlay.DefaultStyle()
	assert.Equal(t, def.WidgetHeight, s.WidgetHeight)
	assert.Equal(t, def.ButtonColor, s.ButtonColor)
}

func TestParseStyleErrors(t *testing.T) {
	for _, doc := range []string{
		`text: "red"`,
		`text: "#GG0000"`,
		`font_size: 0`,
		`widget_height: -1`,
		`font_size: [1, 2]`,
	} {
		_, err := overlay.ParseStyle([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestColors(t *testing.T) {
	c, err := overlay.ParseColor("#336699")
	require.NoError(t, err)
	assert.Equal(t, overlay.RGBA(0x33, 0x66, 0x99, 0xFF), c)
	assert.Equal(t, "#336699FF", c.Hex())

	back, err := overlay.ParseColor(c.Hex())
	require.NoError(t, err)
	assert.Equal(t, c, back)

	r, g, b, a := overlay.ColorYellow.Unpack()
	assert.Equal(t, [4]uint8{255, 255, 0, 255}, [4]uint8{r, g, b, a})
	assert.Equal(t, uint8(127), overlay.ColorWhite.Dim().Alpha())
	assert.Equal(t, overlay.ColorBlack, overlay.RGBAf(0, 0, 0, 2))

	_, err = overlay.ParseColor("#1234")
	assert.Error(t, err)
}

func TestFrameStoreEviction(t *testing.T) {
	s := overlay.NewFrameStore[int]()

	*s.Get(1, 10) = 11
	s.Get(2, 20)
	assert.Equal(t, 2, s.Len())

	// Touched in the previous frame: kept.
	assert.Zero(t, s.Cleanup(1))
	assert.Equal(t, 11, *s.Get(1, 0))

	// 2 was last used in frame 0.
	assert.Equal(t, 1, s.Cleanup(2))
	assert.Nil(t, s.Lookup(2))
	require.NotNil(t, s.Lookup(1))
	assert.Equal(t, 11, *s.Lookup(1))

	s.Delete(1)
	assert.Zero(t, s.Len())
}
