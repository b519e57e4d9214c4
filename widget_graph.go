package overlay

import (
	"fmt"

	"github.com/go-theft-auto/overlay/graph"
)

// graphScratch holds per-Context buffers reused by every Graph call.
type graphScratch struct {
	samples []graph.Sample
	reduced []graph.Sample
	points  []graph.Point
	line    []Vec2
}

// Graph renders a snapshot of s into rect on LayerGraph: background, grid,
// and the sample polyline. When s holds more samples than rect is pixels
// wide, each pixel column keeps only its min and max, so spikes survive and
// the vertex count stays proportional to the width.
//
// With graph.Auto() the y range is recomputed from the current contents on
// every call, so the vertical scale shifts as new extremes arrive. A zero
// rect places the graph in the flow layout at the available width and
// WithHeight (default 80). WithColor sets the line, WithFillColor the
// background.
func (ctx *Context) Graph(s *graph.Series, rect Rect, yRange graph.Range, opts ...Option) {
	o := applyOptions(opts)
	flow := rect.Empty()
	if flow {
		pos := ctx.ItemPos()
		h := GetOpt(o, OptHeight)
		if h <= 0 {
			h = 80
		}
		w := ctx.availWidth()
		if ow := GetOpt(o, OptWidth); ow > 0 {
			w = ow
		}
		rect = Rect{X: pos.X, Y: pos.Y, W: w, H: h}
	}

	old := ctx.DrawList.SetLayer(LayerGraph)
	defer ctx.DrawList.SetLayer(old)

	dl := ctx.DrawList
	bg := ctx.style.GraphBgColor
	if HasOpt(o, OptFillColor) {
		bg = GetOpt(o, OptFillColor)
	}
	dl.AddRect(rect.X, rect.Y, rect.W, rect.H, bg)
	if n := GetOpt(o, OptGridLines); n > 0 {
		for i := 1; i < n; i++ {
			y := rect.Y + rect.H*float32(i)/float32(n)
			dl.AddLine(rect.X, y, rect.X+rect.W, y, ctx.style.GraphGridColor, 1)
		}
	}

	sc := &ctx.scratch
	sc.samples = s.Snapshot(sc.samples[:0])
	sc.reduced = graph.Decimate(sc.samples, max(int(rect.W), 1), sc.reduced[:0])
	lo, hi := yRange.Resolve(sc.reduced)
	gr := graph.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H}
	sc.points = graph.Project(sc.reduced, gr, graph.Span(sc.reduced), graph.Fixed(lo, hi), sc.points[:0])

	sc.line = sc.line[:0]
	for _, p := range sc.points {
		sc.line = append(sc.line, Vec2{X: p.X, Y: p.Y})
	}
	dl.PushClipRect(rect)
	lineColor := ctx.style.GraphLineColor
	if HasOpt(o, OptColor) {
		lineColor = GetOpt(o, OptColor)
	}
	dl.AddPolyline(sc.line, lineColor, ctx.style.LineWidth)
	dl.PopClipRect()

	if len(sc.reduced) > 0 {
		label := ctx.style.TextDisabledColor
		ctx.AddText(rect.X+2, rect.Y+2, fmt.Sprintf("%.1f", hi), label)
		ctx.AddText(rect.X+2, rect.Y+rect.H-ctx.lineHeight()-2, fmt.Sprintf("%.1f", lo), label)
	}
	dl.AddRectOutline(rect.X, rect.Y, rect.W, rect.H, ctx.style.SeparatorColor, 1)

	if flow {
		ctx.AdvanceCursor(Vec2{X: rect.W, Y: rect.H})
	}
}
