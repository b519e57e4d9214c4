package text

// shelfPacker places rectangles left to right on horizontal shelves. A shelf
// is as tall as the first item placed on it; only the last shelf may grow.
// Placed rectangles never move.
type shelfPacker struct {
	width   int
	height  int
	padding int
	shelves []shelf
	used    int
}

type shelf struct {
	y      int
	height int
	x      int // next free column
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// place reserves a w x h rectangle and returns its top-left corner.
func (p *shelfPacker) place(w, h int) (x, y int, ok bool) {
	pw, ph := w+p.padding, h+p.padding
	if pw > p.width {
		return -1, -1, false
	}

	best := -1
	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+pw > p.width {
			continue
		}
		if h <= s.height {
			// Prefer the tightest shelf to limit wasted rows.
			if best < 0 || s.height < p.shelves[best].height {
				best = i
			}
			continue
		}
		if i == len(p.shelves)-1 && s.y+ph <= p.height && best < 0 {
			s.height = h
			best = i
		}
	}
	if best >= 0 {
		s := &p.shelves[best]
		x, y = s.x, s.y
		s.x += pw
		p.used += w * h
		return x, y, true
	}

	top := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		top = last.y + last.height + p.padding
	}
	if top+ph > p.height {
		return -1, -1, false
	}
	p.shelves = append(p.shelves, shelf{y: top, height: h, x: pw})
	p.used += w * h
	return 0, top, true
}

func (p *shelfPacker) utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.used) / float64(p.width*p.height)
}
