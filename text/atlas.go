package text

import (
	"image"
)

// Atlas is the CPU copy of the shared glyph texture. Each inserted cell is
// recorded in a dirty rectangle until the owner uploads it.
type Atlas struct {
	img    *image.Alpha
	packer *shelfPacker
	dirty  image.Rectangle
	cells  int
	upload []byte
}

// NewAtlas returns an empty width x height alpha atlas.
func NewAtlas(width, height, padding int) *Atlas {
	return &Atlas{
		img:    image.NewAlpha(image.Rect(0, 0, width, height)),
		packer: newShelfPacker(width, height, padding),
	}
}

// Size returns the atlas extent in pixels.
func (a *Atlas) Size() (width, height int) {
	b := a.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the CPU pixels. Callers must not modify them.
func (a *Atlas) Image() *image.Alpha { return a.img }

// Dirty returns the region changed since the last MarkClean.
func (a *Atlas) Dirty() image.Rectangle { return a.dirty }

// DirtyPixels returns the dirty region and its pixels packed row by row.
// The region stays dirty until MarkClean, so a failed upload is retried.
// The slice is reused by the next call.
func (a *Atlas) DirtyPixels() (image.Rectangle, []byte) {
	r := a.dirty
	if r.Empty() {
		return image.Rectangle{}, nil
	}
	w, h := r.Dx(), r.Dy()
	a.upload = a.upload[:0]
	for y := 0; y < h; y++ {
		off := a.img.PixOffset(r.Min.X, r.Min.Y+y)
		a.upload = append(a.upload, a.img.Pix[off:off+w]...)
	}
	return r, a.upload
}

// MarkClean records that everything dirty up to now is on the GPU.
func (a *Atlas) MarkClean() { a.dirty = image.Rectangle{} }

// Utilization returns the packed fraction of the atlas area.
func (a *Atlas) Utilization() float64 { return a.packer.utilization() }

// insert copies cell into free space and returns where it landed.
func (a *Atlas) insert(cell *image.Alpha) (image.Rectangle, bool) {
	w, h := cell.Rect.Dx(), cell.Rect.Dy()
	x, y, ok := a.packer.place(w, h)
	if !ok {
		return image.Rectangle{}, false
	}
	r := image.Rect(x, y, x+w, y+h)
	for row := 0; row < h; row++ {
		src := cell.PixOffset(cell.Rect.Min.X, cell.Rect.Min.Y+row)
		dst := a.img.PixOffset(x, y+row)
		copy(a.img.Pix[dst:dst+w], cell.Pix[src:src+w])
	}
	a.dirty = a.dirty.Union(r)
	a.cells++
	return r, true
}
