package gpu

import (
	"errors"
	"fmt"
)

// ErrPixelData is returned when a pixel slice does not match the region size.
var ErrPixelData = errors.New("gpu: pixel data size does not match region")

// ResourceError reports an operation on an invalid or missing GPU handle, or
// an operation after the owning Manager was closed.
type ResourceError struct {
	Op     string
	Handle Handle
	Reason string
}

func (e *ResourceError) Error() string {
	if e.Handle == 0 {
		return fmt.Sprintf("gpu: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("gpu: %s handle %d: %s", e.Op, e.Handle, e.Reason)
}

// OutOfBoundsError reports an update region outside the resource extent.
type OutOfBoundsError struct {
	Handle        Handle
	Region        Region
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("gpu: region %dx%d+%d+%d outside texture %d (%dx%d)",
		e.Region.W, e.Region.H, e.Region.X, e.Region.Y, e.Handle, e.Width, e.Height)
}

// WrongThreadError reports a GPU call from a thread other than the one that
// owns the GL context.
type WrongThreadError struct {
	Op            string
	Owner, Caller uint64
}

func (e *WrongThreadError) Error() string {
	return fmt.Sprintf("gpu: %s called from thread %d, context owned by thread %d", e.Op, e.Caller, e.Owner)
}
