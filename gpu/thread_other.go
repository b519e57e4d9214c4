//go:build !linux && !windows

package gpu

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentThread falls back to goroutine identity where the OS thread id is
// not exposed by x/sys. Callers are expected to runtime.LockOSThread, which
// makes the goroutine and the thread interchangeable for this check.
func currentThread() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// "goroutine 18 [running]:..."
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
