//go:build linux

package gpu

import "golang.org/x/sys/unix"

// currentThread returns the OS thread id of the caller.
func currentThread() uint64 {
	return uint64(unix.Gettid())
}
