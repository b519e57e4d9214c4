//go:build windows

package gpu

import "golang.org/x/sys/windows"

// currentThread returns the OS thread id of the caller.
func currentThread() uint64 {
	return uint64(windows.GetCurrentThreadId())
}
