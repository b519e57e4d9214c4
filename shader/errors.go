package shader

import (
	"fmt"
	"strings"

	"github.com/go-theft-auto/overlay/gpu"
)

// CompileError reports a shader stage that failed to compile. Log holds the
// driver's info log.
type CompileError struct {
	Stage gpu.Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: %s stage failed to compile: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "shader: link failed: " + strings.TrimSpace(e.Log)
}

// UnknownUniformError reports a uniform name that was never declared or was
// optimized out by the compiler. It is only returned in validation mode.
type UnknownUniformError struct {
	Program gpu.Handle
	Name    string
}

func (e *UnknownUniformError) Error() string {
	return fmt.Sprintf("shader: program %d has no active uniform %q", e.Program, e.Name)
}
