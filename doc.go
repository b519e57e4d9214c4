/*
Package overlay is an embeddable immediate-mode UI toolkit that draws
debug controls and live graphs on top of a host's OpenGL scene.

# Overview

The UI is rebuilt every frame. Widgets read and write the host's variables
through a Binding, so there is no widget tree and no callback plumbing: a
slider bound to a float32 writes that float32 while it is dragged.

Everything a frame emits goes into one DrawList. EndFrame culls, sorts and
batches it and issues one vertex upload, one index upload and one draw call
per (texture, clip) batch, saving and restoring the host's GL state around
the pass.

# Quick Start

	dev := opengl.New()
	ui, err := overlay.NewContext(dev)
	if err != nil {
	    return err
	}
	defer ui.Destroy()
	ui.LoadFont(goregular.TTF)

	input := opengl.NewGLFWInputAdapter(window)
	for !window.ShouldClose() {
	    glfw.PollEvents()
	    input.Update(dt)

	    renderScene()

	    ui.BeginFrame(input.Viewport(), input.Input())
	    ui.VStack(overlay.Gap(6))(func() {
	        ui.Slider("Exposure", overlay.Ptr(&exposure), overlay.WithRange(0, 4))
	        ui.Switch("Wireframe", overlay.Ptr(&wireframe))
	    })
	    ui.Graph(frameTimes, overlay.Rect{X: 10, Y: 400, W: 300, H: 80}, graph.Auto())
	    if err := ui.EndFrame(); err != nil {
	        log.Println(err)
	    }
	    input.Reset()

	    window.SwapBuffers()
	}

# Identity

Widget state (slider capture, text focus, open combo) is keyed by an ID
hashed from the enclosing PushID scopes and the label. Text after "##" is
hashed but not shown, so "Gain##left" and "Gain##right" are distinct
widgets with the same caption. A label repeated in one scope gets an
occurrence suffix. WithID overrides the label hash. State for IDs not seen
in the previous frame is dropped.

# Layout

	ui.VStack(overlay.Gap(8), overlay.Padding(12))(func() {
	    ui.Label("Stats")
	    ui.HStack(overlay.Gap(4))(func() {
	        ui.Button("Reset")
	        ui.Button("Pause")
	    })
	})

Without a stack, items flow downwards from the cursor set by SetCursorPos.

# Graphs

A graph.Series is a fixed-capacity ring written by any goroutine and read
by the UI thread. Graph reduces the visible samples to a min/max pair per
pixel column, so a series with many more samples than pixels stays cheap to
draw and keeps its spikes.

# Text Input

	Left / Right     Move the caret
	Home / End       Jump to start or end
	Backspace        Delete before the caret
	Delete           Delete after the caret
	Enter / Escape   Drop focus

Held editing keys repeat after KeyRepeatDelay, every KeyRepeatInterval,
once the host calls InputState.UpdateKeyRepeat each frame.

# Threading

A Context and its gpu.Manager are bound to the OS thread that created them.
Calls from another thread return *gpu.WrongThreadError. Series.Push is the only
operation meant for other goroutines.

# Logging

Debug logging is off by default; SetVerbose(true) enables it on the package
logger, or pass WithLogger to use the host's slog.Logger.
*/
package overlay
