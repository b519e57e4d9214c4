package overlay

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-theft-auto/overlay/gpu"
	"github.com/go-theft-auto/overlay/shader"
	"github.com/go-theft-auto/overlay/text"
)

// ContextOption configures NewContext.
type ContextOption func(*contextConfig)

type contextConfig struct {
	glVersion      string
	style          Style
	atlasW, atlasH int
	validate       bool
	preserveState  bool
	logger         *slog.Logger
	clipboard      Clipboard
}

// WithGLVersion selects the GLSL header: "4.1" (default), "3.3" or "es3".
func WithGLVersion(hint string) ContextOption {
	return func(c *contextConfig) { c.glVersion = hint }
}

// WithStyle sets the initial style.
func WithStyle(s Style) ContextOption {
	return func(c *contextConfig) { c.style = s }
}

// WithAtlasSize sets the glyph atlas extent. Default 512x512.
func WithAtlasSize(w, h int) ContextOption {
	return func(c *contextConfig) { c.atlasW, c.atlasH = w, h }
}

// WithValidation turns unknown uniform names into errors.
func WithValidation(enabled bool) ContextOption {
	return func(c *contextConfig) { c.validate = enabled }
}

// WithPreserveState controls whether host GL state is saved and restored
// around each flush. Default true.
func WithPreserveState(enabled bool) ContextOption {
	return func(c *contextConfig) { c.preserveState = enabled }
}

// WithLogger overrides the package logger for this Context.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *contextConfig) { c.logger = l }
}

// Context holds everything one embedding needs: the GPU manager, the
// shader program, the glyph atlas and its texture, the draw list, this
// frame's input snapshot and the cross-frame widget state table.
//
// A Context is bound to the OS thread that created it.
type Context struct {
	DrawList *DrawList

	mgr      *gpu.Manager
	prog     *shader.Program
	renderer *Renderer
	atlasTex *gpu.Texture
	text     *text.Engine
	log      *slog.Logger

	clipboard Clipboard

	font     text.FontID
	fontSize float32
	hasFont  bool
	quads    []text.Quad

	style      Style
	styleStack []Style

	cursor      Vec2
	layoutStack []*Layout
	lastItem    Rect

	idStack []ID
	idSeen  map[ID]uint32

	input    InputState
	viewport Viewport
	frame    uint64
	inFrame  bool

	states    *FrameStore[widgetState]
	frameErrs []error
	scratch   graphScratch

	// An open popup blocks the pointer for every other widget. The rect
	// registered during a frame takes effect in the next one, so widgets
	// drawn before the popup are blocked too.
	popupRect     Rect
	nextPopupRect Rect

	// Set during the frame: true when a widget is under the pointer or holds
	// keyboard focus, so the host can withhold the event from its scene.
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// NewContext compiles the shader program and allocates the atlas texture
// and streaming buffers on dev. The calling goroutine must hold the GL
// context current and stay locked to its OS thread.
func NewContext(dev gpu.Device, opts ...ContextOption) (*Context, error) {
	cfg := contextConfig{
		glVersion:     "4.1",
		style:         DefaultStyle(),
		atlasW:        512,
		atlasH:        512,
		preserveState: true,
		logger:        guiLogger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mgr := gpu.NewManager(dev, cfg.logger)
	prog, err := shader.Compile(mgr, vertexShaderSource, fragmentShaderSource,
		shader.WithVersion(cfg.glVersion),
		shader.WithValidation(cfg.validate),
		shader.WithLogger(cfg.logger))
	if err != nil {
		_ = mgr.Close()
		return nil, fmt.Errorf("overlay: create context: %w", err)
	}
	atlasTex, err := mgr.CreateTexture(cfg.atlasW, cfg.atlasH, gpu.FormatR8, nil)
	if err != nil {
		_ = mgr.Close()
		return nil, fmt.Errorf("overlay: create atlas texture: %w", err)
	}
	renderer, err := NewRenderer(mgr, prog, cfg.preserveState, cfg.logger)
	if err != nil {
		_ = mgr.Close()
		return nil, err
	}

	ctx := &Context{
		DrawList:    AcquireDrawList(),
		mgr:         mgr,
		prog:        prog,
		renderer:    renderer,
		atlasTex:    atlasTex,
		text:        text.NewEngine(cfg.atlasW, cfg.atlasH, text.WithLogger(cfg.logger)),
		log:         cfg.logger,
		clipboard:   cfg.clipboard,
		style:       cfg.style,
		fontSize:    cfg.style.FontSize,
		layoutStack: make([]*Layout, 0, 16),
		idStack:     make([]ID, 0, 32),
		idSeen:      make(map[ID]uint32),
		states:      NewFrameStore[widgetState](),
	}
	ctx.log.Debug("context created", "gl", cfg.glVersion, "atlas_w", cfg.atlasW, "atlas_h", cfg.atlasH)
	return ctx, nil
}

// Manager returns the GPU resource manager, for hosts that create their
// own textures or framebuffers alongside the Context.
func (ctx *Context) Manager() *gpu.Manager { return ctx.mgr }

// SetTarget renders later frames into fb instead of the default
// framebuffer. fb must be owned by Manager.
func (ctx *Context) SetTarget(fb *gpu.Framebuffer) { ctx.renderer.SetTarget(fb) }

// Text returns the font/text engine.
func (ctx *Context) Text() *text.Engine { return ctx.text }

// AtlasTexture returns the GPU copy of the glyph atlas.
func (ctx *Context) AtlasTexture() *gpu.Texture { return ctx.atlasTex }

// FlushStats returns counters from the last EndFrame.
func (ctx *Context) FlushStats() FlushStats { return ctx.renderer.Stats() }

// Frame returns the number of frames begun.
func (ctx *Context) Frame() uint64 { return ctx.frame }

// Input returns this frame's input snapshot. Widgets and host code must
// treat it as read-only.
func (ctx *Context) Input() *InputState { return &ctx.input }

// Viewport returns this frame's viewport.
func (ctx *Context) Viewport() Viewport { return ctx.viewport }

// Style returns the current style.
func (ctx *Context) Style() Style { return ctx.style }

// SetStyle replaces the base style.
func (ctx *Context) SetStyle(s Style) { ctx.style = s }

// PushStyle temporarily overrides the style.
func (ctx *Context) PushStyle(s Style) {
	ctx.styleStack = append(ctx.styleStack, ctx.style)
	ctx.style = s
}

// PopStyle restores the previous style.
func (ctx *Context) PopStyle() {
	if n := len(ctx.styleStack); n > 0 {
		ctx.style = ctx.styleStack[n-1]
		ctx.styleStack = ctx.styleStack[:n-1]
	}
}

// LoadFont parses raw font bytes. The first font loaded becomes the
// current font at the style's font size.
func (ctx *Context) LoadFont(data []byte) (text.FontID, error) {
	id, err := ctx.text.LoadFont(data)
	if err != nil {
		return 0, err
	}
	if !ctx.hasFont {
		ctx.font, ctx.hasFont = id, true
	}
	return id, nil
}

// SetFont selects the font and pixel size used by subsequent widgets.
func (ctx *Context) SetFont(id text.FontID, size float32) error {
	if _, err := ctx.text.LineMetrics(id, size); err != nil {
		return err
	}
	ctx.font, ctx.fontSize, ctx.hasFont = id, size, true
	return nil
}

// BeginFrame starts a frame. It clears the draw list, evicts widget
// state not touched last frame and copies in into the frame's immutable
// snapshot. A nil in means no input.
func (ctx *Context) BeginFrame(vp Viewport, in *InputState) error {
	if err := ctx.mgr.Guard("begin frame"); err != nil {
		return err
	}
	if ctx.inFrame {
		return errors.New("overlay: BeginFrame called twice without EndFrame")
	}
	ctx.inFrame = true
	ctx.frame++
	if n := ctx.states.Cleanup(ctx.frame); n > 0 {
		ctx.log.Debug("widget state evicted", "entries", n)
	}

	ctx.DrawList.Clear()
	ctx.viewport = vp
	ctx.cursor = Vec2{}
	ctx.lastItem = Rect{}
	ctx.layoutStack = ctx.layoutStack[:0]
	ctx.styleStack = ctx.styleStack[:0]
	ctx.idStack = ctx.idStack[:0]
	clear(ctx.idSeen)
	ctx.frameErrs = ctx.frameErrs[:0]
	ctx.WantCaptureMouse = false
	ctx.WantCaptureKeyboard = false
	ctx.popupRect, ctx.nextPopupRect = ctx.nextPopupRect, Rect{}

	if in != nil {
		in.snapshot(&ctx.input)
	} else {
		ctx.input = InputState{InputChars: ctx.input.InputChars[:0]}
	}
	return nil
}

// EndFrame uploads new atlas glyphs, flushes the draw list and returns
// every error collected during the frame. The draw list is cleared in all
// cases.
func (ctx *Context) EndFrame() error {
	if !ctx.inFrame {
		return errors.New("overlay: EndFrame without BeginFrame")
	}
	ctx.inFrame = false

	// The region stays dirty on failure and is uploaded again next frame.
	atlas := ctx.text.Atlas()
	if r, px := atlas.DirtyPixels(); !r.Empty() {
		region := gpu.Region{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
		if err := ctx.atlasTex.Update(region, px); err != nil {
			ctx.frameErrs = append(ctx.frameErrs, fmt.Errorf("overlay: upload atlas: %w", err))
		} else {
			atlas.MarkClean()
			ctx.log.Debug("atlas uploaded", "region", r, "utilization", ctx.text.Stats().Utilization)
		}
	}
	if err := ctx.renderer.Flush(ctx.DrawList, ctx.viewport); err != nil {
		ctx.frameErrs = append(ctx.frameErrs, err)
	}
	if len(ctx.frameErrs) == 0 {
		return nil
	}
	err := errors.Join(ctx.frameErrs...)
	ctx.log.Warn("frame completed with errors", "frame", ctx.frame, "errors", len(ctx.frameErrs))
	return err
}

// Destroy releases every GPU handle the Context owns, then closes the
// Manager, which frees whatever the host created through it. The Context
// is unusable afterwards; a second Destroy fails with a gpu.ResourceError.
func (ctx *Context) Destroy() error {
	if err := ctx.mgr.Guard("destroy context"); err != nil {
		return err
	}
	errs := []error{
		ctx.renderer.Destroy(),
		ctx.atlasTex.Destroy(),
		ctx.prog.Destroy(),
		ctx.text.Close(),
		ctx.mgr.Close(),
	}
	ReleaseDrawList(ctx.DrawList)
	ctx.DrawList = &DrawList{}
	ctx.states.Clear()
	return errors.Join(errs...)
}

// frameErr records a per-frame error for EndFrame.
func (ctx *Context) frameErr(err error) {
	if err != nil {
		ctx.frameErrs = append(ctx.frameErrs, err)
	}
}

// Text helpers. Without a font, text is measured with a fixed
// per-rune estimate and not drawn, so layout and input still work.

func (ctx *Context) lineHeight() float32 {
	if ctx.hasFont {
		if m, err := ctx.text.LineMetrics(ctx.font, ctx.fontSize); err == nil {
			return m.Height
		}
	}
	return ctx.fontSize
}

// MeasureText returns the size of s in the current font.
func (ctx *Context) MeasureText(s string) Vec2 {
	if s == "" {
		return Vec2{}
	}
	if ctx.hasFont {
		w, h, err := ctx.text.Measure(ctx.font, ctx.fontSize, s)
		if err == nil {
			return Vec2{X: w, Y: h}
		}
		ctx.frameErr(err)
	}
	return Vec2{X: float32(len([]rune(s))) * ctx.fontSize * 0.5, Y: ctx.fontSize}
}

// AddText draws s with its line box top-left at (x, y).
func (ctx *Context) AddText(x, y float32, s string, c Color) {
	if s == "" || !ctx.hasFont {
		return
	}
	quads, err := ctx.text.Draw(ctx.font, ctx.fontSize, s, x, y, ctx.quads[:0])
	ctx.frameErr(err)
	ctx.DrawList.AddGlyphs(quads, ctx.atlasTex.Handle(), c)
	ctx.quads = quads[:0]
}

// addTextIn draws s vertically centered in r with the given alignment.
func (ctx *Context) addTextIn(r Rect, s string, align Align, pad float32, c Color) {
	if s == "" {
		return
	}
	size := ctx.MeasureText(s)
	x := r.X + pad
	switch align {
	case AlignCenter:
		x = r.X + (r.W-size.X)/2
	case AlignRight:
		x = r.X + r.W - pad - size.X
	}
	y := r.Y + (r.H-ctx.lineHeight())/2
	ctx.AddText(x, y, s, c)
}

// Hit-testing against the frame's input snapshot.

func (ctx *Context) mouse() Vec2 { return Vec2{X: ctx.input.MouseX, Y: ctx.input.MouseY} }

// pointerIn reports whether the pointer is over r and not over an open
// popup.
func (ctx *Context) pointerIn(r Rect) bool {
	m := ctx.mouse()
	return r.Contains(m) && !ctx.popupRect.Contains(m)
}

// blockPointer registers an open popup for the next frame.
func (ctx *Context) blockPointer(r Rect) { ctx.nextPopupRect = r }

func (ctx *Context) hovered(r Rect) bool {
	if !ctx.pointerIn(r) {
		return false
	}
	ctx.WantCaptureMouse = true
	return true
}

func (ctx *Context) clicked(r Rect) bool {
	hit := ctx.hovered(r) && ctx.input.MouseClicked(MouseButtonLeft)
	if hit && guiVerbose() {
		ctx.log.Debug("click", "rect", r, "mouse", ctx.mouse())
	}
	return hit
}

// state returns the widget's cross-frame entry, marking it used.
func (ctx *Context) state(id ID) *widgetState {
	return ctx.states.Get(id, widgetState{})
}

// StateEntries returns the number of live widget state entries.
func (ctx *Context) StateEntries() int { return ctx.states.Len() }

// widgetHeight resolves the height of a single-line widget.
func (ctx *Context) widgetHeight(o options) float32 {
	if h := GetOpt(o, OptHeight); h > 0 {
		return h
	}
	return max(ctx.style.WidgetHeight, ctx.lineHeight()+2*ctx.style.InputPadding)
}

// controlWidth resolves the width of a fixed-width control.
func (ctx *Context) controlWidth(o options) float32 {
	if w := GetOpt(o, OptWidth); w > 0 {
		return w
	}
	return ctx.style.ControlWidth
}

// accent returns WithColor or the style fallback.
func accent(o options, fallback Color) Color {
	if HasOpt(o, OptColor) {
		return GetOpt(o, OptColor)
	}
	return fallback
}

// dim halves alpha when the widget is disabled.
func dim(c Color, on bool) Color {
	if on {
		return c
	}
	return c.Dim()
}
