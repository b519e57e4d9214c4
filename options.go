package overlay

// Option configures a widget call.
type Option func(*options)

// options holds widget configuration keyed by OptKey name.
type options struct {
	extensions map[string]any
}

// OptKey is a typed key for widget options.
// Built-in and custom options use the same mechanism:
//
//	var OptGlow = overlay.NewOptKey[float32]("glow", 0)
//
//	ctx.Button("Fire", overlay.WithOpt(OptGlow, 2))
//
//	glow := overlay.ApplyAndGet(opts, OptGlow)
type OptKey[T any] struct {
	name string
	def  T
}

// NewOptKey creates a typed option key with a default value.
func NewOptKey[T any](name string, defaultValue T) OptKey[T] {
	return OptKey[T]{name: name, def: defaultValue}
}

// Name returns the key name.
func (k OptKey[T]) Name() string { return k.name }

// Default returns the default value for this key.
func (k OptKey[T]) Default() T { return k.def }

// WithOpt sets an option value using a typed key.
func WithOpt[T any](key OptKey[T], value T) Option {
	return func(o *options) {
		if o.extensions == nil {
			o.extensions = make(map[string]any)
		}
		o.extensions[key.name] = value
	}
}

// GetOpt retrieves an option value, or the key's default if unset.
func GetOpt[T any](o options, key OptKey[T]) T {
	v, ok := o.extensions[key.name]
	if !ok {
		return key.def
	}
	typed, ok := v.(T)
	if !ok {
		return key.def
	}
	return typed
}

// HasOpt returns true if the option was explicitly set.
func HasOpt[T any](o options, key OptKey[T]) bool {
	_, ok := o.extensions[key.name]
	return ok
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// ApplyAndGet applies options and returns a single value.
// Use this in external packages to build custom widgets.
func ApplyAndGet[T any](opts []Option, key OptKey[T]) T {
	return GetOpt(applyOptions(opts), key)
}

// Align is horizontal label alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

var (
	OptID         = NewOptKey("id", "")
	OptWidth      = NewOptKey[float32]("width", 0)
	OptHeight     = NewOptKey[float32]("height", 0)
	OptColor      = NewOptKey[Color]("color", 0)
	OptLabelAlign = NewOptKey("labelAlign", AlignLeft)
	OptEnabled    = NewOptKey[func() bool]("enabled", nil)
)

// Slider options.
var (
	OptMin    = NewOptKey[float32]("min", 0)
	OptMax    = NewOptKey[float32]("max", 1)
	OptStep   = NewOptKey[float32]("step", 0)
	OptFormat = NewOptKey("format", "")
)

// Graph options.
var (
	OptGridLines = NewOptKey("gridLines", 4)
	OptFillColor = NewOptKey[Color]("fillColor", 0)
)

// WithID sets an explicit identity, independent of the label.
func WithID(id string) Option { return WithOpt(OptID, id) }

// WithWidth sets the widget width.
func WithWidth(width float32) Option { return WithOpt(OptWidth, width) }

// WithHeight sets the widget height.
func WithHeight(height float32) Option { return WithOpt(OptHeight, height) }

// WithColor overrides the widget's accent color.
func WithColor(c Color) Option { return WithOpt(OptColor, c) }

// WithLabelAlign sets label alignment within the widget rectangle.
func WithLabelAlign(a Align) Option { return WithOpt(OptLabelAlign, a) }

// WithMin sets the lower bound of a slider.
func WithMin(v float32) Option { return WithOpt(OptMin, v) }

// WithMax sets the upper bound of a slider.
func WithMax(v float32) Option { return WithOpt(OptMax, v) }

// WithRange sets both slider bounds.
func WithRange(minVal, maxVal float32) Option {
	return func(o *options) {
		WithOpt(OptMin, minVal)(o)
		WithOpt(OptMax, maxVal)(o)
	}
}

// WithStep quantizes slider values to multiples of step above min.
func WithStep(step float32) Option { return WithOpt(OptStep, step) }

// WithFormat sets the fmt verb used to display a value.
func WithFormat(format string) Option { return WithOpt(OptFormat, format) }

// WithEnabled attaches a predicate evaluated each frame. A widget whose
// predicate returns false renders dimmed and ignores input.
func WithEnabled(fn func() bool) Option { return WithOpt(OptEnabled, fn) }

// WithGridLines sets the number of horizontal graph grid lines.
func WithGridLines(n int) Option { return WithOpt(OptGridLines, n) }

// WithFillColor sets the graph background.
func WithFillColor(c Color) Option { return WithOpt(OptFillColor, c) }

func enabled(o options) bool {
	fn := GetOpt(o, OptEnabled)
	return fn == nil || fn()
}

// bounds returns the slider range, swapped if inverted.
func bounds(o options) (lo, hi float32) {
	lo, hi = GetOpt(o, OptMin), GetOpt(o, OptMax)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
