package overlay

// Binding gives a widget read/write access to a caller-owned variable.
// Widgets read it for display every frame and write through it on
// interaction; they never keep a copy.
type Binding[T any] interface {
	Get() T
	Set(T)
}

type ptrBinding[T any] struct{ p *T }

func (b ptrBinding[T]) Get() T  { return *b.p }
func (b ptrBinding[T]) Set(v T) { *b.p = v }

// Ptr binds a widget to the variable p points at.
func Ptr[T any](p *T) Binding[T] { return ptrBinding[T]{p: p} }

type funcBinding[T any] struct {
	get func() T
	set func(T)
}

func (b funcBinding[T]) Get() T { return b.get() }

func (b funcBinding[T]) Set(v T) {
	if b.set != nil {
		b.set(v)
	}
}

// Func binds a widget to an accessor pair, for values that live behind a
// lock or a setter. A nil set makes the binding read-only.
func Func[T any](get func() T, set func(T)) Binding[T] {
	return funcBinding[T]{get: get, set: set}
}
