package overlay

// Clipboard is the host's system clipboard. backend/opengl's GLFW adapter
// implements it.
type Clipboard interface {
	// GetText returns the clipboard text, or "" when it holds none.
	GetText() string
	SetText(text string)
}

// WithClipboard enables Ctrl+C (copy the whole field) and Ctrl+V (insert
// at the caret) in text boxes.
func WithClipboard(c Clipboard) ContextOption {
	return func(cfg *contextConfig) { cfg.clipboard = c }
}

func (ctx *Context) clipboardText() string {
	if ctx.clipboard == nil {
		return ""
	}
	return ctx.clipboard.GetText()
}

func (ctx *Context) setClipboardText(s string) {
	if ctx.clipboard != nil {
		ctx.clipboard.SetText(s)
	}
}
