package commands

import (
	"airbutler/pkg/butler"
)

// Context contains what a command may read or act on.
type Context struct {
	Widget  *butler.Widget
	Args    []string
	Version string
}

// NewContext creates a new command context
func NewContext(w *butler.Widget, version string) *Context {
	return &Context{
		Widget:  w,
		Version: version,
	}
}

// Transcript returns the widget conversation, or "" without a widget.
func (c *Context) Transcript() string {
	if c.Widget == nil {
		return ""
	}
	return c.Widget.Transcript()
}
