package commands

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnknownCommand is set on the result of a command nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// Action asks the UI to do something beyond showing the result.
type Action int

const (
	ActionNone Action = iota
	ActionClose
	ActionCopy
)

// Result represents the result of a command execution
type Result struct {
	Title   string
	Content string
	Error   error
	Action  Action
}

// Handler is the interface for command handlers
type Handler interface {
	Execute(ctx *Context) *Result
	Name() string
	Description() string
}

// Dispatcher routes commands to their handlers
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher creates a new command dispatcher
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
	}

	d.Register(&HelpHandler{d: d})
	d.Register(&CopyHandler{})
	d.Register(&CloseHandler{})
	d.Register(&VersionHandler{})

	return d
}

// Register adds a handler to the dispatcher
func (d *Dispatcher) Register(h Handler) {
	d.handlers[h.Name()] = h
}

// Dispatch executes a command by name
func (d *Dispatcher) Dispatch(cmdName string, ctx *Context) *Result {
	handler, ok := d.handlers[cmdName]
	if !ok {
		return &Result{
			Title:   "错误",
			Content: "未知命令：" + cmdName,
			Error:   ErrUnknownCommand,
		}
	}

	return handler.Execute(ctx)
}

// DispatchLine parses a typed line and dispatches it.
func (d *Dispatcher) DispatchLine(line string, ctx *Context) (*Result, bool) {
	name, args, ok := Parse(line)
	if !ok {
		return nil, false
	}
	ctx.Args = args
	return d.Dispatch(name, ctx), true
}

// GetHandler returns a handler by name
func (d *Dispatcher) GetHandler(cmdName string) (Handler, bool) {
	h, ok := d.handlers[cmdName]
	return h, ok
}

// Handlers returns all handlers sorted by name.
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Handles reports whether text names a registered command. Anything else,
// including questions that happen to start with a slash, is chat text.
func (d *Dispatcher) Handles(text string) bool {
	name, _, ok := Parse(text)
	if !ok {
		return false
	}
	_, ok = d.handlers[name]
	return ok
}

// Parse splits "/name arg1 arg2" into its parts. Lines that do not start with
// a slash followed by a name, or that span several lines, are not commands.
func Parse(line string) (name string, args []string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") || len(trimmed) < 2 {
		return "", nil, false
	}
	if strings.ContainsAny(trimmed, "\n\r") {
		return "", nil, false
	}
	fields := strings.Fields(trimmed)
	return fields[0], fields[1:], true
}
