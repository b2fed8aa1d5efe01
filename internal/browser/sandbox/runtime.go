package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
)

var ErrInterrupted = errors.New("script interrupted")

// Runtime is a page's script context: a goja VM exposing window, document and
// console over a goquery document.
type Runtime struct {
	cfg Config

	mu  sync.Mutex
	vm  *goja.Runtime
	doc *goquery.Document
	url string

	logMu   sync.Mutex
	console []LogEntry

	postMu sync.Mutex
	onPost func(PostedMessage)
}

// New creates a runtime with an empty document.
func New(cfg Config) *Runtime {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	r := &Runtime{cfg: cfg}
	r.reset(nil, "about:blank")
	return r
}

// OnPostMessage registers the receiver of window.postMessage calls. It runs
// on the goroutine executing the script.
func (r *Runtime) OnPostMessage(fn func(PostedMessage)) {
	r.postMu.Lock()
	r.onPost = fn
	r.postMu.Unlock()
}

// Load replaces the VM with a fresh one bound to doc, as a navigation does.
func (r *Runtime) Load(doc *goquery.Document, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset(doc, url)
}

// Document returns the current document.
func (r *Runtime) Document() *goquery.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc
}

// Execute runs script and exports its completion value.
func (r *Runtime) Execute(ctx context.Context, script string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vm := r.vm
	done := make(chan struct{})
	timer := time.NewTimer(r.cfg.Timeout)
	defer timer.Stop()

	go func() {
		select {
		case <-timer.C:
			vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	val, err := vm.RunString(script)
	close(done)
	vm.ClearInterrupt()

	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, interrupted.Value())
		}
		return nil, err
	}
	return export(val), nil
}

// Global returns a global variable, or nil when it is unset.
func (r *Runtime) Global(name string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return export(r.vm.Get(name))
}

// Console returns the console entries since the last load.
func (r *Runtime) Console() []LogEntry {
	r.logMu.Lock()
	defer r.logMu.Unlock()
	return append([]LogEntry(nil), r.console...)
}

func (r *Runtime) reset(doc *goquery.Document, url string) {
	if doc == nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader("<html><head></head><body></body></html>"))
	}
	r.doc = doc
	r.url = url
	r.vm = goja.New()
	if r.cfg.MaxCallStack > 0 {
		r.vm.SetMaxCallStackSize(r.cfg.MaxCallStack)
	}

	r.logMu.Lock()
	r.console = nil
	r.logMu.Unlock()

	r.setupGlobals()
}

func (r *Runtime) setupGlobals() {
	vm := r.vm
	global := vm.GlobalObject()

	for _, name := range []string{"require", "process", "module", "exports"} {
		_ = vm.Set(name, goja.Undefined())
	}
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	_ = vm.Set("setTimeout", noop)
	_ = vm.Set("setInterval", noop)

	_ = vm.Set("window", global)
	_ = global.Set("postMessage", r.postMessage)
	location := vm.NewObject()
	_ = location.Set("href", r.url)
	_ = global.Set("location", location)

	if r.cfg.EnableConsole {
		console := vm.NewObject()
		for _, level := range []string{"log", "info", "warn", "error"} {
			_ = console.Set(level, r.consoleFunc(level))
		}
		_ = vm.Set("console", console)
	}

	_ = vm.Set("document", newDocument(vm, r.doc))
}

func (r *Runtime) postMessage(call goja.FunctionCall) goja.Value {
	msg := PostedMessage{Data: export(call.Argument(0))}
	if len(call.Arguments) > 1 {
		msg.TargetOrigin = call.Argument(1).String()
	}

	r.postMu.Lock()
	fn := r.onPost
	r.postMu.Unlock()
	if fn != nil {
		fn(msg)
	}
	return goja.Undefined()
}

func (r *Runtime) consoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}

		r.logMu.Lock()
		r.console = append(r.console, LogEntry{Level: level, Message: strings.Join(parts, " "), Time: time.Now()})
		r.logMu.Unlock()
		return goja.Undefined()
	}
}

func export(val goja.Value) any {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}
