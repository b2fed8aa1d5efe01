package headless

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/bridge/surface"
	"github.com/GriffinCanCode/servicex/internal/browser/sandbox"
	"github.com/GriffinCanCode/servicex/internal/logging"
)

// Option configures a Browser.
type Option func(*Browser)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(b *Browser) { b.log = logging.OrNop(l).Named("headless") }
}

// WithSandbox overrides the script runtime configuration.
func WithSandbox(cfg sandbox.Config) Option {
	return func(b *Browser) { b.runtime = sandbox.New(cfg) }
}

// Browser is a surface.Surface that renders pages into a goquery document and
// runs scripts in a sandbox. Page scripts are stripped; only user scripts and
// scripts evaluated by the host run.
type Browser struct {
	fetcher Fetcher
	runtime *sandbox.Runtime
	policy  *bluemonday.Policy
	log     *logging.Logger

	mu        sync.Mutex
	current   surface.HistoryItem
	back      []surface.HistoryItem
	forward   []surface.HistoryItem
	observers []func(string)
	scripts   map[surface.InjectionTime][]string
	userAgent string
	posted    []codec.Envelope
	onPost    func(codec.Envelope)
}

var (
	_ surface.Surface         = (*Browser)(nil)
	_ surface.ScriptInjector  = (*Browser)(nil)
	_ surface.UserAgentSetter = (*Browser)(nil)
)

// New creates a browser that loads pages through f.
func New(f Fetcher, opts ...Option) *Browser {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id", "class", "role", "aria-label").Globally()
	policy.AllowDataAttributes()

	b := &Browser{
		fetcher: f,
		runtime: sandbox.New(sandbox.DefaultConfig()),
		policy:  policy,
		log:     logging.NewNop(),
		scripts: make(map[surface.InjectionTime][]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.runtime.OnPostMessage(b.receivePost)
	return b
}

// OnPost registers a receiver for envelopes the bridge posts to the page.
func (b *Browser) OnPost(fn func(codec.Envelope)) {
	b.mu.Lock()
	b.onPost = fn
	b.mu.Unlock()
}

// Posted returns every envelope posted to pages so far.
func (b *Browser) Posted() []codec.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]codec.Envelope(nil), b.posted...)
}

// Load navigates to url, pushing the current page onto the back list.
func (b *Browser) Load(url string) error {
	page, err := b.fetch(url)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if b.current.URL != "" {
		b.back = append(b.back, b.current)
	}
	b.forward = nil
	b.mu.Unlock()

	b.show(page)
	return nil
}

func (b *Browser) CurrentURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current.URL
}

// Title returns the current page title.
func (b *Browser) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current.Title
}

// Document returns the rendered document of the current page.
func (b *Browser) Document() *goquery.Document {
	return b.runtime.Document()
}

// EvaluateScript runs script synchronously and reports through completion.
func (b *Browser) EvaluateScript(script string, completion func(any, error)) {
	result, err := b.runtime.Execute(context.Background(), script)
	if err != nil {
		b.log.Debug("Script evaluation failed", zap.Error(err))
	}
	if completion != nil {
		completion(result, err)
	}
}

func (b *Browser) CanGoBack() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.back) > 0
}

// GoBack returns to the previous page. It does nothing without history.
func (b *Browser) GoBack() {
	b.mu.Lock()
	if len(b.back) == 0 {
		b.mu.Unlock()
		return
	}
	target := b.back[len(b.back)-1]
	b.mu.Unlock()
	b.GoTo(target)
}

// GoForward undoes a GoBack.
func (b *Browser) GoForward() {
	b.mu.Lock()
	if len(b.forward) == 0 {
		b.mu.Unlock()
		return
	}
	target := b.forward[0]
	b.mu.Unlock()

	page, err := b.fetch(target.URL)
	if err != nil {
		b.log.Warn("Forward navigation failed", zap.String("url", target.URL), zap.Error(err))
		return
	}
	b.mu.Lock()
	b.back = append(b.back, b.current)
	b.forward = b.forward[1:]
	b.mu.Unlock()
	b.show(page)
}

func (b *Browser) BackList() []surface.HistoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]surface.HistoryItem(nil), b.back...)
}

// GoTo jumps to an entry of the back list. Entries after it, and the current
// page, move to the forward list.
func (b *Browser) GoTo(item surface.HistoryItem) {
	b.mu.Lock()
	idx := -1
	for i := len(b.back) - 1; i >= 0; i-- {
		if b.back[i].URL == item.URL {
			idx = i
			break
		}
	}
	b.mu.Unlock()
	if idx < 0 {
		b.log.Debug("History entry not found", zap.String("url", item.URL))
		return
	}

	page, err := b.fetch(item.URL)
	if err != nil {
		b.log.Warn("History navigation failed", zap.String("url", item.URL), zap.Error(err))
		return
	}

	b.mu.Lock()
	skipped := append([]surface.HistoryItem(nil), b.back[idx+1:]...)
	forward := append(skipped, b.current)
	b.forward = append(forward, b.forward...)
	b.back = b.back[:idx]
	b.mu.Unlock()

	b.show(page)
}

func (b *Browser) Observe(fn func(string)) {
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

func (b *Browser) AddUserScript(source string, at surface.InjectionTime) {
	b.mu.Lock()
	b.scripts[at] = append(b.scripts[at], source)
	b.mu.Unlock()
}

func (b *Browser) SetUserAgent(ua string) {
	b.mu.Lock()
	b.userAgent = ua
	b.mu.Unlock()
}

// UserAgent returns the agent sent with page requests.
func (b *Browser) UserAgent() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.userAgent
}

func (b *Browser) fetch(url string) (Page, error) {
	page, err := b.fetcher.Fetch(context.Background(), url, b.UserAgent())
	if err != nil {
		return Page{}, err
	}
	if page.URL == "" {
		page.URL = url
	}
	return page, nil
}

// show renders page, runs user scripts and notifies observers.
func (b *Browser) show(page Page) {
	title := pageTitle(page.HTML)
	doc, err := b.render(page.HTML, title)
	if err != nil {
		b.log.Warn("Failed to render page", zap.String("url", page.URL), zap.Error(err))
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	b.runtime.Load(doc, page.URL)

	b.mu.Lock()
	b.current = surface.HistoryItem{URL: page.URL, Title: title}
	start := append([]string(nil), b.scripts[surface.AtDocumentStart]...)
	end := append([]string(nil), b.scripts[surface.AtDocumentEnd]...)
	observers := slices.Clone(b.observers)
	b.mu.Unlock()

	for _, s := range start {
		b.EvaluateScript(s, nil)
	}
	for _, s := range end {
		b.EvaluateScript(s, nil)
	}
	for _, fn := range observers {
		fn(page.URL)
	}
}

// render sanitizes the body markup and rebuilds a document around it.
func (b *Browser) render(raw, title string) (*goquery.Document, error) {
	src, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	body, err := src.Find("body").Html()
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><head></head><body></body></html>"))
	if err != nil {
		return nil, err
	}
	if title != "" {
		doc.Find("head").AppendHtml("<title></title>")
		doc.Find("title").SetText(title)
	}
	doc.Find("body").SetHtml(b.policy.Sanitize(body))
	return doc, nil
}

func pageTitle(raw string) string {
	node, err := htmlquery.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	title := htmlquery.FindOne(node, "//title")
	if title == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(title))
}

func (b *Browser) receivePost(msg sandbox.PostedMessage) {
	raw, ok := msg.Data.(string)
	if !ok {
		b.log.Debug("Ignoring non-string postMessage")
		return
	}
	env, err := codec.ParseEnvelope(raw)
	if err != nil || env.Type != codec.ActionType {
		b.log.Debug("Ignoring foreign postMessage", zap.Error(err))
		return
	}

	b.mu.Lock()
	b.posted = append(b.posted, env)
	fn := b.onPost
	b.mu.Unlock()
	if fn != nil {
		fn(env)
	}
}
