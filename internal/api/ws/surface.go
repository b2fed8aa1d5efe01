package ws

import (
	"errors"
	"slices"
	"sync"

	"github.com/GriffinCanCode/servicex/internal/bridge/surface"
	"github.com/GriffinCanCode/servicex/internal/shared/id"
)

// ErrConnClosed completes evaluations still pending when the page goes away.
var ErrConnClosed = errors.New("websocket connection closed")

// Surface drives a browser page over the websocket. The page reports
// navigations and evaluate results; everything else is a command frame.
type Surface struct {
	out *writer

	mu        sync.Mutex
	current   string
	back      []surface.HistoryItem
	observers []func(string)
	pending   map[string]func(any, error)
	closed    bool
}

var (
	_ surface.Surface         = (*Surface)(nil)
	_ surface.ScriptInjector  = (*Surface)(nil)
	_ surface.UserAgentSetter = (*Surface)(nil)
)

func newSurface(out *writer) *Surface {
	return &Surface{out: out, pending: make(map[string]func(any, error))}
}

func (s *Surface) Load(url string) error {
	s.mu.Lock()
	s.current = url
	s.mu.Unlock()
	return s.out.send(Frame{Type: FrameLoad, URL: url})
}

func (s *Surface) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Surface) EvaluateScript(script string, completion func(any, error)) {
	frameID := id.NewFrameID().String()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if completion != nil {
			completion(nil, ErrConnClosed)
		}
		return
	}
	if completion != nil {
		s.pending[frameID] = completion
	}
	s.mu.Unlock()

	if err := s.out.send(Frame{Type: FrameEvaluate, ID: frameID, Script: script}); err != nil {
		s.resolve(frameID, nil, err)
	}
}

func (s *Surface) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.back) > 0
}

func (s *Surface) GoBack() {
	_ = s.out.send(Frame{Type: FrameGoBack})
}

func (s *Surface) BackList() []surface.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.back)
}

func (s *Surface) GoTo(item surface.HistoryItem) {
	_ = s.out.send(Frame{Type: FrameGoTo, URL: item.URL})
}

func (s *Surface) Observe(fn func(string)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Surface) AddUserScript(source string, at surface.InjectionTime) {
	when := "end"
	if at == surface.AtDocumentStart {
		when = "start"
	}
	_ = s.out.send(Frame{Type: FrameUserScript, Script: source, At: when})
}

func (s *Surface) SetUserAgent(ua string) {
	_ = s.out.send(Frame{Type: FrameUserAgent, Message: ua})
}

// navigated records the page's new URL and back list and notifies observers.
func (s *Surface) navigated(url string, history []HistoryEntry) {
	back := make([]surface.HistoryItem, 0, len(history))
	for _, h := range history {
		back = append(back, surface.HistoryItem{URL: h.URL, Title: h.Title})
	}

	s.mu.Lock()
	s.current = url
	s.back = back
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(url)
	}
}

// resolve completes the evaluation frameID. Unknown ids are ignored.
func (s *Surface) resolve(frameID string, value any, err error) bool {
	s.mu.Lock()
	completion, ok := s.pending[frameID]
	delete(s.pending, frameID)
	s.mu.Unlock()
	if !ok {
		return false
	}
	completion(value, err)
	return true
}

// close fails every pending evaluation.
func (s *Surface) close() {
	s.mu.Lock()
	s.closed = true
	pending := s.pending
	s.pending = make(map[string]func(any, error))
	s.mu.Unlock()

	for _, completion := range pending {
		completion(nil, ErrConnClosed)
	}
}
