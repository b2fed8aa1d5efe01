package presenter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/bridge/delivery"
	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
	"github.com/GriffinCanCode/servicex/internal/bridge/mainloop"
	"github.com/GriffinCanCode/servicex/internal/bridge/registry"
	"github.com/GriffinCanCode/servicex/internal/bridge/surface"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/servicex/internal/locale"
	"github.com/GriffinCanCode/servicex/internal/logging"
	"github.com/GriffinCanCode/servicex/internal/shared/id"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/internal/theme"
)

// Embedder is the UI layer hosting the surface. All methods are called on
// the main loop.
type Embedder interface {
	// Dismiss closes the view once the session is closed.
	Dismiss()
	// OpenRedirect opens url in a secondary simple browser.
	OpenRedirect(url string)
	// AffordancesChanged reports recomputed button and background state
	// after a navigation or a registry update.
	AffordancesChanged(a Affordances)
}

// Affordances is the UI state derived for one URL.
type Affordances struct {
	URL                   string
	CloseVisible          bool
	BackVisible           bool
	TransparentBackground bool
	FrameworkTheme        bool
}

// Options configures a Presenter.
type Options struct {
	Settings  flow.Settings
	Registry  *registry.Registry
	Executor  mainloop.Executor
	Embedder  Embedder
	Logger    *logging.Logger
	Metrics   *monitoring.Metrics
	UserAgent string
	SessionID id.SessionID
}

// Presenter is one bridge session.
type Presenter struct {
	flow      flow.Context
	settings  flow.Settings
	pages     flow.Pages
	registry  *registry.Registry
	surface   surface.Surface
	deliverer *delivery.Deliverer
	exec      mainloop.Executor
	embedder  Embedder
	log       *logging.Logger
	metrics   *monitoring.Metrics
	userAgent string
	id        id.SessionID

	state     State
	status    types.RedemptionResult
	credifyID string
	started   bool
}

// New builds a session for fc on surf. The session owns d.
func New(fc flow.Context, surf surface.Surface, d *delivery.Deliverer, opts Options) *Presenter {
	if opts.Registry == nil {
		opts.Registry = registry.New()
	}
	if opts.Executor == nil {
		opts.Executor = &mainloop.Inline{}
	}
	if opts.SessionID == "" {
		opts.SessionID = id.NewSessionID()
	}
	if d == nil {
		d = delivery.New(delivery.Callbacks{})
	}

	log := logging.OrNop(opts.Logger).Named("presenter").With(
		zap.String("session", opts.SessionID.String()),
		zap.String("flow", string(fc.Category())),
	)

	return &Presenter{
		flow:      fc,
		settings:  opts.Settings,
		pages:     flow.NewPages(opts.Settings.WebURL),
		registry:  opts.Registry,
		surface:   surf,
		deliverer: d,
		exec:      opts.Executor,
		embedder:  opts.Embedder,
		log:       log,
		metrics:   opts.Metrics,
		userAgent: opts.UserAgent,
		id:        opts.SessionID,
		state:     StateAwaitingInitialLoad,
		status:    types.RedemptionCanceled,
	}
}

// ID returns the session id.
func (p *Presenter) ID() id.SessionID { return p.id }

// Flow returns the session's flow context.
func (p *Presenter) Flow() flow.Context { return p.flow }

// State returns the lifecycle state.
func (p *Presenter) State() State { return p.state }

// Status returns the offer transaction status.
func (p *Presenter) Status() types.RedemptionResult { return p.status }

// CredifyID returns the correlation id learned from createUserCompleted.
func (p *Presenter) CredifyID() string { return p.credifyID }

// EntryURL returns the page the session starts on.
func (p *Presenter) EntryURL() string { return p.flow.EntryURL(p.settings) }

// Start configures the surface and loads the entry page. Call it on the
// main loop.
func (p *Presenter) Start() error {
	if p.started {
		return fmt.Errorf("session %s already started", p.id)
	}
	p.started = true

	if inj, ok := p.surface.(surface.ScriptInjector); ok {
		inj.AddUserScript(surface.DisableZoomScript, surface.AtDocumentEnd)
		if script, ok := locale.AppLanguageScript(p.settings.Language); ok {
			inj.AddUserScript(script, surface.AtDocumentStart)
		}
	}
	if ua, ok := p.surface.(surface.UserAgentSetter); ok && p.userAgent != "" {
		ua.SetUserAgent(p.userAgent)
	}

	p.surface.Observe(func(url string) {
		p.exec.Post(func() { p.onNavigate(url) })
	})

	entry := p.EntryURL()
	if err := p.surface.Load(entry); err != nil {
		return fmt.Errorf("load %s: %w", entry, err)
	}
	p.metrics.SessionOpened(string(p.flow.Category()))
	p.log.Info("Session started", zap.String("url", entry))
	return nil
}

// Receive queues an inbound message for handling on the main loop. Safe to
// call from any goroutine.
func (p *Presenter) Receive(name string, body map[string]any) {
	msg := codec.Inbound{Name: codec.ReceiveAction(name), Body: body}
	p.exec.Post(func() { p.Handle(msg) })
}

// Close ends the session as if the web app sent actionClose. Used by host
// close buttons.
func (p *Presenter) Close() {
	p.finish()
}

func (p *Presenter) onNavigate(url string) {
	if p.state == StateClosed {
		return
	}
	p.publishAffordances(url)
}

func (p *Presenter) publishAffordances(url string) {
	if p.embedder == nil {
		return
	}
	p.embedder.AffordancesChanged(p.Affordances(url))
}

// send posts an outbound message to the page.
func (p *Presenter) send(action codec.SendAction, payload any) {
	envelope, err := codec.Encode(action, payload)
	if err != nil {
		p.log.Error("Failed to encode outbound message", zap.String("action", string(action)), zap.Error(err))
		return
	}
	p.metrics.RecordOutbound(string(action))
	p.surface.EvaluateScript(codec.PostMessageScript(envelope), func(_ any, err error) {
		if err != nil {
			p.log.Warn("Outbound message evaluation failed", zap.String("action", string(action)), zap.Error(err))
		}
	})
}

// finish runs the close path once: deliver, mark closed, dismiss.
func (p *Presenter) finish() {
	if p.state == StateClosing || p.state == StateClosed {
		return
	}
	p.state = StateClosing
	p.deliver(false)
	p.state = StateClosed
	p.metrics.SessionClosed()
	p.log.Info("Session closed", zap.String("status", string(p.status)))
	if p.embedder != nil {
		p.embedder.Dismiss()
	}
}

func (p *Presenter) deliver(paymentCompleted bool) {
	out := delivery.Outcome{Status: p.status, PaymentCompleted: paymentCompleted}
	if b, ok := p.flow.(flow.BNPLCheckout); ok {
		out.OrderID = b.Order.OrderID
	}
	if p.deliverer.Deliver(p.flow.Category(), out) {
		p.metrics.RecordResult(string(p.flow.Category()), string(p.status))
	}
}

// Theme returns the theme the page should render with.
func (p *Presenter) Theme() types.Theme {
	if p.ShouldUseFrameworkTheme() || p.settings.Theme == nil {
		return theme.Framework()
	}
	return *p.settings.Theme
}
