// Package servicex is the host-facing entry point of the bridge.
//
// A host builds one SDK per API key, then opens sessions on a browser
// surface it owns:
//
//	sdk, err := servicex.New(cfg, servicex.WithLogger(logger))
//	p, err := sdk.Offer.PresentByCode(host, "OFFER-1", user, claimTokens, func(r types.RedemptionResult) {
//		log.Println("redemption", r)
//	})
//
// Present methods run on the host's main loop and return once the entry page
// is loading. Retrieval methods block; their Async variants run on a worker
// goroutine and call back on the main loop.
package servicex

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/api/client"
	"github.com/GriffinCanCode/servicex/internal/bridge/delivery"
	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
	"github.com/GriffinCanCode/servicex/internal/bridge/mainloop"
	"github.com/GriffinCanCode/servicex/internal/bridge/presenter"
	"github.com/GriffinCanCode/servicex/internal/bridge/registry"
	"github.com/GriffinCanCode/servicex/internal/bridge/surface"
	"github.com/GriffinCanCode/servicex/internal/config"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/servicex/internal/logging"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/internal/theme"
	"github.com/GriffinCanCode/servicex/internal/usecase"
)

// Errors returned before a session opens.
var (
	ErrNoOfferCodes    = errors.New("at least one offer code is required")
	ErrNoSurface       = errors.New("host surface is required")
	ErrBNPLUnavailable = usecase.ErrBNPLUnavailable
)

// Re-exported so hosts need not import internal packages.
type (
	User             = types.User
	Order            = types.Order
	Theme            = types.Theme
	RedemptionResult = types.RedemptionResult
	ProductType      = types.ProductType
	OfferListInfo    = types.OfferListInfo
	ClaimTask        = delivery.ClaimTask
	Session          = presenter.Presenter
)

// Host is the UI the session renders into.
type Host struct {
	Surface  surface.Surface
	Embedder presenter.Embedder
}

// Option configures an SDK.
type Option func(*SDK)

func WithLogger(l *logging.Logger) Option { return func(s *SDK) { s.log = l } }

func WithMetrics(m *monitoring.Metrics) Option { return func(s *SDK) { s.metrics = m } }

// WithExecutor sets the main loop sessions and async callbacks run on.
func WithExecutor(e mainloop.Executor) Option { return func(s *SDK) { s.exec = e } }

// WithAPI replaces the platform API, e.g. with a test double.
func WithAPI(api usecase.API) Option { return func(s *SDK) { s.api = api } }

// WithTheme sets the theme sent to the web app.
func WithTheme(t types.Theme) Option { return func(s *SDK) { s.theme = &t } }

func withClient(c *client.Client) Option {
	return func(s *SDK) {
		s.client = c
		s.api = usecase.Remote{Doer: c}
	}
}

// SDK is one configured bridge instance.
type SDK struct {
	cfg      *config.Config
	root     *logging.Logger
	log      *logging.Logger
	metrics  *monitoring.Metrics
	exec     mainloop.Executor
	api      usecase.API
	theme    *types.Theme
	registry *registry.Registry
	client   *client.Client

	offers *usecase.Offers
	bnpl   *usecase.BNPL

	Passport *Passport
	Offer    *Offer
	BNPL     *BNPL
}

// New validates cfg and builds an SDK.
func New(cfg *config.Config, opts ...Option) (*SDK, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &SDK{cfg: cfg, registry: registry.New()}
	for _, opt := range opts {
		opt(s)
	}
	s.root = logging.OrNop(s.log)
	s.log = s.root.Named("servicex")
	if s.exec == nil {
		s.exec = &mainloop.Inline{}
	}
	if s.theme == nil && cfg.SDK.ThemeFile != "" {
		th, err := theme.Load(cfg.SDK.ThemeFile)
		if err != nil {
			return nil, fmt.Errorf("load theme: %w", err)
		}
		s.theme = &th
	}
	if s.api == nil {
		copts := client.OptionsFromConfig(cfg)
		copts.Logger = s.log
		copts.Metrics = s.metrics
		s.client = client.New(copts)
		s.api = usecase.Remote{Doer: s.client}
	}

	s.offers = usecase.NewOffers(s.api, s.log)
	s.bnpl = usecase.NewBNPL(s.offers, usecase.NewOrganizations(s.api))
	s.Passport = &Passport{sdk: s}
	s.Offer = &Offer{sdk: s}
	s.BNPL = &BNPL{sdk: s}

	s.log.Info("SDK ready",
		zap.String("env", string(cfg.SDK.Env)),
		zap.String("version", config.SDKVersion),
		zap.String("web", cfg.WebBaseURL()))
	return s, nil
}

// Derive builds a sibling SDK sharing the platform client, logger, metrics
// and theme, with its own close-button registry. opts override the shared
// values, typically WithExecutor.
func (s *SDK) Derive(opts ...Option) (*SDK, error) {
	base := []Option{WithLogger(s.root), WithMetrics(s.metrics), WithExecutor(s.exec)}
	if s.client != nil {
		base = append(base, withClient(s.client))
	} else {
		base = append(base, WithAPI(s.api))
	}
	if s.theme != nil {
		base = append(base, WithTheme(*s.theme))
	}
	return New(s.cfg, append(base, opts...)...)
}

// Settings returns the values every flow context is rendered with.
func (s *SDK) Settings() flow.Settings {
	return flow.Settings{
		WebURL:   s.cfg.WebBaseURL(),
		MarketID: s.cfg.SDK.MarketID,
		Language: types.Language(s.cfg.SDK.Language),
		Theme:    s.theme,
	}
}

// Registry returns the close-button registry shared by this SDK's sessions.
func (s *SDK) Registry() *registry.Registry { return s.registry }

// Config returns the configuration the SDK was built with.
func (s *SDK) Config() *config.Config { return s.cfg }

// BreakerState reports the API circuit breaker state, or "external" when the
// platform API was supplied through WithAPI.
func (s *SDK) BreakerState() string {
	if s.client == nil {
		return "external"
	}
	return s.client.BreakerState().String()
}

// Executor returns the main loop.
func (s *SDK) Executor() mainloop.Executor { return s.exec }

// open starts a session for fc on host.
func (s *SDK) open(host Host, fc flow.Context, cb delivery.Callbacks) (*presenter.Presenter, error) {
	if host.Surface == nil {
		return nil, ErrNoSurface
	}

	p := presenter.New(fc, host.Surface, delivery.New(cb), presenter.Options{
		Settings:  s.Settings(),
		Registry:  s.registry,
		Executor:  s.exec,
		Embedder:  host.Embedder,
		Logger:    s.log,
		Metrics:   s.metrics,
		UserAgent: s.cfg.SDK.UserAgent,
	})
	if err := p.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

// async runs fn on a worker goroutine and hands its result to done on the
// main loop.
func async[T any](exec mainloop.Executor, fn func() (T, error), done func(T, error)) {
	go func() {
		v, err := fn()
		exec.Post(func() { done(v, err) })
	}()
}
