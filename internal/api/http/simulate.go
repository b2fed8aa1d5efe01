package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/api/ws"
	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/bridge/presenter"
	"github.com/GriffinCanCode/servicex/internal/browser/headless"
	"github.com/GriffinCanCode/servicex/internal/logging"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/pkg/servicex"
)

// maxSimulationSteps caps the scripted web app messages per request.
const maxSimulationSteps = 100

var errEmptyStep = errors.New("step has no action")

// SimulationStep is one scripted action of the web app or the user. Exactly
// one field should be set; Body goes with Inbound.
type SimulationStep struct {
	Inbound  string         `json:"inbound,omitempty"`
	Body     map[string]any `json:"body,omitempty"`
	Navigate string         `json:"navigate,omitempty"`
	Back     bool           `json:"back,omitempty"`
	Close    bool           `json:"close,omitempty"`
}

// SimulationRequest is the body of POST /simulate.
type SimulationRequest struct {
	ws.StartRequest
	ClaimSucceeds bool             `json:"claimSucceeds"`
	Steps         []SimulationStep `json:"steps"`
}

// PostedMessage is an envelope the bridge posted into the page.
type PostedMessage struct {
	Action  codec.SendAction `json:"action"`
	Payload map[string]any   `json:"payload,omitempty"`
}

// SimulationResult reports what the host and the page saw.
type SimulationResult struct {
	SessionID   string          `json:"sessionId"`
	EntryURL    string          `json:"entryUrl"`
	CurrentURL  string          `json:"currentUrl"`
	Title       string          `json:"title,omitempty"`
	State       string          `json:"state"`
	Status      string          `json:"status"`
	Posted      []PostedMessage `json:"posted"`
	Outcomes    []ws.Outcome    `json:"outcomes"`
	Claims      []string        `json:"claims,omitempty"`
	Redirects   []string        `json:"redirects,omitempty"`
	Affordances ws.Affordances  `json:"affordances"`
	StepErrors  []string        `json:"stepErrors,omitempty"`
}

// Simulator plays a flow against the hosted web app on a headless surface.
// Runs are serialized, and the SDK it drives must use an inline executor so
// each run completes on the request goroutine.
type Simulator struct {
	sdk     *servicex.SDK
	fetcher headless.Fetcher
	log     *logging.Logger

	mu sync.Mutex
}

// NewSimulator creates a simulator loading pages through fetcher.
func NewSimulator(sdk *servicex.SDK, fetcher headless.Fetcher, log *logging.Logger) *Simulator {
	return &Simulator{
		sdk:     sdk,
		fetcher: fetcher,
		log:     logging.OrNop(log).Named("simulate"),
	}
}

// Simulate opens the requested flow headlessly and replays the steps.
func (s *Simulator) Simulate(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if len(req.Steps) > maxSimulationSteps {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("at most %d steps", maxSimulationSteps)})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	res, err := s.Run(ctx, req)
	if err != nil {
		s.log.Info("Simulation not started", zap.String("flow", req.Flow), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// Run executes one simulation.
func (s *Simulator) Run(ctx context.Context, req SimulationRequest) (*SimulationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &recorder{}
	browser := headless.New(s.fetcher, headless.WithLogger(s.log))
	browser.OnPost(func(env codec.Envelope) {
		rec.posted = append(rec.posted, PostedMessage{Action: env.Action, Payload: codec.Decode(env.Body())})
	})
	host := servicex.Host{Surface: browser, Embedder: rec}

	claim := func(credifyID string, done func(ok bool)) {
		rec.claims = append(rec.claims, credifyID)
		done(req.ClaimSucceeds)
	}

	session, err := s.open(ctx, host, req, claim, rec)
	if err != nil {
		return nil, err
	}

	res := &SimulationResult{
		SessionID: session.ID().String(),
		EntryURL:  session.EntryURL(),
	}
	for i, step := range req.Steps {
		if err := replay(session, browser, step); err != nil {
			res.StepErrors = append(res.StepErrors, fmt.Sprintf("step %d: %v", i, err))
		}
	}

	url := browser.CurrentURL()
	a := session.Affordances(url)
	res.CurrentURL = url
	res.Title = browser.Title()
	res.State = session.State().String()
	res.Status = string(session.Status())
	res.Posted = rec.posted
	res.Outcomes = rec.outcomes
	res.Claims = rec.claims
	res.Redirects = rec.redirects
	res.Affordances = ws.Affordances{
		URL:                   a.URL,
		CloseVisible:          a.CloseVisible,
		BackVisible:           a.BackVisible,
		TransparentBackground: a.TransparentBackground,
		FrameworkTheme:        a.FrameworkTheme,
	}

	s.log.Debug("Simulation finished",
		zap.String("session_id", res.SessionID),
		zap.String("flow", req.Flow),
		zap.Int("posted", len(res.Posted)),
		zap.Int("outcomes", len(res.Outcomes)),
	)
	return res, nil
}

func (s *Simulator) open(ctx context.Context, host servicex.Host, req SimulationRequest, claim servicex.ClaimTask, rec *recorder) (*servicex.Session, error) {
	sdk := s.sdk
	switch req.Flow {
	case ws.FlowMypage:
		return sdk.Passport.ShowMypage(host, req.User, claim, rec.dismissed(req.Flow))
	case ws.FlowDetail:
		return sdk.Passport.ShowDetail(host, req.User, req.MarketID, req.ProductTypes, rec.dismissed(req.Flow))
	case ws.FlowOffer:
		return sdk.Offer.PresentByCode(host, req.OfferCode, req.User, claim, rec.redeemed(req.Flow))
	case ws.FlowPromotion:
		return sdk.Offer.PresentPromotionOffers(host, req.OfferCodes, req.User, claim, rec.redeemed(req.Flow))
	case ws.FlowBNPL:
		if len(req.OfferCodes) == 0 {
			return sdk.BNPL.Present(ctx, host, req.User, req.Order, claim, rec.paid(req.Flow))
		}
		return sdk.BNPL.PresentByCodes(host, req.OfferCodes, req.PackageCode, req.User, req.Order, claim, rec.paid(req.Flow))
	default:
		return nil, fmt.Errorf("unknown flow %q", req.Flow)
	}
}

func replay(session *servicex.Session, browser *headless.Browser, step SimulationStep) error {
	switch {
	case step.Inbound != "":
		session.Receive(step.Inbound, step.Body)
	case step.Navigate != "":
		return browser.Load(step.Navigate)
	case step.Back:
		session.GoToPreviousPageOrClose()
	case step.Close:
		session.Close()
	default:
		return errEmptyStep
	}
	return nil
}

// recorder collects host callbacks and embedder signals of one run.
type recorder struct {
	posted    []PostedMessage
	outcomes  []ws.Outcome
	claims    []string
	redirects []string
}

func (r *recorder) Dismiss() {}

func (r *recorder) OpenRedirect(url string) { r.redirects = append(r.redirects, url) }

func (r *recorder) AffordancesChanged(presenter.Affordances) {}

func (r *recorder) dismissed(flow string) func() {
	return func() { r.outcomes = append(r.outcomes, ws.Outcome{Flow: flow}) }
}

func (r *recorder) redeemed(flow string) func(types.RedemptionResult) {
	return func(res types.RedemptionResult) {
		r.outcomes = append(r.outcomes, ws.Outcome{Flow: flow, Status: string(res)})
	}
}

func (r *recorder) paid(flow string) servicex.BNPLCompletion {
	return func(res types.RedemptionResult, orderID string, completed bool) {
		r.outcomes = append(r.outcomes, ws.Outcome{
			Flow:             flow,
			Status:           string(res),
			OrderID:          orderID,
			PaymentCompleted: completed,
		})
	}
}
