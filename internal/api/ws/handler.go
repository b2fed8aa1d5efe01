package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/bridge/mainloop"
	"github.com/GriffinCanCode/servicex/internal/bridge/presenter"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/servicex/internal/logging"
	"github.com/GriffinCanCode/servicex/internal/shared/id"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/internal/shared/utils"
	"github.com/GriffinCanCode/servicex/pkg/servicex"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 2 * utils.MaxInboundSize
)

// Options configures a Handler.
type Options struct {
	Logger  *logging.Logger
	Metrics *monitoring.Metrics
	Tracer  *tracing.Tracer
	// CheckOrigin vets the upgrade request. Nil allows every origin.
	CheckOrigin func(r *http.Request) bool
}

// Handler upgrades harness connections and runs one bridge session at a time
// per connection.
type Handler struct {
	sdk      *servicex.SDK
	log      *logging.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler backed by sdk.
func NewHandler(sdk *servicex.SDK, opts Options) *Handler {
	check := opts.CheckOrigin
	if check == nil {
		check = func(*http.Request) bool { return true }
	}
	return &Handler{
		sdk:      sdk,
		log:      logging.OrNop(opts.Logger).Named("ws"),
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		upgrader: websocket.Upgrader{CheckOrigin: check},
	}
}

// HandleConnection upgrades the request and serves frames until the page
// disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()
	ws.SetReadLimit(maxFrameSize)

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	conn := h.newConnection(c.Request.Context(), ws)
	defer conn.shutdown()

	_ = conn.out.send(Frame{Type: FrameSystem, Message: "Connected to servicex bridge harness", ID: conn.id.String()})
	conn.readLoop()
}

type connection struct {
	id      id.ConnID
	h       *Handler
	ctx     context.Context
	out     *writer
	exec    mainloop.Executor
	log     *logging.Logger
	span    *tracing.Span
	session *servicex.Session // main loop only

	mu     sync.Mutex
	surf   *Surface
	claims []func(bool)
}

func (h *Handler) newConnection(ctx context.Context, ws *websocket.Conn) *connection {
	connID := id.NewConnID()
	c := &connection{
		id:   connID,
		h:    h,
		out:  &writer{conn: ws, metrics: h.metrics},
		exec: h.sdk.Executor(),
		log:  h.log.With(zap.String("conn", connID.String())),
	}
	if h.tracer != nil {
		c.span, ctx = h.tracer.StartSpan(ctx, "ws.connection")
		c.span.SetTag("conn", connID.String())
	}
	c.ctx = ctx
	c.log.Info("WebSocket connected")
	return c
}

func (c *connection) readLoop() {
	for {
		_, data, err := c.out.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var f Frame
		if err := sonic.Unmarshal(data, &f); err != nil {
			_ = c.out.sendError("malformed frame")
			continue
		}
		c.h.metrics.RecordWSMessage("in", f.Type)
		c.event("frame", map[string]string{"type": f.Type})
		c.dispatch(f)
	}
}

func (c *connection) dispatch(f Frame) {
	switch f.Type {
	case FrameStart:
		if f.Start == nil {
			_ = c.out.sendError("start frame without start request")
			return
		}
		req := *f.Start
		c.exec.Post(func() { c.start(req) })

	case FrameInbound:
		msg, err := codec.ParseInbound(f.Inbound)
		if err != nil {
			c.log.Debug("Inbound frame rejected", zap.Error(err))
			_ = c.out.sendError(err.Error())
			return
		}
		c.onSession(func(s *servicex.Session) { s.Handle(msg) })

	case FrameNavigation:
		if surf := c.surface(); surf != nil {
			surf.navigated(f.URL, f.History)
		}

	case FrameResult:
		var err error
		if f.Error != "" {
			err = fmt.Errorf("page: %s", f.Error)
		}
		if surf := c.surface(); surf == nil || !surf.resolve(f.ID, f.Value, err) {
			c.log.Debug("Result for unknown frame", zap.String("id", f.ID))
		}

	case FrameClaimDone:
		c.claimDone(f.OK != nil && *f.OK)

	case FrameBack:
		c.onSession(func(s *servicex.Session) { s.GoToPreviousPageOrClose() })

	case FrameClose:
		c.onSession(func(s *servicex.Session) { s.Close() })

	case FramePing:
		_ = c.out.send(Frame{Type: FramePong})

	default:
		_ = c.out.sendError("unknown frame type")
	}
}

// onSession runs fn on the main loop against the current session, if any.
func (c *connection) onSession(fn func(*servicex.Session)) {
	c.exec.Post(func() {
		if c.session == nil {
			_ = c.out.sendError("no active session")
			return
		}
		fn(c.session)
	})
}

// start opens the requested flow, replacing any running session. Runs on
// the main loop.
func (c *connection) start(req StartRequest) {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}

	surf := newSurface(c.out)
	c.setSurface(surf)
	host := servicex.Host{Surface: surf, Embedder: embedder{c}}
	sdk := c.h.sdk

	var (
		s   *servicex.Session
		err error
	)
	switch req.Flow {
	case FlowMypage:
		s, err = sdk.Passport.ShowMypage(host, req.User, c.claim, c.dismissed(req.Flow))
	case FlowDetail:
		s, err = sdk.Passport.ShowDetail(host, req.User, req.MarketID, req.ProductTypes, c.dismissed(req.Flow))
	case FlowOffer:
		s, err = sdk.Offer.PresentByCode(host, req.OfferCode, req.User, c.claim, c.redeemed(req.Flow))
	case FlowPromotion:
		s, err = sdk.Offer.PresentPromotionOffers(host, req.OfferCodes, req.User, c.claim, c.redeemed(req.Flow))
	case FlowBNPL:
		if len(req.OfferCodes) == 0 {
			sdk.BNPL.PresentAsync(c.ctx, host, req.User, req.Order, c.claim, c.paid, func(s *servicex.Session, err error) {
				c.opened(req.Flow, s, err)
			})
			return
		}
		s, err = sdk.BNPL.PresentByCodes(host, req.OfferCodes, req.PackageCode, req.User, req.Order, c.claim, c.paid)
	default:
		err = fmt.Errorf("unknown flow %q", req.Flow)
	}
	c.opened(req.Flow, s, err)
}

func (c *connection) opened(flow string, s *servicex.Session, err error) {
	if err != nil {
		c.log.Info("Session not opened", zap.String("flow", flow), zap.Error(err))
		_ = c.out.sendError(err.Error())
		return
	}
	c.session = s
	if c.span != nil {
		c.span.SetTag("flow", flow)
	}
	c.event("session", map[string]string{"id": s.ID().String(), "flow": flow})
	_ = c.out.send(Frame{Type: FrameSession, Session: &SessionInfo{
		ID:       s.ID().String(),
		Flow:     flow,
		EntryURL: s.EntryURL(),
	}})
}

func (c *connection) dismissed(flow string) func() {
	return func() {
		_ = c.out.send(Frame{Type: FrameOutcome, Outcome: &Outcome{Flow: flow}})
	}
}

func (c *connection) redeemed(flow string) func(types.RedemptionResult) {
	return func(r types.RedemptionResult) {
		_ = c.out.send(Frame{Type: FrameOutcome, Outcome: &Outcome{Flow: flow, Status: string(r)}})
	}
}

func (c *connection) paid(r types.RedemptionResult, orderID string, paymentCompleted bool) {
	_ = c.out.send(Frame{Type: FrameOutcome, Outcome: &Outcome{
		Flow:             FlowBNPL,
		Status:           string(r),
		OrderID:          orderID,
		PaymentCompleted: paymentCompleted,
	}})
}

// claim asks the page to play the host's claim step. The page answers with
// a claimDone frame.
func (c *connection) claim(credifyID string, done func(bool)) {
	c.mu.Lock()
	c.claims = append(c.claims, done)
	c.mu.Unlock()
	if err := c.out.send(Frame{Type: FrameClaim, Message: credifyID}); err != nil {
		c.claimDone(false)
	}
}

func (c *connection) claimDone(ok bool) {
	c.mu.Lock()
	if len(c.claims) == 0 {
		c.mu.Unlock()
		return
	}
	done := c.claims[0]
	c.claims = c.claims[1:]
	c.mu.Unlock()
	done(ok)
}

func (c *connection) surface() *Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surf
}

func (c *connection) setSurface(s *Surface) {
	c.mu.Lock()
	old := c.surf
	c.surf = s
	c.mu.Unlock()
	if old != nil {
		old.close()
	}
}

func (c *connection) event(message string, fields map[string]string) {
	if c.span != nil {
		c.span.AddEvent(message, fields)
	}
}

// shutdown closes the running session and fails pending work.
func (c *connection) shutdown() {
	c.exec.Post(func() {
		if c.session != nil {
			c.session.Close()
			c.session = nil
		}
	})
	c.setSurface(nil)
	for {
		c.mu.Lock()
		n := len(c.claims)
		c.mu.Unlock()
		if n == 0 {
			break
		}
		c.claimDone(false)
	}

	if c.span != nil {
		c.span.Finish()
		c.h.tracer.Submit(c.span)
	}
	c.log.Info("WebSocket disconnected")
}

// embedder forwards chrome changes to the page.
type embedder struct {
	c *connection
}

func (e embedder) Dismiss() {
	_ = e.c.out.send(Frame{Type: FrameDismiss})
}

func (e embedder) OpenRedirect(url string) {
	_ = e.c.out.send(Frame{Type: FrameRedirect, URL: url})
}

func (e embedder) AffordancesChanged(a presenter.Affordances) {
	_ = e.c.out.send(Frame{Type: FrameAffordances, Affordances: &Affordances{
		URL:                   a.URL,
		CloseVisible:          a.CloseVisible,
		BackVisible:           a.BackVisible,
		TransparentBackground: a.TransparentBackground,
		FrameworkTheme:        a.FrameworkTheme,
	}})
}

// writer serializes frames onto the connection.
type writer struct {
	conn    *websocket.Conn
	metrics *monitoring.Metrics

	mu sync.Mutex
}

func (w *writer) send(f Frame) error {
	if f.Timestamp == 0 {
		f.Timestamp = time.Now().Unix()
	}
	data, err := sonic.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", f.Type, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s frame: %w", f.Type, err)
	}
	w.metrics.RecordWSMessage("out", f.Type)
	return nil
}

func (w *writer) sendError(message string) error {
	return w.send(Frame{Type: FrameError, Message: message})
}
