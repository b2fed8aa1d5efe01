package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/servicex/internal/config"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/servicex/pkg/servicex"
	"github.com/GriffinCanCode/servicex/tests/helpers/testutil"
)

const origin = "https://app.test"

type page struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T) *page {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.SDK.APIKey = "key"
	cfg.SDK.WebURL = origin
	sdk, err := servicex.New(cfg, servicex.WithAPI(testutil.NewMockPlatformAPI(t)))
	require.NoError(t, err)

	tracer := tracing.New("test", nil)
	t.Cleanup(tracer.Close)
	h := NewHandler(sdk, Options{Metrics: monitoring.NewMetrics(), Tracer: tracer})

	router := gin.New()
	router.GET("/ws", h.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	p := &page{t: t, conn: conn}
	hello := p.read()
	require.Equal(t, FrameSystem, hello.Type)
	assert.True(t, strings.HasPrefix(hello.ID, "conn_"))
	return p
}

func (p *page) send(f Frame) {
	p.t.Helper()
	data, err := sonic.Marshal(f)
	require.NoError(p.t, err)
	require.NoError(p.t, p.conn.WriteMessage(websocket.TextMessage, data))
}

func (p *page) inbound(raw string) {
	p.send(Frame{Type: FrameInbound, Inbound: []byte(raw)})
}

func (p *page) read() Frame {
	p.t.Helper()
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := p.conn.ReadMessage()
	require.NoError(p.t, err)
	var f Frame
	require.NoError(p.t, sonic.Unmarshal(data, &f))
	return f
}

// next skips frames until one of type typ arrives.
func (p *page) next(typ string) Frame {
	p.t.Helper()
	for {
		f := p.read()
		if f.Type == typ {
			return f
		}
		if f.Type == FrameError {
			p.t.Fatalf("unexpected error frame while waiting for %s: %s", typ, f.Message)
		}
	}
}

func TestOfferSessionOverWebSocket(t *testing.T) {
	p := dial(t)
	user := testutil.TestUser()

	p.send(Frame{Type: FrameStart, Start: &StartRequest{Flow: FlowOffer, User: user, OfferCode: "OFF1"}})

	script := p.next(FrameUserScript)
	assert.Equal(t, "end", script.At)
	assert.Contains(t, script.Script, "viewport")

	load := p.next(FrameLoad)
	assert.Equal(t, origin+"/initial", load.URL)

	session := p.next(FrameSession)
	require.NotNil(t, session.Session)
	assert.Equal(t, FlowOffer, session.Session.Flow)
	assert.True(t, strings.HasPrefix(session.Session.ID, "sess_"))

	p.send(Frame{Type: FrameNavigation, URL: origin + "/initial"})
	aff := p.next(FrameAffordances)
	require.NotNil(t, aff.Affordances)
	assert.Equal(t, origin+"/initial", aff.Affordances.URL)

	p.inbound(`{"name":"initialLoadCompleted"}`)
	eval := p.next(FrameEvaluate)
	assert.True(t, strings.HasPrefix(eval.ID, "frame_"))
	assert.Contains(t, eval.Script, "startRedemption")
	p.send(Frame{Type: FrameResult, ID: eval.ID, Value: true})

	p.inbound(`{"name":"offerTransactionStatusChanged","body":{"payload":{"status":"COMPLETED"}}}`)
	p.inbound(`{"name":"actionClose"}`)

	outcome := p.next(FrameOutcome)
	require.NotNil(t, outcome.Outcome)
	assert.Equal(t, Outcome{Flow: FlowOffer, Status: "completed"}, *outcome.Outcome)
	p.next(FrameDismiss)
}

func TestClaimOverWebSocket(t *testing.T) {
	p := dial(t)

	p.send(Frame{Type: FrameStart, Start: &StartRequest{Flow: FlowOffer, User: testutil.TestUser(), OfferCode: "OFF1"}})
	p.next(FrameSession)

	p.inbound(`{"name":"createUserCompleted","body":{"payloadType":"Object","payload":{"credifyId":"cred-1"}}}`)
	claim := p.next(FrameClaim)
	assert.Equal(t, "cred-1", claim.Message)

	ok := true
	p.send(Frame{Type: FrameClaimDone, OK: &ok})
	eval := p.next(FrameEvaluate)
	assert.Contains(t, eval.Script, "pushClaimCompleted")
}

func TestBNPLWithCodesOverWebSocket(t *testing.T) {
	p := dial(t)

	p.send(Frame{Type: FrameStart, Start: &StartRequest{
		Flow:       FlowBNPL,
		User:       testutil.TestUser(),
		OfferCodes: []string{"B1"},
	}})
	assert.Equal(t, origin+"/bnpl", p.next(FrameLoad).URL)
	p.next(FrameSession)

	p.send(Frame{Type: FrameClose})
	outcome := p.next(FrameOutcome)
	require.NotNil(t, outcome.Outcome)
	assert.Equal(t, FlowBNPL, outcome.Outcome.Flow)
	assert.Equal(t, "canceled", outcome.Outcome.Status)
	assert.False(t, outcome.Outcome.PaymentCompleted)
}

func TestFrameErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{"malformed", `{"type":`, "malformed frame"},
		{"unknown type", `{"type":"teleport"}`, "unknown frame type"},
		{"start without request", `{"type":"start"}`, "start frame without start request"},
		{"unknown flow", `{"type":"start","start":{"flow":"lottery","user":{"id":"u"}}}`, `unknown flow "lottery"`},
		{"invalid user", `{"type":"start","start":{"flow":"offer","user":{"phoneNumber":"0987654321","countryCode":"+84"}}}`, "'User Id' is required."},
		{"inbound without name", `{"type":"inbound","inbound":{"body":{}}}`, "inbound message has no name"},
		{"inbound without session", `{"type":"inbound","inbound":{"name":"actionClose"}}`, "no active session"},
		{"back without session", `{"type":"back"}`, "no active session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dial(t)
			require.NoError(t, p.conn.WriteMessage(websocket.TextMessage, []byte(tt.raw)))

			f := p.next(FrameError)
			assert.Contains(t, f.Message, tt.wantMsg)
		})
	}
}

func TestPing(t *testing.T) {
	p := dial(t)
	p.send(Frame{Type: FramePing})
	assert.Equal(t, FramePong, p.read().Type)
}
