package ws

import (
	"encoding/json"

	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

// Frame types sent by the browser page.
const (
	FrameStart      = "start"
	FrameInbound    = "inbound"
	FrameNavigation = "navigation"
	FrameResult     = "result"
	FrameClaimDone  = "claimDone"
	FrameBack       = "back"
	FrameClose      = "close"
	FramePing       = "ping"
)

// Frame types sent to the browser page.
const (
	FrameSystem      = "system"
	FrameLoad        = "load"
	FrameEvaluate    = "evaluate"
	FrameUserScript  = "userScript"
	FrameUserAgent   = "userAgent"
	FrameGoBack      = "goBack"
	FrameGoTo        = "goTo"
	FrameAffordances = "affordances"
	FrameRedirect    = "redirect"
	FrameClaim       = "claim"
	FrameOutcome     = "outcome"
	FrameDismiss     = "dismiss"
	FrameSession     = "session"
	FramePong        = "pong"
	FrameError       = "error"
)

// Frame is one websocket message in either direction. Only the fields that
// belong to Type are set.
type Frame struct {
	Type string `json:"type"`
	// ID correlates evaluate frames with their result frames.
	ID      string `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
	Script  string `json:"script,omitempty"`
	At      string `json:"at,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	// Inbound is a web app message as posted to the native bridge.
	Inbound json.RawMessage `json:"inbound,omitempty"`
	// Value is an evaluate result.
	Value any `json:"value,omitempty"`
	// OK answers a claim frame.
	OK *bool `json:"ok,omitempty"`

	History     []HistoryEntry `json:"history,omitempty"`
	Start       *StartRequest  `json:"start,omitempty"`
	Outcome     *Outcome       `json:"outcome,omitempty"`
	Affordances *Affordances   `json:"affordances,omitempty"`
	Session     *SessionInfo   `json:"session,omitempty"`
	Timestamp   int64          `json:"timestamp,omitempty"`
}

// HistoryEntry is one back-list entry reported by the page.
type HistoryEntry struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Flow names accepted in a start frame.
const (
	FlowMypage    = "mypage"
	FlowDetail    = "detail"
	FlowOffer     = "offer"
	FlowPromotion = "promotion"
	FlowBNPL      = "bnpl"
)

// StartRequest opens a session.
type StartRequest struct {
	Flow         string              `json:"flow"`
	User         types.User          `json:"user"`
	OfferCode    string              `json:"offerCode,omitempty"`
	OfferCodes   []string            `json:"offerCodes,omitempty"`
	PackageCode  string              `json:"packageCode,omitempty"`
	MarketID     string              `json:"marketId,omitempty"`
	ProductTypes []types.ProductType `json:"productTypes,omitempty"`
	Order        types.Order         `json:"order"`
}

// Outcome echoes a host callback.
type Outcome struct {
	Flow             string `json:"flow"`
	Status           string `json:"status,omitempty"`
	OrderID          string `json:"orderId,omitempty"`
	PaymentCompleted bool   `json:"paymentCompleted,omitempty"`
}

// Affordances mirrors the host chrome for the current URL.
type Affordances struct {
	URL                   string `json:"url"`
	CloseVisible          bool   `json:"closeVisible"`
	BackVisible           bool   `json:"backVisible"`
	TransparentBackground bool   `json:"transparentBackground"`
	FrameworkTheme        bool   `json:"frameworkTheme"`
}

// SessionInfo announces an opened session.
type SessionInfo struct {
	ID       string `json:"id"`
	Flow     string `json:"flow"`
	EntryURL string `json:"entryUrl"`
}
