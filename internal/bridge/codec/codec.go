// Package codec encodes and decodes the envelopes exchanged with the embedded
// web app.
//
// Outbound envelopes always carry a base64 JSON payload. Inbound bodies are
// accepted in three shapes: base64 JSON, inline objects, and legacy bodies
// without a payloadType. Anything that fails to decode yields nil and the
// message is dropped by the caller.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/servicex/internal/shared/utils"
)

// ActionType marks every outbound envelope as coming from the host SDK.
const ActionType = "CREDIFY-MOBILE-SDK"

// PayloadType discriminates how an envelope payload is carried.
type PayloadType string

const (
	PayloadBase64 PayloadType = "Base64"
	PayloadObject PayloadType = "Object"
)

// SendAction names an outbound message.
type SendAction string

const (
	ActionStartRedemption     SendAction = "startRedemption"
	ActionPushClaimCompleted  SendAction = "pushClaimCompleted"
	ActionLogin               SendAction = "actionLogin"
	ActionShowPromotionOffers SendAction = "showPromotionOffers"
)

// ReceiveAction names an inbound message.
type ReceiveAction string

const (
	InitialLoadCompleted           ReceiveAction = "initialLoadCompleted"
	CreateUserCompleted            ReceiveAction = "createUserCompleted"
	OfferTransactionStatusChanged  ReceiveAction = "offerTransactionStatusChanged"
	ActionClose                    ReceiveAction = "actionClose"
	BNPLPaymentComplete            ReceiveAction = "bnplPaymentComplete"
	SendPathsForShowingCloseButton ReceiveAction = "sendPathsForShowingCloseButton"
	LoginLoadCompleted             ReceiveAction = "loginLoadCompleted"
	PromotionOfferLoadCompleted    ReceiveAction = "promotionOfferLoadCompleted"
	OpenRedirectURL                ReceiveAction = "openRedirectUrl"
)

// ReceiveActions lists every inbound action the bridge subscribes to.
var ReceiveActions = []ReceiveAction{
	InitialLoadCompleted,
	CreateUserCompleted,
	OfferTransactionStatusChanged,
	ActionClose,
	BNPLPaymentComplete,
	SendPathsForShowingCloseButton,
	LoginLoadCompleted,
	PromotionOfferLoadCompleted,
	OpenRedirectURL,
}

// Known reports whether a is a handled inbound action.
func (a ReceiveAction) Known() bool {
	for _, r := range ReceiveActions {
		if r == a {
			return true
		}
	}
	return false
}

// Envelope is the wire form of an outbound message.
type Envelope struct {
	Type        string      `json:"type"`
	Action      SendAction  `json:"action"`
	PayloadType PayloadType `json:"payloadType"`
	Payload     string      `json:"payload"`
}

// Inbound is a message posted by the web app.
type Inbound struct {
	Name ReceiveAction  `json:"name"`
	Body map[string]any `json:"body,omitempty"`
}

// ErrEmptyName rejects inbound messages without a name.
var ErrEmptyName = errors.New("inbound message has no name")

// Encode builds the envelope JSON for action with payload serialized as
// base64 JSON.
func Encode(action SendAction, payload any) (string, error) {
	raw, err := sonic.ConfigStd.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", action, err)
	}
	env := Envelope{
		Type:        ActionType,
		Action:      action,
		PayloadType: PayloadBase64,
		Payload:     base64.StdEncoding.EncodeToString(raw),
	}
	out, err := sonic.ConfigStd.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encode %s envelope: %w", action, err)
	}
	return string(out), nil
}

// PostMessageScript wraps an envelope in the script that hands it to the
// page's message listener.
func PostMessageScript(envelope string) string {
	quoted, err := sonic.ConfigStd.Marshal(envelope)
	if err != nil {
		// marshaling a string cannot fail
		quoted = []byte(`""`)
	}
	return fmt.Sprintf("(function() { window.postMessage(%s, '*'); })();", quoted)
}

// Decode extracts the payload map from an inbound body. It returns nil for an
// empty body or any payload that does not decode to a JSON object.
func Decode(body map[string]any) map[string]any {
	if len(body) == 0 {
		return nil
	}

	ptRaw, ok := body["payloadType"].(string)
	if !ok {
		return asMap(body["payload"])
	}

	switch PayloadType(ptRaw) {
	case PayloadBase64:
		encoded, ok := body["payload"].(string)
		if !ok {
			return nil
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil
		}
		var out map[string]any
		if err := sonic.Unmarshal(data, &out); err != nil {
			return nil
		}
		return out
	case PayloadObject:
		return asMap(body["payload"])
	default:
		// unknown discriminators are treated like legacy bodies
		return asMap(body["payload"])
	}
}

// DecodeInto decodes the body payload into out. It reports false when the
// payload is missing or does not fit out.
func DecodeInto(body map[string]any, out any) bool {
	payload := Decode(body)
	if payload == nil {
		return false
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return false
	}
	return sonic.Unmarshal(raw, out) == nil
}

// ParseInbound parses a raw inbound message as delivered by a bridge
// transport that does not split name and body itself.
func ParseInbound(raw []byte) (Inbound, error) {
	if err := utils.ValidateInboundSize(raw); err != nil {
		return Inbound{}, err
	}
	var msg Inbound
	if err := sonic.Unmarshal(raw, &msg); err != nil {
		return Inbound{}, fmt.Errorf("parse inbound message: %w", err)
	}
	if msg.Name == "" {
		return Inbound{}, ErrEmptyName
	}
	return msg, nil
}

// ParseEnvelope parses an outbound envelope JSON string. Used by surfaces that
// observe what the bridge posts.
func ParseEnvelope(raw string) (Envelope, error) {
	var env Envelope
	if err := sonic.UnmarshalString(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope: %w", err)
	}
	return env, nil
}

// Body returns the envelope as an inbound-style body map, so the same Decode
// path can read outbound payloads.
func (e Envelope) Body() map[string]any {
	return map[string]any{
		"payloadType": string(e.PayloadType),
		"payload":     e.Payload,
	}
}

func asMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}
