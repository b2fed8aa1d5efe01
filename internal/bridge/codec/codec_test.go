package codec

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

func TestEncodeEnvelope(t *testing.T) {
	out, err := Encode(ActionPushClaimCompleted, PushClaimResultPayload{IsSuccess: true})
	require.NoError(t, err)

	env, err := ParseEnvelope(out)
	require.NoError(t, err)
	assert.Equal(t, ActionType, env.Type)
	assert.Equal(t, ActionPushClaimCompleted, env.Action)
	assert.Equal(t, PayloadBase64, env.PayloadType)

	raw, err := base64.StdEncoding.DecodeString(env.Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isSuccess":true}`, string(raw))
}

func TestDecodeRoundTrip(t *testing.T) {
	payloads := []map[string]any{
		{"data": "This is the payload"},
		{"offerCodes": []any{"A", "B"}, "nested": map[string]any{"n": 1.5, "ok": true}},
		{},
	}

	for _, payload := range payloads {
		out, err := Encode(ActionStartRedemption, payload)
		require.NoError(t, err)

		env, err := ParseEnvelope(out)
		require.NoError(t, err)
		assert.Equal(t, payload, Decode(env.Body()))
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want map[string]any
	}{
		{
			name: "base64",
			body: map[string]any{"payloadType": "Base64", "payload": "eyJkYXRhIjoiVGhpcyBpcyB0aGUgcGF5bG9hZCJ9"},
			want: map[string]any{"data": "This is the payload"},
		},
		{
			name: "legacy passthrough",
			body: map[string]any{"payload": map[string]any{"data": "x"}},
			want: map[string]any{"data": "x"},
		},
		{
			name: "object",
			body: map[string]any{"payloadType": "Object", "payload": map[string]any{"status": "PENDING"}},
			want: map[string]any{"status": "PENDING"},
		},
		{
			name: "empty body",
			body: map[string]any{},
			want: nil,
		},
		{
			name: "nil body",
			body: nil,
			want: nil,
		},
		{
			name: "bad base64",
			body: map[string]any{"payloadType": "Base64", "payload": "%%%not-base64"},
			want: nil,
		},
		{
			name: "base64 of non json",
			body: map[string]any{"payloadType": "Base64", "payload": base64.StdEncoding.EncodeToString([]byte("hello"))},
			want: nil,
		},
		{
			name: "base64 of json array",
			body: map[string]any{"payloadType": "Base64", "payload": base64.StdEncoding.EncodeToString([]byte(`[1,2]`))},
			want: nil,
		},
		{
			name: "base64 with object payload",
			body: map[string]any{"payloadType": "Base64", "payload": map[string]any{"a": 1}},
			want: nil,
		},
		{
			name: "missing payload",
			body: map[string]any{"payloadType": "Object"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.body))
		})
	}
}

func TestDecodeInto(t *testing.T) {
	body := map[string]any{"payload": map[string]any{
		"normalOffer": []any{"/bad-request"},
		"bnpl":        []any{"/bnpl/done", "/bnpl/fail"},
	}}

	var paths CloseButtonPathsPayload
	require.True(t, DecodeInto(body, &paths))
	assert.Equal(t, []string{"/bad-request"}, paths.NormalOffer)
	assert.Equal(t, []string{"/bnpl/done", "/bnpl/fail"}, paths.BNPL)
	assert.Empty(t, paths.Passport)

	var status TransactionStatusPayload
	assert.False(t, DecodeInto(map[string]any{"payload": map[string]any{"status": 42}}, &status))
	assert.False(t, DecodeInto(nil, &status))
}

func TestPostMessageScript(t *testing.T) {
	out, err := Encode(ActionLogin, LoginPayload{PhoneNumber: "0381239876", CountryCode: "+84", FullName: "O'Brien"})
	require.NoError(t, err)

	script := PostMessageScript(out)
	assert.True(t, strings.HasPrefix(script, `(function() { window.postMessage("{\"type\":\"CREDIFY-MOBILE-SDK\"`))
	assert.True(t, strings.HasSuffix(script, `", '*'); })();`))
}

func TestParseInbound(t *testing.T) {
	msg, err := ParseInbound([]byte(`{"name":"offerTransactionStatusChanged","body":{"payload":{"status":"COMPLETED"}}}`))
	require.NoError(t, err)
	assert.Equal(t, OfferTransactionStatusChanged, msg.Name)

	var status TransactionStatusPayload
	require.True(t, DecodeInto(msg.Body, &status))
	assert.Equal(t, "COMPLETED", status.Status)

	_, err = ParseInbound([]byte(`{"body":{}}`))
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = ParseInbound([]byte(`not json`))
	assert.Error(t, err)
}

func TestReceiveActionKnown(t *testing.T) {
	for _, a := range ReceiveActions {
		assert.True(t, a.Known(), a)
	}
	assert.False(t, ReceiveAction("startRedemption").Known())
}

func TestStartBNPLPayloadShape(t *testing.T) {
	out, err := Encode(ActionStartRedemption, StartBNPLPayload{
		OfferCodes: []string{"B1"},
		Profile:    types.User{ID: "u1"},
		Order:      types.Order{OrderID: "order-1"},
		MarketID:   "m1",
	})
	require.NoError(t, err)

	env, err := ParseEnvelope(out)
	require.NoError(t, err)
	payload := Decode(env.Body())
	require.NotNil(t, payload)

	assert.Equal(t, map[string]any{"orderId": "order-1"}, payload["order"])
	assert.Equal(t, "m1", payload["marketId"])
	assert.NotContains(t, payload, "packageCode")
	assert.NotContains(t, payload, "theme")
}
