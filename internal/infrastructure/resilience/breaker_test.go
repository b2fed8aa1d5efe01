package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream failed")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(s Settings) (*Breaker, *clock) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	s.now = c.now
	return New("api", s), c
}

func run(b *Breaker, ok bool) error {
	return b.Do(context.Background(), func(context.Context) error {
		if ok {
			return nil
		}
		return errUpstream
	})
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name     string
		requests []bool
		want     State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"success resets the streak", []bool{false, false, true, false, false}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(Settings{ReadyToTrip: ConsecutiveFailures(3), Timeout: time.Minute})
			for _, ok := range tt.requests {
				_ = run(b, ok)
			}
			assert.Equal(t, tt.want, b.State())
		})
	}
}

func TestBreakerFailsFastWhenOpen(t *testing.T) {
	b, _ := newTestBreaker(Settings{ReadyToTrip: ConsecutiveFailures(2), Timeout: time.Minute})
	_ = run(b, false)
	_ = run(b, false)

	called := false
	err := b.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	b, clk := newTestBreaker(Settings{MaxRequests: 2, ReadyToTrip: ConsecutiveFailures(1), Timeout: time.Second})
	require.Error(t, run(b, false))
	assert.Equal(t, StateOpen, b.State())

	clk.advance(2 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, run(b, true))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, run(b, true))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b, clk := newTestBreaker(Settings{ReadyToTrip: ConsecutiveFailures(1), Timeout: time.Second})
	_ = run(b, false)
	clk.advance(2 * time.Second)

	require.ErrorIs(t, run(b, false), errUpstream)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerIsSuccessful(t *testing.T) {
	errRejected := errors.New("api key rejected")
	b, _ := newTestBreaker(Settings{
		ReadyToTrip: ConsecutiveFailures(1),
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errRejected)
		},
	})

	err := b.Do(context.Background(), func(context.Context) error { return errRejected })

	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(1), b.Counts().TotalSuccesses)
}

func TestBreakerIntervalClearsCounts(t *testing.T) {
	b, clk := newTestBreaker(Settings{ReadyToTrip: ConsecutiveFailures(3), Interval: time.Minute})
	_ = run(b, false)
	_ = run(b, false)
	assert.Equal(t, uint32(2), b.Counts().ConsecutiveFailures)

	clk.advance(2 * time.Minute)
	_ = run(b, false)

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(1), b.Counts().ConsecutiveFailures)
}

func TestCallReturnsResult(t *testing.T) {
	b, _ := newTestBreaker(Settings{})

	got, err := Call(context.Background(), b, func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Call(ctx, b, func(context.Context) (int, error) { return 0, nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(1), b.Counts().Requests)
}

func TestBreakerStateCallback(t *testing.T) {
	var transitions []string
	b, clk := newTestBreaker(Settings{
		ReadyToTrip: ConsecutiveFailures(2),
		Timeout:     time.Second,
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "api", name)
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = run(b, false)
	_ = run(b, false)
	clk.advance(2 * time.Second)
	_ = run(b, true)

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}
