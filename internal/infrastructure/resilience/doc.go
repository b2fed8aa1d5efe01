// Package resilience provides the circuit breaker in front of the remote API.
//
// The API client runs token and data calls through one Breaker. Once the
// upstream fails repeatedly the breaker opens and calls fail fast with
// ErrCircuitOpen until a probe succeeds. Errors the upstream is not to blame
// for (a rejected API key, a caller cancel) are classified by
// Settings.IsSuccessful and do not trip it.
//
//	Closed --[failures]--> Open --[timeout]--> Half-Open --[successes]--> Closed
//	                                               |
//	                                           [failure]
//	                                               v
//	                                              Open
//
// Usage:
//
//	breaker := resilience.New("servicex-api", resilience.Settings{
//		ReadyToTrip: resilience.ConsecutiveFailures(10),
//		OnStateChange: func(name string, _, to resilience.State) {
//			metrics.SetBreakerState(name, int(to))
//		},
//	})
//
//	offers, err := resilience.Call(ctx, breaker, func(ctx context.Context) (*types.OfferListInfo, error) {
//		return fetch(ctx)
//	})
package resilience
