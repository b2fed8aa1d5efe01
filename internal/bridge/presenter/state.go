package presenter

import "github.com/GriffinCanCode/servicex/internal/shared/types"

// State is the session lifecycle state.
type State int

const (
	StateAwaitingInitialLoad State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingInitialLoad:
		return "awaiting_initial_load"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Transaction statuses reported by the web app.
const (
	statusCompleted = "COMPLETED"
	statusPending   = "PENDING"
	statusCanceled  = "CANCELED"
	statusFailed    = "FAILED"
)

// mapStatus converts a web app status. ok is false for FAILED and unknown
// values, which leave the session status untouched.
func mapStatus(s string) (types.RedemptionResult, bool) {
	switch s {
	case statusCompleted:
		return types.RedemptionCompleted, true
	case statusPending:
		return types.RedemptionPending, true
	case statusCanceled:
		return types.RedemptionCanceled, true
	default:
		return "", false
	}
}
