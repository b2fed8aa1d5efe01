// Package delivery hands the terminal outcome of a session back to the host.
//
// A Deliverer owns the host callbacks of one session. The first Deliver call
// takes them all and later calls find nothing, so each host callback runs at
// most once even when close and payment-complete race.
package delivery

import (
	"sync"

	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

// ClaimTask pushes claim tokens for credifyID and reports success via done.
// done may be called from any goroutine.
type ClaimTask func(credifyID string, done func(ok bool))

// Callbacks are the host hooks of one session. Only the hook matching the
// session's category is used.
type Callbacks struct {
	ClaimTask  ClaimTask
	Dismiss    func()
	Redemption func(result types.RedemptionResult)
	BNPL       func(result types.RedemptionResult, orderID string, paymentCompleted bool)
}

// Outcome is what the session knows when it ends.
type Outcome struct {
	Status           types.RedemptionResult
	OrderID          string
	PaymentCompleted bool
}

// Deliverer guards the callbacks of one session.
type Deliverer struct {
	mu        sync.Mutex
	cb        Callbacks
	delivered bool
}

// New takes ownership of cb.
func New(cb Callbacks) *Deliverer {
	return &Deliverer{cb: cb}
}

// ClaimTask returns the claim task, or nil once the session was delivered.
func (d *Deliverer) ClaimTask() ClaimTask {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cb.ClaimTask
}

// Delivered reports whether Deliver already ran.
func (d *Deliverer) Delivered() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delivered
}

// Deliver invokes the category's callback with out and clears every
// callback. It reports whether a callback ran.
func (d *Deliverer) Deliver(category flow.Category, out Outcome) bool {
	d.mu.Lock()
	if d.delivered {
		d.mu.Unlock()
		return false
	}
	cb := d.cb
	d.cb = Callbacks{}
	d.delivered = true
	d.mu.Unlock()

	switch category {
	case flow.CategoryPassport, flow.CategoryServiceInstance:
		if cb.Dismiss != nil {
			cb.Dismiss()
			return true
		}
	case flow.CategoryNormalOffer:
		if cb.Redemption != nil {
			cb.Redemption(out.Status)
			return true
		}
	case flow.CategoryBNPL:
		if cb.BNPL != nil {
			cb.BNPL(out.Status, out.OrderID, out.PaymentCompleted)
			return true
		}
	}
	return false
}
