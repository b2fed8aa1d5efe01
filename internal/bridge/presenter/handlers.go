package presenter

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
)

// Handle dispatches one inbound message. Call it on the main loop.
func (p *Presenter) Handle(msg codec.Inbound) {
	if p.state == StateClosed {
		p.metrics.RecordInbound(string(msg.Name), "closed")
		return
	}

	outcome := "handled"
	switch msg.Name {
	case codec.InitialLoadCompleted:
		p.onInitialLoad()
	case codec.CreateUserCompleted:
		p.onCreateUser(msg.Body)
	case codec.OfferTransactionStatusChanged:
		p.onStatusChanged(msg.Body)
	case codec.ActionClose:
		p.finish()
	case codec.BNPLPaymentComplete:
		outcome = p.onPaymentComplete()
	case codec.SendPathsForShowingCloseButton:
		outcome = p.onCloseButtonPaths(msg.Body)
	case codec.LoginLoadCompleted:
		outcome = p.onLoginLoad()
	case codec.PromotionOfferLoadCompleted:
		outcome = p.onPromotionLoad()
	case codec.OpenRedirectURL:
		outcome = p.onRedirect(msg.Body)
	default:
		outcome = "ignored"
		p.log.Debug("Unknown inbound message", zap.String("action", string(msg.Name)))
	}
	p.metrics.RecordInbound(string(msg.Name), outcome)
}

func (p *Presenter) onInitialLoad() {
	if p.state == StateAwaitingInitialLoad {
		p.state = StateActive
	}
	action, payload := p.flow.InitialMessage(p.settings)
	p.send(action, payload)
}

func (p *Presenter) onCreateUser(body map[string]any) {
	var payload codec.CreateUserPayload
	ok := codec.DecodeInto(body, &payload)

	task := p.deliverer.ClaimTask()
	if !ok || payload.CredifyID == "" || task == nil {
		p.log.Debug("Claim skipped", zap.Bool("decoded", ok), zap.Bool("has_task", task != nil))
		p.send(codec.ActionPushClaimCompleted, codec.PushClaimResultPayload{IsSuccess: false})
		return
	}

	p.credifyID = payload.CredifyID
	var once sync.Once
	task(payload.CredifyID, func(success bool) {
		once.Do(func() {
			p.exec.Post(func() {
				if p.state == StateClosed {
					return
				}
				p.send(codec.ActionPushClaimCompleted, codec.PushClaimResultPayload{IsSuccess: success})
			})
		})
	})
}

func (p *Presenter) onStatusChanged(body map[string]any) {
	var payload codec.TransactionStatusPayload
	if !codec.DecodeInto(body, &payload) {
		return
	}
	if status, ok := mapStatus(payload.Status); ok {
		p.status = status
		return
	}
	p.log.Debug("Transaction status left unchanged", zap.String("status", payload.Status))
}

func (p *Presenter) onPaymentComplete() string {
	if p.flow.Category() != flow.CategoryBNPL {
		return "ignored"
	}
	p.deliver(true)
	return "handled"
}

func (p *Presenter) onCloseButtonPaths(body map[string]any) string {
	decoded := codec.Decode(body)
	var payload codec.CloseButtonPathsPayload
	if decoded == nil || !codec.DecodeInto(body, &payload) {
		return "invalid"
	}
	p.registry.Apply(p.pages, payload, decoded)
	p.publishAffordances(p.surface.CurrentURL())
	return "handled"
}

func (p *Presenter) onLoginLoad() string {
	if !flow.UsesLoginPage(p.flow) || !p.pages.IsLogin(p.surface.CurrentURL()) {
		return "ignored"
	}
	p.onInitialLoad()
	return "handled"
}

func (p *Presenter) onPromotionLoad() string {
	promo, ok := p.flow.(flow.PromotionalOffers)
	if !ok {
		return "ignored"
	}
	p.send(codec.ActionShowPromotionOffers, promo.PromotionPayload(p.settings))
	return "handled"
}

func (p *Presenter) onRedirect(body map[string]any) string {
	var payload codec.RedirectPayload
	if !codec.DecodeInto(body, &payload) || payload.RedirectURL == "" {
		return "invalid"
	}
	if p.embedder != nil {
		p.embedder.OpenRedirect(payload.RedirectURL)
	}
	return "handled"
}
