package presenter

import (
	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
	"github.com/GriffinCanCode/servicex/internal/bridge/surface"
)

// Affordances derives the UI state for url.
func (p *Presenter) Affordances(url string) Affordances {
	return Affordances{
		URL:                   url,
		CloseVisible:          p.IsCloseButtonVisible(url),
		BackVisible:           p.IsBackButtonVisible(url),
		TransparentBackground: p.ShouldUseTransparentBackground(url),
		FrameworkTheme:        p.ShouldUseFrameworkTheme(),
	}
}

// IsCloseButtonVisible reports whether the host close button shows on url.
func (p *Presenter) IsCloseButtonVisible(url string) bool {
	if !p.pages.Inside(url) {
		return true
	}
	if _, ok := p.flow.(flow.Profile); ok && p.pages.IsRoot(url) {
		return true
	}
	if p.pages.IsTerminal(url) {
		return false
	}
	return p.registry.Matches(p.flow.Category(), url)
}

// IsBackButtonVisible reports whether the host back button shows on url.
func (p *Presenter) IsBackButtonVisible(url string) bool {
	if !p.pages.Inside(url) {
		return true
	}
	if flow.UsesLoginPage(p.flow) && p.pages.IsTerminal(url) {
		return true
	}
	return !p.IsCloseButtonVisible(url)
}

// ShouldUseTransparentBackground is true while a promotional list sits on
// its entry page.
func (p *Presenter) ShouldUseTransparentBackground(url string) bool {
	if _, ok := p.flow.(flow.PromotionalOffers); !ok {
		return false
	}
	return p.pages.SamePage(url, p.EntryURL())
}

// ShouldUseFrameworkTheme is true for flows rendered with the framework's own
// styling.
func (p *Presenter) ShouldUseFrameworkTheme() bool {
	return flow.UsesLoginPage(p.flow)
}

// IsLoading asks the page whether its loading indicator is present. done runs
// on the main loop; evaluation errors count as not loading.
func (p *Presenter) IsLoading(done func(loading bool)) {
	p.surface.EvaluateScript(surface.IsLoadingScript, func(result any, err error) {
		loading, ok := result.(bool)
		if err != nil || !ok {
			loading = false
		}
		p.exec.Post(func() { done(loading) })
	})
}

// GoToPreviousPageOrClose backs out one step. It does nothing while the page
// is loading and closes the session when no history is left.
func (p *Presenter) GoToPreviousPageOrClose() {
	p.IsLoading(func(loading bool) {
		if loading || p.state == StateClosed {
			return
		}
		if !p.surface.CanGoBack() {
			p.finish()
			return
		}
		if flow.UsesLoginPage(p.flow) && p.pages.IsTerminal(p.surface.CurrentURL()) {
			if history := p.surface.BackList(); len(history) > 0 {
				p.surface.GoTo(history[0])
				return
			}
		}
		p.surface.GoBack()
	})
}
