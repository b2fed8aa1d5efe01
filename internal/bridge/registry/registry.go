// Package registry keeps the URL prefixes where the web app wants a close
// button instead of a back button.
//
// One Registry is owned by each SDK instance and shared by the sessions it
// opens. The web app replaces a category's prefixes each time it sends them.
package registry

import (
	"strings"
	"sync"

	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/bridge/flow"
)

// Registry maps a flow category to absolute URL prefixes.
type Registry struct {
	mu       sync.RWMutex
	prefixes map[flow.Category][]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{prefixes: make(map[flow.Category][]string)}
}

// Set replaces the prefixes of a category. Suffixes are joined onto the
// origin of pages.
func (r *Registry) Set(pages flow.Pages, category flow.Category, suffixes []string) {
	abs := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		abs = append(abs, pages.Absolute(s))
	}

	r.mu.Lock()
	r.prefixes[category] = abs
	r.mu.Unlock()
}

// Apply stores every category present in a decoded message. Categories the
// message leaves out keep their previous prefixes.
func (r *Registry) Apply(pages flow.Pages, msg codec.CloseButtonPathsPayload, present map[string]any) {
	set := func(key string, category flow.Category, suffixes []string) {
		if _, ok := present[key]; ok {
			r.Set(pages, category, suffixes)
		}
	}
	set("normalOffer", flow.CategoryNormalOffer, msg.NormalOffer)
	set("bnpl", flow.CategoryBNPL, msg.BNPL)
	set("passport", flow.CategoryPassport, msg.Passport)
	set("serviceInstance", flow.CategoryServiceInstance, msg.ServiceInstance)
}

// Get returns a copy of the prefixes of a category.
func (r *Registry) Get(category flow.Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.prefixes[category]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Matches reports whether url starts with any prefix of the category.
func (r *Registry) Matches(category flow.Category, url string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.prefixes[category] {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}

// Snapshot returns every category's prefixes.
func (r *Registry) Snapshot() map[flow.Category][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[flow.Category][]string, len(r.prefixes))
	for k, v := range r.prefixes {
		out[k] = append([]string(nil), v...)
	}
	return out
}
