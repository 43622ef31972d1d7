// pkg/source/registry.go
package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
)

// Registry holds the known sources in a stable order
type Registry struct {
	order   []string
	defs    map[string]*Definition
	aliases map[string][]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]*Definition),
		aliases: make(map[string][]string),
	}
}

// Builtin returns a registry with every built-in source. Document sources
// are disabled by default because they call the embedding API.
func Builtin() *Registry {
	r := NewRegistry()
	for _, d := range []*Definition{
		metaAds(),
		organicSocial(),
		uberEatsOffers(),
		uberEatsSales(),
		powerBISales(),
		tiktokAds(),
		tiktokAdsDocuments(),
		googleAdsPerformance(),
		googleAdsActions(),
		googleAdsPerformanceDocuments(),
		googleAdsActionsDocuments(),
	} {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	r.Alias("uber_eats", "uber_eats_offers", "uber_eats_sales")
	r.Alias("google_ads", "google_ads_performance", "google_ads_actions")
	r.Alias("google_ads_documents", "google_ads_performance_documents", "google_ads_actions_documents")
	return r
}

// Register adds a validated definition
func (r *Registry) Register(d *Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, dup := r.defs[d.Name]; dup {
		return fmt.Errorf("source %s is already registered", d.Name)
	}
	r.defs[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Alias makes one name select several sources
func (r *Registry) Alias(name string, members ...string) {
	r.aliases[name] = members
}

// Get returns a definition by name
func (r *Registry) Get(name string) (*Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// List returns every definition in registration order
func (r *Registry) List() []*Definition {
	out := make([]*Definition, len(r.order))
	for i, name := range r.order {
		out[i] = r.defs[name]
	}
	return out
}

// Aliases returns each alias with its members
func (r *Registry) Aliases() map[string][]string {
	out := make(map[string][]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ApplyOverrides applies per-source overrides, rejecting unknown names. The
// registry's definitions are replaced by overridden copies.
func (r *Registry) ApplyOverrides(overrides map[string]config.SourceOverride) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d, ok := r.defs[name]
		if !ok {
			return fmt.Errorf("sources file names unknown source %q", name)
		}
		c := d.Clone()
		c.ApplyOverride(overrides[name])
		if err := c.Validate(); err != nil {
			return err
		}
		r.defs[name] = c
	}
	return nil
}

// Resolve picks the sources to run. No names selects every enabled source;
// named sources and aliases run even when disabled. Order follows the
// registry and duplicates are dropped.
func (r *Registry) Resolve(names []string) ([]*Definition, error) {
	if len(names) == 0 {
		var out []*Definition
		for _, d := range r.List() {
			if d.Enabled {
				out = append(out, d)
			}
		}
		return out, nil
	}

	wanted := make(map[string]bool)
	var unknown []string
	for _, n := range names {
		if members, ok := r.aliases[n]; ok {
			for _, m := range members {
				wanted[m] = true
			}
			continue
		}
		if _, ok := r.defs[n]; !ok {
			unknown = append(unknown, n)
			continue
		}
		wanted[n] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown source(s): %s", strings.Join(unknown, ", "))
	}

	var out []*Definition
	for _, name := range r.order {
		if wanted[name] {
			out = append(out, r.defs[name])
		}
	}
	return out, nil
}
