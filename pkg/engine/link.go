package engine

import (
	"sort"

	"github.com/airlock-systems/breathe/pkg/linkbuf"
)

// linkRegistry holds every live link, keyed by its canonical spec string
// ("FROM.OUT -> TO.IN").
type linkRegistry struct {
	links map[string]*linkbuf.Link
}

func newLinkRegistry() *linkRegistry {
	return &linkRegistry{links: make(map[string]*linkbuf.Link)}
}

// getOrCreate returns the link for spec, creating a fresh empty one if
// absent.
func (r *linkRegistry) getOrCreate(spec string) *linkbuf.Link {
	if l, ok := r.links[spec]; ok {
		return l
	}
	l := linkbuf.New()
	r.links[spec] = l
	return l
}

// remove drops the link for spec. A no-op if spec is unknown, so
// reconciliation stays idempotent.
func (r *linkRegistry) remove(spec string) {
	delete(r.links, spec)
}

func (r *linkRegistry) get(spec string) (*linkbuf.Link, bool) {
	l, ok := r.links[spec]
	return l, ok
}

// linkEntry pairs a link's canonical spec with its instance, for reporting.
type linkEntry struct {
	Spec string
	Link *linkbuf.Link
}

// iter returns every (spec, link) pair, sorted by spec for deterministic
// reporting.
func (r *linkRegistry) iter() []linkEntry {
	specs := make([]string, 0, len(r.links))
	for spec := range r.links {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	entries := make([]linkEntry, len(specs))
	for i, spec := range specs {
		entries[i] = linkEntry{Spec: spec, Link: r.links[spec]}
	}
	return entries
}
