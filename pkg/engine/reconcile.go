package engine

import (
	"github.com/airlock-systems/breathe/pkg/util"
)

// configure reconciles the live registries against cfg, following the five
// phases of spec.md §4.4 in order. It validates the configuration up front
// (parseable specs, no duplicate slot bindings, every link endpoint present
// in cfg.Apps) so a malformed configuration is rejected before any live
// state is touched.
func (e *Engine) configure(cfg *Configuration) error {
	specs := make(map[string]LinkSpec, len(cfg.Links))
	seenSlot := make(map[string]string) // "app.slot[in|out]" -> spec, for duplicate detection

	for raw := range cfg.Links {
		spec, err := ParseLinkSpec(raw)
		if err != nil {
			return err
		}
		if _, ok := cfg.Apps[spec.From]; !ok {
			return util.NewUnknownAppError(raw, spec.From)
		}
		if _, ok := cfg.Apps[spec.To]; !ok {
			return util.NewUnknownAppError(raw, spec.To)
		}

		outKey := spec.From + ".out." + spec.Output
		if prior, ok := seenSlot[outKey]; ok && prior != raw {
			return util.NewDuplicateSlotError(spec.From, spec.Output)
		}
		seenSlot[outKey] = raw

		inKey := spec.To + ".in." + spec.Input
		if prior, ok := seenSlot[inKey]; ok && prior != raw {
			return util.NewDuplicateSlotError(spec.To, spec.Input)
		}
		seenSlot[inKey] = raw

		specs[raw] = spec
	}

	// Phase 1: drop dead links.
	for _, entry := range e.links.iter() {
		if _, wanted := cfg.Links[entry.Spec]; wanted {
			continue
		}
		spec, err := ParseLinkSpec(entry.Spec)
		if err == nil {
			if _, ok := e.apps.get(spec.From); ok {
				e.apps.unbindOutput(spec.From, spec.Output)
			}
			if _, ok := e.apps.get(spec.To); ok {
				e.apps.unbindInput(spec.To, spec.Input)
			}
		}
		e.links.remove(entry.Spec)
		util.WithLink(entry.Spec).Debug("link removed")
	}

	// Phase 2: stop apps that vanished or whose configuration identity
	// changed. Starting the replacement happens in phase 3.
	for _, name := range e.apps.names() {
		existing, _ := e.apps.get(name)
		wanted, ok := cfg.Apps[name]
		if !ok || wanted.Identity() != existing.conf.Identity() {
			e.apps.stop(name)
			util.WithApp(name).Info("app stopped")
		}
	}

	// Phase 3: start apps that are new or were just stopped for replacement.
	for name, conf := range cfg.Apps {
		if _, ok := e.apps.get(name); !ok {
			e.apps.start(name, conf)
			util.WithApp(name).Info("app started")
		}
	}

	// Phase 4: rebuild link bindings.
	for raw, spec := range specs {
		link := e.links.getOrCreate(raw)
		e.apps.bindOutput(spec.From, spec.Output, link)
		e.apps.bindInput(spec.To, spec.Input, link)
	}

	// Phase 5: recompute breathe order.
	e.computeBreatheOrder()
	return nil
}
