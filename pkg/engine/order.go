package engine

import "sort"

// computeBreatheOrder rebuilds e.inhale and e.exhale from the current app
// and link registries, implementing spec.md §4.5.
//
// inhale is simply the sorted list of pull-capable apps. exhale is built in
// batches: each batch is the sorted set of still-waiting push-capable apps
// that are not fed, within the batch, by another waiting app — except that
// a batch is never allowed to empty itself by deferral alone (a cycle
// always surrenders its lexicographically smallest member so the planner
// terminates; see spec.md's Open Question on this exact point).
func (e *Engine) computeBreatheOrder() {
	e.inhale = nil
	e.exhale = nil

	succ := make(map[string]map[string]bool)
	for _, entry := range e.links.iter() {
		spec, err := ParseLinkSpec(entry.Spec)
		if err != nil {
			continue
		}
		if succ[spec.From] == nil {
			succ[spec.From] = make(map[string]bool)
		}
		succ[spec.From][spec.To] = true
	}

	hasPush := func(name string) bool {
		a, ok := e.apps.get(name)
		return ok && a.app.HasPush()
	}

	inhaleSet := make(map[string]bool)
	for _, name := range e.apps.names() {
		a, _ := e.apps.get(name)
		if a.app.HasPull() {
			e.inhale = append(e.inhale, name)
			inhaleSet[name] = true
		}
	}
	sort.Strings(e.inhale)

	// Seed the worklist with every pushing successor of every inhaler.
	inD := make(map[string]bool)
	var d []string
	for _, name := range e.inhale {
		for s := range succ[name] {
			if hasPush(s) && !inD[s] {
				inD[s] = true
				d = append(d, s)
			}
		}
	}
	// Inhaler dependencies are resolved; forget their outgoing edges.
	for _, name := range e.inhale {
		delete(succ, name)
	}

	emitted := make(map[string]bool)
	for len(d) > 0 {
		sort.Strings(d)

		// An item is deferred if some other item still in D feeds it.
		deferred := make(map[string]bool)
		for _, n := range d {
			for s := range succ[n] {
				if s != n && inD[s] {
					deferred[s] = true
				}
			}
		}
		if len(deferred) == len(d) {
			delete(deferred, d[0]) // lexicographically smallest survives
		}

		var batch, next []string
		for _, n := range d {
			if deferred[n] {
				next = append(next, n)
			} else {
				batch = append(batch, n)
			}
		}
		sort.Strings(batch)
		e.exhale = append(e.exhale, batch...)
		for _, n := range batch {
			emitted[n] = true
			delete(inD, n)
		}

		for _, n := range batch {
			for s := range succ[n] {
				if hasPush(s) && !emitted[s] && !inD[s] && !inhaleSet[s] {
					inD[s] = true
					next = append(next, s)
				}
			}
			delete(succ, n)
		}

		d = next
	}
}
