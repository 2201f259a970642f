package event

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

const (
	// Wildcard is the universal event name. Listeners registered under it
	// run after the named listeners of every emitted event.
	Wildcard = "*"

	// RegexSigil prefixes event names that are regular expressions, e.g.
	// "~order\.(created|paid)". The expression must match the whole name.
	RegexSigil = "~"
)

type prioritized map[Priority][]Listener

func (p prioritized) count() int {
	n := 0
	for _, ls := range p {
		n += len(ls)
	}
	return n
}

func (p prioritized) without(keep func(Listener) bool) prioritized {
	out := make(prioritized, len(p))
	for prio, ls := range p {
		kept := make([]Listener, 0, len(ls))
		for _, l := range ls {
			if keep(l) {
				kept = append(kept, l)
			}
		}
		if len(kept) > 0 {
			out[prio] = kept
		}
	}
	return out
}

type patternEntry struct {
	source    string
	re        *regexp.Regexp
	listeners prioritized
}

// registry stores listeners by exact event name and by pattern, and
// memoizes the resolved invocation order per event name.
// It is safe for concurrent use.
type registry struct {
	mu sync.RWMutex

	exact      map[string]prioritized
	exactOrder []string

	patterns []*patternEntry
	bySource map[string]*patternEntry
	resolved map[string][]Listener
}

func newRegistry() *registry {
	return &registry{
		exact:    make(map[string]prioritized),
		bySource: make(map[string]*patternEntry),
		resolved: make(map[string][]Listener),
	}
}

// compilePattern turns a pattern registration into an anchored regular
// expression. It returns a nil expression for exact names.
func compilePattern(name string) (*regexp.Regexp, error) {
	switch {
	case strings.HasPrefix(name, RegexSigil):
		expr := strings.TrimLeft(name, RegexSigil)
		re, err := regexp.Compile("^(?:" + expr + ")$")
		if err != nil {
			return nil, invalidArgument("event pattern %q: %s", name, err)
		}
		return re, nil
	case name != Wildcard && strings.Contains(name, "*"):
		parts := strings.Split(name, "*")
		for i, part := range parts {
			parts[i] = regexp.QuoteMeta(part)
		}
		return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$"), nil
	default:
		return nil, nil
	}
}

func (r *registry) add(name string, l Listener, priority Priority) error {
	re, err := compilePattern(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if re == nil {
		bucket, ok := r.exact[name]
		if !ok {
			bucket = make(prioritized)
			r.exact[name] = bucket
			r.exactOrder = append(r.exactOrder, name)
		}
		bucket[priority] = append(bucket[priority], l)
		delete(r.resolved, name)
		return nil
	}

	entry, ok := r.bySource[name]
	if !ok {
		entry = &patternEntry{source: name, re: re, listeners: make(prioritized)}
		r.bySource[name] = entry
		r.patterns = append(r.patterns, entry)
	}
	entry.listeners[priority] = append(entry.listeners[priority], l)
	// A pattern can match any name resolved so far.
	r.resolved = make(map[string][]Listener)
	return nil
}

// remove drops every registration under name that identifies as l. When
// name is a pattern as it was registered, the pattern registrations are
// searched too.
func (r *registry) remove(name string, l Listener) {
	keep := func(registered Listener) bool {
		return !registered.IsListener(l)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, ok := r.exact[name]; ok {
		if pruned := bucket.without(keep); len(pruned) > 0 {
			r.exact[name] = pruned
		} else {
			r.deleteExact(name)
		}
	}
	if entry, ok := r.bySource[name]; ok {
		entry.listeners = entry.listeners.without(keep)
		if len(entry.listeners) == 0 {
			r.deletePattern(name)
		}
		r.resolved = make(map[string][]Listener)
	}
	delete(r.resolved, name)
}

func (r *registry) removeAll(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteExact(name)
	if _, ok := r.bySource[name]; ok {
		r.deletePattern(name)
		r.resolved = make(map[string][]Listener)
	}
	delete(r.resolved, name)
}

// drop removes l, and only l, from every bucket it was registered in.
func (r *registry) drop(l Listener) {
	keep := func(registered Listener) bool {
		return !sameListener(registered, l)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range append([]string(nil), r.exactOrder...) {
		if pruned := r.exact[name].without(keep); len(pruned) > 0 {
			r.exact[name] = pruned
		} else {
			r.deleteExact(name)
		}
	}
	for _, entry := range append([]*patternEntry(nil), r.patterns...) {
		entry.listeners = entry.listeners.without(keep)
		if len(entry.listeners) == 0 {
			r.deletePattern(entry.source)
		}
	}
	r.resolved = make(map[string][]Listener)
}

func (r *registry) deleteExact(name string) {
	if _, ok := r.exact[name]; !ok {
		return
	}
	delete(r.exact, name)
	for i, n := range r.exactOrder {
		if n == name {
			r.exactOrder = append(r.exactOrder[:i:i], r.exactOrder[i+1:]...)
			break
		}
	}
}

func (r *registry) deletePattern(source string) {
	delete(r.bySource, source)
	for i, entry := range r.patterns {
		if entry.source == source {
			r.patterns = append(r.patterns[:i:i], r.patterns[i+1:]...)
			break
		}
	}
}

// resolve returns the listeners to invoke for name, highest priority
// first and in registration order within a priority. Listeners matched by
// a pattern join the exact registrations of the same priority, unless the
// same listener is already there.
//
// The returned slice is shared with the cache and must not be modified.
func (r *registry) resolve(name string) []Listener {
	r.mu.RLock()
	ls, ok := r.resolved[name]
	r.mu.RUnlock()
	if ok {
		return ls
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ls, ok := r.resolved[name]; ok {
		return ls
	}

	merged := make(prioritized)
	for prio, registered := range r.exact[name] {
		merged[prio] = append([]Listener(nil), registered...)
	}
	for _, entry := range r.patterns {
		if !entry.re.MatchString(name) {
			continue
		}
		for prio, registered := range entry.listeners {
			for _, l := range registered {
				if !containsListener(merged[prio], l) {
					merged[prio] = append(merged[prio], l)
				}
			}
		}
	}

	priorities := make([]Priority, 0, len(merged))
	for prio := range merged {
		priorities = append(priorities, prio)
	}
	sort.Slice(priorities, func(i, j int) bool {
		return priorities[i] > priorities[j]
	})

	ls = make([]Listener, 0, merged.count())
	for _, prio := range priorities {
		ls = append(ls, merged[prio]...)
	}

	r.resolved[name] = ls
	return ls
}

// hasAny reports true as soon as any pattern is registered, whether or not
// it matches name.
func (r *registry) hasAny(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.patterns) > 0 || r.exact[name].count() > 0
}

// names returns the exact names followed by the pattern registrations, each
// group in first-registration order.
func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.exactOrder)+len(r.patterns))
	out = append(out, r.exactOrder...)
	for _, entry := range r.patterns {
		out = append(out, entry.source)
	}
	return out
}
