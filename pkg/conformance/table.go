package conformance

import (
	"sort"
	"sync"
)

// Result is the outcome of running one Vector.
type Result struct {
	Name   string
	Passed bool
	Err    error
}

// Table collects conformance results from concurrent workers.
type Table struct {
	mu      sync.Mutex
	results []Result
}

// NewTable creates an empty result table.
func NewTable() *Table {
	return &Table{}
}

// Add records a result. Safe for concurrent use.
func (t *Table) Add(r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results = append(t.results, r)
}

// Results returns a sorted copy: failures first, then alphabetically by
// name within each group.
func (t *Table) Results() []Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Result, len(t.results))
	copy(out, t.results)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Passed != out[j].Passed {
			return !out[i].Passed
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len reports the number of recorded results.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.results)
}

// Failed reports how many recorded results failed.
func (t *Table) Failed() int {
	n := 0
	for _, r := range t.Results() {
		if !r.Passed {
			n++
		}
	}
	return n
}
