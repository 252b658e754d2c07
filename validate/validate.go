// Package validate holds the shared bookkeeping used by non-terminal
// production combinators to detect left recursion and memoize nullability,
// first sets, and debug labels.
//
// It generalizes the teacher corpus's repeated "NTHelper" pattern (seen
// across ictiobus's grammar/automaton packages as well as in the Rust
// source's production::NTHelper) into a single reusable type so every
// non-terminal combinator shares one left-recursion detector instead of
// reimplementing it.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/plog"
)

// Helper is embedded (by value, via a pointer field) in every non-terminal
// production combinator. TL is the grammar's token tag type, used only to
// memoize first sets.
type Helper[TL comparable] struct {
	ID string

	Nullability plog.Cell[bool]
	NullHidden  plog.Cell[bool]
	FirstSet    plog.Cell[map[TL]struct{}]
	Debugger    plog.Cell[plog.Label]
}

// NewHelper creates a Helper for the non-terminal identified by id. id must
// be unique within a grammar; it is used in left-recursion diagnostics and
// grammar printing.
func NewHelper[TL comparable](id string) *Helper[TL] {
	return &Helper[TL]{ID: id}
}

// AssignDebugger attaches a debug label to the production. It is an error to
// call this more than once.
func (h *Helper[TL]) AssignDebugger(label plog.Label) error {
	if err := h.Debugger.Set(label); err != nil {
		return fmt.Errorf("debugger is already set for %s", h.ID)
	}
	return nil
}

// GetDebugger returns the assigned debug label, if any.
func (h *Helper[TL]) GetDebugger() (plog.Label, bool) {
	return h.Debugger.Get()
}

// InitFirstSet memoizes and returns the production's first set, computing it
// via f on first access.
func (h *Helper[TL]) InitFirstSet(f func() map[TL]struct{}) map[TL]struct{} {
	return h.FirstSet.GetOrInit(f)
}

// ValidateCircularDependency checks and records this production's id in
// visited, the nullability-recursion path accumulated so far in the current
// obtain-nullability call stack. An id seen twice means a left-recursive
// cycle of nullable-prefix productions; the returned error names the full
// chain.
//
// Callers pass a COPY of their visited map to each child (mirroring the
// Rust source's explicit `.clone()` at each recursive call site), so that
// sibling subtrees do not see each other's recursion path.
func (h *Helper[TL]) ValidateCircularDependency(visited map[string]int) error {
	if _, ok := visited[h.ID]; ok {
		return perr.Implementation(formatChain(h.ID, visited))
	}
	visited[h.ID] = len(visited)
	return nil
}

// HasVisited records this production's id in connected (the active
// nullable-prefix chain for the current validate() traversal) and in
// visitedProd (the set of productions validated at all, across the whole
// graph).
//
// It returns (true, nil) the first time a production is reached at all,
// meaning the caller should recurse into its children. It returns (false,
// nil) if the production was already fully validated on a prior path. It
// returns a LeftRecursive ImplementationError if id is already present in
// connected, meaning the current traversal re-entered it through only
// nullable-prefix edges.
func (h *Helper[TL]) HasVisited(connected map[string]int, visitedProd map[string]bool) (bool, error) {
	if _, ok := connected[h.ID]; ok {
		return false, perr.Implementation(formatChain(h.ID, connected))
	}
	if !visitedProd[h.ID] {
		visitedProd[h.ID] = true
		connected[h.ID] = len(connected)
		return true, nil
	}
	return false, nil
}

// CloneInts returns a shallow copy of an int-valued map, for passing a
// fresh or branched connected-set/visited-path to a child without aliasing
// the caller's map.
func CloneInts(m map[string]int) map[string]int {
	cp := make(map[string]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func formatChain(id string, connected map[string]int) string {
	type entry struct {
		id  string
		idx int
	}
	entries := make([]entry, 0, len(connected))
	for k, v := range connected {
		entries = append(entries, entry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	var sb strings.Builder
	sb.WriteString(id)
	for i := len(entries) - 1; i >= 0; i-- {
		sb.WriteString(" <- ")
		sb.WriteString(entries[i].id)
		if entries[i].id == id {
			break
		}
	}
	return sb.String()
}
