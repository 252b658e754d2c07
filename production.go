package packrat

import (
	"io"
	"strings"

	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/dekarrin/packrat/token"
)

// CacheKey is an opaque, user-assigned identifier for a memoized
// production. Two Cacheable wrappers sharing a key would collide in the
// cache, so callers are expected to hand out small distinct integers
// (spec.md §3's "cache key").
type CacheKey int

// CachedResult is what a MemoTable stores per (CacheKey, index) pair: the
// production's result, positive or negative.
type CachedResult[I any, TN NodeTag] struct {
	Data SuccessData[I, TN]
	Err  error
}

// MemoTable is the Packrat memoization table a production consults and
// populates while parsing. Entries are keyed by (CacheKey, byte position)
// regardless of which index type I the caller's own driver advances —
// Cacheable wrappers always look a result up by the byte offset of the
// token/position they were invoked at (spec.md §4.7). It is declared here,
// rather than as a concrete struct, so the cache package (which implements
// it) can depend on this package for ASTNode/SuccessData without this
// package depending back on cache.
type MemoTable[I any, TN NodeTag] interface {
	Find(key CacheKey, bytePos int) (CachedResult[I, TN], bool)
	Insert(key CacheKey, bytePos int, result CachedResult[I, TN])
	UpdateIndex(bytePos int)
	MaxParsedPoint() int
}

// IProduction is implemented by every terminal and non-terminal
// combinator. A production exposes three parse entry points — byte-driven,
// raw-token-driven, filtered(structural)-token-driven — plus the
// introspection needed for left-recursion validation and grammar printing
// (spec.md §4.5–§4.8). A production not applicable in a given driver mode
// panics if invoked in that mode.
type IProduction[TN NodeTag, TL token.Tag] interface {
	// IsNullable reports whether the production may succeed consuming no
	// input.
	IsNullable() bool

	// IsNullableAndHidden reports whether the production is nullable and,
	// on a null match, should contribute no children at all.
	IsNullableAndHidden() bool

	// ObtainNullability computes (and caches) nullability, detecting
	// left-recursive first-set cycles along the way. visited maps every
	// production id on the current derivation chain to its insertion
	// order.
	ObtainNullability(visited map[string]int) (bool, error)

	// FirstSet adds every token tag that can legally begin a successful
	// parse of this production into set.
	FirstSet(set map[TL]struct{})

	// ImplGrammar writes this production's grammar rule(s) to w, skipping
	// any id already present in addedRules.
	ImplGrammar(w io.Writer, addedRules map[string]bool) error

	// Validate checks this production and its descendants for
	// left-recursion. connected tracks the current derivation chain
	// (id → insertion order); visitedProd tracks every production id
	// visited anywhere in the whole validation pass.
	Validate(connected map[string]int, visitedProd map[string]bool) error

	// AdvanceFilteredPtr parses starting at a structural-token index.
	AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache MemoTable[stream.FilteredPtr, TN]) (SuccessData[stream.FilteredPtr, TN], error)

	// AdvanceRawPtr parses starting at a raw-token index (used only inside
	// a NonStructural region).
	AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache MemoTable[stream.FilteredPtr, TN]) (SuccessData[stream.RawPtr, TN], error)

	// AdvanceBytePtr parses starting at a raw byte offset (lexerless
	// driver).
	AdvanceBytePtr(code *position.Code, index int, cache MemoTable[int, TN]) (SuccessData[int, TN], error)

	String() string
}

// BuildGrammar renders p's own rule followed by every descendant rule
// it hasn't already rendered.
func BuildGrammar[TN NodeTag, TL token.Tag](p IProduction[TN, TL]) (string, error) {
	var b strings.Builder
	if _, err := b.WriteString(p.String() + "\n"); err != nil {
		return "", err
	}
	if err := p.ImplGrammar(&b, make(map[string]bool)); err != nil {
		return "", err
	}
	return b.String(), nil
}
