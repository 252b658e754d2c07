package production

import (
	"fmt"
	"io"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/plog"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/dekarrin/packrat/token"
)

// Cacheable memoizes a production's result in a MemoTable, keyed by
// cacheKey and the byte position it was invoked at, so that repeated
// attempts to parse the same production at the same position (the
// defining cost of unmemoized backtracking recursive descent) are served
// from the table instead of reparsed (spec.md §4.7).
//
// Only applicable to filtered- and byte-driven parsing: a production
// wrapped in Cacheable must never be reached from inside a NonStructural
// region, since the raw-token driver shares the filtered driver's cache
// but is not itself position-stable across calls the way the filtered
// driver is.
type Cacheable[TN packrat.NodeTag, TL token.Tag] struct {
	cacheKey   packrat.CacheKey
	production packrat.IProduction[TN, TL]
	log        plog.Cell[plog.Label]
}

// NewCacheable wraps production with memoization under cacheKey.
func NewCacheable[TN packrat.NodeTag, TL token.Tag](cacheKey packrat.CacheKey, production packrat.IProduction[TN, TL]) *Cacheable[TN, TL] {
	return &Cacheable[TN, TL]{cacheKey: cacheKey, production: production}
}

func (c *Cacheable[TN, TL]) SetLog(label plog.Label) error { return c.log.Set(label) }

func (c *Cacheable[TN, TL]) String() string { return fmt.Sprintf("<%s>", c.production.String()) }

func (c *Cacheable[TN, TL]) IsNullable() bool          { return c.production.IsNullable() }
func (c *Cacheable[TN, TL]) IsNullableAndHidden() bool { return true }

func (c *Cacheable[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	return c.production.ObtainNullability(visited)
}

func (c *Cacheable[TN, TL]) FirstSet(set map[TL]struct{}) { c.production.FirstSet(set) }

func (c *Cacheable[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	return c.production.ImplGrammar(w, addedRules)
}

func (c *Cacheable[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return c.production.Validate(connected, visitedProd)
}

func (c *Cacheable[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	bytePos := ts.Filtered(index).Start
	if cached, ok := cache.Find(c.cacheKey, bytePos); ok {
		return cached.Data, cached.Err
	}
	data, err := c.production.AdvanceFilteredPtr(code, index, ts, cache)
	cache.Insert(c.cacheKey, bytePos, packrat.CachedResult[stream.FilteredPtr, TN]{Data: data, Err: err})
	return data, err
}

func (c *Cacheable[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	panic(fmt.Sprintf("packrat/production: caching is not implemented for non-structural parsing, remove Cacheable wrapper for %s", c.production.String()))
}

func (c *Cacheable[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	if cached, ok := cache.Find(c.cacheKey, index); ok {
		return cached.Data, cached.Err
	}
	data, err := c.production.AdvanceBytePtr(code, index, cache)
	cache.Insert(c.cacheKey, index, packrat.CachedResult[int, TN]{Data: data, Err: err})
	return data, err
}
