// Package cache implements the Packrat memoization table: a map from
// (CacheKey, byte position) to a production's prior result, plus the
// monotone "farthest point reached" counter used to localize parse errors
// (spec.md §4.7).
package cache

import (
	"github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/stream"
)

// Debug is a package-level switch kept alongside packrat.Debug. Nothing in
// this package reads it: the extra detail in ParseError messages is
// controlled by packrat.Debug alone.
var Debug bool

type mapKey struct {
	key     packrat.CacheKey
	bytePos int
}

// Cache is the concrete packrat.MemoTable implementation. I is the
// consumed-index type a driver's productions report (stream.FilteredPtr,
// stream.RawPtr, or int); entries are always looked up by byte position
// regardless of I.
type Cache[I any, TN packrat.NodeTag] struct {
	results        map[mapKey]packrat.CachedResult[I, TN]
	maxParsedPoint int
}

// New builds an empty Cache rooted at byte position 0.
func New[I any, TN packrat.NodeTag]() *Cache[I, TN] {
	return &Cache[I, TN]{results: make(map[mapKey]packrat.CachedResult[I, TN])}
}

// NewAt builds an empty Cache whose farthest-point counter starts at
// startingPoint, for debug-production invocations that begin mid-input.
func NewAt[I any, TN packrat.NodeTag](startingPoint int) *Cache[I, TN] {
	c := New[I, TN]()
	c.maxParsedPoint = startingPoint
	return c
}

// Contains reports whether a result is memoized for (key, bytePos).
func (c *Cache[I, TN]) Contains(key packrat.CacheKey, bytePos int) bool {
	_, ok := c.results[mapKey{key, bytePos}]
	return ok
}

// Find returns the memoized result for (key, bytePos), if bytePos is
// within the cache's farthest-reached range and an entry exists there.
func (c *Cache[I, TN]) Find(key packrat.CacheKey, bytePos int) (packrat.CachedResult[I, TN], bool) {
	if bytePos > c.maxParsedPoint {
		var zero packrat.CachedResult[I, TN]
		return zero, false
	}
	r, ok := c.results[mapKey{key, bytePos}]
	return r, ok
}

// Insert memoizes result for (key, bytePos) and advances the
// farthest-reached counter if bytePos is new ground.
func (c *Cache[I, TN]) Insert(key packrat.CacheKey, bytePos int, result packrat.CachedResult[I, TN]) {
	if bytePos > c.maxParsedPoint {
		c.maxParsedPoint = bytePos
	}
	c.results[mapKey{key, bytePos}] = result
}

// UpdateIndex advances the farthest-reached counter to bytePos if it is
// further than what's already recorded.
func (c *Cache[I, TN]) UpdateIndex(bytePos int) {
	if bytePos > c.maxParsedPoint {
		c.maxParsedPoint = bytePos
	}
}

// MaxParsedPoint is the farthest byte position any memoized result has
// reached so far.
func (c *Cache[I, TN]) MaxParsedPoint() int {
	return c.maxParsedPoint
}

// NewFilteredFactory returns a packrat.FilteredCacheFactory building fresh
// Cache[stream.FilteredPtr, TN] instances, the shape expected by
// DefaultParser.
func NewFilteredFactory[TN packrat.NodeTag]() packrat.FilteredCacheFactory[TN] {
	return func() packrat.FilteredMemoTable[TN] {
		return New[stream.FilteredPtr, TN]()
	}
}

// NewByteFactory returns a packrat.ByteCacheFactory building fresh
// Cache[int, TN] instances, the shape expected by LexerlessParser.
func NewByteFactory[TN packrat.NodeTag]() packrat.ByteCacheFactory[TN] {
	return func() packrat.ByteMemoTable[TN] {
		return New[int, TN]()
	}
}
