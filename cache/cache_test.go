package cache

import (
	"testing"

	"github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/stream"
)

type nodeTag int

func Test_Cache_InsertAndFind(t *testing.T) {
	c := New[int, nodeTag]()
	key := packrat.CacheKey(1)

	if _, ok := c.Find(key, 5); ok {
		t.Fatal("expected no entry before Insert")
	}

	want := packrat.CachedResult[int, nodeTag]{Data: packrat.SuccessData[int, nodeTag]{ConsumedIndex: 3}}
	c.Insert(key, 5, want)

	got, ok := c.Find(key, 5)
	if !ok {
		t.Fatal("expected an entry after Insert")
	}
	if got.Data.ConsumedIndex != 3 {
		t.Fatalf("ConsumedIndex = %d, want 3", got.Data.ConsumedIndex)
	}
}

func Test_Cache_Contains(t *testing.T) {
	c := New[int, nodeTag]()
	key := packrat.CacheKey(2)
	if c.Contains(key, 0) {
		t.Fatal("expected Contains to be false before Insert")
	}
	c.Insert(key, 0, packrat.CachedResult[int, nodeTag]{})
	if !c.Contains(key, 0) {
		t.Fatal("expected Contains to be true after Insert")
	}
}

func Test_Cache_MaxParsedPoint_AdvancesOnInsert(t *testing.T) {
	c := New[int, nodeTag]()
	c.Insert(packrat.CacheKey(1), 10, packrat.CachedResult[int, nodeTag]{})
	c.Insert(packrat.CacheKey(2), 4, packrat.CachedResult[int, nodeTag]{})

	if c.MaxParsedPoint() != 10 {
		t.Fatalf("MaxParsedPoint() = %d, want 10", c.MaxParsedPoint())
	}
}

func Test_Cache_UpdateIndex_OnlyAdvancesForward(t *testing.T) {
	c := NewAt[int, nodeTag](5)
	c.UpdateIndex(3)
	if c.MaxParsedPoint() != 5 {
		t.Fatalf("MaxParsedPoint() = %d, want 5 (must not move backward)", c.MaxParsedPoint())
	}
	c.UpdateIndex(8)
	if c.MaxParsedPoint() != 8 {
		t.Fatalf("MaxParsedPoint() = %d, want 8", c.MaxParsedPoint())
	}
}

func Test_Cache_Find_BeyondMaxParsedPoint(t *testing.T) {
	c := New[int, nodeTag]()
	key := packrat.CacheKey(1)
	c.Insert(key, 2, packrat.CachedResult[int, nodeTag]{})

	// Simulate a stale entry beyond the farthest-reached point by asking
	// for a position further than anything ever inserted.
	if _, ok := c.Find(key, 100); ok {
		t.Fatal("expected no entry beyond the farthest-reached point")
	}
}

func Test_NewFilteredFactory_BuildsIndependentCaches(t *testing.T) {
	factory := NewFilteredFactory[nodeTag]()
	a := factory()
	b := factory()

	a.Insert(packrat.CacheKey(1), 0, packrat.CachedResult[stream.FilteredPtr, nodeTag]{})
	if b.Contains(packrat.CacheKey(1), 0) {
		t.Fatal("caches produced by the factory must not share state")
	}
}
