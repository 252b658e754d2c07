package stream

import (
	"testing"

	"github.com/dekarrin/packrat/token"
)

type tag string

const (
	tagNum tag = "NUM"
	tagWS  tag = "WS"
	tagEOF tag = "EOF"
)

func isStructural(t tag) bool { return t != tagWS }

func buildStream() *TokenStream[tag] {
	raw := []token.Token[tag]{
		{Tag: tagNum, Start: 0, End: 1},
		{Tag: tagWS, Start: 1, End: 2},
		{Tag: tagNum, Start: 2, End: 3},
		{Tag: tagEOF, Start: 3, End: 3},
	}
	return New(raw, tagEOF, isStructural)
}

func Test_New_FiltersTrivia(t *testing.T) {
	s := buildStream()
	if s.RawLen() != 4 {
		t.Fatalf("RawLen() = %d, want 4", s.RawLen())
	}
	if s.FilteredLen() != 3 {
		t.Fatalf("FilteredLen() = %d, want 3", s.FilteredLen())
	}
}

func Test_RawPtrForFiltered(t *testing.T) {
	s := buildStream()
	if got := s.RawPtrForFiltered(1); got != 2 {
		t.Fatalf("RawPtrForFiltered(1) = %d, want 2", got)
	}
}

func Test_FindFilterPtr_StructuralToken(t *testing.T) {
	s := buildStream()
	idx, ok := s.FindFilterPtr(2)
	if !ok || idx != 1 {
		t.Fatalf("FindFilterPtr(2) = (%d, %v), want (1, true)", idx, ok)
	}
}

func Test_FindFilterPtr_NonStructuralToken(t *testing.T) {
	s := buildStream()
	idx, ok := s.FindFilterPtr(1)
	if ok {
		t.Fatal("expected ok=false for a whitespace token's raw index")
	}
	if idx != 1 {
		t.Fatalf("insertion point = %d, want 1", idx)
	}
}

func Test_FilteredIndexAt(t *testing.T) {
	s := buildStream()
	idx, ok := s.FilteredIndexAt(2)
	if !ok || idx != 1 {
		t.Fatalf("FilteredIndexAt(2) = (%d, %v), want (1, true)", idx, ok)
	}

	idx, ok = s.FilteredIndexAt(1)
	if ok {
		t.Fatal("expected ok=false at a non-structural byte position")
	}
	if idx != 1 {
		t.Fatalf("insertion point = %d, want 1", idx)
	}
}

func Test_EOSPointer_And_IsEOS(t *testing.T) {
	s := buildStream()
	if s.EOSPointer() != 3 {
		t.Fatalf("EOSPointer() = %d, want 3", s.EOSPointer())
	}
	if !s.IsEOS(2) {
		t.Fatal("expected filtered index 2 to be EOF")
	}
	if s.IsEOS(0) {
		t.Fatal("filtered index 0 must not be EOF")
	}
	if !s.IsEOSRaw(3) {
		t.Fatal("expected raw index 3 to be EOF")
	}
}

func Test_IterRaw_And_IterFiltered(t *testing.T) {
	s := buildStream()

	var rawTags []tag
	s.IterRaw(0, RawPtr(s.RawLen()), func(_ RawPtr, tok token.Token[tag]) {
		rawTags = append(rawTags, tok.Tag)
	})
	if len(rawTags) != 4 {
		t.Fatalf("IterRaw visited %d tokens, want 4", len(rawTags))
	}

	var filteredTags []tag
	s.IterFiltered(0, FilteredPtr(s.FilteredLen()), func(_ FilteredPtr, tok token.Token[tag]) {
		filteredTags = append(filteredTags, tok.Tag)
	})
	if len(filteredTags) != 3 {
		t.Fatalf("IterFiltered visited %d tokens, want 3", len(filteredTags))
	}
	for _, ft := range filteredTags {
		if ft == tagWS {
			t.Fatal("IterFiltered must not visit whitespace tokens")
		}
	}
}
