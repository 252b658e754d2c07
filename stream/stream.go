// Package stream provides the token stream view: a raw token vector plus
// the subsequence of "structural" tokens, with conversion between the two
// indexings (spec.md §4.4).
package stream

import (
	"sort"

	"github.com/dekarrin/packrat/token"
)

// RawPtr indexes the full token vector, including trivia tokens.
type RawPtr int

// FilteredPtr indexes the structural-only subsequence of a token vector.
type FilteredPtr int

// TokenStream is a borrowed view over a token vector: ordered access by raw
// index, ordered access by filtered (structural-only) index, and
// conversion between the two.
type TokenStream[TL token.Tag] struct {
	raw      []token.Token[TL]
	filtered []RawPtr
	eofTag   TL
}

// New builds a TokenStream from a completed token vector. isStructural
// decides, per tag, whether a token participates in the filtered view.
func New[TL token.Tag](raw []token.Token[TL], eofTag TL, isStructural func(TL) bool) *TokenStream[TL] {
	filtered := make([]RawPtr, 0, len(raw))
	for i, tok := range raw {
		if isStructural(tok.Tag) {
			filtered = append(filtered, RawPtr(i))
		}
	}
	return &TokenStream[TL]{raw: raw, filtered: filtered, eofTag: eofTag}
}

// Raw returns the token at a raw index.
func (s *TokenStream[TL]) Raw(idx RawPtr) token.Token[TL] {
	return s.raw[idx]
}

// Filtered returns the token at a filtered index.
func (s *TokenStream[TL]) Filtered(idx FilteredPtr) token.Token[TL] {
	return s.raw[s.filtered[idx]]
}

// RawLen is the number of tokens in the raw view, EOF included.
func (s *TokenStream[TL]) RawLen() int {
	return len(s.raw)
}

// FilteredLen is the number of tokens in the structural-only view.
func (s *TokenStream[TL]) FilteredLen() int {
	return len(s.filtered)
}

// RawPtrForFiltered converts a filtered index to the raw index of the same
// token.
func (s *TokenStream[TL]) RawPtrForFiltered(idx FilteredPtr) RawPtr {
	return s.filtered[idx]
}

// FindFilterPtr converts a raw index to the filtered index of the same
// token, if it is structural. ok is false when idx's token is not
// structural, in which case idx is the insertion point among the filtered
// sequence (the filtered index of the nearest following structural token).
func (s *TokenStream[TL]) FindFilterPtr(idx RawPtr) (FilteredPtr, bool) {
	i := sort.Search(len(s.filtered), func(i int) bool { return s.filtered[i] >= idx })
	ok := i < len(s.filtered) && s.filtered[i] == idx
	return FilteredPtr(i), ok
}

// FilteredIndexAt finds the filtered index of the structural token whose
// byte start equals bytePos. ok is false when no structural token starts
// exactly there, in which case idx is the insertion point (the filtered
// index of the nearest following structural token, possibly FilteredLen()).
func (s *TokenStream[TL]) FilteredIndexAt(bytePos int) (idx FilteredPtr, ok bool) {
	i := sort.Search(len(s.filtered), func(i int) bool {
		return s.raw[s.filtered[i]].Start >= bytePos
	})
	if i < len(s.filtered) && s.raw[s.filtered[i]].Start == bytePos {
		return FilteredPtr(i), true
	}
	return FilteredPtr(i), false
}

// EOSPointer is the byte position just past the last token (the EOF
// token's start, which equals its end).
func (s *TokenStream[TL]) EOSPointer() int {
	return s.raw[len(s.raw)-1].End
}

// IsEOS reports whether the token at a filtered index is the EOF token.
func (s *TokenStream[TL]) IsEOS(idx FilteredPtr) bool {
	return s.Filtered(idx).Tag == s.eofTag
}

// IsEOSRaw reports whether the token at a raw index is the EOF token.
func (s *TokenStream[TL]) IsEOSRaw(idx RawPtr) bool {
	return s.Raw(idx).Tag == s.eofTag
}

// IterRaw calls f for every raw token in [start, end).
func (s *TokenStream[TL]) IterRaw(start, end RawPtr, f func(RawPtr, token.Token[TL])) {
	for i := start; i < end; i++ {
		f(i, s.raw[i])
	}
}

// IterFiltered calls f for every structural token in [start, end).
func (s *TokenStream[TL]) IterFiltered(start, end FilteredPtr, f func(FilteredPtr, token.Token[TL])) {
	for i := start; i < end; i++ {
		f(i, s.Filtered(i))
	}
}
