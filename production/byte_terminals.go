package production

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/plog"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/dekarrin/packrat/token"
	"github.com/dekarrin/packrat/trie"
)

// RegexField matches a compiled regular expression against the remaining
// source bytes, taking Go's leftmost-first match (not necessarily the
// longest), which must start at the cursor. Byte-driven only; panics
// if invoked with either token driver (spec.md §4.5).
type RegexField[TN packrat.NodeTag, TL token.Tag] struct {
	re        *regexp.Regexp
	pattern   string
	nodeValue *TN
	log       plog.Cell[plog.Label]
}

// NewRegexField compiles pattern and builds a RegexField. nodeValue, if
// non-nil, is the tag of the single leaf emitted on a match.
func NewRegexField[TN packrat.NodeTag, TL token.Tag](pattern string, nodeValue *TN) (*RegexField[TN, TL], error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, perr.Constructionf("%s", err)
	}
	return &RegexField[TN, TL]{re: re, pattern: pattern, nodeValue: nodeValue}, nil
}

func (p *RegexField[TN, TL]) SetLog(label plog.Label) error { return p.log.Set(label) }

func (p *RegexField[TN, TL]) String() string {
	escaped := bytes.ReplaceAll([]byte(p.pattern), []byte("/"), []byte("\\/"))
	if p.nodeValue != nil {
		return fmt.Sprintf("/%s/; %v]", escaped, *p.nodeValue)
	}
	return fmt.Sprintf("/%s/; ]", escaped)
}

func (p *RegexField[TN, TL]) IsNullable() bool          { return p.re.Match(nil) }
func (p *RegexField[TN, TL]) IsNullableAndHidden() bool { return false }
func (p *RegexField[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) {
	return p.IsNullable(), nil
}
func (p *RegexField[TN, TL]) FirstSet(_ map[TL]struct{}) {
	panic("packrat/production: RegexField terminal is not expected with token implementations")
}
func (p *RegexField[TN, TL]) ImplGrammar(_ io.Writer, _ map[string]bool) error { return nil }
func (p *RegexField[TN, TL]) Validate(_ map[string]int, _ map[string]bool) error {
	return nil
}

func (p *RegexField[TN, TL]) AdvanceFilteredPtr(_ *position.Code, _ stream.FilteredPtr, _ *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	panicNotApplicable("RegexField", "tokenized")
	panic("unreachable")
}

func (p *RegexField[TN, TL]) AdvanceRawPtr(_ *position.Code, _ stream.RawPtr, _ *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	panicNotApplicable("RegexField", "tokenized")
	panic("unreachable")
}

func (p *RegexField[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	loc := p.re.FindIndex(code.Value[index:])
	if loc == nil || loc[0] != 0 {
		var zero packrat.SuccessData[int, TN]
		return zero, perr.Unparsed
	}
	consumed := index + loc[1]
	cache.UpdateIndex(consumed)
	if p.nodeValue == nil {
		return packrat.HiddenSuccess[int, TN](consumed), nil
	}
	node := packrat.Leaf(*p.nodeValue, index, consumed, nil)
	return packrat.TreeSuccess(consumed, node), nil
}

// ConstantField matches one fixed literal against the remaining source
// bytes. Byte-driven only.
type ConstantField[TN packrat.NodeTag, TL token.Tag] struct {
	value     []byte
	nodeValue *TN
	log       plog.Cell[plog.Label]
}

// NewConstantField builds a ConstantField matching value. value must be
// non-empty; use NullProd for an always-matching empty production.
func NewConstantField[TN packrat.NodeTag, TL token.Tag](value string, nodeValue *TN) *ConstantField[TN, TL] {
	if len(value) == 0 {
		panic("packrat/production: ConstantField value must not be empty, use NullProd instead")
	}
	return &ConstantField[TN, TL]{value: []byte(value), nodeValue: nodeValue}
}

func (p *ConstantField[TN, TL]) SetLog(label plog.Label) error { return p.log.Set(label) }

func (p *ConstantField[TN, TL]) String() string {
	if p.nodeValue != nil {
		return fmt.Sprintf("[%q; %v]", p.value, *p.nodeValue)
	}
	return fmt.Sprintf("[%q; ]", p.value)
}

func (p *ConstantField[TN, TL]) IsNullable() bool          { return len(p.value) == 0 }
func (p *ConstantField[TN, TL]) IsNullableAndHidden() bool { return len(p.value) == 0 && p.nodeValue == nil }
func (p *ConstantField[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) {
	return p.IsNullable(), nil
}
func (p *ConstantField[TN, TL]) FirstSet(_ map[TL]struct{}) {
	panic("packrat/production: ConstantField terminal is not expected with token implementations")
}
func (p *ConstantField[TN, TL]) ImplGrammar(_ io.Writer, _ map[string]bool) error { return nil }
func (p *ConstantField[TN, TL]) Validate(_ map[string]int, _ map[string]bool) error {
	return nil
}

func (p *ConstantField[TN, TL]) AdvanceFilteredPtr(_ *position.Code, _ stream.FilteredPtr, _ *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	panicNotApplicable("ConstantField", "tokenized")
	panic("unreachable")
}

func (p *ConstantField[TN, TL]) AdvanceRawPtr(_ *position.Code, _ stream.RawPtr, _ *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	panicNotApplicable("ConstantField", "tokenized")
	panic("unreachable")
}

func (p *ConstantField[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	if !bytes.HasPrefix(code.Value[index:], p.value) {
		var zero packrat.SuccessData[int, TN]
		return zero, perr.Unparsed
	}
	consumed := index + len(p.value)
	cache.UpdateIndex(consumed)
	if p.nodeValue == nil {
		return packrat.HiddenSuccess[int, TN](consumed), nil
	}
	node := packrat.Leaf(*p.nodeValue, index, consumed, nil)
	return packrat.TreeSuccess(consumed, node), nil
}

type constantEntry[TN packrat.NodeTag] struct {
	value     []byte
	nodeValue *TN
}

// ConstantFieldSet matches the longest of several literal alternatives.
// Byte-driven only.
type ConstantFieldSet[TN packrat.NodeTag, TL token.Tag] struct {
	entries []constantEntry[TN]
	log     plog.Cell[plog.Label]
}

// NewConstantFieldSet builds a ConstantFieldSet from (literal, nodeValue)
// pairs, sorted so the longest literal is tried first.
func NewConstantFieldSet[TN packrat.NodeTag, TL token.Tag](pairs []struct {
	Value     string
	NodeValue *TN
}) *ConstantFieldSet[TN, TL] {
	entries := make([]constantEntry[TN], len(pairs))
	for i, pr := range pairs {
		entries[i] = constantEntry[TN]{value: []byte(pr.Value), nodeValue: pr.NodeValue}
	}
	sort.SliceStable(entries, func(i, j int) bool { return len(entries[i].value) > len(entries[j].value) })
	return &ConstantFieldSet[TN, TL]{entries: entries}
}

func (p *ConstantFieldSet[TN, TL]) SetLog(label plog.Label) error { return p.log.Set(label) }

func (p *ConstantFieldSet[TN, TL]) semantics() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		if e.nodeValue != nil {
			out[i] = fmt.Sprintf("[%q; %v]", e.value, *e.nodeValue)
		} else {
			out[i] = fmt.Sprintf("[%q; ]", e.value)
		}
	}
	return out
}

func (p *ConstantFieldSet[TN, TL]) String() string {
	return "(" + joinPipe(p.semantics()) + ")"
}

func (p *ConstantFieldSet[TN, TL]) IsNullable() bool {
	return len(p.entries) > 0 && len(p.entries[len(p.entries)-1].value) == 0
}
func (p *ConstantFieldSet[TN, TL]) IsNullableAndHidden() bool {
	for i := len(p.entries) - 1; i >= 0 && len(p.entries[i].value) == 0; i-- {
		if p.entries[i].nodeValue == nil {
			return true
		}
	}
	return false
}
func (p *ConstantFieldSet[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) {
	return p.IsNullable(), nil
}
func (p *ConstantFieldSet[TN, TL]) FirstSet(_ map[TL]struct{}) {
	panic("packrat/production: ConstantFieldSet terminal is not expected with token implementations")
}
func (p *ConstantFieldSet[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	return nil
}
func (p *ConstantFieldSet[TN, TL]) Validate(_ map[string]int, _ map[string]bool) error {
	return nil
}

func (p *ConstantFieldSet[TN, TL]) AdvanceFilteredPtr(_ *position.Code, _ stream.FilteredPtr, _ *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	panicNotApplicable("ConstantFieldSet", "tokenized")
	panic("unreachable")
}

func (p *ConstantFieldSet[TN, TL]) AdvanceRawPtr(_ *position.Code, _ stream.RawPtr, _ *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	panicNotApplicable("ConstantFieldSet", "tokenized")
	panic("unreachable")
}

func (p *ConstantFieldSet[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	for _, e := range p.entries {
		if !bytes.HasPrefix(code.Value[index:], e.value) {
			continue
		}
		consumed := index + len(e.value)
		cache.UpdateIndex(consumed)
		if e.nodeValue == nil {
			return packrat.HiddenSuccess[int, TN](consumed), nil
		}
		node := packrat.Leaf(*e.nodeValue, index, consumed, nil)
		return packrat.TreeSuccess(consumed, node), nil
	}
	var zero packrat.SuccessData[int, TN]
	return zero, perr.Unparsed
}

// PunctuationsField matches the longest of several short literal
// alternatives using a field trie, the terminal-level equivalent of
// lexeme.Punctuations (spec.md §4.1 vs §4.5 distinguish the lexeme-time and
// parse-time versions of the same "longest literal wins" rule). Byte-driven
// only.
type PunctuationsField[TN packrat.NodeTag, TL token.Tag] struct {
	tree    *trie.Trie[*TN]
	entries []constantEntry[TN] // sorted longest literal first (stable), for grammar rendering
	log     plog.Cell[plog.Label]
}

// NewPunctuationsField builds a PunctuationsField from (literal, nodeValue)
// pairs. Returns a ConstructionError if values is empty or a literal
// repeats.
func NewPunctuationsField[TN packrat.NodeTag, TL token.Tag](pairs []struct {
	Value     string
	NodeValue *TN
}) (*PunctuationsField[TN, TL], error) {
	if len(pairs) == 0 {
		return nil, perr.Construction("punctuation field set must not be empty")
	}
	t := trie.New[*TN]()
	entries := make([]constantEntry[TN], len(pairs))
	for i, pr := range pairs {
		if err := t.Insert([]byte(pr.Value), pr.NodeValue); err != nil {
			return nil, perr.Constructionf("field %q has been used multiple times", pr.Value)
		}
		entries[i] = constantEntry[TN]{value: []byte(pr.Value), nodeValue: pr.NodeValue}
	}
	sort.SliceStable(entries, func(i, j int) bool { return len(entries[i].value) > len(entries[j].value) })
	return &PunctuationsField[TN, TL]{tree: t, entries: entries}, nil
}

func (p *PunctuationsField[TN, TL]) SetLog(label plog.Label) error { return p.log.Set(label) }

func (p *PunctuationsField[TN, TL]) semantics() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		if e.nodeValue != nil {
			out[i] = fmt.Sprintf("[%q; %v]", e.value, *e.nodeValue)
		} else {
			out[i] = fmt.Sprintf("[%q; ]", e.value)
		}
	}
	return out
}

func (p *PunctuationsField[TN, TL]) String() string {
	return "(" + joinPipe(p.semantics()) + ")"
}

func (p *PunctuationsField[TN, TL]) IsNullable() bool {
	return len(p.entries) > 0 && len(p.entries[len(p.entries)-1].value) == 0
}
func (p *PunctuationsField[TN, TL]) IsNullableAndHidden() bool {
	for i := len(p.entries) - 1; i >= 0 && len(p.entries[i].value) == 0; i-- {
		if p.entries[i].nodeValue == nil {
			return true
		}
	}
	return false
}
func (p *PunctuationsField[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) {
	return p.IsNullable(), nil
}
func (p *PunctuationsField[TN, TL]) FirstSet(_ map[TL]struct{}) {
	panic("packrat/production: PunctuationsField terminal is not expected with token implementations")
}
func (p *PunctuationsField[TN, TL]) ImplGrammar(_ io.Writer, _ map[string]bool) error { return nil }
func (p *PunctuationsField[TN, TL]) Validate(_ map[string]int, _ map[string]bool) error {
	return nil
}

func (p *PunctuationsField[TN, TL]) AdvanceFilteredPtr(_ *position.Code, _ stream.FilteredPtr, _ *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	panicNotApplicable("PunctuationsField", "tokenized")
	panic("unreachable")
}

func (p *PunctuationsField[TN, TL]) AdvanceRawPtr(_ *position.Code, _ stream.RawPtr, _ *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	panicNotApplicable("PunctuationsField", "tokenized")
	panic("unreachable")
}

func (p *PunctuationsField[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	nodeValue, n, ok := p.tree.FindLongest(code.Value[index:])
	if !ok {
		var zero packrat.SuccessData[int, TN]
		return zero, perr.Unparsed
	}
	consumed := index + n
	cache.UpdateIndex(consumed)
	if nodeValue == nil {
		return packrat.HiddenSuccess[int, TN](consumed), nil
	}
	node := packrat.Leaf(*nodeValue, index, consumed, nil)
	return packrat.TreeSuccess(consumed, node), nil
}
