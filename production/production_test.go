package production

import (
	"testing"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/cache"
	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Node tags used across this file's grammars. Each test builds its own
// small production graph rather than sharing one across cases, mirroring
// how ictiobus's grammar tests build a fresh Grammar per table entry.
type nodeTag int

const (
	tagNum nodeTag = iota
	tagAdd
	tagList
	tagItem
	tagSep
)

func parseBytes[TN packrat.NodeTag](t *testing.T, prod packrat.IProduction[TN, string], src string) (packrat.SuccessData[int, TN], error) {
	t.Helper()
	code := position.New([]byte(src))
	c := cache.New[int, TN]()
	return prod.AdvanceBytePtr(code, 0, c)
}

func Test_ConstantField_AdvanceBytePtr(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		expectErr bool
	}{
		{name: "exact match", src: "if"},
		{name: "prefix of longer word", src: "ifx"},
		{name: "no match", src: "else", expectErr: true},
	}

	tag := tagNum
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewConstantField[nodeTag, string]("if", &tag)
			data, err := parseBytes[nodeTag](t, p, tc.src)
			if tc.expectErr {
				assert.True(t, perr.IsUnparsed(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, data.ConsumedIndex)
			require.Len(t, data.Children, 1)
			assert.Equal(t, tagNum, data.Children[0].Tag)
		})
	}
}

func Test_ConstantFieldSet_LongestMatchWins(t *testing.T) {
	num := tagNum
	add := tagAdd
	p := NewConstantFieldSet[nodeTag, string]([]struct {
		Value     string
		NodeValue *nodeTag
	}{
		{Value: "+", NodeValue: &add},
		{Value: "++", NodeValue: &num},
	})

	data, err := parseBytes[nodeTag](t, p, "++x")
	require.NoError(t, err)
	assert.Equal(t, 2, data.ConsumedIndex)
	require.Len(t, data.Children, 1)
	assert.Equal(t, tagNum, data.Children[0].Tag)
}

func Test_PunctuationsField(t *testing.T) {
	add := tagAdd
	p, err := NewPunctuationsField[nodeTag, string]([]struct {
		Value     string
		NodeValue *nodeTag
	}{
		{Value: "+", NodeValue: &add},
		{Value: "+=", NodeValue: nil},
	})
	require.NoError(t, err)

	data, err := parseBytes[nodeTag](t, p, "+=1")
	require.NoError(t, err)
	assert.Equal(t, 2, data.ConsumedIndex)
	assert.Empty(t, data.Children, "nil node value must hide the match")
}

func Test_PunctuationsField_DuplicateLiteralRejected(t *testing.T) {
	add := tagAdd
	_, err := NewPunctuationsField[nodeTag, string]([]struct {
		Value     string
		NodeValue *nodeTag
	}{
		{Value: "+", NodeValue: &add},
		{Value: "+", NodeValue: &add},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple times")
}

func Test_RegexField(t *testing.T) {
	num := tagNum
	p, err := NewRegexField[nodeTag, string](`^[0-9]+`, &num)
	require.NoError(t, err)

	data, err := parseBytes[nodeTag](t, p, "123abc")
	require.NoError(t, err)
	assert.Equal(t, 3, data.ConsumedIndex)

	_, err = parseBytes[nodeTag](t, p, "abc")
	assert.True(t, perr.IsUnparsed(err))
}

// buildSumGrammar builds: Sum := Num Suffixes(Add Num @tagAdd)?, standalone,
// the left-recursion-elimination idiom from spec.md §4.6 applied to a sum
// of two numbers. Suffixes applies at most one suffix, so a longer chain
// such as "1+2+3" is only matched up to "1+2".
func buildSumGrammar() packrat.IProduction[nodeTag, string] {
	num := tagNum
	numProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &num)
	if err != nil {
		panic(err)
	}
	plus := NewConstantField[nodeTag, string]("+", nil)

	addAndNum := NewConcatWithSymbols[nodeTag, string]("AddNum", []packrat.IProduction[nodeTag, string]{plus, numProd})

	addTag := tagAdd
	return NewSuffixesWithEntries[nodeTag, string]("Sum", numProd, true, []SuffixEntry[nodeTag, string]{
		{Production: addAndNum, NodeValue: &addTag},
	})
}

func Test_Suffixes_AppliesOneSuffix(t *testing.T) {
	sum := buildSumGrammar()

	data, err := parseBytes[nodeTag](t, sum, "1+2+3")
	require.NoError(t, err)
	assert.Equal(t, 3, data.ConsumedIndex)
	require.Len(t, data.Children, 1)

	root := data.Children[0]
	assert.Equal(t, tagAdd, root.Tag)
	// One suffix is applied: the Add node wraps 1 and 2, and "+3" is left
	// unconsumed.
	require.Len(t, root.Children, 2)
	assert.Equal(t, tagNum, root.Children[0].Tag)
	assert.Equal(t, tagNum, root.Children[1].Tag)
}

func Test_Suffixes_StandaloneFallsBackToLeft(t *testing.T) {
	sum := buildSumGrammar()

	data, err := parseBytes[nodeTag](t, sum, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, data.ConsumedIndex)
	require.Len(t, data.Children, 1)
	assert.Equal(t, tagNum, data.Children[0].Tag)
}

func Test_Suffixes_NotStandaloneRequiresASuffix(t *testing.T) {
	num := tagNum
	numProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &num)
	require.NoError(t, err)
	plus := NewConstantField[nodeTag, string]("+", nil)
	addAndNum := NewConcatWithSymbols[nodeTag, string]("AddNum", []packrat.IProduction[nodeTag, string]{plus, numProd})
	addTag := tagAdd
	sum := NewSuffixesWithEntries[nodeTag, string]("Sum", numProd, false, []SuffixEntry[nodeTag, string]{
		{Production: addAndNum, NodeValue: &addTag},
	})

	_, err = parseBytes[nodeTag](t, sum, "1")
	assert.True(t, perr.IsUnparsed(err))
}

func Test_Union_FirstMatchWins(t *testing.T) {
	num := tagNum
	add := tagAdd
	numProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &num)
	require.NoError(t, err)
	addLit := NewConstantField[nodeTag, string]("+", &add)

	u := NewUnionWithSymbols[nodeTag, string]("Atom", []packrat.IProduction[nodeTag, string]{numProd, addLit})

	data, err := parseBytes[nodeTag](t, u, "+")
	require.NoError(t, err)
	require.Len(t, data.Children, 1)
	assert.Equal(t, tagAdd, data.Children[0].Tag)

	_, err = parseBytes[nodeTag](t, u, "x")
	assert.True(t, perr.IsUnparsed(err))
}

func Test_List_RequiresAtLeastOne(t *testing.T) {
	add := tagAdd
	plus := NewConstantField[nodeTag, string]("+", &add)
	l := NewList[nodeTag, string](plus)

	data, err := parseBytes[nodeTag](t, l, "+++x")
	require.NoError(t, err)
	assert.Equal(t, 3, data.ConsumedIndex)
	assert.Len(t, data.Children, 3)

	_, err = parseBytes[nodeTag](t, l, "x")
	assert.True(t, perr.IsUnparsed(err))
}

func Test_SeparatedList_Inclusive(t *testing.T) {
	item := tagItem
	itemProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &item)
	require.NoError(t, err)
	comma := NewConstantField[nodeTag, string](",", nil)

	sl := NewSeparatedList[nodeTag, string](itemProd, comma, true)

	data, err := parseBytes[nodeTag](t, sl, "1,2,3,")
	require.NoError(t, err)
	assert.Equal(t, 6, data.ConsumedIndex)
	assert.Len(t, data.Children, 3)
}

func Test_SeparatedList_Exclusive_StopsBeforeTrailingSeparator(t *testing.T) {
	item := tagItem
	itemProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &item)
	require.NoError(t, err)
	comma := NewConstantField[nodeTag, string](",", nil)

	sl := NewSeparatedList[nodeTag, string](itemProd, comma, false)

	data, err := parseBytes[nodeTag](t, sl, "1,2,")
	require.NoError(t, err)
	assert.Equal(t, 3, data.ConsumedIndex)
	assert.Len(t, data.Children, 2)
}

func Test_Nullable_FallsBackToNullNodeOnNoMatch(t *testing.T) {
	num := tagNum
	numProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &num)
	require.NoError(t, err)
	nullTag := tagNum
	n := NewNullable[nodeTag, string](numProd, nullTag)

	data, err := parseBytes[nodeTag](t, n, "abc")
	require.NoError(t, err)
	assert.Equal(t, 0, data.ConsumedIndex)
	require.Len(t, data.Children, 1)
	assert.Equal(t, tagNum, data.Children[0].Tag)
}

func Test_Hidden_SuppressesChildren(t *testing.T) {
	num := tagNum
	numProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &num)
	require.NoError(t, err)
	h := NewHidden[nodeTag, string](numProd)

	data, err := parseBytes[nodeTag](t, h, "42")
	require.NoError(t, err)
	assert.Equal(t, 2, data.ConsumedIndex)
	assert.Empty(t, data.Children)
}

func Test_Node_WrapsChildrenInNewNode(t *testing.T) {
	item := tagItem
	itemProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &item)
	require.NoError(t, err)
	comma := NewConstantField[nodeTag, string](",", nil)
	sl := NewSeparatedList[nodeTag, string](itemProd, comma, false)

	listTag := tagList
	n := NewNode[nodeTag, string](sl, &listTag)

	data, err := parseBytes[nodeTag](t, n, "1,2,3")
	require.NoError(t, err)
	require.Len(t, data.Children, 1)
	assert.Equal(t, tagList, data.Children[0].Tag)
	assert.Len(t, data.Children[0].Children, 3)
}

func Test_Validator_RejectsOnSemanticCheck(t *testing.T) {
	num := tagNum
	numProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &num)
	require.NoError(t, err)

	mustBeEven := func(children []packrat.ASTNode[nodeTag], src []byte) *perr.ProductionError {
		if len(src)%2 != 0 {
			return perr.NewValidation(0, "odd-length source rejected")
		}
		return nil
	}
	v := NewValidator[nodeTag, string](numProd, mustBeEven)

	_, err = parseBytes[nodeTag](t, v, "123")
	require.Error(t, err)
	assert.True(t, perr.IsInvalid(err), "a Validator failure must be a hard ProductionError, not a soft one")

	data, err := parseBytes[nodeTag](t, v, "12")
	require.NoError(t, err)
	assert.Equal(t, 2, data.ConsumedIndex)
}

func Test_Cacheable_AdvanceRawPtrPanics(t *testing.T) {
	num := tagNum
	numProd, err := NewRegexField[nodeTag, string](`^[0-9]+`, &num)
	require.NoError(t, err)
	c := NewCacheable[nodeTag, string](packrat.CacheKey(1), numProd)

	assert.Panics(t, func() {
		code := position.New([]byte("1"))
		mt := cache.New[stream.FilteredPtr, nodeTag]()
		_, _ = c.AdvanceRawPtr(code, 0, nil, mt)
	})
}
