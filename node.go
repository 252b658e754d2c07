// Package packrat implements a memoized recursive-descent (packrat) parser
// builder: token/position primitives live in their own leaf packages, and
// this package ties them together with the AST, the production interface,
// and the two parser drivers (spec.md §2–§4).
package packrat

import (
	"fmt"

	"github.com/dekarrin/packrat/stream"
)

// NodeTag is the constraint satisfied by a grammar's AST node tag type. As
// with token.Tag, a small finite enumeration is expected.
type NodeTag interface {
	comparable
}

// Bound records the raw token range an ASTNode was produced from, present
// only when the node came out of a tokenized driver (spec.md §3).
type Bound struct {
	Start stream.RawPtr
	End   stream.RawPtr
}

// ASTNode is one node of a parse tree: a tag, the byte span it covers, an
// optional token bound, and its ordered children. A leaf has no children.
type ASTNode[TN NodeTag] struct {
	Tag      TN
	Start    int
	End      int
	Bound    *Bound
	Children []ASTNode[TN]
}

// NewNode builds an ASTNode with explicit children.
func NewNode[TN NodeTag](tag TN, start, end int, bound *Bound, children []ASTNode[TN]) ASTNode[TN] {
	if children == nil {
		children = []ASTNode[TN]{}
	}
	return ASTNode[TN]{Tag: tag, Start: start, End: end, Bound: bound, Children: children}
}

// Leaf builds a childless ASTNode.
func Leaf[TN NodeTag](tag TN, start, end int, bound *Bound) ASTNode[TN] {
	return NewNode(tag, start, end, bound, nil)
}

// NullNode builds the designated "null" leaf of a null production at
// pointer, with an optional bound when produced by a tokenized driver.
func NullNode[TN NodeTag](nullTag TN, pointer int, bound *Bound) ASTNode[TN] {
	return Leaf(nullTag, pointer, pointer, bound)
}

func (n ASTNode[TN]) String() string {
	return fmt.Sprintf("%v#%d-%d", n.Tag, n.Start, n.End)
}

// FindWithTag depth-first searches n and its descendants for the first
// node whose tag equals tag.
func (n ASTNode[TN]) FindWithTag(tag TN) (ASTNode[TN], bool) {
	return n.Find(func(c ASTNode[TN]) bool { return c.Tag == tag })
}

// Find depth-first searches n and its descendants for the first node
// matching pred.
func (n ASTNode[TN]) Find(pred func(ASTNode[TN]) bool) (ASTNode[TN], bool) {
	if pred(n) {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := c.Find(pred); ok {
			return found, true
		}
	}
	var zero ASTNode[TN]
	return zero, false
}

// ListWithTag returns every descendant (including n) whose tag equals tag,
// in depth-first order.
func (n ASTNode[TN]) ListWithTag(tag TN) []ASTNode[TN] {
	return n.List(func(c ASTNode[TN]) bool { return c.Tag == tag })
}

// List returns every descendant (including n) matching pred, in
// depth-first order.
func (n ASTNode[TN]) List(pred func(ASTNode[TN]) bool) []ASTNode[TN] {
	var out []ASTNode[TN]
	n.walk(func(c ASTNode[TN]) {
		if pred(c) {
			out = append(out, c)
		}
	})
	return out
}

// Contains reports whether n or any descendant has the given tag.
func (n ASTNode[TN]) Contains(tag TN) bool {
	_, ok := n.FindWithTag(tag)
	return ok
}

// Child returns the first direct child with the given tag.
func (n ASTNode[TN]) Child(tag TN) (ASTNode[TN], bool) {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c, true
		}
	}
	var zero ASTNode[TN]
	return zero, false
}

func (n ASTNode[TN]) walk(f func(ASTNode[TN])) {
	f(n)
	for _, c := range n.Children {
		c.walk(f)
	}
}

// SuccessData is the positive result of a production's parse attempt: how
// far the input pointer advanced, plus the flat ordered list of AST nodes
// contributed to the parent.
type SuccessData[I any, TN NodeTag] struct {
	ConsumedIndex I
	Children      []ASTNode[TN]
}

// NewSuccessData builds a SuccessData with explicit children.
func NewSuccessData[I any, TN NodeTag](consumed I, children []ASTNode[TN]) SuccessData[I, TN] {
	if children == nil {
		children = []ASTNode[TN]{}
	}
	return SuccessData[I, TN]{ConsumedIndex: consumed, Children: children}
}

// HiddenSuccess builds a SuccessData that contributes no children.
func HiddenSuccess[I any, TN NodeTag](consumed I) SuccessData[I, TN] {
	return SuccessData[I, TN]{ConsumedIndex: consumed, Children: []ASTNode[TN]{}}
}

// TreeSuccess builds a SuccessData contributing exactly one child node.
func TreeSuccess[I any, TN NodeTag](consumed I, tree ASTNode[TN]) SuccessData[I, TN] {
	return SuccessData[I, TN]{ConsumedIndex: consumed, Children: []ASTNode[TN]{tree}}
}

// Range reports the byte span covered by the children, if any.
func (s SuccessData[I, TN]) Range() (start, end int, ok bool) {
	if len(s.Children) == 0 {
		return 0, 0, false
	}
	return s.Children[0].Start, s.Children[len(s.Children)-1].End, true
}
