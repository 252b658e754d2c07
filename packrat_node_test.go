package packrat

import "testing"

type nodeTag int

const (
	tagRoot nodeTag = iota
	tagChild
	tagGrandchild
)

func buildTree() ASTNode[nodeTag] {
	grand := Leaf(tagGrandchild, 2, 3, nil)
	child := NewNode(tagChild, 1, 3, nil, []ASTNode[nodeTag]{grand})
	return NewNode(tagRoot, 0, 3, nil, []ASTNode[nodeTag]{child})
}

func Test_Leaf_HasNoChildren(t *testing.T) {
	leaf := Leaf(tagGrandchild, 0, 1, nil)
	if len(leaf.Children) != 0 {
		t.Fatalf("Leaf produced %d children, want 0", len(leaf.Children))
	}
}

func Test_NewNode_NilChildrenBecomesEmptySlice(t *testing.T) {
	n := NewNode(tagRoot, 0, 1, nil, nil)
	if n.Children == nil {
		t.Fatal("expected NewNode to normalize a nil children slice to empty")
	}
}

func Test_NullNode_IsZeroWidth(t *testing.T) {
	n := NullNode(tagRoot, 5, nil)
	if n.Start != 5 || n.End != 5 {
		t.Fatalf("NullNode span = [%d,%d), want [5,5)", n.Start, n.End)
	}
}

func Test_ASTNode_String(t *testing.T) {
	n := Leaf(tagRoot, 1, 4, nil)
	want := "0#1-4"
	if got := n.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func Test_FindWithTag_DepthFirst(t *testing.T) {
	tree := buildTree()
	found, ok := tree.FindWithTag(tagGrandchild)
	if !ok {
		t.Fatal("expected to find the grandchild node")
	}
	if found.Start != 2 || found.End != 3 {
		t.Fatalf("found node span = [%d,%d), want [2,3)", found.Start, found.End)
	}
}

func Test_FindWithTag_Missing(t *testing.T) {
	tree := buildTree()
	if _, ok := tree.FindWithTag(nodeTag(99)); ok {
		t.Fatal("expected no match for an absent tag")
	}
}

func Test_ListWithTag_IncludesRootAndDescendants(t *testing.T) {
	tree := buildTree()
	got := tree.ListWithTag(tagChild)
	if len(got) != 1 {
		t.Fatalf("ListWithTag(tagChild) returned %d nodes, want 1", len(got))
	}
	root := tree.ListWithTag(tagRoot)
	if len(root) != 1 || root[0].Start != 0 || root[0].End != 3 {
		t.Fatalf("ListWithTag(tagRoot) = %+v, want the root node itself", root)
	}
}

func Test_Contains(t *testing.T) {
	tree := buildTree()
	if !tree.Contains(tagGrandchild) {
		t.Fatal("expected Contains(tagGrandchild) to be true")
	}
	if tree.Contains(nodeTag(99)) {
		t.Fatal("expected Contains of an absent tag to be false")
	}
}

func Test_Child_OnlyDirectChildren(t *testing.T) {
	tree := buildTree()
	if _, ok := tree.Child(tagGrandchild); ok {
		t.Fatal("Child must not search grandchildren")
	}
	got, ok := tree.Child(tagChild)
	if !ok || got.Tag != tagChild {
		t.Fatalf("Child(tagChild) = (%+v, %v)", got, ok)
	}
}

func Test_SuccessData_Range(t *testing.T) {
	data := NewSuccessData[int, nodeTag](3, []ASTNode[nodeTag]{
		Leaf(tagChild, 0, 1, nil),
		Leaf(tagChild, 1, 3, nil),
	})
	start, end, ok := data.Range()
	if !ok || start != 0 || end != 3 {
		t.Fatalf("Range() = (%d, %d, %v), want (0, 3, true)", start, end, ok)
	}
}

func Test_SuccessData_Range_NoChildren(t *testing.T) {
	data := HiddenSuccess[int, nodeTag](0)
	if _, _, ok := data.Range(); ok {
		t.Fatal("expected ok=false when there are no children")
	}
}

func Test_TreeSuccess_SingleChild(t *testing.T) {
	tree := Leaf(tagRoot, 0, 2, nil)
	data := TreeSuccess[int, nodeTag](2, tree)
	if len(data.Children) != 1 {
		t.Fatalf("TreeSuccess produced %d children, want 1", len(data.Children))
	}
	if data.Children[0].Tag != tagRoot {
		t.Fatalf("child tag = %v, want tagRoot", data.Children[0].Tag)
	}
}
