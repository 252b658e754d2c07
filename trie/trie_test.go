package trie

import "testing"

func Test_FindLongest_PrefersLongerMatch(t *testing.T) {
	tr := New[string]()
	if err := tr.Insert([]byte("+"), "PLUS"); err != nil {
		t.Fatalf("insert +: %v", err)
	}
	if err := tr.Insert([]byte("++"), "INCREMENT"); err != nil {
		t.Fatalf("insert ++: %v", err)
	}
	if err := tr.Insert([]byte("+="), "PLUS_EQ"); err != nil {
		t.Fatalf("insert +=: %v", err)
	}

	val, n, ok := tr.FindLongest([]byte("+++="))
	if !ok {
		t.Fatal("expected a match")
	}
	if val != "INCREMENT" || n != 2 {
		t.Fatalf("got (%q, %d), want (INCREMENT, 2)", val, n)
	}
}

func Test_FindLongest_NoMatch(t *testing.T) {
	tr := New[string]()
	if err := tr.Insert([]byte("if"), "IF"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, _, ok := tr.FindLongest([]byte("else"))
	if ok {
		t.Fatal("expected no match")
	}
}

func Test_Insert_DuplicateKeyRejected(t *testing.T) {
	tr := New[string]()
	if err := tr.Insert([]byte("if"), "IF"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := tr.Insert([]byte("if"), "IF2")
	if err == nil {
		t.Fatal("expected error on duplicate key")
	}
	if _, ok := err.(*DuplicateKeyError); !ok {
		t.Fatalf("expected *DuplicateKeyError, got %T", err)
	}
}

func Test_FindLongest_EmptyTrie(t *testing.T) {
	tr := New[int]()
	_, _, ok := tr.FindLongest([]byte("anything"))
	if ok {
		t.Fatal("expected no match on empty trie")
	}
}
