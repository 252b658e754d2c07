package plog

import "testing"

func Test_Cell_SetAndGet(t *testing.T) {
	var c Cell[string]

	if _, ok := c.Get(); ok {
		t.Fatal("zero-value cell must report unset")
	}

	if err := c.Set("first"); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	val, ok := c.Get()
	if !ok || val != "first" {
		t.Fatalf("Get() = (%q, %v), want (first, true)", val, ok)
	}
}

func Test_Cell_SetTwiceFails(t *testing.T) {
	var c Cell[int]
	if err := c.Set(1); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if err := c.Set(2); err == nil {
		t.Fatal("expected error setting an already-set cell")
	}
	val, _ := c.Get()
	if val != 1 {
		t.Fatalf("value changed after failed Set: got %d, want 1", val)
	}
}

func Test_Cell_GetOrInit_CallsFuncOnlyOnce(t *testing.T) {
	var c Cell[int]
	calls := 0
	init := func() int {
		calls++
		return 42
	}

	first := c.GetOrInit(init)
	second := c.GetOrInit(init)

	if first != 42 || second != 42 {
		t.Fatalf("GetOrInit returned (%d, %d), want (42, 42)", first, second)
	}
	if calls != 1 {
		t.Fatalf("init func called %d times, want 1", calls)
	}
}
