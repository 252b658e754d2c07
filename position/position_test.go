package position

import "testing"

func Test_Code_At(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	code := New(src)

	cases := []struct {
		bytePos int
		want    Position
	}{
		{0, Position{Line: 1, Col: 1}},
		{2, Position{Line: 1, Col: 3}},
		{4, Position{Line: 2, Col: 1}},
		{7, Position{Line: 2, Col: 4}},
		{8, Position{Line: 3, Col: 1}},
	}

	for _, tc := range cases {
		got := code.At(tc.bytePos)
		if got != tc.want {
			t.Errorf("At(%d) = %+v, want %+v", tc.bytePos, got, tc.want)
		}
	}
}

func Test_Code_At_ClampsPastEnd(t *testing.T) {
	src := []byte("abc")
	code := New(src)

	got := code.At(1000)
	want := Position{Line: 1, Col: 4}
	if got != want {
		t.Fatalf("At(1000) = %+v, want %+v", got, want)
	}
}

func Test_Code_Len(t *testing.T) {
	code := New([]byte("hello"))
	if code.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", code.Len())
	}
}

func Test_Code_At_CachesNewlineIndex(t *testing.T) {
	code := New([]byte("a\nb\nc"))
	first := code.At(4)
	second := code.At(4)
	if first != second {
		t.Fatalf("repeated At() calls disagree: %+v vs %+v", first, second)
	}
}
