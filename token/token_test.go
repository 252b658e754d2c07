package token

import "testing"

func Test_Token_LenAndText(t *testing.T) {
	src := []byte("hello world")
	tok := Token[string]{Tag: "WORD", Start: 0, End: 5}

	if tok.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", tok.Len())
	}
	if string(tok.Text(src)) != "hello" {
		t.Fatalf("Text() = %q, want %q", tok.Text(src), "hello")
	}
}

func Test_Token_String(t *testing.T) {
	tok := Token[string]{Tag: "WORD", Start: 2, End: 7}
	got := tok.String()
	want := "WORD@[2:7)"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
