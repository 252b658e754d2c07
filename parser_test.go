package packrat_test

import (
	"strings"
	"testing"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/cache"
	"github.com/dekarrin/packrat/internal/testgrammar"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/production"
)

func Test_DefaultParser_Grammar_IncludesTokenizerFields(t *testing.T) {
	parser, err := testgrammar.NewArithParser()
	if err != nil {
		t.Fatalf("NewArithParser: %v", err)
	}
	g, err := parser.Grammar()
	if err != nil {
		t.Fatalf("Grammar: %v", err)
	}
	if g == "" {
		t.Fatal("expected a non-empty grammar")
	}
}

func Test_DefaultParser_Tokenize_Standalone(t *testing.T) {
	parser, err := testgrammar.NewArithParser()
	if err != nil {
		t.Fatalf("NewArithParser: %v", err)
	}
	toks, err := parser.Tokenize(position.New([]byte("1 + 2")))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) == 0 {
		t.Fatal("expected at least one token")
	}
}

func Test_DefaultParser_AddDebugProduction_DebugProductionAt(t *testing.T) {
	parser, err := testgrammar.NewArithParser()
	if err != nil {
		t.Fatalf("NewArithParser: %v", err)
	}
	parser.AddDebugProduction("sum", testgrammar.NewArithGrammar())

	tree, err := parser.DebugProductionAt("sum", []byte("1 + 2"), 0)
	if err != nil {
		t.Fatalf("DebugProductionAt: %v", err)
	}
	if len(tree) != 1 || tree[0].Tag != testgrammar.NodeAdd {
		t.Fatalf("got tree %+v, want a single NodeAdd root", tree)
	}
}

func Test_DefaultParser_DebugProductionAt_UnregisteredID(t *testing.T) {
	parser, err := testgrammar.NewArithParser()
	if err != nil {
		t.Fatalf("NewArithParser: %v", err)
	}
	if _, err := parser.DebugProductionAt("nope", []byte("1"), 0); err == nil {
		t.Fatal("expected an error for an unregistered debug production id")
	}
}

func Test_DefaultParser_ParseError_PointsAtFarthestProgress(t *testing.T) {
	parser, err := testgrammar.NewJSONParser()
	if err != nil {
		t.Fatalf("NewJSONParser: %v", err)
	}
	_, err = parser.Parse([]byte(`{"a": }`))
	if err == nil {
		t.Fatal("expected a parse error on a missing value")
	}
	if !strings.Contains(err.Error(), "Failed to parse at") {
		t.Fatalf("error message = %q, want it to report a line:col position", err.Error())
	}
}

func Test_DefaultParser_ParseError_DebugFlagAddsDetail(t *testing.T) {
	parser, err := testgrammar.NewJSONParser()
	if err != nil {
		t.Fatalf("NewJSONParser: %v", err)
	}

	_, errPlain := parser.Parse([]byte(`{"a": }`))
	if errPlain == nil {
		t.Fatal("expected a parse error")
	}

	packrat.Debug = true
	cache.Debug = true
	defer func() {
		packrat.Debug = false
		cache.Debug = false
	}()

	_, errDebug := parser.Parse([]byte(`{"a": }`))
	if errDebug == nil {
		t.Fatal("expected a parse error with Debug on")
	}
	if len(errDebug.Error()) <= len(errPlain.Error()) {
		t.Fatalf("expected the Debug-flag message to be longer: plain=%q debug=%q", errPlain.Error(), errDebug.Error())
	}
}

func Test_DefaultParser_ParseError_UnexpectedEndOfFile(t *testing.T) {
	parser, err := testgrammar.NewJSONParser()
	if err != nil {
		t.Fatalf("NewJSONParser: %v", err)
	}
	_, err = parser.Parse([]byte(`{"a":`))
	if err == nil {
		t.Fatal("expected a parse error on truncated input")
	}
	if !strings.Contains(err.Error(), "Unexpected end of file") {
		t.Fatalf("error message = %q, want an end-of-file message", err.Error())
	}
}

// buildLexerlessDigits builds a minimal lexerless grammar: one or more
// ASCII digits matched directly against source bytes, with no tokenizer
// stage at all.
func buildLexerlessDigits(t *testing.T) *packrat.LexerlessParser[int, string] {
	t.Helper()
	const nodeDigits = 1
	tag := nodeDigits
	field, err := production.NewRegexField[int, string]("^[0-9]+", &tag)
	if err != nil {
		t.Fatalf("NewRegexField: %v", err)
	}
	parser, err := packrat.NewLexerlessParser[int, string](field, cache.NewByteFactory[int]())
	if err != nil {
		t.Fatalf("NewLexerlessParser: %v", err)
	}
	return parser
}

func Test_LexerlessParser_ParseRoundTrip(t *testing.T) {
	parser := buildLexerlessDigits(t)
	tree, err := parser.Parse([]byte("42"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tree) != 1 || tree[0].Start != 0 || tree[0].End != 2 {
		t.Fatalf("got tree %+v, want a single node spanning [0,2)", tree)
	}
}

func Test_LexerlessParser_Grammar(t *testing.T) {
	parser := buildLexerlessDigits(t)
	g, err := parser.Grammar()
	if err != nil {
		t.Fatalf("Grammar: %v", err)
	}
	if g == "" {
		t.Fatal("expected a non-empty grammar")
	}
}

func Test_LexerlessParser_ParseError(t *testing.T) {
	parser := buildLexerlessDigits(t)
	if _, err := parser.Parse([]byte("abc")); err == nil {
		t.Fatal("expected a parse error on non-digit input")
	}
}

func Test_LexerlessParser_AddDebugProduction_DebugProductionAt(t *testing.T) {
	parser := buildLexerlessDigits(t)
	const nodeDigits = 1
	tag := nodeDigits
	field, err := production.NewRegexField[int, string]("^[0-9]+", &tag)
	if err != nil {
		t.Fatalf("NewRegexField: %v", err)
	}
	parser.AddDebugProduction("digits", field)

	tree, err := parser.DebugProductionAt("digits", []byte("xx123"), 2)
	if err != nil {
		t.Fatalf("DebugProductionAt: %v", err)
	}
	if len(tree) != 1 || tree[0].Start != 2 || tree[0].End != 5 {
		t.Fatalf("got tree %+v, want a single node spanning [2,5)", tree)
	}
}

func Test_LexerlessParser_DebugProductionAt_UnregisteredID(t *testing.T) {
	parser := buildLexerlessDigits(t)
	if _, err := parser.DebugProductionAt("nope", []byte("1"), 0); err == nil {
		t.Fatal("expected an error for an unregistered debug production id")
	}
}
