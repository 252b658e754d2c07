package lexeme

import (
	"fmt"
	"regexp"

	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
)

// Pattern wraps an anchored byte regex. The regex must never match the
// empty string — an empty match would let the tokenizer loop forever
// without advancing the cursor — so construction rejects such patterns.
type Pattern[TL token.Tag] struct {
	re  *regexp.Regexp
	tag TL
}

// NewPattern compiles src and binds matches to tag. It fails if src does
// not compile or if it matches the empty string.
func NewPattern[TL token.Tag](src string, tag TL) (*Pattern[TL], error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, perr.Constructionf("lexeme pattern %q: %v", src, err)
	}
	if re.Match(nil) {
		return nil, perr.Constructionf("lexeme pattern %q matches the empty string", src)
	}
	return &Pattern[TL]{re: re, tag: tag}, nil
}

func (p *Pattern[TL]) Consume(code *position.Code, cursor int, _ []token.Token[TL], _ *StateStack) (token.Token[TL], bool, bool) {
	loc := p.re.FindIndex(code.Value[cursor:])
	if loc == nil || loc[0] != 0 || loc[1] == loc[0] {
		var zero token.Token[TL]
		return zero, false, false
	}
	return token.Token[TL]{Tag: p.tag, Start: cursor, End: cursor + loc[1]}, true, false
}

func (p *Pattern[TL]) GrammarFields() []GrammarField {
	return []GrammarField{{Tag: fmt.Sprintf("%v", p.tag), Syntax: "/" + p.re.String() + "/"}}
}
