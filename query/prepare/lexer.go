package prepare

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// templateLexer splits a statement template into placeholder and text tokens.
// Rule order matters: quoted placeholders must win over bare quotes and %%
// must win over %s so that "%%s" stays a literal.
var templateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Percent", Pattern: `%%`},
	{Name: "QuotedString", Pattern: `'%s'|"%s"`},
	{Name: "String", Pattern: `%s`},
	{Name: "Int", Pattern: `%d`},
	{Name: "Stray", Pattern: `%`},
	{Name: "Quote", Pattern: `['"]`},
	{Name: "Text", Pattern: `[^%'"]+`},
})

var symbols = templateLexer.Symbols()

type tokenKind int

const (
	tokText tokenKind = iota
	tokPercent
	tokString
	tokInt
)

type token struct {
	kind  tokenKind
	value string
}

func tokenize(template string) ([]token, error) {
	lex, err := templateLexer.LexString("", template)
	if err != nil {
		return nil, err
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}

	tokens := make([]token, 0, len(raw))
	for _, t := range raw {
		if t.EOF() {
			break
		}
		switch t.Type {
		case symbols["Percent"]:
			tokens = append(tokens, token{kind: tokPercent, value: "%"})
		case symbols["QuotedString"], symbols["String"]:
			tokens = append(tokens, token{kind: tokString})
		case symbols["Int"]:
			tokens = append(tokens, token{kind: tokInt})
		default:
			tokens = append(tokens, token{kind: tokText, value: t.Value})
		}
	}
	return tokens, nil
}
