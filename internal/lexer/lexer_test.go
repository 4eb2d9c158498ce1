package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachlang"
)

func tags(t *testing.T, src string) []teachlang.TokenTag {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	out := make([]teachlang.TokenTag, len(toks))
	for i, tok := range toks {
		out[i] = tok.Tag
	}
	return out
}

func TestLexKeywordsAndPunctuation(t *testing.T) {
	got := tags(t, "program x = 1 + 2 end program")
	assert.Equal(t, []teachlang.TokenTag{
		teachlang.TokProgram,
		teachlang.TokIdentifier,
		teachlang.TokAssign,
		teachlang.TokNumber,
		teachlang.TokPlus,
		teachlang.TokNumber,
		teachlang.TokEndProgram,
		teachlang.TokEOF,
	}, got)
}

func TestLexEndFusesWithBlockKeyword(t *testing.T) {
	for word, want := range map[string]teachlang.TokenTag{
		"program":     teachlang.TokEndProgram,
		"definitions": teachlang.TokEndDefinitions,
		"structure":   teachlang.TokEndStructure,
		"function":    teachlang.TokEndFunction,
		"if":          teachlang.TokEndIf,
		"while":       teachlang.TokEndWhile,
		"repeat":      teachlang.TokEndRepeat,
	} {
		toks, err := Lex("end " + word)
		require.NoError(t, err)
		require.Len(t, toks, 2)
		assert.Equal(t, want, toks[0].Tag)
	}
}

func TestLexEndRejectsUnknownFollower(t *testing.T) {
	_, err := Lex("end bogus")
	assert.Error(t, err)
}

func TestLexIsLinkedAndIsNotLinked(t *testing.T) {
	toks, err := Lex("r is linked")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, teachlang.TokIsLinked, toks[1].Tag)

	toks, err = Lex("r is not linked")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, teachlang.TokIsNotLinked, toks[1].Tag)
}

func TestLexNumberAndText(t *testing.T) {
	toks, err := Lex(`3.14 "hi\nthere"`)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "3.14", toks[0].Lexeme)
	assert.Equal(t, "hi\nthere", toks[1].Lexeme)
}

func TestLexUnterminatedTextErrors(t *testing.T) {
	_, err := Lex(`"unterminated`)
	assert.Error(t, err)
}

func TestLexTwoCharOperators(t *testing.T) {
	got := tags(t, "a == b != c <= d >= e")
	want := []teachlang.TokenTag{
		teachlang.TokIdentifier, teachlang.TokEq,
		teachlang.TokIdentifier, teachlang.TokNeq,
		teachlang.TokIdentifier, teachlang.TokLte,
		teachlang.TokIdentifier, teachlang.TokGte,
		teachlang.TokIdentifier, teachlang.TokEOF,
	}
	assert.Equal(t, want, got)
}

func TestLexCommentsAreSkipped(t *testing.T) {
	toks, err := Lex("x = 1 # this is a comment\ny = 2")
	require.NoError(t, err)
	var lexemes []string
	for _, tok := range toks {
		lexemes = append(lexemes, tok.Lexeme)
	}
	assert.NotContains(t, lexemes, "this")
}

func TestLexUnexpectedCharacterErrors(t *testing.T) {
	_, err := Lex("x = @")
	assert.Error(t, err)
}
