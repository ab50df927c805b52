package errors

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kastree-lang/kastree/compiler/ast"
	"github.com/kastree-lang/kastree/compiler/lexer"
)

// maxKeywordDistance bounds the edit distance of a keyword suggestion
const maxKeywordDistance = 2

// softKeywords are words with meaning only in context
var softKeywords = []string{
	"by", "catch", "companion", "constructor", "enum", "field", "finally",
	"get", "import", "init", "set", "where",
}

// knownWords returns every hard keyword, modifier keyword and soft keyword,
// sorted and without duplicates
func knownWords() []string {
	seen := make(map[string]bool)
	add := func(w string) { seen[w] = true }
	for _, w := range lexer.Keywords() {
		add(w)
	}
	for k := ast.Keyword(0); k.Valid(); k++ {
		add(k.String())
	}
	for _, w := range softKeywords {
		add(w)
	}
	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// suggestFix generates a suggestion based on the error code
func suggestFix(err CompilerError) *FixSuggestion {
	switch err.Code {
	case ErrUnexpectedToken, ErrExpectedDeclaration, ErrExpectedKeyword:
		return suggestKeyword(err)
	case ErrExpectedBrace:
		return suggestClosing(err, "}")
	case ErrExpectedParen:
		return suggestClosing(err, ")")
	case ErrExpectedBracket:
		return suggestClosing(err, "]")
	case ErrUnterminatedString:
		return suggestCloseString(err)
	case ErrInvalidEscape:
		return &FixSuggestion{
			Description: `Valid escapes are \t \b \n \r \' \" \\ \$ and \uXXXX`,
			Confidence:  1.0,
		}
	case ErrMissingCatchOrFinally:
		return &FixSuggestion{
			Description: "A try block needs at least one catch or a finally block",
			NewCode:     "try {\n    ...\n} finally {\n}",
			Confidence:  0.8,
		}
	case ErrUnterminatedComment:
		return &FixSuggestion{
			Description: "Close the block comment with '*/'; nested comments need one '*/' each",
			Confidence:  0.9,
		}
	default:
		return nil
	}
}

// suggestKeyword suggests the keyword closest to the word at the error,
// as in "did you mean 'fun'?"
func suggestKeyword(err CompilerError) *FixSuggestion {
	word := wordAt(err.Context)
	if word == "" {
		return nil
	}
	best, distance := closestWord(word, knownWords())
	if best == "" || best == word {
		return nil
	}

	line := err.Context.SourceLines[err.Context.Highlight.Line]
	return &FixSuggestion{
		Description: fmt.Sprintf("Unknown word '%s', did you mean '%s'?", word, best),
		OldCode:     strings.TrimSpace(line),
		NewCode:     strings.TrimSpace(strings.Replace(line, word, best, 1)),
		Confidence:  1.0 - float64(distance)*0.2,
	}
}

// closestWord returns the candidate nearest to word within
// maxKeywordDistance, or "" when none is close enough
func closestWord(word string, candidates []string) (string, int) {
	best, bestDistance := "", maxKeywordDistance+1
	for _, c := range candidates {
		d := levenshtein(strings.ToLower(word), c)
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestDistance
}

// wordAt returns the identifier starting at the highlighted column
func wordAt(ctx ErrorContext) string {
	if len(ctx.SourceLines) == 0 || ctx.Highlight.Line >= len(ctx.SourceLines) {
		return ""
	}
	line := []rune(ctx.SourceLines[ctx.Highlight.Line])
	start := ctx.Highlight.Start
	if start < 0 || start >= len(line) {
		return ""
	}
	end := start
	for end < len(line) && (unicode.IsLetter(line[end]) || unicode.IsDigit(line[end]) || line[end] == '_') {
		end++
	}
	return string(line[start:end])
}

func suggestClosing(err CompilerError, closer string) *FixSuggestion {
	return &FixSuggestion{
		Description: fmt.Sprintf("Add the missing '%s'", closer),
		Confidence:  0.6,
	}
}

func suggestCloseString(err CompilerError) *FixSuggestion {
	if len(err.Context.SourceLines) == 0 {
		return &FixSuggestion{
			Description: "Close the string literal",
			Confidence:  0.7,
		}
	}
	line := err.Context.SourceLines[err.Context.Highlight.Line]
	quote := `"`
	if strings.Contains(line, `"""`) {
		quote = `"""`
	}
	return &FixSuggestion{
		Description: "Close the string literal",
		OldCode:     strings.TrimSpace(line),
		NewCode:     strings.TrimSpace(line) + quote,
		Confidence:  0.7,
	}
}

// levenshtein computes the edit distance between two strings
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
