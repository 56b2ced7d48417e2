package mapreduce

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokenize lowercases text and splits it on every run of characters outside
// [a-z0-9]. Empty input, or input with no word characters, yields nil.
func Tokenize(text string) []Token {
	// Caser keeps state between calls, so each call gets its own.
	lower := cases.Lower(language.Und).String(text)

	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !isWordRune(r)
	})
	if len(fields) == 0 {
		return nil
	}

	tokens := make([]Token, len(fields))
	for i, f := range fields {
		tokens[i] = Token(f)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
