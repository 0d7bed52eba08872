// Package crossword lays out answer words on a square grid and scores attempts to fill it.
package crossword

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"crossword-service/internal/domain"
)

// ExtractMode selects which token of an answer becomes the guessable word.
type ExtractMode int

const (
	// LastContentWord picks the last token that is not a filler word.
	LastContentWord ExtractMode = iota
	// PreferNumeric picks the first content token containing a digit, else the last one.
	PreferNumeric
)

var optionPrefix = regexp.MustCompile(`^[A-D]\.\s*`)

var fillerWords = map[string]struct{}{
	"of": {}, "and": {}, "the": {}, "in": {}, "to": {}, "a": {}, "an": {},
}

// ExtractionError reports an answer that yields no guessable word.
type ExtractionError struct {
	Answer string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract word from %q: %v", e.Answer, domain.ErrMalformedAnswer)
}

func (e *ExtractionError) Unwrap() error {
	return domain.ErrMalformedAnswer
}

// Extract derives the guessable word and its clue text from a question's correct answer.
func Extract(q domain.Question, mode ExtractMode) (domain.ExtractedWord, error) {
	full := strings.ToLower(optionPrefix.ReplaceAllString(q.CorrectAnswer, ""))
	tokens := strings.Fields(full)
	if len(tokens) == 0 {
		return domain.ExtractedWord{}, &ExtractionError{Answer: q.CorrectAnswer}
	}

	content := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, filler := fillerWords[tok]; !filler {
			content = append(content, tok)
		}
	}
	// An answer made only of filler words still has to produce something to guess.
	if len(content) == 0 {
		content = tokens[len(tokens)-1:]
	}

	word := content[len(content)-1]
	if mode == PreferNumeric {
		for _, tok := range content {
			if strings.IndexFunc(tok, unicode.IsDigit) >= 0 {
				word = tok
				break
			}
		}
	}

	return domain.ExtractedWord{
		Word:     word,
		ClueText: strings.TrimSpace(full[:strings.LastIndex(full, word)]) + " ",
		Prompt:   q.Prompt,
	}, nil
}
