package crossword

import (
	"errors"
	"testing"

	"crossword-service/internal/domain"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		mode     ExtractMode
		wantWord string
		wantClue string
	}{
		{
			name:     "last content word",
			answer:   "B. The Sun's radiation",
			mode:     LastContentWord,
			wantWord: "radiation",
			wantClue: "the sun's ",
		},
		{
			name:     "trailing filler ignored",
			answer:   "A. Capital of France and the",
			mode:     LastContentWord,
			wantWord: "france",
			wantClue: "capital of ",
		},
		{
			name:     "single word",
			answer:   "C. Paris",
			mode:     LastContentWord,
			wantWord: "paris",
			wantClue: " ",
		},
		{
			name:     "numeric preferred",
			answer:   "C. In 1945 the war ended",
			mode:     PreferNumeric,
			wantWord: "1945",
			wantClue: "in ",
		},
		{
			name:     "numeric mode without digits",
			answer:   "D. The mitochondria",
			mode:     PreferNumeric,
			wantWord: "mitochondria",
			wantClue: "the ",
		},
		{
			name:     "numeric ignored in default mode",
			answer:   "C. In 1945 the war ended",
			mode:     LastContentWord,
			wantWord: "ended",
			wantClue: "in 1945 the war ",
		},
		{
			name:     "only filler words",
			answer:   "A. of the",
			mode:     LastContentWord,
			wantWord: "the",
			wantClue: "of ",
		},
		{
			name:     "no option prefix",
			answer:   "Photosynthesis",
			mode:     LastContentWord,
			wantWord: "photosynthesis",
			wantClue: " ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(domain.Question{Prompt: "q", CorrectAnswer: tt.answer}, tt.mode)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if got.Word != tt.wantWord {
				t.Errorf("word = %q, want %q", got.Word, tt.wantWord)
			}
			if got.ClueText != tt.wantClue {
				t.Errorf("clue = %q, want %q", got.ClueText, tt.wantClue)
			}
			if got.Prompt != "q" {
				t.Errorf("prompt = %q, want %q", got.Prompt, "q")
			}
		})
	}
}

func TestExtractEmptyAnswer(t *testing.T) {
	for _, answer := range []string{"", "D. ", "   "} {
		_, err := Extract(domain.Question{CorrectAnswer: answer}, LastContentWord)
		if !errors.Is(err, domain.ErrMalformedAnswer) {
			t.Fatalf("answer %q: expected ErrMalformedAnswer, got %v", answer, err)
		}
		var extractErr *ExtractionError
		if !errors.As(err, &extractErr) || extractErr.Answer != answer {
			t.Fatalf("answer %q: expected ExtractionError, got %#v", answer, err)
		}
	}
}
