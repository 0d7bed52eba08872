package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"crossword-service/internal/domain"
)

// sampleQuestionSets backs the service when no database is configured.
func sampleQuestionSets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"sample": {
			ID:    "sample",
			Title: "Photosynthesis",
			Questions: []domain.Question{
				{
					Prompt:        "What do plants use to capture energy from the sun?",
					Answers:       []string{"A. Roots", "B. Chlorophyll", "C. Water", "D. Soil"},
					CorrectAnswer: "B. Chlorophyll",
					Difficulty:    domain.DifficultyEasy,
				},
				{
					Prompt:        "Which sugar is produced by photosynthesis?",
					Answers:       []string{"A. Sucrose", "B. Lactose", "C. Glucose", "D. Fructose"},
					CorrectAnswer: "C. Glucose",
					Difficulty:    domain.DifficultyEasy,
				},
				{
					Prompt:        "Which gas is released as a by-product?",
					Answers:       []string{"A. Oxygen", "B. Nitrogen", "C. Methane", "D. Argon"},
					CorrectAnswer: "A. Oxygen",
					Difficulty:    domain.DifficultyEasy,
				},
				{
					Prompt:        "Through which openings does carbon dioxide enter a leaf?",
					Answers:       []string{"A. The xylem", "B. The phloem", "C. The stomata", "D. The cuticle"},
					CorrectAnswer: "C. The stomata",
					Difficulty:    domain.DifficultyMedium,
				},
				{
					Prompt:        "In which organelle does photosynthesis take place?",
					Answers:       []string{"A. Nucleus", "B. Chloroplast", "C. Ribosome", "D. Vacuole"},
					CorrectAnswer: "B. Chloroplast",
					Difficulty:    domain.DifficultyMedium,
				},
			},
		},
	}
}

// readQuestionFile accepts either a bare JSON array of questions or a question set object.
func readQuestionFile(path string) (domain.QuestionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.QuestionSet{}, err
	}

	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err == nil {
		return domain.QuestionSet{Questions: questions}, nil
	}

	var set domain.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return set, nil
}
