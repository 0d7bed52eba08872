package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a crossword game has not been started or has ended.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrQuestionSetNotFound indicates the question set could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrInvalidQuestion indicates a question does not match the upstream schema.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrMalformedAnswer indicates no guessable word could be extracted from an answer.
	ErrMalformedAnswer = errors.New("malformed answer")
	// ErrNoPlayableWords is returned when none of the questions yield a word to place.
	ErrNoPlayableWords = errors.New("no playable words")
	// ErrGameCompleted is returned for inputs or submissions after the game has ended.
	ErrGameCompleted = errors.New("game already completed")
	// ErrCellOutOfBounds indicates a cell coordinate outside the grid.
	ErrCellOutOfBounds = errors.New("cell out of bounds")
	// ErrCellNotPlayable indicates a cell that no placed word passes through.
	ErrCellNotPlayable = errors.New("cell not part of any word")
	// ErrGeneratorUnavailable is returned when question generation is not configured.
	ErrGeneratorUnavailable = errors.New("question generator not configured")
	// ErrGenerationFailed wraps upstream generator failures, including unusable responses.
	ErrGenerationFailed = errors.New("failed to generate quiz questions")
)
