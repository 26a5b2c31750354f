package trivia

import (
	"errors"
	"fmt"
)

// SlotCount is the number of named option slots persisted per question.
// Slot 0 always holds the correct answer, slots 1-3 the incorrect ones.
const SlotCount = 4

// Difficulty is the difficulty level the remote service assigns to a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties returns every known difficulty, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	return d.Rank() >= 0
}

// Rank orders difficulties from easy (0) to hard (2). Unknown values rank -1.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 1
	case DifficultyHard:
		return 2
	}
	return -1
}

// Kind is the question type: multiple choice or true/false.
type Kind string

const (
	KindMultiple Kind = "multiple"
	KindBoolean  Kind = "boolean"
)

// DisplayName returns a human label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindMultiple:
		return "Multiple choice"
	case KindBoolean:
		return "True / False"
	}
	return string(k)
}

// Question is a single normalized trivia question.
type Question struct {
	// ID is the question's position in the repository. Assigned at load time
	// and stable for as long as the durable store is not rebuilt.
	ID int

	// Text is the prompt, with HTML entities already decoded.
	Text string

	// Category is the remote service's category label, e.g. "Science: Computers".
	Category string

	Difficulty Difficulty
	Kind       Kind

	// CorrectAnswer is compared to the selected option by exact string equality.
	CorrectAnswer string

	// Slots are the persisted option1..option4 columns. Empty means absent:
	// true/false questions only fill the first two.
	Slots [SlotCount]string

	// Options is the shuffled list shown to the player. Computed once at
	// ingestion and persisted; loading never reshuffles it.
	Options []string
}

// IncorrectAnswers returns the non-empty incorrect answer slots in slot order.
func (q Question) IncorrectAnswers() []string {
	var out []string
	for _, s := range q.Slots[1:] {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsCorrect reports whether selected is exactly the correct answer.
func (q Question) IsCorrect(selected string) bool {
	return selected == q.CorrectAnswer
}

// ErrInvalidOptions is wrapped by Validate when the options invariant does not hold.
var ErrInvalidOptions = errors.New("invalid question options")

// Validate checks the options invariant: 2-4 non-empty entries containing the
// correct answer exactly once.
func (q Question) Validate() error {
	if n := len(q.Options); n < 2 || n > SlotCount {
		return fmt.Errorf("%w: %d options", ErrInvalidOptions, n)
	}
	seen := 0
	for _, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("%w: empty option", ErrInvalidOptions)
		}
		if opt == q.CorrectAnswer {
			seen++
		}
	}
	if seen != 1 {
		return fmt.Errorf("%w: correct answer appears %d times", ErrInvalidOptions, seen)
	}
	return nil
}
