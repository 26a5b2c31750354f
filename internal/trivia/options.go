package trivia

import (
	"html"
	"math/rand/v2"
	"strings"
)

// Record is a question as delivered by the remote service, before
// normalization. Text fields may still carry HTML entities.
type Record struct {
	Category         string
	Type             string
	Difficulty       string
	Question         string
	CorrectAnswer    string
	IncorrectAnswers []string
}

// Normalize decodes HTML entities, lays the answers out in the four named
// slots and shuffles the candidate options exactly once using rng.
func Normalize(rec Record, rng *rand.Rand) Question {
	correct := decode(rec.CorrectAnswer)
	incorrect := make([]string, 0, len(rec.IncorrectAnswers))
	for _, a := range rec.IncorrectAnswers {
		incorrect = append(incorrect, decode(a))
	}

	slots := SlotsFor(correct, incorrect)
	return Question{
		Text:          decode(rec.Question),
		Category:      decode(rec.Category),
		Difficulty:    Difficulty(strings.ToLower(strings.TrimSpace(rec.Difficulty))),
		Kind:          Kind(strings.ToLower(strings.TrimSpace(rec.Type))),
		CorrectAnswer: correct,
		Slots:         slots,
		Options:       Shuffle(rng, Candidates(slots)),
	}
}

// SlotsFor places the correct answer in slot 0 and up to three incorrect
// answers in slots 1-3. Missing answers leave their slot empty.
func SlotsFor(correct string, incorrect []string) [SlotCount]string {
	var slots [SlotCount]string
	slots[0] = correct
	for i, a := range incorrect {
		if i+1 >= SlotCount {
			break
		}
		slots[i+1] = a
	}
	return slots
}

// Candidates returns the non-empty slots in slot order.
func Candidates(slots [SlotCount]string) []string {
	out := make([]string, 0, SlotCount)
	for _, s := range slots {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Shuffle returns a randomly permuted copy of items. The input is not modified.
func Shuffle(rng *rand.Rand, items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func decode(s string) string {
	return html.UnescapeString(s)
}
