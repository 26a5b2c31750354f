// Package selection filters the question repository and draws
// non-repeating random questions from it.
package selection

import (
	"math/rand/v2"

	"github.com/kchang/trivia/internal/trivia"
)

// ApplyFilters returns, in input order, the questions whose category is in
// categories and whose difficulty is in difficulties. An empty set on either
// side yields an empty result; it never means "everything".
func ApplyFilters(questions []trivia.Question, categories map[string]bool, difficulties map[trivia.Difficulty]bool) []trivia.Question {
	if len(categories) == 0 || len(difficulties) == 0 {
		return nil
	}
	var out []trivia.Question
	for _, q := range questions {
		if categories[q.Category] && difficulties[q.Difficulty] {
			out = append(out, q)
		}
	}
	return out
}

// Draw picks uniformly at random among the filtered questions whose ID is not
// in used. It reports false when nothing remains. The caller records the
// returned ID in used before drawing again.
func Draw(rng *rand.Rand, filtered []trivia.Question, used map[int]bool) (trivia.Question, bool) {
	candidates := make([]int, 0, len(filtered))
	for i, q := range filtered {
		if !used[q.ID] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return trivia.Question{}, false
	}
	return filtered[candidates[rng.IntN(len(candidates))]], true
}

// Remaining counts the filtered questions not yet used.
func Remaining(filtered []trivia.Question, used map[int]bool) int {
	n := 0
	for _, q := range filtered {
		if !used[q.ID] {
			n++
		}
	}
	return n
}
