package selection

import (
	"slices"
	"sort"

	"github.com/kchang/trivia/internal/trivia"
)

// Catalog summarizes a question repository: the values filters can choose
// from and per-value counts.
type Catalog struct {
	Total        int
	Categories   []string
	Difficulties []trivia.Difficulty
	Kinds        []trivia.Kind

	CategoryCounts   map[string]int
	DifficultyCounts map[trivia.Difficulty]int
	KindCounts       map[trivia.Kind]int
}

// NewCatalog builds a Catalog. Categories are sorted alphabetically,
// difficulties run easy to hard (unknown values last, alphabetically) and
// kinds are sorted by name.
func NewCatalog(questions []trivia.Question) Catalog {
	c := Catalog{
		Total:            len(questions),
		CategoryCounts:   make(map[string]int),
		DifficultyCounts: make(map[trivia.Difficulty]int),
		KindCounts:       make(map[trivia.Kind]int),
	}
	for _, q := range questions {
		if c.CategoryCounts[q.Category] == 0 {
			c.Categories = append(c.Categories, q.Category)
		}
		c.CategoryCounts[q.Category]++

		if c.DifficultyCounts[q.Difficulty] == 0 {
			c.Difficulties = append(c.Difficulties, q.Difficulty)
		}
		c.DifficultyCounts[q.Difficulty]++

		if c.KindCounts[q.Kind] == 0 {
			c.Kinds = append(c.Kinds, q.Kind)
		}
		c.KindCounts[q.Kind]++
	}

	sort.Strings(c.Categories)
	slices.SortFunc(c.Difficulties, compareDifficulty)
	slices.Sort(c.Kinds)
	return c
}

func compareDifficulty(a, b trivia.Difficulty) int {
	ra, rb := a.Rank(), b.Rank()
	switch {
	case ra >= 0 && rb >= 0:
		return ra - rb
	case ra >= 0:
		return -1
	case rb >= 0:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CategorySet returns a set containing every category.
func (c Catalog) CategorySet() map[string]bool {
	set := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		set[cat] = true
	}
	return set
}

// DifficultySet returns a set containing every difficulty.
func (c Catalog) DifficultySet() map[trivia.Difficulty]bool {
	set := make(map[trivia.Difficulty]bool, len(c.Difficulties))
	for _, d := range c.Difficulties {
		set[d] = true
	}
	return set
}
