package trivia

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestNormalize_MultipleChoice(t *testing.T) {
	rec := Record{
		Category:         "Entertainment: Books",
		Type:             "multiple",
		Difficulty:       "Medium",
		Question:         "Who wrote &quot;Dune&quot;?",
		CorrectAnswer:    "Frank Herbert",
		IncorrectAnswers: []string{"Isaac Asimov", "Arthur C. Clarke", "Ursula K. Le Guin"},
	}

	q := Normalize(rec, testRNG())

	assert.Equal(t, `Who wrote "Dune"?`, q.Text)
	assert.Equal(t, DifficultyMedium, q.Difficulty)
	assert.Equal(t, KindMultiple, q.Kind)
	assert.Equal(t, [SlotCount]string{"Frank Herbert", "Isaac Asimov", "Arthur C. Clarke", "Ursula K. Le Guin"}, q.Slots)
	assert.ElementsMatch(t, q.Slots[:], q.Options)
	require.NoError(t, q.Validate())
}

func TestNormalize_DecodesEveryTextField(t *testing.T) {
	rec := Record{
		Category:         "Science &amp; Nature",
		Type:             "multiple",
		Difficulty:       "easy",
		Question:         "What&#039;s H&lt;sub&gt;2&lt;/sub&gt;O?",
		CorrectAnswer:    "Water &amp; ice",
		IncorrectAnswers: []string{"Salt &quot;rock&quot;", "Air", "Fire"},
	}

	q := Normalize(rec, testRNG())

	assert.Equal(t, "Science & Nature", q.Category)
	assert.Equal(t, "What's H<sub>2</sub>O?", q.Text)
	assert.Equal(t, "Water & ice", q.CorrectAnswer)
	assert.Contains(t, q.Options, `Salt "rock"`)
	assert.Contains(t, q.Options, "Water & ice")
}

func TestNormalize_BooleanHasTwoOptions(t *testing.T) {
	rec := Record{
		Category:         "General Knowledge",
		Type:             "boolean",
		Difficulty:       "easy",
		Question:         "The sky is blue.",
		CorrectAnswer:    "True",
		IncorrectAnswers: []string{"False"},
	}

	q := Normalize(rec, testRNG())

	assert.Equal(t, KindBoolean, q.Kind)
	assert.Equal(t, [SlotCount]string{"True", "False", "", ""}, q.Slots)
	assert.Len(t, q.Options, 2)
	assert.ElementsMatch(t, []string{"True", "False"}, q.Options)
	assert.Equal(t, []string{"False"}, q.IncorrectAnswers())
	require.NoError(t, q.Validate())
}

func TestNormalize_OptionsInvariantHoldsForManySeeds(t *testing.T) {
	rec := Record{
		Category:         "History",
		Type:             "multiple",
		Difficulty:       "hard",
		Question:         "q",
		CorrectAnswer:    "a",
		IncorrectAnswers: []string{"b", "c", "d"},
	}
	for seed := uint64(0); seed < 50; seed++ {
		q := Normalize(rec, rand.New(rand.NewPCG(seed, seed+1)))
		require.NoError(t, q.Validate(), "seed %d", seed)
		assert.Len(t, q.Options, 4)
	}
}

func TestSlotsFor_DropsExtraIncorrectAnswers(t *testing.T) {
	slots := SlotsFor("a", []string{"b", "c", "d", "e"})
	assert.Equal(t, [SlotCount]string{"a", "b", "c", "d"}, slots)
}

func TestCandidates_SkipsEmptySlots(t *testing.T) {
	got := Candidates([SlotCount]string{"a", "", "c", ""})
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestShuffle_DoesNotModifyInput(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	out := Shuffle(testRNG(), in)

	assert.Equal(t, []string{"a", "b", "c", "d"}, in)
	assert.ElementsMatch(t, in, out)
}

func TestShuffle_DeterministicForSameSeed(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	first := Shuffle(rand.New(rand.NewPCG(7, 7)), in)
	second := Shuffle(rand.New(rand.NewPCG(7, 7)), in)
	assert.Equal(t, first, second)
}

func TestQuestion_IsCorrectUsesExactEquality(t *testing.T) {
	q := Question{CorrectAnswer: "Paris"}
	assert.True(t, q.IsCorrect("Paris"))
	assert.False(t, q.IsCorrect("paris"))
	assert.False(t, q.IsCorrect("Paris "))
}

func TestQuestion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"four options", Question{CorrectAnswer: "a", Options: []string{"b", "a", "c", "d"}}, false},
		{"two options", Question{CorrectAnswer: "True", Options: []string{"False", "True"}}, false},
		{"one option", Question{CorrectAnswer: "a", Options: []string{"a"}}, true},
		{"five options", Question{CorrectAnswer: "a", Options: []string{"a", "b", "c", "d", "e"}}, true},
		{"missing correct", Question{CorrectAnswer: "a", Options: []string{"b", "c"}}, true},
		{"correct twice", Question{CorrectAnswer: "a", Options: []string{"a", "a", "b"}}, true},
		{"empty entry", Question{CorrectAnswer: "a", Options: []string{"a", ""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDifficulty_Rank(t *testing.T) {
	assert.Equal(t, 0, DifficultyEasy.Rank())
	assert.Equal(t, 2, DifficultyHard.Rank())
	assert.Equal(t, -1, Difficulty("extreme").Rank())
	assert.False(t, Difficulty("").Valid())
}
