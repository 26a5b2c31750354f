package questionstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kchang/trivia/internal/trivia"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), FileName))
}

func sampleQuestions() []trivia.Question {
	return []trivia.Question{
		{
			Text:          `Who wrote "Dune"?`,
			Category:      "Entertainment: Books",
			Difficulty:    trivia.DifficultyMedium,
			Kind:          trivia.KindMultiple,
			CorrectAnswer: "Frank Herbert",
			Slots:         [trivia.SlotCount]string{"Frank Herbert", "Isaac Asimov", "Arthur C. Clarke", "Ursula K. Le Guin"},
			Options:       []string{"Arthur C. Clarke", "Frank Herbert", "Ursula K. Le Guin", "Isaac Asimov"},
		},
		{
			Text:          "Water, boils at 100°C at sea level.\nTrue?",
			Category:      "Science & Nature",
			Difficulty:    trivia.DifficultyEasy,
			Kind:          trivia.KindBoolean,
			CorrectAnswer: "True",
			Slots:         [trivia.SlotCount]string{"True", "False", "", ""},
			Options:       []string{"False", "True"},
		},
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := testStore(t)
	assert.False(t, s.Exists())

	_, err := s.Load()
	require.ErrorIs(t, err, ErrRepositoryEmpty)
}

func TestLoad_EmptyFile(t *testing.T) {
	s := testStore(t)
	require.NoError(t, os.WriteFile(s.Path(), nil, 0o644))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrRepositoryEmpty)
}

func TestLoad_HeaderOnly(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(nil))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrRepositoryEmpty)
}

func TestSaveLoad_RoundTripPreservesOptionOrder(t *testing.T) {
	s := testStore(t)
	in := sampleQuestions()

	require.NoError(t, s.Save(in))
	assert.True(t, s.Exists())

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		want := in[i]
		want.ID = i
		assert.Equal(t, want, out[i])
	}
}

func TestSave_WritesHeader(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(sampleQuestions()[:1]))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "category,type,difficulty,question,correct_answer,option1,option2,option3,option4,options\n")
	assert.Contains(t, string(data), `{""v"":1,""options"":`)
}

func TestSave_ReplacesPreviousFile(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(sampleQuestions()))
	require.NoError(t, s.Save(sampleQuestions()[1:]))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].ID)
	assert.Equal(t, "True", out[0].CorrectAnswer)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestLoad_LegacyWithoutOptionsColumn(t *testing.T) {
	s := testStore(t)
	csv := "type,difficulty,category,question,correct_answer,incorrect_answers,option1,option2,option3,option4\n" +
		"multiple,easy,Geography,Capital of France?,Paris,\"['London', 'Rome', 'Berlin']\",Paris,London,Rome,Berlin\n" +
		"boolean,hard,History,Rome fell in 476.,True,['False'],True,False,,\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(csv), 0o644))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, []string{"Paris", "London", "Rome", "Berlin"}, out[0].Options, "slot order, no reshuffle")
	assert.Equal(t, []string{"True", "False"}, out[1].Options)
	assert.Equal(t, trivia.KindBoolean, out[1].Kind)
	assert.Equal(t, 1, out[1].ID)
}

func TestLoad_LegacyPythonListOptions(t *testing.T) {
	s := testStore(t)
	csv := "category,type,difficulty,question,correct_answer,option1,option2,option3,option4,options\n" +
		"Geography,multiple,easy,Capital of France?,Paris,Paris,London,Rome,Berlin,\"['Rome', 'Paris', 'Berlin', 'London']\"\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(csv), 0o644))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"Rome", "Paris", "Berlin", "London"}, out[0].Options)
}

func TestLoad_LegacyPythonListWithHexEscapes(t *testing.T) {
	s := testStore(t)
	// Python's repr writes a decoded &nbsp; as \xa0 while the plain cells keep the raw rune.
	csv := "category,type,difficulty,question,correct_answer,option1,option2,option3,option4,options\n" +
		"Geography,multiple,easy,Largest US city?,New\u00a0York,New\u00a0York,Boston,Chicago,Houston," +
		"\"['Boston', 'New\\xa0York', 'Houston', 'Chicago']\"\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(csv), 0o644))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"Boston", "New\u00a0York", "Houston", "Chicago"}, out[0].Options)
	assert.True(t, out[0].IsCorrect("New\u00a0York"))
}

func TestLoad_RejectsUnknownOptionsVersion(t *testing.T) {
	s := testStore(t)
	csv := "category,type,difficulty,question,correct_answer,option1,option2,option3,option4,options\n" +
		"Geography,multiple,easy,Capital of France?,Paris,Paris,London,,,\"{\"\"v\"\":9,\"\"options\"\":[\"\"Paris\"\",\"\"London\"\"]}\"\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(csv), 0o644))

	_, err := s.Load()
	require.ErrorIs(t, err, trivia.ErrUnknownOptionsFormat)
	assert.Contains(t, err.Error(), "version 9")
}

func TestLoad_RejectsMissingColumn(t *testing.T) {
	s := testStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("category,question\nx,y\n"), 0o644))

	_, err := s.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRepositoryEmpty)
}

func TestRemove(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Remove(), "missing file is fine")

	require.NoError(t, s.Save(sampleQuestions()))
	require.NoError(t, s.Remove())
	assert.False(t, s.Exists())
}
