// Package questionstore persists the question repository as a CSV file.
package questionstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kchang/trivia/internal/trivia"
)

// FileName is the fixed name of the durable question file.
const FileName = "questionsList.csv"

// ErrRepositoryEmpty is returned by Load when no questions have been ingested yet.
var ErrRepositoryEmpty = errors.New("question repository is empty")

const (
	colCategory      = "category"
	colType          = "type"
	colDifficulty    = "difficulty"
	colQuestion      = "question"
	colCorrectAnswer = "correct_answer"
	colOptions       = "options"
)

var slotColumns = [trivia.SlotCount]string{"option1", "option2", "option3", "option4"}

// Header is the column layout written by Save.
var Header = []string{
	colCategory, colType, colDifficulty, colQuestion, colCorrectAnswer,
	slotColumns[0], slotColumns[1], slotColumns[2], slotColumns[3],
	colOptions,
}

// Store reads and writes the question file at a fixed path.
type Store struct {
	path string
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the question file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Remove deletes the question file. A missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

// Save writes the full collection, replacing any previous file atomically.
// On failure the previous file is left untouched.
func (s *Store) Save(questions []trivia.Question) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := writeQuestions(tmp, questions); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	committed = true
	return nil
}

func writeQuestions(w io.Writer, questions []trivia.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, q := range questions {
		cell, err := trivia.EncodeOptions(q.Options)
		if err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		row := []string{
			q.Category, string(q.Kind), string(q.Difficulty), q.Text, q.CorrectAnswer,
			q.Slots[0], q.Slots[1], q.Slots[2], q.Slots[3],
			cell,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write question %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Load reads every question in file order. The row index becomes the
// question ID. Missing or empty files yield ErrRepositoryEmpty.
func (s *Store) Load() ([]trivia.Question, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrRepositoryEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	questions, err := readQuestions(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	if len(questions) == 0 {
		return nil, ErrRepositoryEmpty
	}
	return questions, nil
}

func readQuestions(r io.Reader) ([]trivia.Question, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := indexColumns(head)
	if err != nil {
		return nil, err
	}

	var out []trivia.Question
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		q, err := cols.question(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		q.ID = len(out)
		out = append(out, q)
	}
	return out, nil
}

// columns maps column names to positions. Files written by older tooling may
// carry extra columns or lack the options column entirely.
type columns map[string]int

func indexColumns(head []string) (columns, error) {
	cols := make(columns, len(head))
	for i, name := range head {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, required := range []string{colCategory, colType, colDifficulty, colQuestion, colCorrectAnswer} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return cols, nil
}

func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func (c columns) question(rec []string) (trivia.Question, error) {
	q := trivia.Question{
		Category:      c.get(rec, colCategory),
		Kind:          trivia.Kind(c.get(rec, colType)),
		Difficulty:    trivia.Difficulty(c.get(rec, colDifficulty)),
		Text:          c.get(rec, colQuestion),
		CorrectAnswer: c.get(rec, colCorrectAnswer),
	}
	for i, name := range slotColumns {
		q.Slots[i] = c.get(rec, name)
	}

	opts, err := trivia.DecodeOptions(c.get(rec, colOptions))
	if err != nil {
		return trivia.Question{}, err
	}
	if len(opts) == 0 {
		// Rebuild from the slots in slot order; never reshuffle at load.
		opts = trivia.Candidates(q.Slots)
	}
	q.Options = opts

	if err := q.Validate(); err != nil {
		return trivia.Question{}, err
	}
	return q, nil
}
