// Package filters implements the category and difficulty selection screen.
package filters

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/router"
	"github.com/kchang/trivia/internal/screen"
	"github.com/kchang/trivia/internal/trivia"
	"github.com/kchang/trivia/internal/ui/layout"
	"github.com/kchang/trivia/internal/ui/theme"
)

// AppliedMsg is delivered to the screen below after the filters are
// confirmed with Enter.
type AppliedMsg struct{}

type rowKind int

const (
	rowAll rowKind = iota
	rowCategory
	rowDifficulty
)

type row struct {
	kind       rowKind
	category   string
	difficulty trivia.Difficulty
}

// chromeLines is the number of lines View uses around the list.
const chromeLines = 6

// FiltersScreen toggles the live session's category and difficulty
// selections. Changes apply immediately; Used, Score and Total are kept.
type FiltersScreen struct {
	game   *game.Game
	rows   []row
	cursor int
	offset int
}

var _ screen.Screen = (*FiltersScreen)(nil)
var _ screen.KeyHintProvider = (*FiltersScreen)(nil)

// New creates a FiltersScreen over the game's catalog.
func New(g *game.Game) *FiltersScreen {
	f := &FiltersScreen{game: g}
	if g.Ready() {
		c := g.Engine().Catalog()
		f.rows = append(f.rows, row{kind: rowAll})
		for _, cat := range c.Categories {
			f.rows = append(f.rows, row{kind: rowCategory, category: cat})
		}
		for _, d := range c.Difficulties {
			f.rows = append(f.rows, row{kind: rowDifficulty, difficulty: d})
		}
	}
	return f
}

func (f *FiltersScreen) Init() tea.Cmd {
	return nil
}

func (f *FiltersScreen) Title() string {
	return "Filters"
}

func (f *FiltersScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Toggle"},
		{Key: "a", Description: "All categories"},
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Back"},
	}
}

func (f *FiltersScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(f.rows) == 0 {
		if ok && kmsg.String() == "enter" {
			return f, done()
		}
		return f, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < len(f.rows)-1 {
			f.cursor++
		}
	case "space", " ", "x":
		f.toggle(f.rows[f.cursor])
	case "a":
		f.toggle(row{kind: rowAll})
	case "enter":
		return f, done()
	}
	return f, nil
}

func done() tea.Cmd {
	return tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return AppliedMsg{} },
	)
}

func (f *FiltersScreen) toggle(r row) {
	eng, st := f.game.Engine(), f.game.State()
	switch r.kind {
	case rowAll:
		eng.ToggleAllCategories(st)
	case rowCategory:
		eng.ToggleCategory(st, r.category)
	case rowDifficulty:
		eng.ToggleDifficulty(st, r.difficulty)
	}
}

func (f *FiltersScreen) checked(r row) bool {
	st := f.game.State()
	switch r.kind {
	case rowAll:
		return st.AllCategoriesSelected
	case rowCategory:
		return st.SelectedCategories[r.category]
	case rowDifficulty:
		return st.SelectedDifficulties[r.difficulty]
	}
	return false
}

func (f *FiltersScreen) label(r row) string {
	c := f.game.Engine().Catalog()
	switch r.kind {
	case rowAll:
		return "Select all categories"
	case rowCategory:
		return fmt.Sprintf("%s (%d)", r.category, c.CategoryCounts[r.category])
	case rowDifficulty:
		return fmt.Sprintf("%s (%d)", r.difficulty, c.DifficultyCounts[r.difficulty])
	}
	return ""
}

// scroll keeps the cursor inside a window of visible rows.
func (f *FiltersScreen) scroll(visible int) {
	if visible < 1 {
		visible = 1
	}
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if f.cursor >= f.offset+visible {
		f.offset = f.cursor - visible + 1
	}
}

func (f *FiltersScreen) View(width, height int) string {
	if !f.game.Ready() {
		return theme.Hint.Render("\n  No questions loaded.")
	}

	var b strings.Builder
	st := f.game.State()
	remaining := f.game.Engine().Remaining(st)
	b.WriteString(theme.Title.Render("Choose what to play"))
	b.WriteString("\n")
	status := fmt.Sprintf("%d unseen questions match", remaining)
	if len(st.SelectedCategories) == 0 || len(st.SelectedDifficulties) == 0 {
		status = "Select at least one category and one difficulty"
	}
	b.WriteString(theme.Subtitle.Render(status))
	b.WriteString("\n\n")

	f.scroll(height - chromeLines)
	end := min(len(f.rows), f.offset+max(height-chromeLines, 1))
	prevKind := rowKind(-1)
	for i := f.offset; i < end; i++ {
		r := f.rows[i]
		if r.kind != prevKind && r.kind == rowDifficulty {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  Difficulty"))
			b.WriteString("\n")
		}
		prevKind = r.kind

		box := "[ ]"
		if f.checked(r) {
			box = "[x]"
		}
		prefix := "  "
		if i == f.cursor {
			prefix = "▸ "
		}
		line := prefix + box + " " + f.label(r)
		if i == f.cursor {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}
