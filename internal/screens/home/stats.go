package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kchang/trivia/internal/selection"
	"github.com/kchang/trivia/internal/trivia"
	"github.com/kchang/trivia/internal/ui/components"
	"github.com/kchang/trivia/internal/ui/layout"
	"github.com/kchang/trivia/internal/ui/theme"
)

// renderStats renders the repository statistics card.
func renderStats(c selection.Catalog, cw int, compact bool) string {
	num := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	sep := "   "
	if compact {
		sep = "  "
	}
	summary := strings.Join([]string{
		num.Render(fmt.Sprint(c.Total)) + dim.Render(" questions"),
		num.Render(fmt.Sprint(len(c.Categories))) + dim.Render(" categories"),
		num.Render(fmt.Sprint(len(c.Difficulties))) + dim.Render(" difficulty levels"),
		num.Render(fmt.Sprint(len(c.Kinds))) + dim.Render(" types"),
	}, sep)

	var diffs []string
	for _, d := range c.Difficulties {
		diffs = append(diffs, fmt.Sprintf("%s %d", difficultyLabel(d), c.DifficultyCounts[d]))
	}
	var kinds []string
	for _, k := range c.Kinds {
		kinds = append(kinds, fmt.Sprintf("%s %d", k.DisplayName(), c.KindCounts[k]))
	}

	body := summary + "\n" +
		dim.Render("By difficulty: ") + theme.Body.Render(strings.Join(diffs, " · ")) + "\n" +
		dim.Render("By type:       ") + theme.Body.Render(strings.Join(kinds, " · "))

	return components.TitledCard("Question bank", body, cw)
}

// renderScore renders the running score card.
func renderScore(score, total, cw int) string {
	line := theme.Warning.Render(layout.ScoreLabel(score, total))
	if total == 0 {
		line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  no answers yet")
	}
	return components.TitledCard("Score", line, cw)
}

func difficultyLabel(d trivia.Difficulty) string {
	s := string(d)
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
