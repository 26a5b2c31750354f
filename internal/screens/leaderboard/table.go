package leaderboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kchang/trivia/internal/store"
	"github.com/kchang/trivia/internal/ui/theme"
)

// EmptyText is shown when no score has been recorded.
const EmptyText = "No scores yet! Be the first to play."

const nameWidth = 20

// RenderTable renders entries as a ranked table, or EmptyText.
func RenderTable(entries []store.LeaderboardEntry) string {
	if len(entries) == 0 {
		return theme.Hint.Render(EmptyText)
	}

	head := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-4s  %-*s  %5s  %s", "Rank", nameWidth, "Name", "Score", "Time")))
	b.WriteString("\n")
	for i, e := range entries {
		style := theme.Body
		if i == 0 {
			style = theme.Warning
		}
		b.WriteString(style.Render(fmt.Sprintf("%-4d  %-*s  %5d  %s",
			i+1, nameWidth, truncate(e.Username, nameWidth), e.Score, store.FormatTime(e.Timestamp))))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
