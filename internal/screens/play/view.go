package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kchang/trivia/internal/session"
	"github.com/kchang/trivia/internal/ui/components"
	"github.com/kchang/trivia/internal/ui/theme"
)

const (
	exhaustedText = "No more questions available with the selected filters.\nPlease change your filter settings."
	selectText    = "Please select at least one category and difficulty."
)

func (p *PlayScreen) View(width, height int) string {
	st := p.game.State()
	if st == nil {
		return components.Centered(theme.Hint.Render("No questions loaded."), width, height)
	}

	var body string
	switch {
	case st.Current != nil:
		body = p.renderQuestion(st, width)
	case p.notice == session.EffectExhausted:
		body = renderNotice(exhaustedText, "Press f to change filters or s to end the game.")
	case p.notice == session.EffectNeedSelection:
		body = renderNotice(selectText, "Press f to choose categories and difficulties.")
	default:
		body = theme.Hint.Render("Drawing a question...")
	}

	if p.errMsg != "" {
		body += "\n\n" + theme.Incorrect.Render(p.errMsg)
	}
	return components.Centered(body, width, height)
}

func (p *PlayScreen) renderQuestion(st *session.State, width int) string {
	q := st.Current
	cw := components.ContentWidth(width)

	var b strings.Builder

	sep := lipgloss.NewStyle().Foreground(theme.Border).Render("  ·  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(q.Category))
	b.WriteString(sep)
	b.WriteString(theme.ForDifficulty(string(q.Difficulty)).Render(string(q.Difficulty)))
	b.WriteString(sep)
	b.WriteString(theme.Hint.Render(q.Kind.DisplayName()))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("    question %d", len(st.Used))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text))
	b.WriteString("\n\n")

	b.WriteString(p.choice.View())

	if st.ShowFeedback {
		b.WriteString("\n")
		style := theme.Incorrect
		if st.LastAnswerCorrect {
			style = theme.Correct
		}
		b.WriteString(style.Width(cw).Render(session.FeedbackMessage(st)))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press n for the next question."))
	} else {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Select 1-4 or use arrows + Enter"))
	}

	return b.String()
}

func renderNotice(text, hint string) string {
	return theme.Warning.Render(text) + "\n\n" + theme.Hint.Render(hint)
}
