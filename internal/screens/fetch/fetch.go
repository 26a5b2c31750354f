// Package fetch implements the screen that downloads the question set.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/ingest"
	"github.com/kchang/trivia/internal/opentdb"
	"github.com/kchang/trivia/internal/router"
	"github.com/kchang/trivia/internal/screen"
	"github.com/kchang/trivia/internal/trivia"
	"github.com/kchang/trivia/internal/ui/components"
	"github.com/kchang/trivia/internal/ui/layout"
	"github.com/kchang/trivia/internal/ui/theme"
)

// progressMsg carries one ingestion progress report.
type progressMsg ingest.Progress

// doneMsg is sent when the ingestion run returns.
type doneMsg struct {
	Questions []trivia.Question
	Err       error
}

// tickMsg drives the elapsed-time display.
type tickMsg time.Time

// FetchScreen runs ingestion in the background and reports its progress.
type FetchScreen struct {
	game *game.Game

	// next builds the screen shown on success. When nil the screen pops
	// itself instead.
	next func() screen.Screen

	running  bool
	started  time.Time
	elapsed  time.Duration
	last     ingest.Progress
	err      error
	finished bool

	cancel   context.CancelFunc
	progress chan ingest.Progress
	done     chan doneMsg

	retry components.Button
	now   func() time.Time
}

var _ screen.Screen = (*FetchScreen)(nil)
var _ screen.KeyHintProvider = (*FetchScreen)(nil)
var _ screen.Closer = (*FetchScreen)(nil)

// New creates a FetchScreen. Ingestion starts in Init.
func New(g *game.Game, next func() screen.Screen) *FetchScreen {
	f := &FetchScreen{
		game: g,
		next: next,
		now:  time.Now,
	}
	f.retry = components.NewButton("Retry", f.start, "enter", "r")
	return f
}

func (f *FetchScreen) Title() string {
	return "Fetch Questions"
}

func (f *FetchScreen) KeyHints() []layout.KeyHint {
	if f.err != nil {
		hints := []layout.KeyHint{f.retry.Hint()}
		if f.next == nil {
			hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
		}
		return append(hints, layout.KeyHint{Key: "q", Description: "Quit"})
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (f *FetchScreen) Init() tea.Cmd {
	return f.start()
}

// start launches one ingestion run. Progress reports are dropped rather
// than blocking the run when the screen falls behind.
func (f *FetchScreen) start() tea.Cmd {
	if f.running {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.running = true
	f.retry.Armed = false
	f.err = nil
	f.last = ingest.Progress{}
	f.started = f.now()
	f.elapsed = 0
	f.progress = make(chan ingest.Progress, 8)
	f.done = make(chan doneMsg, 1)

	progress, done := f.progress, f.done
	g := f.game
	go func() {
		questions, err := g.Fetch(ctx, func(p ingest.Progress) {
			select {
			case progress <- p:
			default:
			}
		})
		done <- doneMsg{Questions: questions, Err: err}
	}()

	return tea.Batch(f.wait(), tickCmd())
}

// wait returns a command that delivers the next report or the final result.
func (f *FetchScreen) wait() tea.Cmd {
	progress, done := f.progress, f.done
	return func() tea.Msg {
		select {
		case p := <-progress:
			return progressMsg(p)
		case d := <-done:
			return d
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (f *FetchScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		f.last = ingest.Progress(msg)
		return f, f.wait()

	case doneMsg:
		return f.handleDone(msg)

	case tickMsg:
		if !f.running {
			return f, nil
		}
		f.elapsed = f.now().Sub(f.started)
		return f, tickCmd()

	case tea.KeyMsg:
		if f.running && msg.String() == "esc" {
			f.Close()
			return f, nil
		}
		if f.err != nil {
			if msg.String() == "q" {
				return f, tea.Quit
			}
			var cmd tea.Cmd
			f.retry, cmd = f.retry.Update(msg)
			return f, cmd
		}
	}
	return f, nil
}

func (f *FetchScreen) handleDone(msg doneMsg) (screen.Screen, tea.Cmd) {
	f.running = false
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if msg.Err != nil {
		f.err = msg.Err
		f.retry.Armed = true
		return f, nil
	}

	f.finished = true
	f.game.Use(msg.Questions)
	if f.next == nil {
		return f, func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := f.next()
	return f, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// Close cancels a run that is still in flight.
func (f *FetchScreen) Close() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *FetchScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw).Render("Downloading questions"))
	b.WriteString("\n\n")

	if f.err != nil {
		b.WriteString(theme.Incorrect.Render("Fetching failed. Nothing was saved."))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(describeError(f.err)))
		b.WriteString("\n\n")
		b.WriteString(f.retry.View())
		return components.Centered(b.String(), width, height)
	}

	p := f.last
	target := p.Target
	if target <= 0 {
		target = f.game.FetchTotal()
	}
	bar := components.NewProgressBar("", components.Fraction(p.Retrieved, target), true, cw)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Render(stageLabel(p.Stage)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d of %s questions  ·  %d calls  ·  %s elapsed",
		p.Retrieved, targetLabel(target), p.Calls, formatElapsed(f.elapsed))))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("The API allows one request every few seconds. Hang tight."))

	return components.Centered(b.String(), width, height)
}

func stageLabel(stage ingest.Stage) string {
	switch stage {
	case ingest.StageCount:
		return "Counting available questions..."
	case ingest.StageToken:
		return "Requesting a session token..."
	case ingest.StageBatch:
		return "Fetching questions in batches..."
	case ingest.StageSingle:
		return "Fetching the remaining questions one at a time..."
	case ingest.StageSave:
		return "Saving questions..."
	case ingest.StageDone:
		return "Done!"
	}
	return "Starting..."
}

func targetLabel(target int) string {
	if target <= 0 {
		return "?"
	}
	return fmt.Sprintf("%d", target)
}

func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func describeError(err error) string {
	var apiErr *opentdb.APIError
	var statusErr *opentdb.StatusError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("The trivia service refused the request (response code %d). Try again in a moment.", apiErr.Code)
	case errors.As(err, &statusErr):
		return fmt.Sprintf("The trivia service answered with HTTP %d. Try again in a moment.", statusErr.StatusCode)
	case errors.Is(err, context.Canceled):
		return "The download was cancelled."
	}
	return err.Error()
}
