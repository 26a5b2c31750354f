package session

import "time"

// Summary holds the data displayed when a session ends.
type Summary struct {
	SessionID string
	Score     int
	Total     int
	Percent   float64
	Duration  time.Duration
	Submitted bool
}

// Summary builds the end-of-session figures for st.
func (e *Engine) Summary(st *State) Summary {
	return Summary{
		SessionID: st.SessionID,
		Score:     st.Score,
		Total:     st.Total,
		Percent:   Percent(st.Score, st.Total),
		Duration:  e.now().Sub(st.StartedAt),
		Submitted: st.Submitted(),
	}
}

// Percent returns score as a percentage of total, 0 when nothing was answered.
func Percent(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
