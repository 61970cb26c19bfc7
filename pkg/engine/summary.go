package engine

import (
	"fmt"
	"io"
	"strings"
)

// FormatOvers renders overs and balls in cricket notation ("3.4").
func FormatOvers(overs, balls int) string {
	return fmt.Sprintf("%d.%d", overs, balls)
}

// InningsSummary is the headline score of one innings.
type InningsSummary struct {
	Team    string `json:"team"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Overs   string `json:"overs"`
	Target  int    `json:"target,omitempty"`
}

func summarize(in *Innings) InningsSummary {
	return InningsSummary{
		Team:    in.BattingTeam,
		Runs:    in.Runs,
		Wickets: in.Wickets,
		Overs:   FormatOvers(in.Overs, in.Balls),
		Target:  in.Target,
	}
}

// Score renders "Team: 45/2 (3.4 overs)".
func (s InningsSummary) Score() string {
	return fmt.Sprintf("%s: %d/%d (%s overs)", s.Team, s.Runs, s.Wickets, s.Overs)
}

// Summary is the end-of-match report.
type Summary struct {
	Winner       string         `json:"winner"`
	Headline     string         `json:"headline"`
	Result       string         `json:"result"`
	First        InningsSummary `json:"first_innings"`
	Second       InningsSummary `json:"second_innings"`
	HighestScore int            `json:"highest_score"`
	TotalWickets int            `json:"total_wickets"`
	Commentary   []string       `json:"commentary"` // Oldest first
}

// Summary builds the end-of-match report from the full commentary.
func (e *Engine) Summary() (*Summary, error) {
	if e.state.Phase != PhaseMatchEnd {
		return nil, ErrWrongPhase
	}
	first, second := &e.state.First, &e.state.Second
	s := &Summary{
		Winner:       e.state.Winner,
		First:        summarize(first),
		Second:       summarize(second),
		HighestScore: max(first.Runs, second.Runs),
		TotalWickets: first.Wickets + second.Wickets,
	}

	r := e.state.Result
	if r.By == "" {
		s.Headline = "Match Tied!"
		s.Result = "Match tied"
	} else {
		s.Headline = r.Winner + " Wins!"
		s.Result = fmt.Sprintf("%s wins by %d %s", r.Winner, r.Margin, r.By)
	}

	for _, entry := range e.log.Entries() {
		s.Commentary = append(s.Commentary, entry.Text)
	}
	return s, nil
}

// Write renders the summary as plain text.
func (s *Summary) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", s.Headline, s.Result)
	fmt.Fprintf(&b, "1st innings  %s\n", s.First.Score())
	fmt.Fprintf(&b, "2nd innings  %s  Target: %d\n\n", s.Second.Score(), s.Second.Target)
	fmt.Fprintf(&b, "Highest score: %d runs\n", s.HighestScore)
	fmt.Fprintf(&b, "Total wickets: %d\n\n", s.TotalWickets)
	b.WriteString("Commentary\n")
	for _, line := range s.Commentary {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
