// Package match provides ball-by-ball match record import/export for hand
// cricket matches.
package match

import (
	"fmt"

	"github.com/yourusername/handcricket/pkg/engine"
)

// Record is a complete match, ball by ball.
type Record struct {
	// Match metadata
	Team1      string           `json:"team1"`              // Human side
	Team2      string           `json:"team2"`              // Computer side
	TossWinner string           `json:"toss_winner"`        // Team that won the toss
	Decision   engine.Decision  `json:"decision,omitempty"` // Toss winner's choice
	Result     string           `json:"result,omitempty"`   // "X wins by N runs", "Match tied", or "" while in progress
	Date       string           `json:"date,omitempty"`     // Match date (YYYY-MM-DD format)
	Event      string           `json:"event,omitempty"`    // Event name
	Innings    []*InningsRecord `json:"innings"`
}

// InningsRecord is one innings: every ball plus who was left in the middle.
type InningsRecord struct {
	Number   int                `json:"number"`
	Batting  string             `json:"batting"`
	Bowling  string             `json:"bowling"`
	Target   int                `json:"target,omitempty"` // Second innings only
	Balls    []engine.BallEvent `json:"balls"`
	AtCrease []string           `json:"at_crease"`        // Striker first
	Bowler   string             `json:"bowler"`           // Bowler holding the ball when the record was taken
}

// NewRecord creates an empty record for two teams.
func NewRecord(team1, team2 string) *Record {
	return &Record{
		Team1:   team1,
		Team2:   team2,
		Innings: make([]*InningsRecord, 0, 2),
	}
}

// AddInnings starts a new innings.
func (r *Record) AddInnings(batting, bowling string, target int) *InningsRecord {
	in := &InningsRecord{
		Number:  len(r.Innings) + 1,
		Batting: batting,
		Bowling: bowling,
		Target:  target,
	}
	r.Innings = append(r.Innings, in)
	return in
}

// AddBall appends a ball, numbering it from the balls already recorded.
func (in *InningsRecord) AddBall(ev engine.BallEvent) {
	n := len(in.Balls)
	ev.Innings = in.Number
	ev.Over = n / engine.BallsPerOver
	ev.Ball = n%engine.BallsPerOver + 1
	in.Balls = append(in.Balls, ev)
}

// State rebuilds the engine innings the balls add up to.
func (in *InningsRecord) State() *engine.Innings {
	st := &engine.Innings{
		Number:      in.Number,
		BattingTeam: in.Batting,
		BowlingTeam: in.Bowling,
		Target:      in.Target,
		Batsmen:     append([]string(nil), in.AtCrease...),
		Bowler:      in.Bowler,
		Overs:       len(in.Balls) / engine.BallsPerOver,
		Balls:       len(in.Balls) % engine.BallsPerOver,
	}
	for _, b := range in.Balls {
		st.Runs += b.Runs
		if b.Wicket {
			st.Wickets++
			st.Dismissed = append(st.Dismissed, b.Batsman)
		}
	}
	return st
}

// Events returns every ball of the match in order.
func (r *Record) Events() []engine.BallEvent {
	var out []engine.BallEvent
	for _, in := range r.Innings {
		out = append(out, in.Balls...)
	}
	return out
}

// FindInnings returns innings n, or nil if it was never started.
func (r *Record) FindInnings(n int) *InningsRecord {
	for _, in := range r.Innings {
		if in.Number == n {
			return in
		}
	}
	return nil
}

// FromState builds the record of a match snapshot.
func FromState(s *engine.MatchState) *Record {
	r := &Record{Innings: make([]*InningsRecord, 0, 2)}
	if s.Team1 != nil {
		r.Team1 = s.Team1.Name
	}
	if s.Team2 != nil {
		r.Team2 = s.Team2.Name
	}
	r.TossWinner = s.Toss.Winner
	r.Decision = s.Toss.Decision
	r.Result = ResultText(s.Result)

	for _, st := range []*engine.Innings{&s.First, &s.Second} {
		if st.Number == 0 {
			continue
		}
		in := &InningsRecord{
			Number:   st.Number,
			Batting:  st.BattingTeam,
			Bowling:  st.BowlingTeam,
			Target:   st.Target,
			AtCrease: named(st.Batsmen),
			Bowler:   st.Bowler,
		}
		for _, ev := range s.Events {
			if ev.Innings == st.Number {
				in.Balls = append(in.Balls, ev)
			}
		}
		r.Innings = append(r.Innings, in)
	}
	return r
}

// named drops empty crease slots, which stand for a batsman still to be
// chosen.
func named(players []string) []string {
	var out []string
	for _, p := range players {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ResultText renders a result the way match summaries do.
func ResultText(res *engine.Result) string {
	switch {
	case res == nil:
		return ""
	case res.By == "":
		return "Match tied"
	}
	return fmt.Sprintf("%s wins by %d %s", res.Winner, res.Margin, res.By)
}
