// Package scorecard derives per-player batting and bowling figures for one
// innings, either by replaying commentary text or from the structured ball
// events the engine records.
package scorecard

import (
	"errors"
	"fmt"

	"github.com/yourusername/handcricket/internal/commentary"
	"github.com/yourusername/handcricket/internal/roster"
	"github.com/yourusername/handcricket/pkg/engine"
)

// Source selects what a scorecard is built from.
type Source string

const (
	SourceEvents     Source = "events"
	SourceCommentary Source = "commentary"
)

var (
	ErrNoInnings = errors.New("innings has not started")
	ErrSource    = errors.New("source must be events or commentary")
)

// BattingStats are one batsman's figures.
type BattingStats struct {
	Runs  int  `json:"runs"`
	Balls int  `json:"balls"`
	Out   bool `json:"out"`
}

// BowlingStats are one bowler's figures.
type BowlingStats struct {
	Balls   int `json:"balls"`
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
}

// Overs returns balls bowled in cricket notation: 14 balls is 2.2.
func (b BowlingStats) Overs() float64 {
	return float64(b.Balls/engine.BallsPerOver) + float64(b.Balls%engine.BallsPerOver)/10
}

// BattingLine is a rendered row of the batting card.
type BattingLine struct {
	Player     string `json:"player"`
	Runs       int    `json:"runs"`
	Balls      int    `json:"balls"`
	StrikeRate string `json:"strike_rate"`
	Out        bool   `json:"out"`
	AtCrease   bool   `json:"at_crease"`
}

// BowlingLine is a rendered row of the bowling card.
type BowlingLine struct {
	Player  string `json:"player"`
	Overs   string `json:"overs"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Economy string `json:"economy"`
	Current bool   `json:"current"`
}

// Scorecard is the figures of one innings. Batting and Bowling list only
// active players, in roster order; the maps hold every roster player.
type Scorecard struct {
	Innings     int                     `json:"innings"`
	BattingTeam string                  `json:"batting_team"`
	BowlingTeam string                  `json:"bowling_team"`
	Batting     []BattingLine           `json:"batting"`
	Bowling     []BowlingLine           `json:"bowling"`
	BatStats    map[string]BattingStats `json:"-"`
	BowlStats   map[string]BowlingStats `json:"-"`
}

// StrikeRate is runs per 100 balls, "0.0" before the first ball.
func StrikeRate(runs, balls int) string {
	if balls == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(runs)*100/float64(balls))
}

// Economy is runs conceded per six balls, "0.0" before the first ball.
func Economy(runs, balls int) string {
	if balls == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(runs)*engine.BallsPerOver/float64(balls))
}

func newCard(in *engine.Innings, batting, bowling *roster.Team) *Scorecard {
	c := &Scorecard{
		Innings:     in.Number,
		BattingTeam: in.BattingTeam,
		BowlingTeam: in.BowlingTeam,
		BatStats:    make(map[string]BattingStats),
		BowlStats:   make(map[string]BowlingStats),
	}
	if batting != nil {
		for _, p := range batting.Players {
			c.BatStats[p] = BattingStats{}
		}
	}
	if bowling != nil {
		for _, p := range bowling.Players {
			c.BowlStats[p] = BowlingStats{}
		}
	}
	return c
}

func (c *Scorecard) addBatting(player string, runs int, out bool) {
	s, ok := c.BatStats[player]
	if !ok {
		return
	}
	s.Runs += runs
	s.Balls++
	s.Out = s.Out || out
	c.BatStats[player] = s
}

func (c *Scorecard) addBowling(player string, runs int, wicket bool) {
	s, ok := c.BowlStats[player]
	if !ok {
		return
	}
	s.Runs += runs
	s.Balls++
	if wicket {
		s.Wickets++
	}
	c.BowlStats[player] = s
}

// finish builds the active-player lines. A batsman is active after facing
// a ball or while at the crease, a bowler after bowling or while holding
// the ball.
func (c *Scorecard) finish(in *engine.Innings, batting, bowling *roster.Team) *Scorecard {
	if batting != nil {
		for _, p := range batting.Players {
			s := c.BatStats[p]
			crease := contains(in.Batsmen, p)
			if s.Balls == 0 && s.Runs == 0 && !crease {
				continue
			}
			c.Batting = append(c.Batting, BattingLine{
				Player:     p,
				Runs:       s.Runs,
				Balls:      s.Balls,
				StrikeRate: StrikeRate(s.Runs, s.Balls),
				Out:        s.Out,
				AtCrease:   crease && !s.Out,
			})
		}
	}
	if bowling != nil {
		for _, p := range bowling.Players {
			s := c.BowlStats[p]
			current := p == in.Bowler
			if s.Balls == 0 && s.Wickets == 0 && !current {
				continue
			}
			c.Bowling = append(c.Bowling, BowlingLine{
				Player:  p,
				Overs:   fmt.Sprintf("%.1f", s.Overs()),
				Runs:    s.Runs,
				Wickets: s.Wickets,
				Economy: Economy(s.Runs, s.Balls),
				Current: current,
			})
		}
	}
	return c
}

// Reconstruct replays commentary lines, given newest first, to attribute
// every ball to a batsman and bowler. The replay starts from the innings'
// current striker and bowler; after a wicket the striker becomes the first
// of the innings' batsmen who is neither the dismissed player nor already
// out. Bowler changes are not visible in the text, so every ball is
// charged to the current bowler. Use FromEvents for exact figures.
func Reconstruct(in *engine.Innings, lines []string, batting, bowling *roster.Team) *Scorecard {
	c := newCard(in, batting, bowling)

	var batsman string
	if len(in.Batsmen) > 0 {
		batsman = in.Batsmen[0]
	}
	bowler := in.Bowler

	for i := len(lines) - 1; i >= 0; i-- {
		l := commentary.Classify(lines[i])
		switch l.Kind {
		case commentary.KindRuns:
			c.addBatting(batsman, l.Runs, false)
			c.addBowling(bowler, l.Runs, false)
		case commentary.KindWicket:
			c.addBatting(l.Batsman, 0, true)
			c.addBowling(bowler, 0, true)
			for _, b := range in.Batsmen {
				if b != l.Batsman && !c.BatStats[b].Out {
					batsman = b
					break
				}
			}
		case commentary.KindDot:
			c.addBatting(batsman, 0, false)
			c.addBowling(bowler, 0, false)
		}
	}
	return c.finish(in, batting, bowling)
}

// FromEvents builds the scorecard from the structured ball log. Events of
// other innings are skipped.
func FromEvents(in *engine.Innings, events []engine.BallEvent, batting, bowling *roster.Team) *Scorecard {
	c := newCard(in, batting, bowling)
	for _, ev := range events {
		if ev.Innings != in.Number {
			continue
		}
		c.addBatting(ev.Batsman, ev.Runs, ev.Wicket)
		c.addBowling(ev.Bowler, ev.Runs, ev.Wicket)
	}
	return c.finish(in, batting, bowling)
}

// ForMatch builds the scorecard of innings n (1 or 2) from a match
// snapshot. Only the commentary tagged with that innings is replayed.
func ForMatch(s *engine.MatchState, n int, src Source) (*Scorecard, error) {
	if n != 1 && n != 2 {
		return nil, fmt.Errorf("innings %d: %w", n, ErrNoInnings)
	}
	in := s.Innings(n)
	if in.Number == 0 || s.Team1 == nil || s.Team2 == nil {
		return nil, ErrNoInnings
	}
	batting, bowling := side(s, in.BattingTeam), side(s, in.BowlingTeam)

	switch src {
	case SourceEvents, "":
		return FromEvents(in, s.Events, batting, bowling), nil
	case SourceCommentary:
		var lines []string
		for i := len(s.Commentary) - 1; i >= 0; i-- {
			if s.Commentary[i].Innings == n {
				lines = append(lines, s.Commentary[i].Text)
			}
		}
		return Reconstruct(in, lines, batting, bowling), nil
	}
	return nil, ErrSource
}

func side(s *engine.MatchState, name string) *roster.Team {
	if s.Team1.Name == name {
		return s.Team1
	}
	return s.Team2
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
