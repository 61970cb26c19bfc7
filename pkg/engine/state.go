package engine

import (
	"github.com/yourusername/handcricket/internal/commentary"
	"github.com/yourusername/handcricket/internal/roster"
)

// Match format.
const (
	BallsPerOver = 6
	MaxOvers     = 6
	MaxWickets   = 5
	MinChoice    = 1
	MaxChoice    = 6
)

// TieWinner is the Winner sentinel for a tied match.
const TieWinner = "Tie"

// Phase is the master state of a match.
type Phase string

const (
	PhaseTeamSelection Phase = "team-selection"
	PhaseToss          Phase = "toss"
	PhaseFirstInnings  Phase = "first-innings"
	PhaseSecondInnings Phase = "second-innings"
	PhaseMatchEnd      Phase = "match-end"
)

// Role says who controls a side. Team1 is always the human.
type Role int

const (
	Team1 Role = iota + 1 // Human-controlled
	Team2                 // Computer-controlled
)

func (r Role) String() string {
	switch r {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	}
	return "unknown"
}

// ParseRole accepts "team1"/"human" and "team2"/"computer".
func ParseRole(s string) (Role, error) {
	switch s {
	case "team1", "human":
		return Team1, nil
	case "team2", "computer":
		return Team2, nil
	}
	return 0, ErrInvalidRole
}

// Decision is the toss winner's choice.
type Decision string

const (
	Bat  Decision = "bat"
	Bowl Decision = "bowl"
)

// Toss records the toss winner and their decision.
type Toss struct {
	Winner   string   `json:"winner"`
	Decision Decision `json:"decision,omitempty"`
}

// Innings is one side's batting turn.
type Innings struct {
	Number      int      `json:"number"`
	BattingTeam string   `json:"batting_team"`
	BowlingTeam string   `json:"bowling_team"`
	Runs        int      `json:"runs"`
	Wickets     int      `json:"wickets"`
	Overs       int      `json:"overs"`
	Balls       int      `json:"balls"`   // Balls in the current over (0-5)
	Batsmen     []string `json:"batsmen"` // Batsmen[0] is on strike
	Bowler      string   `json:"bowler"`
	Target      int      `json:"target"` // Second innings only
	Dismissed   []string `json:"dismissed,omitempty"`
}

// Used reports whether player has batted this innings.
func (in *Innings) Used(player string) bool {
	for _, p := range in.Batsmen {
		if p == player {
			return true
		}
	}
	for _, p := range in.Dismissed {
		if p == player {
			return true
		}
	}
	return false
}

// BallsLeft is the number of balls still to be bowled.
func (in *Innings) BallsLeft() int {
	return MaxOvers*BallsPerOver - in.Overs*BallsPerOver - in.Balls
}

// usedBatsmen lists every player who has come in to bat.
func (in *Innings) usedBatsmen() []string {
	out := make([]string, 0, len(in.Dismissed)+len(in.Batsmen))
	out = append(out, in.Dismissed...)
	return append(out, in.Batsmen...)
}

func (in Innings) clone() Innings {
	in.Batsmen = append([]string(nil), in.Batsmen...)
	in.Dismissed = append([]string(nil), in.Dismissed...)
	return in
}

// SelectionKind says what the human must pick.
type SelectionKind string

const (
	SelectBatsmen SelectionKind = "batsmen" // Opening pair
	SelectBowler  SelectionKind = "bowler"
	SelectBatsman SelectionKind = "batsman" // Replacement after a dismissal
)

// Selection is an outstanding request for the human to pick players.
// Ball-play is blocked while one is pending.
type Selection struct {
	Kind    SelectionKind `json:"kind"`
	Team    string        `json:"team"`
	Size    int           `json:"size"`
	Exclude []string      `json:"exclude,omitempty"`
}

// Result describes how the match was decided.
type Result struct {
	Winner string `json:"winner"`
	Margin int    `json:"margin,omitempty"`
	By     string `json:"by,omitempty"` // "wickets" or "runs"; empty for a tie
}

// BallEvent is the structured record of one resolved ball.
type BallEvent struct {
	Innings  int    `json:"innings"`
	Over     int    `json:"over"` // Over in progress when bowled (0-based)
	Ball     int    `json:"ball"` // 1-6 within the over
	Batsman  string `json:"batsman"`
	Bowler   string `json:"bowler"`
	Human    int    `json:"human"`
	Computer int    `json:"computer"`
	Runs     int    `json:"runs"`
	Wicket   bool   `json:"wicket"`
}

// MatchState is the single aggregate owned by an Engine.
type MatchState struct {
	Phase      Phase              `json:"phase"`
	Team1      *roster.Team       `json:"team1"`
	Team2      *roster.Team       `json:"team2"`
	Toss       Toss               `json:"toss"`
	First      Innings            `json:"first_innings"`
	Second     Innings            `json:"second_innings"`
	Winner     string             `json:"winner"`
	Result     *Result            `json:"result,omitempty"`
	Commentary []commentary.Entry `json:"commentary"`
	Events     []BallEvent        `json:"events"`
	Pending    *Selection         `json:"pending,omitempty"`
}

// Current returns the innings in play, or nil outside the innings phases.
func (s *MatchState) Current() *Innings {
	switch s.Phase {
	case PhaseFirstInnings:
		return &s.First
	case PhaseSecondInnings:
		return &s.Second
	}
	return nil
}

// Innings returns innings 1 or 2.
func (s *MatchState) Innings(n int) *Innings {
	if n == 2 {
		return &s.Second
	}
	return &s.First
}
