// Package equity provides chase equity tables.
// A chase equity table gives the probability that the side batting second
// wins from a given position, assuming the bowling side's number is drawn
// uniformly from 1-6 and the batting side's number is uniform too.
//
// A wicket falls with probability 1/6 whatever the batting side picks, so
// only the run distribution depends on the uniform-batting assumption.
package equity

import (
	"fmt"
	"sync"
)

// Table limits for the default six-over, five-wicket format.
const (
	MaxBalls   = 36
	MaxWickets = 5
	MaxNeed    = MaxBalls*6 + 1 // Highest possible target
)

const (
	pWicket = 1.0 / 6  // Both sides show the same number
	pRuns   = 5.0 / 36 // Batting side shows k, bowling side anything else
	// Expected runs from one ball: sum over k of k * 5/36.
	meanRuns = 21 * pRuns
)

// Table holds the chase equities.
type Table struct {
	// Win[w][b][d] = P(chasing side wins | needs d runs to win, b balls
	// left, w wickets in hand). d = 0 means the target is already reached.
	Win [MaxWickets + 1][MaxBalls + 1][MaxNeed + 1]float64

	// Tie[w][b][d] = P(innings ends with the scores level).
	Tie [MaxWickets + 1][MaxBalls + 1][MaxNeed + 1]float64

	// Runs[w][b] = expected runs still to come with b balls and w wickets
	// left, ignoring any target.
	Runs [MaxWickets + 1][MaxBalls + 1]float64
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table for the default format, built once.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = Build()
	})
	return defaultTable
}

// Build computes a table by backward induction over balls left.
func Build() *Table {
	t := &Table{}

	for w := 0; w <= MaxWickets; w++ {
		t.Win[w][0][0] = 1
		// Needing exactly one run off the last ball, or with no wickets,
		// means the scores are level.
		t.Tie[w][0][1] = 1
	}
	for b := 0; b <= MaxBalls; b++ {
		t.Win[0][b][0] = 1
		t.Tie[0][b][1] = 1
	}

	for b := 1; b <= MaxBalls; b++ {
		for w := 1; w <= MaxWickets; w++ {
			t.Runs[w][b] = meanRuns + pWicket*t.Runs[w-1][b-1] + (1-pWicket)*t.Runs[w][b-1]

			t.Win[w][b][0] = 1
			for d := 1; d <= MaxNeed; d++ {
				win := pWicket * t.Win[w-1][b-1][d]
				tie := pWicket * t.Tie[w-1][b-1][d]
				for k := 1; k <= 6; k++ {
					next := d - k
					if next < 0 {
						next = 0
					}
					win += pRuns * t.Win[w][b-1][next]
					tie += pRuns * t.Tie[w][b-1][next]
				}
				t.Win[w][b][d] = win
				t.Tie[w][b][d] = tie
			}
		}
	}
	return t
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WinProbability returns the chasing side's chance of winning.
// need is target minus runs scored.
func (t *Table) WinProbability(need, balls, wickets int) float64 {
	if need <= 0 {
		return 1
	}
	return t.Win[clamp(wickets, 0, MaxWickets)][clamp(balls, 0, MaxBalls)][clamp(need, 0, MaxNeed)]
}

// TieProbability returns the chance the match ends level.
func (t *Table) TieProbability(need, balls, wickets int) float64 {
	if need <= 0 {
		return 0
	}
	return t.Tie[clamp(wickets, 0, MaxWickets)][clamp(balls, 0, MaxBalls)][clamp(need, 0, MaxNeed)]
}

// Projected returns the expected first innings total.
func (t *Table) Projected(runs, balls, wickets int) float64 {
	return float64(runs) + t.Runs[clamp(wickets, 0, MaxWickets)][clamp(balls, 0, MaxBalls)]
}

// AfterBall returns the win probability after a ball that scored runs
// (or took a wicket) from the given position.
func (t *Table) AfterBall(need, balls, wickets, runs int, wicket bool) float64 {
	if wicket {
		return t.WinProbability(need, balls-1, wickets-1)
	}
	return t.WinProbability(need-runs, balls-1, wickets)
}

// Outlook is the equity of a live innings.
type Outlook struct {
	Projected      float64 `json:"projected,omitempty"`       // First innings: expected total
	Need           int     `json:"need,omitempty"`            // Second innings: runs to win
	BallsLeft      int     `json:"balls_left"`
	WicketsLeft    int     `json:"wickets_left"`
	WinProbability float64 `json:"win_probability,omitempty"` // Second innings: chasing side
	TieProbability float64 `json:"tie_probability,omitempty"`
}

// String renders the outlook for a scoreboard.
func (o Outlook) String() string {
	if o.Need > 0 {
		return fmt.Sprintf("Need %d off %d balls, win chance %.0f%%", o.Need, o.BallsLeft, o.WinProbability*100)
	}
	return fmt.Sprintf("Projected total %.0f", o.Projected)
}

// First returns the outlook of a first innings.
func (t *Table) First(runs, balls, wickets int) Outlook {
	return Outlook{
		Projected:   t.Projected(runs, balls, wickets),
		BallsLeft:   balls,
		WicketsLeft: wickets,
	}
}

// Chase returns the outlook of a second innings.
func (t *Table) Chase(need, balls, wickets int) Outlook {
	return Outlook{
		Need:           need,
		BallsLeft:      balls,
		WicketsLeft:    wickets,
		WinProbability: t.WinProbability(need, balls, wickets),
		TieProbability: t.TieProbability(need, balls, wickets),
	}
}
