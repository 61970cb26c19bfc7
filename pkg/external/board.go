package external

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/handcricket/pkg/engine"
)

// Board is the one-line scoreboard sent by the "board" command.
//
// Format: board:phase:innings:batting:bowling:runs:wickets:overs:balls:target:striker:nonstriker:bowler
//
// Fields that do not apply yet (no innings, no target) are empty or 0.
// Player and team names never contain colons.
type Board struct {
	Phase      engine.Phase
	Innings    int
	Batting    string
	Bowling    string
	Runs       int
	Wickets    int
	Overs      int
	Balls      int
	Target     int
	Striker    string
	NonStriker string
	Bowler     string
}

const boardFields = 12

// NewBoard builds the scoreboard for a match snapshot.
func NewBoard(s *engine.MatchState) *Board {
	b := &Board{Phase: s.Phase}
	in := s.Current()
	if in == nil && s.Phase == engine.PhaseMatchEnd {
		in = &s.Second
	}
	if in == nil {
		return b
	}
	b.Innings = in.Number
	b.Batting = in.BattingTeam
	b.Bowling = in.BowlingTeam
	b.Runs = in.Runs
	b.Wickets = in.Wickets
	b.Overs = in.Overs
	b.Balls = in.Balls
	b.Target = in.Target
	if len(in.Batsmen) > 0 {
		b.Striker = in.Batsmen[0]
	}
	if len(in.Batsmen) > 1 {
		b.NonStriker = in.Batsmen[1]
	}
	b.Bowler = in.Bowler
	return b
}

// String formats the board line.
func (b *Board) String() string {
	parts := []string{
		string(b.Phase),
		strconv.Itoa(b.Innings),
		b.Batting,
		b.Bowling,
		strconv.Itoa(b.Runs),
		strconv.Itoa(b.Wickets),
		strconv.Itoa(b.Overs),
		strconv.Itoa(b.Balls),
		strconv.Itoa(b.Target),
		b.Striker,
		b.NonStriker,
		b.Bowler,
	}
	return "board:" + strings.Join(parts, ":")
}

// ParseBoard parses a board line.
func ParseBoard(s string) (*Board, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "board:")

	parts := strings.Split(s, ":")
	if len(parts) != boardFields {
		return nil, fmt.Errorf("invalid board: expected %d fields, got %d", boardFields, len(parts))
	}

	nums := make([]int, 0, 6)
	for _, i := range []int{1, 4, 5, 6, 7, 8} {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return nil, fmt.Errorf("invalid board field %d: %w", i, err)
		}
		nums = append(nums, n)
	}

	return &Board{
		Phase:      engine.Phase(parts[0]),
		Innings:    nums[0],
		Batting:    parts[2],
		Bowling:    parts[3],
		Runs:       nums[1],
		Wickets:    nums[2],
		Overs:      nums[3],
		Balls:      nums[4],
		Target:     nums[5],
		Striker:    parts[9],
		NonStriker: parts[10],
		Bowler:     parts[11],
	}, nil
}

// Score renders "45/2 (3.4)".
func (b *Board) Score() string {
	return fmt.Sprintf("%d/%d (%s)", b.Runs, b.Wickets, engine.FormatOvers(b.Overs, b.Balls))
}
