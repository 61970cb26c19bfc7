package engine

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

const (
	mi  = "Mumbai Indians"
	csk = "Chennai Super Kings"
)

// scripted returns its picks in order, repeating the last one.
type scripted struct {
	picks []int
	i     int
}

func (s *scripted) Pick(*rand.Rand) int {
	v := s.picks[min(s.i, len(s.picks)-1)]
	s.i++
	return v
}

func always(n int) *scripted { return &scripted{picks: []int{n}} }

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// begin starts a Mumbai (human) vs Chennai (computer) match with the human
// batting or bowling first, and answers the opening selections.
func begin(t *testing.T, opts Options, humanBatsFirst bool) *Engine {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	e := New(opts)
	must(t, e.SelectTeam(mi, Team1))
	must(t, e.SelectTeam(csk, Team2))
	must(t, e.ConfirmTeams())
	winner, err := e.RunToss()
	must(t, err)
	d := Bat
	if (winner == mi) != humanBatsFirst {
		d = Bowl
	}
	must(t, e.RecordDecision(d))
	fill(t, e)
	return e
}

// fill answers pending selections with the first eligible roster players.
func fill(t *testing.T, e *Engine) {
	t.Helper()
	for p := e.Pending(); p != nil; p = e.Pending() {
		team, err := e.Catalog().Find(p.Team)
		must(t, err)
		var picks []string
		for _, name := range team.Players {
			if len(picks) == p.Size {
				break
			}
			if !contains(p.Exclude, name) {
				picks = append(picks, name)
			}
		}
		must(t, e.ConfirmSelection(picks))
	}
}

func play(t *testing.T, e *Engine, choice int) *BallResult {
	t.Helper()
	res, err := e.PlayBall(choice)
	if err != nil {
		t.Fatalf("PlayBall(%d) error: %v", choice, err)
	}
	return res
}

func lastLine(e *Engine) string {
	c := e.Commentary()
	return c[len(c)-1].Text
}

func TestSelectTeam(t *testing.T) {
	e := New(Options{Seed: 1})

	if err := e.SelectTeam("Nobody XI", Team1); !errors.Is(err, ErrUnknownTeam) {
		t.Errorf("unknown team error = %v, want ErrUnknownTeam", err)
	}
	if err := e.ConfirmTeams(); !errors.Is(err, ErrTeamsIncomplete) {
		t.Errorf("ConfirmTeams with no teams = %v, want ErrTeamsIncomplete", err)
	}

	must(t, e.SelectTeam(mi, Team1))
	if err := e.SelectTeam(mi, Team2); !errors.Is(err, ErrSameTeam) {
		t.Errorf("same team for team2 = %v, want ErrSameTeam", err)
	}
	if err := e.SelectTeam(csk, Role(9)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad role = %v, want ErrInvalidInput", err)
	}
	must(t, e.SelectTeam(csk, Team2))
	if err := e.SelectTeam(csk, Team1); !errors.Is(err, ErrSameTeam) {
		t.Errorf("team1 = team2 error = %v, want ErrSameTeam", err)
	}

	// Changing a pick is allowed before confirming.
	must(t, e.SelectTeam("Royal Challengers Bangalore", Team1))
	must(t, e.ConfirmTeams())

	s := e.Snapshot()
	if s.Phase != PhaseToss {
		t.Errorf("Phase = %s, want %s", s.Phase, PhaseToss)
	}
	if s.Team1.Name != "Royal Challengers Bangalore" || s.Team2.Name != csk {
		t.Errorf("teams = %s / %s", s.Team1.Name, s.Team2.Name)
	}

	if err := e.SelectTeam(mi, Team1); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("SelectTeam after confirm = %v, want ErrInvalidPhase", err)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		err  bool
	}{
		{"team1", Team1, false},
		{"human", Team1, false},
		{"team2", Team2, false},
		{"computer", Team2, false},
		{"umpire", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseRole(tc.in)
		if (err != nil) != tc.err || got != tc.want {
			t.Errorf("ParseRole(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestToss(t *testing.T) {
	e := New(Options{Rand: rand.New(rand.NewSource(3))})
	if _, err := e.RunToss(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("RunToss before teams = %v, want ErrWrongPhase", err)
	}

	must(t, e.SelectTeam(mi, Team1))
	must(t, e.SelectTeam(csk, Team2))
	must(t, e.ConfirmTeams())

	if err := e.RecordDecision(Bat); !errors.Is(err, ErrTossNotRun) {
		t.Errorf("RecordDecision before toss = %v, want ErrTossNotRun", err)
	}

	winner, err := e.RunToss()
	must(t, err)
	if winner != mi && winner != csk {
		t.Fatalf("winner = %q", winner)
	}
	if _, err := e.RunToss(); !errors.Is(err, ErrTossDone) {
		t.Errorf("second RunToss = %v, want ErrTossDone", err)
	}
	if err := e.RecordDecision("field"); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("bad decision = %v, want ErrInvalidDecision", err)
	}

	must(t, e.RecordDecision(Bowl))
	s := e.Snapshot()
	if s.Phase != PhaseFirstInnings {
		t.Fatalf("Phase = %s, want first-innings", s.Phase)
	}
	if s.First.BowlingTeam != winner {
		t.Errorf("BowlingTeam = %q, want toss winner %q", s.First.BowlingTeam, winner)
	}
	if s.First.BattingTeam == winner {
		t.Error("toss winner chose to bowl but is batting")
	}
	want := winner + " won the toss and chose to bowl first!"
	if len(s.Commentary) != 1 || s.Commentary[0].Text != want {
		t.Errorf("commentary = %+v, want [%q]", s.Commentary, want)
	}
}

func TestTossIsFair(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	wins := 0
	const n = 2000
	for i := 0; i < n; i++ {
		e := New(Options{Rand: rng})
		must(t, e.SelectTeam(mi, Team1))
		must(t, e.SelectTeam(csk, Team2))
		must(t, e.ConfirmTeams())
		w, err := e.RunToss()
		must(t, err)
		if w == mi {
			wins++
		}
	}
	if wins < 900 || wins > 1100 {
		t.Errorf("team1 won %d of %d tosses, expected about half", wins, n)
	}
}

func TestSelectionHumanBatting(t *testing.T) {
	e := New(Options{Rand: rand.New(rand.NewSource(5))})
	must(t, e.SelectTeam(mi, Team1))
	must(t, e.SelectTeam(csk, Team2))
	must(t, e.ConfirmTeams())
	w, err := e.RunToss()
	must(t, err)
	d := Bat
	if w != mi {
		d = Bowl
	}
	must(t, e.RecordDecision(d))

	p := e.Pending()
	if p == nil || p.Kind != SelectBatsmen || p.Size != 2 || p.Team != mi {
		t.Fatalf("Pending = %+v, want batsmen(2) for %s", p, mi)
	}
	if _, err := e.PlayBall(3); !errors.Is(err, ErrSelectionPending) {
		t.Errorf("PlayBall with pending selection = %v, want ErrSelectionPending", err)
	}

	tests := []struct {
		name    string
		players []string
		want    error
	}{
		{"too few", []string{"Rohit Sharma"}, ErrSelectionSize},
		{"too many", []string{"Rohit Sharma", "Naman Dhir", "Tilak Varma"}, ErrSelectionSize},
		{"duplicate", []string{"Rohit Sharma", "Rohit Sharma"}, ErrDuplicatePlayer},
		{"other team", []string{"Rohit Sharma", "MS Dhoni"}, ErrIneligiblePlayer},
	}
	for _, tc := range tests {
		if err := e.ConfirmSelection(tc.players); !errors.Is(err, tc.want) {
			t.Errorf("%s: error = %v, want %v", tc.name, err, tc.want)
		}
	}
	if s := e.Snapshot(); len(s.First.Batsmen) != 0 {
		t.Errorf("rejected selection mutated batsmen: %v", s.First.Batsmen)
	}

	must(t, e.ConfirmSelection([]string{"Tilak Varma", "Rohit Sharma"}))
	s := e.Snapshot()
	if !reflect.DeepEqual(s.First.Batsmen, []string{"Tilak Varma", "Rohit Sharma"}) {
		t.Errorf("Batsmen = %v", s.First.Batsmen)
	}
	if s.First.Bowler == "" {
		t.Error("computer bowler should be picked once the human batsmen are in")
	}
	if s.Team2.Has(s.First.Bowler) == false {
		t.Errorf("bowler %q is not a %s player", s.First.Bowler, csk)
	}
	if e.Pending() != nil {
		t.Errorf("Pending = %+v, want nil", e.Pending())
	}
	if err := e.ConfirmSelection([]string{"Naman Dhir"}); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ConfirmSelection without pending = %v, want ErrNoSelection", err)
	}
}

func TestSelectionHumanBowling(t *testing.T) {
	e := New(Options{Rand: rand.New(rand.NewSource(8))})
	must(t, e.SelectTeam(mi, Team1))
	must(t, e.SelectTeam(csk, Team2))
	must(t, e.ConfirmTeams())
	w, err := e.RunToss()
	must(t, err)
	d := Bowl
	if w != mi {
		d = Bat
	}
	must(t, e.RecordDecision(d))

	s := e.Snapshot()
	if s.First.BattingTeam != csk {
		t.Fatalf("BattingTeam = %q, want %q", s.First.BattingTeam, csk)
	}
	if len(s.First.Batsmen) != 2 || s.First.Batsmen[0] == s.First.Batsmen[1] {
		t.Fatalf("computer batsmen = %v, want two distinct players", s.First.Batsmen)
	}
	for _, b := range s.First.Batsmen {
		if !s.Team2.Has(b) {
			t.Errorf("batsman %q not in %s", b, csk)
		}
	}
	p := e.Pending()
	if p == nil || p.Kind != SelectBowler || p.Size != 1 || p.Team != mi {
		t.Fatalf("Pending = %+v, want bowler(1) for %s", p, mi)
	}
	must(t, e.ConfirmSelection([]string{"Jasprit Bumrah"}))
	if got := e.Snapshot().First.Bowler; got != "Jasprit Bumrah" {
		t.Errorf("Bowler = %q", got)
	}
}

func TestPlayBallValidation(t *testing.T) {
	e := New(Options{Seed: 1})
	if _, err := e.PlayBall(3); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("PlayBall in team selection = %v, want ErrWrongPhase", err)
	}

	e = begin(t, Options{}, true)
	before := e.Snapshot()
	for _, c := range []int{0, 7, -1} {
		_, err := e.PlayBall(c)
		if !errors.Is(err, ErrInvalidChoice) || !errors.Is(err, ErrInvalidInput) {
			t.Errorf("PlayBall(%d) = %v, want ErrInvalidChoice", c, err)
		}
	}
	if after := e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Error("rejected balls mutated the match state")
	}
}

func TestRunsAndWicketHumanBatting(t *testing.T) {
	e := begin(t, Options{Opponent: &scripted{picks: []int{1, 1, 5}}}, true)

	res := play(t, e, 4)
	if res.Wicket || res.Runs != 4 || res.BattingNumber != 4 || res.BowlingNumber != 1 {
		t.Errorf("ball 1 = %+v, want 4 runs", res)
	}
	if got := lastLine(e); got != "4 runs scored! Current score: 4/0" {
		t.Errorf("commentary = %q", got)
	}

	res = play(t, e, 1)
	if !res.Wicket || res.Runs != 0 {
		t.Errorf("ball 2 = %+v, want wicket", res)
	}
	if got := lastLine(e); got != "WICKET! Rohit Sharma is out! 1 vs 1" {
		t.Errorf("commentary = %q", got)
	}

	s := e.Snapshot()
	if s.First.Runs != 4 || s.First.Wickets != 1 {
		t.Errorf("score = %d/%d, want 4/1", s.First.Runs, s.First.Wickets)
	}
	// AutoNext sends in the first unused roster player.
	if !reflect.DeepEqual(s.First.Batsmen, []string{"Hardik Pandya", "Naman Dhir"}) {
		t.Errorf("Batsmen = %v, want [Hardik Pandya Naman Dhir]", s.First.Batsmen)
	}

	// Only the batting number scores; the bowler's number is irrelevant.
	res = play(t, e, 2)
	if res.Runs != 2 {
		t.Errorf("ball 3 runs = %d, want 2", res.Runs)
	}
	if got := lastLine(e); got != "2 runs scored! Current score: 6/1" {
		t.Errorf("commentary = %q", got)
	}
}

func TestRunsHumanBowling(t *testing.T) {
	e := begin(t, Options{Opponent: &scripted{picks: []int{5, 2}}}, false)
	striker := e.Snapshot().First.Batsmen[0]

	res := play(t, e, 2)
	if res.HumanBatting || res.Runs != 5 || res.BattingNumber != 5 || res.BowlingNumber != 2 {
		t.Errorf("ball = %+v, want computer scoring 5", res)
	}

	res = play(t, e, 2)
	if !res.Wicket || res.Batsman != striker {
		t.Errorf("ball = %+v, want %s out", res, striker)
	}
	s := e.Snapshot()
	if s.First.Batsmen[0] == striker || s.First.Used(s.First.Batsmen[0]) == false {
		t.Errorf("striker not replaced: %v", s.First.Batsmen)
	}
	if s.First.Batsmen[0] == s.First.Batsmen[1] {
		t.Errorf("replacement duplicates partner: %v", s.First.Batsmen)
	}
}

func TestOverCompletesAndComputerChangesBowler(t *testing.T) {
	e := begin(t, Options{Opponent: always(1)}, true)
	first := e.Snapshot().First.Bowler

	for i := 1; i <= 5; i++ {
		res := play(t, e, 2)
		if res.OverComplete {
			t.Fatalf("over complete after %d balls", i)
		}
		if got := e.Snapshot().First.Balls; got != i {
			t.Errorf("Balls = %d, want %d", got, i)
		}
	}
	res := play(t, e, 2)
	if !res.OverComplete {
		t.Error("sixth ball should complete the over")
	}
	s := e.Snapshot()
	if s.First.Overs != 1 || s.First.Balls != 0 {
		t.Errorf("overs = %s, want 1.0", FormatOvers(s.First.Overs, s.First.Balls))
	}
	if s.First.Bowler == first {
		t.Errorf("bowler %q bowled consecutive overs", first)
	}
	if e.Pending() != nil {
		t.Errorf("computer bowling should not prompt, got %+v", e.Pending())
	}
}

func TestHumanPromptedForBowlerAfterOver(t *testing.T) {
	e := begin(t, Options{Opponent: always(4)}, false)
	first := e.Snapshot().First.Bowler

	for i := 0; i < 6; i++ {
		play(t, e, 1)
	}
	p := e.Pending()
	if p == nil || p.Kind != SelectBowler {
		t.Fatalf("Pending = %+v, want bowler selection", p)
	}
	if !reflect.DeepEqual(p.Exclude, []string{first}) {
		t.Errorf("Exclude = %v, want [%s]", p.Exclude, first)
	}
	if _, err := e.PlayBall(1); !errors.Is(err, ErrSelectionPending) {
		t.Errorf("PlayBall = %v, want ErrSelectionPending", err)
	}
	if err := e.ConfirmSelection([]string{first}); !errors.Is(err, ErrIneligiblePlayer) {
		t.Errorf("same bowler = %v, want ErrIneligiblePlayer", err)
	}
	must(t, e.ConfirmSelection([]string{"Trent Boult"}))
	if got := e.Snapshot().First.Bowler; got != "Trent Boult" {
		t.Errorf("Bowler = %q", got)
	}
	play(t, e, 1)
}

func TestPromptPolicyForNextBatsman(t *testing.T) {
	e := begin(t, Options{Opponent: always(3), NextBatsman: Prompt}, true)

	res := play(t, e, 3)
	if !res.Wicket {
		t.Fatal("expected wicket")
	}
	p := e.Pending()
	if p == nil || p.Kind != SelectBatsman || p.Size != 1 {
		t.Fatalf("Pending = %+v, want batsman(1)", p)
	}
	if err := e.ConfirmSelection([]string{"Rohit Sharma"}); !errors.Is(err, ErrIneligiblePlayer) {
		t.Errorf("dismissed batsman = %v, want ErrIneligiblePlayer", err)
	}
	if err := e.ConfirmSelection([]string{"Naman Dhir"}); !errors.Is(err, ErrIneligiblePlayer) {
		t.Errorf("partner = %v, want ErrIneligiblePlayer", err)
	}
	must(t, e.ConfirmSelection([]string{"Suryakumar Yadav"}))
	s := e.Snapshot()
	if !reflect.DeepEqual(s.First.Batsmen, []string{"Suryakumar Yadav", "Naman Dhir"}) {
		t.Errorf("Batsmen = %v", s.First.Batsmen)
	}
}

func TestAllOutEndsFirstInnings(t *testing.T) {
	e := begin(t, Options{Opponent: always(3)}, true)

	for i := 1; i <= 5; i++ {
		res := play(t, e, 3)
		if res.InningsEnded != (i == 5) {
			t.Fatalf("ball %d InningsEnded = %v", i, res.InningsEnded)
		}
	}
	s := e.Snapshot()
	if s.Phase != PhaseSecondInnings {
		t.Fatalf("Phase = %s, want second-innings", s.Phase)
	}
	if s.First.Wickets != MaxWickets || s.First.Balls != 5 || s.First.Overs != 0 {
		t.Errorf("first innings = %d wickets in %s overs", s.First.Wickets, FormatOvers(s.First.Overs, s.First.Balls))
	}
	if len(s.First.Dismissed) != 5 {
		t.Errorf("Dismissed = %v, want 5 players", s.First.Dismissed)
	}
	if s.Second.Target != 1 {
		t.Errorf("Target = %d, want 1", s.Second.Target)
	}
	if !strings.HasSuffix(lastLine(e), " First innings ends! Target: 1") {
		t.Errorf("commentary = %q", lastLine(e))
	}
}

func TestFirstInningsTransition(t *testing.T) {
	e := begin(t, Options{Opponent: always(1)}, true)
	e.state.First.Runs = 124
	e.state.First.Wickets = 3
	e.state.First.Overs = 5
	e.state.First.Balls = 5

	res := play(t, e, 6)
	if !res.InningsEnded || res.MatchEnded {
		t.Errorf("result = %+v, want innings ended only", res)
	}
	s := e.Snapshot()
	if s.Phase != PhaseSecondInnings {
		t.Fatalf("Phase = %s", s.Phase)
	}
	if s.First.Runs != 130 || s.First.Overs != 6 || s.First.Wickets != 3 {
		t.Errorf("first innings = %d/%d in %d overs", s.First.Runs, s.First.Wickets, s.First.Overs)
	}
	if s.Second.Target != 131 {
		t.Errorf("Target = %d, want 131", s.Second.Target)
	}
	if s.Second.BattingTeam != csk || s.Second.BowlingTeam != mi {
		t.Errorf("second innings %s v %s, want sides swapped", s.Second.BattingTeam, s.Second.BowlingTeam)
	}
	if s.Second.Runs != 0 || s.Second.Wickets != 0 || s.Second.Overs != 0 || s.Second.Balls != 0 {
		t.Errorf("second innings counters not zero: %+v", s.Second)
	}
	if got := lastLine(e); got != "6 runs scored! Current score: 130/3 First innings ends! Target: 131" {
		t.Errorf("commentary = %q", got)
	}
	// Human bowls in the second innings, computer batsmen are already in.
	if len(s.Second.Batsmen) != 2 {
		t.Errorf("second innings batsmen = %v", s.Second.Batsmen)
	}
	if p := e.Pending(); p == nil || p.Kind != SelectBowler {
		t.Errorf("Pending = %+v, want bowler", p)
	}
}

// toSecondInnings ends the first innings on firstRuns with the human batting
// first, then answers the human's bowler selection.
func toSecondInnings(t *testing.T, opp *scripted, firstRuns int) *Engine {
	t.Helper()
	e := begin(t, Options{Opponent: opp}, true)
	e.state.First.Runs = firstRuns - 2
	e.state.First.Overs = 5
	e.state.First.Balls = 5
	play(t, e, 2)
	if e.Phase() != PhaseSecondInnings {
		t.Fatalf("Phase = %s, want second-innings", e.Phase())
	}
	fill(t, e)
	return e
}

func TestMatchResults(t *testing.T) {
	tests := []struct {
		name          string
		firstRuns     int
		secondRuns    int
		secondWickets int
		secondOvers   int
		secondBalls   int
		computerPick  int // Batting number in the chase
		humanPick     int
		wantWinner    string
		wantResult    Result
		wantSuffix    string
	}{
		{
			name: "chase with wickets in hand", firstRuns: 130, secondRuns: 125, secondWickets: 2,
			secondOvers: 3, computerPick: 6, humanPick: 1,
			wantWinner: csk, wantResult: Result{Winner: csk, Margin: 3, By: "wickets"},
			wantSuffix: " Chennai Super Kings wins by 3 wickets!",
		},
		{
			name: "chase without losing a wicket", firstRuns: 120, secondRuns: 120, secondWickets: 0,
			secondOvers: 4, computerPick: 1, humanPick: 4,
			wantWinner: csk, wantResult: Result{Winner: csk, Margin: 5, By: "wickets"},
			wantSuffix: " Chennai Super Kings wins by 5 wickets!",
		},
		{
			name: "defended", firstRuns: 130, secondRuns: 100, secondWickets: 1,
			secondOvers: 5, secondBalls: 5, computerPick: 2, humanPick: 6,
			wantWinner: mi, wantResult: Result{Winner: mi, Margin: 28, By: "runs"},
			wantSuffix: " Mumbai Indians wins by 28 runs!",
		},
		{
			name: "tie", firstRuns: 130, secondRuns: 124, secondWickets: 4,
			secondOvers: 5, secondBalls: 5, computerPick: 6, humanPick: 1,
			wantWinner: TieWinner, wantResult: Result{Winner: TieWinner},
			wantSuffix: " Match tied!",
		},
		{
			name: "all out short of target", firstRuns: 50, secondRuns: 40, secondWickets: 4,
			secondOvers: 2, computerPick: 3, humanPick: 3,
			wantWinner: mi, wantResult: Result{Winner: mi, Margin: 10, By: "runs"},
			wantSuffix: " Mumbai Indians wins by 10 runs!",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := toSecondInnings(t, &scripted{picks: []int{1, tc.computerPick}}, tc.firstRuns)
			e.state.Second.Runs = tc.secondRuns
			e.state.Second.Wickets = tc.secondWickets
			e.state.Second.Overs = tc.secondOvers
			e.state.Second.Balls = tc.secondBalls

			res := play(t, e, tc.humanPick)
			if !res.MatchEnded {
				t.Fatalf("match should have ended: %+v", res)
			}
			s := e.Snapshot()
			if s.Phase != PhaseMatchEnd {
				t.Errorf("Phase = %s", s.Phase)
			}
			if s.Winner != tc.wantWinner {
				t.Errorf("Winner = %q, want %q", s.Winner, tc.wantWinner)
			}
			if *s.Result != tc.wantResult {
				t.Errorf("Result = %+v, want %+v", *s.Result, tc.wantResult)
			}
			if !strings.HasSuffix(lastLine(e), tc.wantSuffix) {
				t.Errorf("commentary = %q, want suffix %q", lastLine(e), tc.wantSuffix)
			}
			if s.Second.Target != tc.firstRuns+1 {
				t.Errorf("Target = %d, want %d", s.Second.Target, tc.firstRuns+1)
			}
			if _, err := e.PlayBall(1); !errors.Is(err, ErrWrongPhase) {
				t.Errorf("PlayBall after match end = %v, want ErrWrongPhase", err)
			}
		})
	}
}

func TestChaseNotEndedAtTarget(t *testing.T) {
	// Equalling the first innings score does not end the chase early.
	e := toSecondInnings(t, &scripted{picks: []int{1, 4}}, 50)
	e.state.Second.Runs = 46

	res := play(t, e, 1)
	if res.InningsEnded {
		t.Fatalf("chase ended level with the target: %+v", res)
	}
	if s := e.Snapshot(); s.Second.Runs != 50 || s.Phase != PhaseSecondInnings {
		t.Errorf("second innings = %d runs, phase %s", s.Second.Runs, s.Phase)
	}
}

func TestReentrantBallRejected(t *testing.T) {
	var inner error
	var e *Engine
	e = begin(t, Options{
		Opponent: always(2),
		OnReveal: func(r BallReveal) {
			if r.Human != 5 || r.Computer != 2 || !r.HumanBatting {
				t.Errorf("reveal = %+v", r)
			}
			_, inner = e.PlayBall(3)
		},
	}, true)

	play(t, e, 5)
	if !errors.Is(inner, ErrBallInProgress) {
		t.Errorf("re-entrant PlayBall = %v, want ErrBallInProgress", inner)
	}
	if s := e.Snapshot(); s.First.Runs != 5 || s.First.Balls != 1 {
		t.Errorf("state after ball = %d runs, %d balls", s.First.Runs, s.First.Balls)
	}
	// Guard is released after the ball.
	play(t, e, 4)
}

func TestFeedIsBoundedCommentaryIsNot(t *testing.T) {
	e := begin(t, Options{Opponent: always(1)}, true)
	for i := 0; i < 15; i++ {
		play(t, e, 2)
	}
	if got := len(e.Feed()); got != 10 {
		t.Errorf("len(Feed) = %d, want 10", got)
	}
	if got := len(e.Commentary()); got != 16 {
		t.Errorf("len(Commentary) = %d, want 16 (toss + 15 balls)", got)
	}
	if e.Feed()[0] != lastLine(e) {
		t.Errorf("Feed should be newest first")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	e := begin(t, Options{Opponent: always(1)}, true)
	play(t, e, 2)

	s := e.Snapshot()
	s.First.Batsmen[0] = "Somebody"
	s.Commentary[0].Text = "changed"
	s.Events[0].Runs = 99

	again := e.Snapshot()
	if again.First.Batsmen[0] != "Rohit Sharma" || again.Commentary[0].Text == "changed" || again.Events[0].Runs != 2 {
		t.Error("Snapshot shares memory with the engine")
	}
}

func TestReset(t *testing.T) {
	e := begin(t, Options{Opponent: always(1)}, true)
	play(t, e, 2)
	e.Reset()

	s := e.Snapshot()
	if s.Phase != PhaseTeamSelection || s.Team1 != nil || s.First.Runs != 0 || len(s.Commentary) != 0 || len(s.Events) != 0 {
		t.Errorf("Reset left state behind: %+v", s)
	}
}

// TestMatchInvariants plays whole matches with random choices and checks
// the counters after every ball.
func TestMatchInvariants(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		policy := AutoNext
		if seed%2 == 0 {
			policy = Prompt
		}
		e := New(Options{Rand: rng, NextBatsman: policy})
		must(t, e.SelectTeam(mi, Team1))
		must(t, e.SelectTeam("Sunrisers Hyderabad", Team2))
		must(t, e.ConfirmTeams())
		_, err := e.RunToss()
		must(t, err)
		must(t, e.RecordDecision(e.ComputerDecision()))

		var firstFinal, prevWickets, prevInnings int
		for e.Phase() != PhaseMatchEnd {
			if e.Pending() != nil {
				must(t, e.AutoSelect())
				continue
			}
			before := e.Snapshot()
			in := before.Current()
			res := play(t, e, 1+rng.Intn(6))
			after := e.Snapshot()
			cur := after.Innings(res.Innings)

			if res.Innings != prevInnings {
				prevWickets = 0
				prevInnings = res.Innings
			}
			if cur.Wickets < prevWickets || cur.Wickets > MaxWickets {
				t.Fatalf("seed %d: wickets %d after %d", seed, cur.Wickets, prevWickets)
			}
			prevWickets = cur.Wickets
			if cur.Overs < 0 || cur.Overs > MaxOvers || cur.Balls < 0 || cur.Balls >= BallsPerOver {
				t.Fatalf("seed %d: bad counters %d.%d", seed, cur.Overs, cur.Balls)
			}
			if res.Human == res.Computer {
				if !res.Wicket || cur.Runs != in.Runs || cur.Wickets != in.Wickets+1 {
					t.Fatalf("seed %d: equal picks must be a wicket: %+v", seed, res)
				}
			} else if res.Wicket || cur.Runs != in.Runs+res.BattingNumber || cur.Wickets != in.Wickets {
				t.Fatalf("seed %d: unequal picks must score the batting number: %+v", seed, res)
			}
			if got, want := cur.Overs*BallsPerOver+cur.Balls, in.Overs*BallsPerOver+in.Balls+1; got != want {
				t.Fatalf("seed %d: balls bowled %d, want %d", seed, got, want)
			}
			ended := cur.Overs == MaxOvers || cur.Wickets == MaxWickets || (cur.Number == 2 && cur.Runs > after.First.Runs)
			if res.InningsEnded != ended {
				t.Fatalf("seed %d: InningsEnded = %v, rule says %v (%d/%d in %d.%d)", seed, res.InningsEnded, ended, cur.Runs, cur.Wickets, cur.Overs, cur.Balls)
			}
			if res.Innings == 1 && res.InningsEnded {
				firstFinal = cur.Runs
				if after.Second.Target != firstFinal+1 {
					t.Fatalf("seed %d: Target = %d, want %d", seed, after.Second.Target, firstFinal+1)
				}
			}
			if res.Innings == 2 && after.Second.Target != firstFinal+1 {
				t.Fatalf("seed %d: target changed during chase", seed)
			}
		}

		s := e.Snapshot()
		var n1, n2 int
		for _, ev := range s.Events {
			if ev.Innings == 1 {
				n1++
			} else {
				n2++
			}
		}
		if n1 != s.First.Overs*BallsPerOver+s.First.Balls || n2 != s.Second.Overs*BallsPerOver+s.Second.Balls {
			t.Errorf("seed %d: %d/%d events for %s and %s overs", seed, n1, n2,
				FormatOvers(s.First.Overs, s.First.Balls), FormatOvers(s.Second.Overs, s.Second.Balls))
		}
	}
}

func TestSummary(t *testing.T) {
	e := toSecondInnings(t, &scripted{picks: []int{1, 6}}, 130)
	if _, err := e.Summary(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Summary before match end = %v, want ErrWrongPhase", err)
	}
	e.state.Second.Runs = 125
	e.state.Second.Wickets = 2
	e.state.Second.Overs = 3
	play(t, e, 1)

	sum, err := e.Summary()
	must(t, err)
	if sum.Headline != "Chennai Super Kings Wins!" {
		t.Errorf("Headline = %q", sum.Headline)
	}
	if sum.Result != "Chennai Super Kings wins by 3 wickets" {
		t.Errorf("Result = %q", sum.Result)
	}
	if sum.HighestScore != 131 || sum.TotalWickets != 2 {
		t.Errorf("HighestScore = %d, TotalWickets = %d", sum.HighestScore, sum.TotalWickets)
	}
	if sum.First.Score() != "Mumbai Indians: 130/0 (6.0 overs)" {
		t.Errorf("First.Score = %q", sum.First.Score())
	}
	if sum.Second.Overs != "3.1" || sum.Second.Target != 131 {
		t.Errorf("Second = %+v", sum.Second)
	}
	if len(sum.Commentary) != 3 || !strings.Contains(sum.Commentary[0], "won the toss") {
		t.Errorf("Commentary = %v, want toss line first", sum.Commentary)
	}

	var b strings.Builder
	must(t, sum.Write(&b))
	if !strings.Contains(b.String(), "2nd innings  Chennai Super Kings: 131/2 (3.1 overs)  Target: 131") {
		t.Errorf("summary text:\n%s", b.String())
	}
}

func TestFormatOvers(t *testing.T) {
	if got := FormatOvers(3, 4); got != "3.4" {
		t.Errorf("FormatOvers(3, 4) = %q", got)
	}
}
