package engine

import "github.com/yourusername/handcricket/internal/commentary"

// BallResult describes one resolved ball.
type BallResult struct {
	Innings       int        `json:"innings"`
	HumanBatting  bool       `json:"human_batting"`
	Human         int        `json:"human"`
	Computer      int        `json:"computer"`
	BattingNumber int        `json:"batting_number"`
	BowlingNumber int        `json:"bowling_number"`
	Batsman       string     `json:"batsman"`
	Bowler        string     `json:"bowler"`
	Runs          int        `json:"runs"`
	Wicket        bool       `json:"wicket"`
	OverComplete  bool       `json:"over_complete"`
	InningsEnded  bool       `json:"innings_ended"`
	MatchEnded    bool       `json:"match_ended"`
	Commentary    string     `json:"commentary"`
	Pending       *Selection `json:"pending,omitempty"`
}

// PlayBall resolves one ball with the human's number. The human's number is
// their batting number when their side bats and their bowling number
// otherwise; the computer's number comes from Options.Opponent.
func (e *Engine) PlayBall(choice int) (*BallResult, error) {
	if choice < MinChoice || choice > MaxChoice {
		return nil, ErrInvalidChoice
	}
	if !e.ball.TryLock() {
		return nil, ErrBallInProgress
	}
	defer e.ball.Unlock()

	in := e.state.Current()
	if in == nil {
		return nil, ErrWrongPhase
	}
	if e.state.Pending != nil {
		return nil, ErrSelectionPending
	}
	if len(in.Batsmen) == 0 || in.Batsmen[0] == "" || in.Bowler == "" {
		return nil, ErrPlayersNotSet
	}

	computer := e.opts.Opponent.Pick(e.rng)
	if computer < MinChoice || computer > MaxChoice {
		computer = UniformOpponent{}.Pick(e.rng)
	}
	humanBatting := e.humanBatting(in)
	batNum, bowlNum := choice, computer
	if !humanBatting {
		batNum, bowlNum = computer, choice
	}

	if e.opts.OnReveal != nil {
		e.opts.OnReveal(BallReveal{Innings: in.Number, HumanBatting: humanBatting, Human: choice, Computer: computer})
	}

	res := &BallResult{
		Innings:       in.Number,
		HumanBatting:  humanBatting,
		Human:         choice,
		Computer:      computer,
		BattingNumber: batNum,
		BowlingNumber: bowlNum,
		Batsman:       in.Batsmen[0],
		Bowler:        in.Bowler,
	}

	var line string
	if batNum == bowlNum {
		in.Wickets++
		in.Dismissed = append(in.Dismissed, res.Batsman)
		res.Wicket = true
		line = commentary.Wicket(res.Batsman, choice, computer)
	} else {
		in.Runs += batNum
		res.Runs = batNum
		line = commentary.Runs(batNum, in.Runs, in.Wickets)
	}

	e.state.Events = append(e.state.Events, BallEvent{
		Innings:  in.Number,
		Over:     in.Overs,
		Ball:     in.Balls + 1,
		Batsman:  res.Batsman,
		Bowler:   res.Bowler,
		Human:    choice,
		Computer: computer,
		Runs:     res.Runs,
		Wicket:   res.Wicket,
	})

	in.Balls++
	if in.Balls == BallsPerOver {
		in.Balls = 0
		in.Overs++
		res.OverComplete = true
	}

	ended := e.inningsOver(in)

	if res.Wicket && in.Wickets < MaxWickets {
		e.replaceBatsman(in, !ended)
	}
	if res.OverComplete && !ended {
		e.changeBowler(in)
	}

	if ended {
		res.InningsEnded = true
		if in.Number == 1 {
			line += e.startSecondInnings()
		} else {
			line += e.finishMatch()
			res.MatchEnded = true
		}
	}

	e.log.Add(res.Innings, line)
	res.Commentary = line
	res.Pending = e.Pending()
	return res, nil
}

// inningsOver applies the end-of-innings rule after a ball.
func (e *Engine) inningsOver(in *Innings) bool {
	if in.Overs >= MaxOvers || in.Wickets >= MaxWickets {
		return true
	}
	return in.Number == 2 && in.Runs > e.state.First.Runs
}

// startSecondInnings swaps sides, fixes the target and returns the
// announcement appended to the last ball of the first innings.
func (e *Engine) startSecondInnings() string {
	first := &e.state.First
	target := first.Runs + 1
	e.state.Second = Innings{
		Number:      2,
		BattingTeam: first.BowlingTeam,
		BowlingTeam: first.BattingTeam,
		Target:      target,
	}
	e.state.Phase = PhaseSecondInnings
	e.prepareInnings()
	return commentary.FirstInningsEnd(target)
}

// finishMatch decides the result and returns the announcement appended to
// the final ball.
func (e *Engine) finishMatch() string {
	first, second := &e.state.First, &e.state.Second
	e.state.Phase = PhaseMatchEnd
	e.state.Pending = nil

	var r Result
	var suffix string
	switch {
	case second.Runs > first.Runs:
		r = Result{Winner: second.BattingTeam, Margin: MaxWickets - second.Wickets, By: "wickets"}
		suffix = commentary.WonByWickets(r.Winner, r.Margin)
	case second.Runs < first.Runs:
		r = Result{Winner: first.BattingTeam, Margin: first.Runs - second.Runs, By: "runs"}
		suffix = commentary.WonByRuns(r.Winner, r.Margin)
	default:
		r = Result{Winner: TieWinner}
		suffix = commentary.Tied
	}
	e.state.Winner = r.Winner
	e.state.Result = &r
	return suffix
}
