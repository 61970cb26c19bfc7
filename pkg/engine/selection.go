package engine

// prepareInnings fills in whatever the computer controls and raises a
// selection for whatever the human controls. Batsmen come before the bowler.
func (e *Engine) prepareInnings() {
	in := e.state.Current()
	if in == nil {
		return
	}
	e.state.Pending = nil

	if len(in.Batsmen) == 0 {
		if e.humanBatting(in) {
			e.state.Pending = &Selection{Kind: SelectBatsmen, Team: in.BattingTeam, Size: 2}
			return
		}
		in.Batsmen, _ = sampleN(e.rng, e.team(in.BattingTeam).Players, nil, 2)
	}

	if in.Bowler == "" {
		if e.humanBowling(in) {
			e.state.Pending = &Selection{Kind: SelectBowler, Team: in.BowlingTeam, Size: 1}
			return
		}
		in.Bowler, _ = sample(e.rng, e.team(in.BowlingTeam).Players, nil)
	}
}

// ConfirmSelection commits the human's pick for the pending selection and
// then prepares anything still missing for the innings.
func (e *Engine) ConfirmSelection(players []string) error {
	p := e.state.Pending
	in := e.state.Current()
	if p == nil || in == nil {
		return ErrNoSelection
	}
	if len(players) != p.Size {
		return ErrSelectionSize
	}
	team := e.team(p.Team)
	seen := make(map[string]bool, len(players))
	for _, name := range players {
		if seen[name] {
			return ErrDuplicatePlayer
		}
		seen[name] = true
		if !team.Has(name) || contains(p.Exclude, name) {
			return ErrIneligiblePlayer
		}
	}

	switch p.Kind {
	case SelectBatsmen:
		in.Batsmen = append([]string(nil), players...)
	case SelectBowler:
		in.Bowler = players[0]
	case SelectBatsman:
		in.Batsmen[0] = players[0]
	}
	e.state.Pending = nil
	e.prepareInnings()
	return nil
}

// AutoSelect answers the pending selection with a random valid pick.
// Drivers use it for unattended play.
func (e *Engine) AutoSelect() error {
	p := e.state.Pending
	if p == nil {
		return ErrNoSelection
	}
	picked, ok := sampleN(e.rng, e.team(p.Team).Players, p.Exclude, p.Size)
	if !ok {
		return ErrSelectionSize
	}
	return e.ConfirmSelection(picked)
}

// replaceBatsman sends in a new striker after a dismissal.
func (e *Engine) replaceBatsman(in *Innings, allowPrompt bool) {
	team := e.team(in.BattingTeam)
	used := in.usedBatsmen()

	if !e.humanBatting(in) {
		if next, ok := sample(e.rng, team.Players, used); ok {
			in.Batsmen[0] = next
		}
		return
	}

	if e.opts.NextBatsman == Prompt {
		if allowPrompt && len(without(team.Players, used)) > 0 {
			in.Batsmen[0] = ""
			e.state.Pending = &Selection{Kind: SelectBatsman, Team: in.BattingTeam, Size: 1, Exclude: used}
		}
		return
	}

	if avail := without(team.Players, used); len(avail) > 0 {
		in.Batsmen[0] = avail[0]
	}
}

// changeBowler brings on a new bowler at the end of an over. Only the
// bowler of the over just finished is excluded.
func (e *Engine) changeBowler(in *Innings) {
	team := e.team(in.BowlingTeam)
	prev := []string{in.Bowler}
	if len(without(team.Players, prev)) == 0 {
		return
	}
	if e.humanBowling(in) {
		e.state.Pending = &Selection{Kind: SelectBowler, Team: in.BowlingTeam, Size: 1, Exclude: prev}
		return
	}
	in.Bowler, _ = sample(e.rng, team.Players, prev)
}
