package engine

import "github.com/yourusername/handcricket/internal/commentary"

// RunToss picks the toss winner uniformly between the two sides.
func (e *Engine) RunToss() (string, error) {
	if e.state.Phase != PhaseToss {
		return "", ErrWrongPhase
	}
	if e.state.Toss.Winner != "" {
		return "", ErrTossDone
	}
	winner, _ := sample(e.rng, []string{e.state.Team1.Name, e.state.Team2.Name}, nil)
	e.state.Toss.Winner = winner
	return winner, nil
}

// ComputerDecision returns a random bat/bowl choice for drivers to use when
// the computer side wins the toss.
func (e *Engine) ComputerDecision() Decision {
	if e.rng.Intn(2) == 0 {
		return Bat
	}
	return Bowl
}

// RecordDecision applies the toss winner's choice and starts the first innings.
func (e *Engine) RecordDecision(d Decision) error {
	if e.state.Phase != PhaseToss {
		return ErrWrongPhase
	}
	if e.state.Toss.Winner == "" {
		return ErrTossNotRun
	}
	if d != Bat && d != Bowl {
		return ErrInvalidDecision
	}

	winner := e.state.Toss.Winner
	other := e.state.Team1.Name
	if other == winner {
		other = e.state.Team2.Name
	}

	batting, bowling := winner, other
	if d == Bowl {
		batting, bowling = other, winner
	}

	e.state.Toss.Decision = d
	e.state.First = Innings{Number: 1, BattingTeam: batting, BowlingTeam: bowling}
	e.state.Phase = PhaseFirstInnings
	e.log.Reset()
	e.log.Add(0, commentary.Toss(winner, string(d)))
	e.prepareInnings()
	return nil
}
