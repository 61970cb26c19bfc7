// Package engine implements the hand cricket match engine: team and toss
// selection, player selection, ball resolution and the innings state machine.
package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/handcricket/internal/commentary"
	"github.com/yourusername/handcricket/internal/roster"
)

// BatsmanPolicy decides how the human side replaces a dismissed batsman.
type BatsmanPolicy int

const (
	// AutoNext sends in the first unused roster player without asking.
	AutoNext BatsmanPolicy = iota
	// Prompt blocks ball-play until the human picks the replacement.
	Prompt
)

// Opponent picks the computer's number for each ball.
type Opponent interface {
	Pick(rng *rand.Rand) int
}

// UniformOpponent draws uniformly from 1-6, independent of the human.
type UniformOpponent struct{}

// Pick implements Opponent.
func (UniformOpponent) Pick(rng *rand.Rand) int {
	return MinChoice + rng.Intn(MaxChoice-MinChoice+1)
}

// BallReveal is passed to Options.OnReveal once both numbers are known and
// before the ball is resolved.
type BallReveal struct {
	Innings      int
	HumanBatting bool
	Human        int
	Computer     int
}

// Options configures an Engine.
type Options struct {
	Catalog     *roster.Catalog  // Team catalog (nil = roster.Default())
	Rand        *rand.Rand       // Random source (nil = seeded from Seed)
	Seed        int64            // RNG seed when Rand is nil (0 = current time)
	FeedSize    int              // Live feed length (0 = commentary.DefaultFeedSize)
	NextBatsman BatsmanPolicy    // Human replacement policy
	Opponent    Opponent         // Computer number source (nil = UniformOpponent)
	OnReveal    func(BallReveal) // Presentation hook, may be nil
}

// Engine owns one match. Operations are expected to be called serially by a
// single driver; PlayBall additionally rejects re-entrant calls.
type Engine struct {
	opts    Options
	catalog *roster.Catalog
	rng     *rand.Rand
	state   MatchState
	log     *commentary.Log
	ball    sync.Mutex
}

// New creates an engine in the team-selection phase.
func New(opts Options) *Engine {
	if opts.Catalog == nil {
		opts.Catalog = roster.Default()
	}
	if opts.Opponent == nil {
		opts.Opponent = UniformOpponent{}
	}
	if opts.FeedSize <= 0 {
		opts.FeedSize = commentary.DefaultFeedSize
	}
	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	e := &Engine{
		opts:    opts,
		catalog: opts.Catalog,
		rng:     rng,
		log:     &commentary.Log{},
	}
	e.Reset()
	return e
}

// Catalog returns the team catalog the engine draws from.
func (e *Engine) Catalog() *roster.Catalog { return e.catalog }

// Reset discards the match and returns to team selection.
func (e *Engine) Reset() {
	e.state = MatchState{Phase: PhaseTeamSelection}
	e.log.Reset()
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.state.Phase }

// Pending returns the outstanding human selection, if any.
func (e *Engine) Pending() *Selection {
	if e.state.Pending == nil {
		return nil
	}
	p := *e.state.Pending
	p.Exclude = append([]string(nil), p.Exclude...)
	return &p
}

// Feed returns the most recent commentary lines, newest first.
func (e *Engine) Feed() []string { return e.log.Recent(e.opts.FeedSize) }

// Commentary returns the full commentary, oldest first.
func (e *Engine) Commentary() []commentary.Entry { return e.log.Entries() }

// Snapshot returns a deep copy of the match state.
func (e *Engine) Snapshot() MatchState {
	s := e.state
	s.First = s.First.clone()
	s.Second = s.Second.clone()
	s.Commentary = e.log.Entries()
	s.Events = append([]BallEvent(nil), s.Events...)
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	s.Pending = e.Pending()
	return s
}

// SelectTeam assigns a catalog team to a role. Either role may be changed
// until the teams are confirmed, but never to the team holding the other.
func (e *Engine) SelectTeam(name string, role Role) error {
	if e.state.Phase != PhaseTeamSelection {
		return ErrWrongPhase
	}
	team, err := e.catalog.Find(name)
	if err != nil {
		return ErrUnknownTeam
	}
	switch role {
	case Team1:
		if e.state.Team2 != nil && e.state.Team2.Name == team.Name {
			return ErrSameTeam
		}
		e.state.Team1 = team
	case Team2:
		if e.state.Team1 != nil && e.state.Team1.Name == team.Name {
			return ErrSameTeam
		}
		e.state.Team2 = team
	default:
		return ErrInvalidRole
	}
	return nil
}

// ConfirmTeams moves on to the toss once both sides are chosen.
func (e *Engine) ConfirmTeams() error {
	if e.state.Phase != PhaseTeamSelection {
		return ErrWrongPhase
	}
	if e.state.Team1 == nil || e.state.Team2 == nil {
		return ErrTeamsIncomplete
	}
	if e.state.Team1.Name == e.state.Team2.Name {
		return ErrSameTeam
	}
	e.state.Phase = PhaseToss
	return nil
}

// team returns the match side with the given name.
func (e *Engine) team(name string) *roster.Team {
	switch {
	case e.state.Team1 != nil && e.state.Team1.Name == name:
		return e.state.Team1
	case e.state.Team2 != nil && e.state.Team2.Name == name:
		return e.state.Team2
	}
	return nil
}

// humanBatting reports whether team1 bats in the innings.
func (e *Engine) humanBatting(in *Innings) bool {
	return in.BattingTeam == e.state.Team1.Name
}

// humanBowling reports whether team1 bowls in the innings.
func (e *Engine) humanBowling(in *Innings) bool {
	return in.BowlingTeam == e.state.Team1.Name
}
