package engine

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/handcricket/internal/roster"
)

// SimulateOptions controls a Monte Carlo run of unattended matches.
type SimulateOptions struct {
	Matches int    // Number of matches to play (default 1000)
	Team1   string // Fixed team1 (empty = random pair per match)
	Team2   string // Fixed team2 (empty = random opponent)
	Seed    int64  // RNG seed (0 = random)
	Workers int    // Parallel workers (0 = GOMAXPROCS, capped at GOMAXPROCS)
}

// SimulateProgress is reported after each batch of matches.
type SimulateProgress struct {
	Completed     int     `json:"completed"`
	Total         int     `json:"total"`
	Percent       float64 `json:"percent"`
	BatFirstShare float64 `json:"bat_first_share"` // Share of decided matches won batting first
}

// SimulateCallback receives progress updates.
type SimulateCallback func(SimulateProgress)

// SimulationResult aggregates a Monte Carlo run.
type SimulationResult struct {
	Matches       int     `json:"matches"`
	BatFirstWins  int     `json:"bat_first_wins"`
	ChaseWins     int     `json:"chase_wins"`
	Ties          int     `json:"ties"`
	Team1Wins     int     `json:"team1_wins"`
	Team2Wins     int     `json:"team2_wins"`
	FirstMean     float64 `json:"first_innings_mean"`
	FirstStdDev   float64 `json:"first_innings_std_dev"`
	SecondMean    float64 `json:"second_innings_mean"`
	SecondStdDev  float64 `json:"second_innings_std_dev"`
	WicketsMean   float64 `json:"wickets_mean"` // Per match, both innings
	HighestScore  int     `json:"highest_score"`
	AllOutInnings int     `json:"all_out_innings"`
}

// DefaultSimulateOptions returns sensible defaults.
func DefaultSimulateOptions() SimulateOptions {
	return SimulateOptions{Matches: 1000}
}

// batch holds per-match samples from one worker batch.
type batch struct {
	first, second, wickets []float64
	batFirst, chase, ties  int
	team1, team2           int
	highest, allOut        int
}

// workerCount bounds the requested workers by GOMAXPROCS and by the
// number of matches. Zero or less means GOMAXPROCS.
func workerCount(requested, matches int) int {
	n := runtime.GOMAXPROCS(0)
	if requested > 0 && requested < n {
		n = requested
	}
	if n > matches {
		n = matches
	}
	return n
}

// Simulate plays opts.Matches computer-vs-computer matches across workers.
// Each worker owns its engine and seed, so runs with the same seed and
// worker count are reproducible.
func Simulate(ctx context.Context, catalog *roster.Catalog, opts SimulateOptions, callback SimulateCallback) (*SimulationResult, error) {
	if catalog == nil {
		catalog = roster.Default()
	}
	if opts.Matches <= 0 {
		opts.Matches = 1000
	}
	opts.Workers = workerCount(opts.Workers, opts.Matches)
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}
	for _, name := range []string{opts.Team1, opts.Team2} {
		if name == "" {
			continue
		}
		if _, err := catalog.Find(name); err != nil {
			return nil, ErrUnknownTeam
		}
	}
	if opts.Team1 != "" && opts.Team1 == opts.Team2 {
		return nil, ErrSameTeam
	}

	// Report progress roughly 20 times.
	batchSize := opts.Matches / 20
	if batchSize < 1 {
		batchSize = 1
	}

	perWorker := opts.Matches / opts.Workers
	extra := opts.Matches % opts.Workers
	results := make(chan batch, opts.Workers*4)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		n := perWorker
		if i < extra {
			n++
		}
		wg.Add(1)
		go func(matches int, seed int64) {
			defer wg.Done()
			simulateWorker(ctx, catalog, opts, matches, seed, batchSize, results)
		}(n, opts.Seed+int64(i)*1000000)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	res := aggregate(results, opts.Matches, callback)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func simulateWorker(ctx context.Context, catalog *roster.Catalog, opts SimulateOptions, matches int, seed int64, batchSize int, out chan<- batch) {
	rng := rand.New(rand.NewSource(seed))
	e := New(Options{Catalog: catalog, Rand: rng})

	for remaining := matches; remaining > 0; {
		if ctx.Err() != nil {
			return
		}
		n := min(batchSize, remaining)
		var b batch
		for i := 0; i < n; i++ {
			team1, team2 := pickTeams(rng, catalog, opts.Team1, opts.Team2)
			if err := e.Autoplay(team1, team2); err != nil {
				continue
			}
			b.add(&e.state)
		}
		out <- b
		remaining -= n
	}
}

// pickTeams fills in unset sides with distinct random teams.
func pickTeams(rng *rand.Rand, catalog *roster.Catalog, team1, team2 string) (string, string) {
	var names []string
	for _, t := range catalog.Teams() {
		names = append(names, t.Name)
	}
	if team1 == "" {
		team1, _ = sample(rng, names, []string{team2})
	}
	if team2 == "" {
		team2, _ = sample(rng, names, []string{team1})
	}
	return team1, team2
}

func (b *batch) add(s *MatchState) {
	b.first = append(b.first, float64(s.First.Runs))
	b.second = append(b.second, float64(s.Second.Runs))
	b.wickets = append(b.wickets, float64(s.First.Wickets+s.Second.Wickets))
	b.highest = max(b.highest, s.First.Runs, s.Second.Runs)
	for _, in := range []*Innings{&s.First, &s.Second} {
		if in.Wickets >= MaxWickets {
			b.allOut++
		}
	}
	switch s.Winner {
	case TieWinner:
		b.ties++
		return
	case s.First.BattingTeam:
		b.batFirst++
	default:
		b.chase++
	}
	if s.Winner == s.Team1.Name {
		b.team1++
	} else {
		b.team2++
	}
}

func aggregate(results <-chan batch, total int, callback SimulateCallback) *SimulationResult {
	var all batch
	for b := range results {
		all.first = append(all.first, b.first...)
		all.second = append(all.second, b.second...)
		all.wickets = append(all.wickets, b.wickets...)
		all.batFirst += b.batFirst
		all.chase += b.chase
		all.ties += b.ties
		all.team1 += b.team1
		all.team2 += b.team2
		all.highest = max(all.highest, b.highest)
		all.allOut += b.allOut

		if callback != nil {
			done := len(all.first)
			p := SimulateProgress{
				Completed: done,
				Total:     total,
				Percent:   100.0 * float64(done) / float64(total),
			}
			if decided := all.batFirst + all.chase; decided > 0 {
				p.BatFirstShare = float64(all.batFirst) / float64(decided)
			}
			callback(p)
		}
	}

	res := &SimulationResult{
		Matches:       len(all.first),
		BatFirstWins:  all.batFirst,
		ChaseWins:     all.chase,
		Ties:          all.ties,
		Team1Wins:     all.team1,
		Team2Wins:     all.team2,
		HighestScore:  all.highest,
		AllOutInnings: all.allOut,
	}
	if res.Matches == 0 {
		return res
	}
	if res.Matches > 1 {
		res.FirstMean, res.FirstStdDev = stat.MeanStdDev(all.first, nil)
		res.SecondMean, res.SecondStdDev = stat.MeanStdDev(all.second, nil)
	} else {
		res.FirstMean = stat.Mean(all.first, nil)
		res.SecondMean = stat.Mean(all.second, nil)
	}
	res.WicketsMean = floats.Sum(all.wickets) / float64(res.Matches)
	return res
}

// Autoplay resets the engine and plays a full match with random choices
// and selections for both sides.
func (e *Engine) Autoplay(team1, team2 string) error {
	e.Reset()
	if err := e.SelectTeam(team1, Team1); err != nil {
		return err
	}
	if err := e.SelectTeam(team2, Team2); err != nil {
		return err
	}
	if err := e.ConfirmTeams(); err != nil {
		return err
	}
	if _, err := e.RunToss(); err != nil {
		return err
	}
	if err := e.RecordDecision(e.ComputerDecision()); err != nil {
		return err
	}
	for e.state.Phase != PhaseMatchEnd {
		if e.state.Pending != nil {
			if err := e.AutoSelect(); err != nil {
				return err
			}
			continue
		}
		if _, err := e.PlayBall(MinChoice + e.rng.Intn(MaxChoice)); err != nil {
			return err
		}
	}
	return nil
}
