// handcricket - play and analyse hand cricket matches in the terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yourusername/handcricket/internal/commentary"
	"github.com/yourusername/handcricket/internal/roster"
	"github.com/yourusername/handcricket/pkg/engine"
	"github.com/yourusername/handcricket/pkg/match"
	"github.com/yourusername/handcricket/pkg/scorecard"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "teams":
		cmdTeams(args)
	case "play":
		cmdPlay(args)
	case "simulate":
		cmdSimulate(args)
	case "scorecard":
		cmdScorecard(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`handcricket - Hand Cricket

Usage: handcricket <command> [options]

Commands:
  teams      List the teams
  play       Play a match against the computer
  simulate   Monte Carlo simulation of computer-vs-computer matches
  scorecard  Rebuild a scorecard from a saved commentary file or match record

Use "handcricket <command> -h" for command-specific help.

Rules:
  Each ball both sides pick a number from 1 to 6. Equal numbers are a
  wicket, otherwise the batting side scores its own number. Innings last
  6 overs or 5 wickets; the chasing side needs one run more than the
  first innings total.`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadCatalog reads the team file, or returns the built-in teams.
func loadCatalog(path string) (*roster.Catalog, error) {
	if path == "" {
		return roster.Default(), nil
	}
	c, err := roster.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	return c, nil
}

func cmdTeams(args []string) {
	fs := flag.NewFlagSet("teams", flag.ExitOnError)
	teamsFile := fs.String("teams", "", "Team catalog JSON file (default: built-in teams)")
	fs.Parse(args)

	catalog, err := loadCatalog(*teamsFile)
	if err != nil {
		fatal("%v", err)
	}
	for i, t := range catalog.Teams() {
		fmt.Printf("%d. %s\n", i+1, t.Name)
		fmt.Printf("   %s\n", strings.Join(t.Players, ", "))
	}
}

func cmdPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	teamsFile := fs.String("teams", "", "Team catalog JSON file (default: built-in teams)")
	team1 := fs.String("team", "", "Your team (default: ask)")
	team2 := fs.String("opponent", "", "Computer's team (default: ask)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	prompt := fs.Bool("prompt", false, "Ask for the next batsman after a wicket instead of sending in the next in the order")
	save := fs.String("save", "", "Write the commentary to this file when the match ends")
	record := fs.String("record", "", "Write the ball-by-ball match record to this file when the match ends")
	fs.Parse(args)

	catalog, err := loadCatalog(*teamsFile)
	if err != nil {
		fatal("%v", err)
	}

	cfg := playConfig{
		catalog: catalog,
		team1:   *team1,
		team2:   *team2,
		seed:    *seed,
		policy:  engine.AutoNext,
	}
	if *prompt {
		cfg.policy = engine.Prompt
	}

	e, err := play(os.Stdin, os.Stdout, cfg)
	if err != nil {
		fatal("%v", err)
	}

	if *save != "" {
		f, err := os.Create(*save)
		if err != nil {
			fatal("%v", err)
		}
		defer f.Close()
		if err := commentary.Write(f, e.Commentary()); err != nil {
			fatal("failed to save commentary: %v", err)
		}
		fmt.Printf("Commentary saved to %s\n", *save)
	}

	if *record != "" {
		state := e.Snapshot()
		r := match.FromState(&state)
		r.Date = time.Now().Format("2006-01-02")
		f, err := os.Create(*record)
		if err != nil {
			fatal("%v", err)
		}
		defer f.Close()
		if err := match.ExportRecord(f, r); err != nil {
			fatal("failed to save record: %v", err)
		}
		fmt.Printf("Match record saved to %s\n", *record)
	}
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	teamsFile := fs.String("teams", "", "Team catalog JSON file (default: built-in teams)")
	matches := fs.Int("matches", 1000, "Number of matches to simulate")
	team1 := fs.String("team1", "", "Team1 (empty = random)")
	team2 := fs.String("team2", "", "Team2 (empty = random)")
	workers := fs.Int("workers", 0, "Number of worker goroutines (0 = auto)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	progress := fs.Bool("progress", false, "Print progress while running")
	fs.Parse(args)

	catalog, err := loadCatalog(*teamsFile)
	if err != nil {
		fatal("%v", err)
	}

	opts := engine.SimulateOptions{
		Matches: *matches,
		Team1:   *team1,
		Team2:   *team2,
		Workers: *workers,
		Seed:    *seed,
	}

	var callback engine.SimulateCallback
	if *progress {
		callback = func(p engine.SimulateProgress) {
			fmt.Fprintf(os.Stderr, "\r%5.1f%% (%d/%d) bat first %.1f%%", p.Percent, p.Completed, p.Total, p.BatFirstShare*100)
		}
	}

	start := time.Now()
	result, err := engine.Simulate(context.Background(), catalog, opts, callback)
	elapsed := time.Since(start)
	if *progress {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		fatal("simulation failed: %v", err)
	}

	printSimulation(result, elapsed)
}

func printSimulation(r *engine.SimulationResult, elapsed time.Duration) {
	pct := func(n int) float64 { return 100 * float64(n) / float64(r.Matches) }

	fmt.Printf("Simulation (%d matches, %.1fs):\n", r.Matches, elapsed.Seconds())
	fmt.Printf("  Batting first: %5.1f%%\n", pct(r.BatFirstWins))
	fmt.Printf("  Chasing:       %5.1f%%\n", pct(r.ChaseWins))
	fmt.Printf("  Ties:          %5.1f%%\n", pct(r.Ties))
	fmt.Printf("  Team1/Team2:   %5.1f%% / %.1f%%\n", pct(r.Team1Wins), pct(r.Team2Wins))
	fmt.Printf("  1st innings:   %.1f ± %.1f runs\n", r.FirstMean, r.FirstStdDev)
	fmt.Printf("  2nd innings:   %.1f ± %.1f runs\n", r.SecondMean, r.SecondStdDev)
	fmt.Printf("  Wickets/match: %.2f\n", r.WicketsMean)
	fmt.Printf("  Highest score: %d\n", r.HighestScore)
	fmt.Printf("  All out:       %d innings\n", r.AllOutInnings)
}

func cmdScorecard(args []string) {
	fs := flag.NewFlagSet("scorecard", flag.ExitOnError)
	teamsFile := fs.String("teams", "", "Team catalog JSON file (default: built-in teams)")
	file := fs.String("file", "", "Commentary file written by 'play -save'")
	record := fs.String("record", "", "Match record written by 'play -record' (exact figures)")
	innings := fs.Int("innings", 1, "Innings to rebuild (1 or 2)")
	batting := fs.String("batting", "", "Batting team (commentary files only)")
	bowling := fs.String("bowling", "", "Bowling team (commentary files only)")
	batsmen := fs.String("batsmen", "", "Batsmen at the crease, striker first, comma separated (commentary files only)")
	bowler := fs.String("bowler", "", "Current bowler (commentary files only)")
	fs.Parse(args)

	catalog, err := loadCatalog(*teamsFile)
	if err != nil {
		fatal("%v", err)
	}

	var card *scorecard.Scorecard
	switch {
	case *record != "":
		card, err = recordScorecard(catalog, *record, *innings)
	case *file != "" && *batting != "" && *bowling != "":
		card, err = commentaryScorecard(catalog, *file, *innings, *batting, *bowling, *batsmen, *bowler)
	default:
		fmt.Fprintln(os.Stderr, "Error: either record, or file with batting and bowling, is required")
		fmt.Fprintln(os.Stderr, "Usage: handcricket scorecard -record <path> [-innings N]")
		fmt.Fprintln(os.Stderr, "       handcricket scorecard -file <path> -batting <team> -bowling <team> [-innings N] [-batsmen a,b] [-bowler name]")
		os.Exit(1)
	}
	if err != nil {
		fatal("%v", err)
	}

	if err := scorecard.Render(os.Stdout, card); err != nil {
		fatal("%v", err)
	}
}

// recordScorecard builds exact figures from a ball-by-ball record.
func recordScorecard(catalog *roster.Catalog, path string, n int) (*scorecard.Scorecard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := match.ImportRecord(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	in := r.FindInnings(n)
	if in == nil {
		return nil, fmt.Errorf("record has no innings %d", n)
	}
	batTeam, err := catalog.Find(in.Batting)
	if err != nil {
		return nil, err
	}
	bowlTeam, err := catalog.Find(in.Bowling)
	if err != nil {
		return nil, err
	}
	return scorecard.FromEvents(in.State(), in.Balls, batTeam, bowlTeam), nil
}

// commentaryScorecard replays commentary text, which needs the teams and
// the players in the middle to be named.
func commentaryScorecard(catalog *roster.Catalog, path string, n int, batting, bowling, batsmen, bowler string) (*scorecard.Scorecard, error) {
	batTeam, err := catalog.Find(batting)
	if err != nil {
		return nil, err
	}
	bowlTeam, err := catalog.Find(bowling)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := commentary.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read commentary: %w", err)
	}

	in := &engine.Innings{
		Number:      n,
		BattingTeam: batTeam.Name,
		BowlingTeam: bowlTeam.Name,
		Bowler:      bowler,
	}
	if batsmen != "" {
		for _, b := range strings.Split(batsmen, ",") {
			in.Batsmen = append(in.Batsmen, strings.TrimSpace(b))
		}
	}
	return scorecard.Reconstruct(in, inningsLines(entries, n), batTeam, bowlTeam), nil
}

// inningsLines returns the lines of innings n, newest first. Untagged
// files are taken to hold a single innings.
func inningsLines(entries []commentary.Entry, n int) []string {
	tagged := false
	for _, e := range entries {
		if e.Innings != 0 {
			tagged = true
			break
		}
	}
	log := commentary.NewLog(entries)
	if !tagged {
		return log.Lines()
	}
	return log.Innings(n)
}
