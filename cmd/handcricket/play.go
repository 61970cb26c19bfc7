package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/handcricket/internal/equity"
	"github.com/yourusername/handcricket/internal/roster"
	"github.com/yourusername/handcricket/pkg/engine"
	"github.com/yourusername/handcricket/pkg/scorecard"
)

var errInputClosed = errors.New("input closed")

type playConfig struct {
	catalog *roster.Catalog
	team1   string // Human team; asked for when empty
	team2   string // Computer team; asked for when empty
	seed    int64
	policy  engine.BatsmanPolicy
}

// console reads answers line by line. An empty answer lets the computer
// pick on the player's behalf.
type console struct {
	in  *bufio.Scanner
	out io.Writer
	rng *rand.Rand
}

func (c *console) ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// play runs one interactive match and returns the finished engine.
func play(in io.Reader, out io.Writer, cfg playConfig) (*engine.Engine, error) {
	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &console{in: bufio.NewScanner(in), out: out, rng: rand.New(rand.NewSource(seed))}

	e := engine.New(engine.Options{
		Catalog:     cfg.catalog,
		Seed:        seed,
		NextBatsman: cfg.policy,
		OnReveal: func(r engine.BallReveal) {
			fmt.Fprintf(out, "  You: %d  Computer: %d\n", r.Human, r.Computer)
		},
	})

	if err := chooseTeams(c, e, cfg); err != nil {
		return nil, err
	}
	if err := toss(c, e); err != nil {
		return nil, err
	}

	for e.Phase() != engine.PhaseMatchEnd {
		if p := e.Pending(); p != nil {
			if err := choosePlayers(c, e, p); err != nil {
				return nil, err
			}
			continue
		}
		if err := bowl(c, e); err != nil {
			return nil, err
		}
	}

	if err := finish(out, e); err != nil {
		return nil, err
	}
	return e, nil
}

func chooseTeams(c *console, e *engine.Engine, cfg playConfig) error {
	team1, err := pickTeam(c, "Choose your team", cfg.team1, e.Catalog().Teams())
	if err != nil {
		return err
	}
	if err := e.SelectTeam(team1, engine.Team1); err != nil {
		return err
	}
	team2, err := pickTeam(c, "Choose the computer's team", cfg.team2, e.Catalog().Opponents(team1))
	if err != nil {
		return err
	}
	if err := e.SelectTeam(team2, engine.Team2); err != nil {
		return err
	}
	if err := e.ConfirmTeams(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\n%s vs %s\n\n", team1, team2)
	return nil
}

func pickTeam(c *console, title, preset string, teams []*roster.Team) (string, error) {
	if preset != "" {
		return preset, nil
	}
	fmt.Fprintln(c.out, title+":")
	for i, t := range teams {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, t.Name)
	}
	for {
		answer, err := c.ask("> ")
		if err != nil {
			return "", err
		}
		if answer == "" {
			return teams[c.rng.Intn(len(teams))].Name, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(teams) {
			return teams[n-1].Name, nil
		}
		for _, t := range teams {
			if strings.EqualFold(t.Name, answer) {
				return t.Name, nil
			}
		}
		fmt.Fprintln(c.out, "Pick a number from the list.")
	}
}

func toss(c *console, e *engine.Engine) error {
	winner, err := e.RunToss()
	if err != nil {
		return err
	}
	state := e.Snapshot()

	decision := e.ComputerDecision()
	if winner == state.Team1.Name {
		fmt.Fprintf(c.out, "You won the toss!\n")
		for {
			answer, err := c.ask("Bat or bowl? [bat] ")
			if err != nil {
				return err
			}
			answer = strings.ToLower(answer)
			if answer == "" || answer == "bat" {
				decision = engine.Bat
				break
			}
			if answer == "bowl" {
				decision = engine.Bowl
				break
			}
		}
	}
	if err := e.RecordDecision(decision); err != nil {
		return err
	}
	fmt.Fprintln(c.out, e.Feed()[0])
	return nil
}

func choosePlayers(c *console, e *engine.Engine, p *engine.Selection) error {
	var team *roster.Team
	state := e.Snapshot()
	if state.Team1.Name == p.Team {
		team = state.Team1
	} else {
		team = state.Team2
	}

	var eligible []string
	for _, name := range team.Players {
		if !containsName(p.Exclude, name) {
			eligible = append(eligible, name)
		}
	}

	switch p.Kind {
	case engine.SelectBatsmen:
		fmt.Fprintln(c.out, "\nChoose your opening batsmen:")
	case engine.SelectBowler:
		fmt.Fprintln(c.out, "\nChoose your bowler:")
	case engine.SelectBatsman:
		fmt.Fprintln(c.out, "\nChoose the next batsman:")
	}
	for i, name := range eligible {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, name)
	}

	for {
		answer, err := c.ask(fmt.Sprintf("Pick %d (numbers, Enter for random): ", p.Size))
		if err != nil {
			return err
		}
		if answer == "" {
			return e.AutoSelect()
		}
		picked, err := parsePicks(answer, eligible, p.Size)
		if err == nil {
			err = e.ConfirmSelection(picked)
		}
		if err == nil {
			return nil
		}
		fmt.Fprintf(c.out, "  %v\n", err)
	}
}

// parsePicks turns "1, 3" or "1 3" into player names from the numbered list.
func parsePicks(answer string, eligible []string, size int) ([]string, error) {
	fields := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != size {
		return nil, fmt.Errorf("pick exactly %d", size)
	}
	picked := make([]string, 0, size)
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > len(eligible) {
			return nil, fmt.Errorf("invalid pick %q", f)
		}
		picked = append(picked, eligible[n-1])
	}
	return picked, nil
}

func bowl(c *console, e *engine.Engine) error {
	state := e.Snapshot()
	in := state.Current()
	role := "bowl"
	if in.BattingTeam == state.Team1.Name {
		role = "bat"
	}

	fmt.Fprintf(c.out, "\n%s %d/%d (%s)", in.BattingTeam, in.Runs, in.Wickets, engine.FormatOvers(in.Overs, in.Balls))
	if o := equity.ForState(&state); o != nil {
		fmt.Fprintf(c.out, "  %s", o)
	}
	fmt.Fprintf(c.out, "\n%s to %s\n", in.Bowler, in.Batsmen[0])

	for {
		answer, err := c.ask(fmt.Sprintf("Your number to %s (1-6): ", role))
		if err != nil {
			return err
		}
		choice := engine.MinChoice + c.rng.Intn(engine.MaxChoice)
		if answer != "" {
			choice, err = strconv.Atoi(answer)
			if err != nil {
				fmt.Fprintln(c.out, "  Enter a number from 1 to 6.")
				continue
			}
		}
		res, err := e.PlayBall(choice)
		if errors.Is(err, engine.ErrInvalidChoice) {
			fmt.Fprintln(c.out, "  Enter a number from 1 to 6.")
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, res.Commentary)
		return nil
	}
}

func finish(out io.Writer, e *engine.Engine) error {
	summary, err := e.Summary()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := summary.Write(out); err != nil {
		return err
	}

	state := e.Snapshot()
	for n := 1; n <= 2; n++ {
		card, err := scorecard.ForMatch(&state, n, scorecard.SourceEvents)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		if err := scorecard.Render(out, card); err != nil {
			return err
		}
	}
	return nil
}

func containsName(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
