package match

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/handcricket/pkg/engine"
)

// Record files are plain text, one ball per line:
//
//	; [Team 1 "Mumbai Indians"]
//	; [Team 2 "Chennai Super Kings"]
//	; [Toss "Mumbai Indians"]
//	; [Decision "bat"]
//	; [Result "Mumbai Indians wins by 12 runs"]
//
//	Innings 1: Mumbai Indians v Chennai Super Kings
//	0.1) MS Dhoni to Rohit Sharma: 4-2, 4
//	0.2) MS Dhoni to Rohit Sharma: 3-3, W
//	At crease: Naman Dhir, Hardik Pandya
//	Bowler: MS Dhoni
//
// The pair of numbers is the human's then the computer's.

var (
	tagRE     = regexp.MustCompile(`^;\s*\[([\w ]+?)\s+"([^"]*)"\]`)
	headerRE  = regexp.MustCompile(`^Innings\s+(\d+):\s+(.+?)\s+v\s+(.+?)(?:,\s+target\s+(\d+))?$`)
	ballRE    = regexp.MustCompile(`^(\d+)\.(\d)\)\s+(.+)\s+to\s+([^:]+):\s+(\d)-(\d),\s+(W|\d+)$`)
	ballStart = regexp.MustCompile(`^\d+\.\d\)`)
)

// ExportRecord writes a record in text form.
func ExportRecord(w io.Writer, r *Record) error {
	bw := bufio.NewWriter(w)

	tags := []struct{ key, value string }{
		{"Team 1", r.Team1},
		{"Team 2", r.Team2},
		{"Toss", r.TossWinner},
		{"Decision", string(r.Decision)},
		{"Result", r.Result},
		{"Date", r.Date},
		{"Event", r.Event},
	}
	for _, t := range tags {
		if t.value != "" {
			fmt.Fprintf(bw, "; [%s %q]\n", t.key, t.value)
		}
	}

	for _, in := range r.Innings {
		fmt.Fprintf(bw, "\nInnings %d: %s v %s", in.Number, in.Batting, in.Bowling)
		if in.Target > 0 {
			fmt.Fprintf(bw, ", target %d", in.Target)
		}
		bw.WriteString("\n")

		for _, b := range in.Balls {
			outcome := strconv.Itoa(b.Runs)
			if b.Wicket {
				outcome = "W"
			}
			fmt.Fprintf(bw, "%d.%d) %s to %s: %d-%d, %s\n",
				b.Over, b.Ball, b.Bowler, b.Batsman, b.Human, b.Computer, outcome)
		}
		if crease := named(in.AtCrease); len(crease) > 0 {
			fmt.Fprintf(bw, "At crease: %s\n", strings.Join(crease, ", "))
		}
		if in.Bowler != "" {
			fmt.Fprintf(bw, "Bowler: %s\n", in.Bowler)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// ImportRecord reads a record written by ExportRecord.
func ImportRecord(rd io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(rd)
	r := &Record{Innings: make([]*InningsRecord, 0, 2)}

	var current *InningsRecord
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		// Metadata comments
		if strings.HasPrefix(line, ";") {
			if m := tagRE.FindStringSubmatch(line); m != nil {
				switch strings.ToLower(m[1]) {
				case "team 1", "team1":
					r.Team1 = m[2]
				case "team 2", "team2":
					r.Team2 = m[2]
				case "toss":
					r.TossWinner = m[2]
				case "decision":
					r.Decision = engine.Decision(m[2])
				case "result":
					r.Result = m[2]
				case "date":
					r.Date = m[2]
				case "event":
					r.Event = m[2]
				}
			}
			continue
		}

		if m := headerRE.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			current = &InningsRecord{Number: n, Batting: m[2], Bowling: m[3]}
			if m[4] != "" {
				current.Target, _ = strconv.Atoi(m[4])
			}
			r.Innings = append(r.Innings, current)
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d: %q before the first innings", lineNo, line)
		}

		switch {
		case strings.HasPrefix(line, "At crease:"):
			for _, p := range strings.Split(strings.TrimPrefix(line, "At crease:"), ",") {
				if p = strings.TrimSpace(p); p != "" {
					current.AtCrease = append(current.AtCrease, p)
				}
			}
		case strings.HasPrefix(line, "Bowler:"):
			current.Bowler = strings.TrimSpace(strings.TrimPrefix(line, "Bowler:"))
		case ballStart.MatchString(line):
			ev, err := parseBall(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err := checkOutcome(ev, r.Team1, current.Batting); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			ev.Innings = current.Number
			current.Balls = append(current.Balls, ev)
		default:
			return nil, fmt.Errorf("line %d: unrecognised line %q", lineNo, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}

	return r, nil
}

// parseBall parses "0.1) MS Dhoni to Rohit Sharma: 4-2, 4".
func parseBall(line string) (engine.BallEvent, error) {
	m := ballRE.FindStringSubmatch(line)
	if m == nil {
		return engine.BallEvent{}, fmt.Errorf("malformed ball %q", line)
	}

	over, _ := strconv.Atoi(m[1])
	ball, _ := strconv.Atoi(m[2])
	human, _ := strconv.Atoi(m[5])
	computer, _ := strconv.Atoi(m[6])
	if ball < 1 || ball > engine.BallsPerOver {
		return engine.BallEvent{}, fmt.Errorf("ball number %d out of range", ball)
	}
	for _, n := range []int{human, computer} {
		if n < engine.MinChoice || n > engine.MaxChoice {
			return engine.BallEvent{}, fmt.Errorf("number %d out of range", n)
		}
	}

	ev := engine.BallEvent{
		Over:     over,
		Ball:     ball,
		Bowler:   strings.TrimSpace(m[3]),
		Batsman:  strings.TrimSpace(m[4]),
		Human:    human,
		Computer: computer,
	}
	if m[7] == "W" {
		ev.Wicket = true
	} else {
		ev.Runs, _ = strconv.Atoi(m[7])
	}
	return ev, nil
}

// checkOutcome holds a ball to the game's rule: equal numbers are a wicket,
// otherwise the batting side scores its own number. Team 1 is the human
// side; without a Team 1 tag either number is accepted as the score.
func checkOutcome(ev engine.BallEvent, team1, batting string) error {
	if ev.Human == ev.Computer {
		if !ev.Wicket {
			return fmt.Errorf("numbers %d-%d are equal but the ball is not a wicket", ev.Human, ev.Computer)
		}
		return nil
	}
	if ev.Wicket {
		return fmt.Errorf("wicket recorded for different numbers %d-%d", ev.Human, ev.Computer)
	}
	if team1 == "" {
		if ev.Runs != ev.Human && ev.Runs != ev.Computer {
			return fmt.Errorf("%d runs from numbers %d-%d", ev.Runs, ev.Human, ev.Computer)
		}
		return nil
	}
	bat := ev.Computer
	if batting == team1 {
		bat = ev.Human
	}
	if ev.Runs != bat {
		return fmt.Errorf("%d runs recorded, batting number was %d", ev.Runs, bat)
	}
	return nil
}
