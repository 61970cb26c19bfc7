package scorecard

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Render writes the scorecard as two aligned text tables.
func Render(w io.Writer, c *Scorecard) error {
	fmt.Fprintf(w, "Innings %d: %s batting, %s bowling\n\n", c.Innings, c.BattingTeam, c.BowlingTeam)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Batsman\tR\tB\tSR")
	for _, b := range c.Batting {
		status := ""
		switch {
		case b.Out:
			status = "out"
		case b.AtCrease:
			status = "not out"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", b.Player, b.Runs, b.Balls, b.StrikeRate, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Bowler\tO\tR\tW\tEcon")
	for _, b := range c.Bowling {
		marker := ""
		if b.Current {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%d\t%d\t%s\n", b.Player, marker, b.Overs, b.Runs, b.Wickets, b.Economy)
	}
	return tw.Flush()
}
