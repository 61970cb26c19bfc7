package equity

import "github.com/yourusername/handcricket/pkg/engine"

// ForState returns the outlook of the innings in play, or nil outside
// the innings phases.
func ForState(s *engine.MatchState) *Outlook {
	in := s.Current()
	if in == nil {
		return nil
	}
	t := Default()
	balls, wickets := in.BallsLeft(), engine.MaxWickets-in.Wickets
	var o Outlook
	if in.Number == 2 {
		o = t.Chase(in.Target-in.Runs, balls, wickets)
	} else {
		o = t.First(in.Runs, balls, wickets)
	}
	return &o
}
