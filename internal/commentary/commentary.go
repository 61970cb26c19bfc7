// Package commentary holds the append-only match commentary and the text
// patterns used both to write ball-by-ball lines and to read them back.
package commentary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultFeedSize is how many lines the live feed shows.
const DefaultFeedSize = 10

// Entry is one commentary line tagged with the innings it belongs to.
// Innings is 0 for lines outside an innings (or read from untagged text).
type Entry struct {
	Innings int    `json:"innings"`
	Text    string `json:"text"`
}

// Log is the authoritative, untruncated commentary. Entries are stored
// oldest first; the accessors that feed displays return newest first.
type Log struct {
	entries []Entry
}

// NewLog returns a log seeded with entries in oldest-first order.
func NewLog(entries []Entry) *Log {
	return &Log{entries: append([]Entry(nil), entries...)}
}

// Add appends a line.
func (l *Log) Add(innings int, text string) {
	l.entries = append(l.entries, Entry{Innings: innings, Text: text})
}

// Len returns the number of lines recorded.
func (l *Log) Len() int { return len(l.entries) }

// Reset drops every line.
func (l *Log) Reset() { l.entries = nil }

// Entries returns a copy of every entry, oldest first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Lines returns the full history, newest first.
func (l *Log) Lines() []string {
	return l.Recent(len(l.entries))
}

// Recent returns at most n lines, newest first. It is a view; the log
// itself is never truncated.
func (l *Log) Recent(n int) []string {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n < 0 {
		n = 0
	}
	out := make([]string, 0, n)
	for i := len(l.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.entries[i].Text)
	}
	return out
}

// Innings returns the lines of one innings, newest first.
func (l *Log) Innings(n int) []string {
	var out []string
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Innings == n {
			out = append(out, l.entries[i].Text)
		}
	}
	return out
}

// Line formats.

// Toss announces the toss result.
func Toss(winner, decision string) string {
	return fmt.Sprintf("%s won the toss and chose to %s first!", winner, decision)
}

// Wicket reports a dismissal with the two numbers shown (human first).
func Wicket(batsman string, human, computer int) string {
	return fmt.Sprintf("WICKET! %s is out! %d vs %d", batsman, human, computer)
}

// Runs reports a scoring ball and the resulting score.
func Runs(runs, total, wickets int) string {
	return fmt.Sprintf("%d runs scored! Current score: %d/%d", runs, total, wickets)
}

// FirstInningsEnd is appended to the last ball of the first innings.
func FirstInningsEnd(target int) string {
	return fmt.Sprintf(" First innings ends! Target: %d", target)
}

// WonByWickets is appended when the chasing side passes the target.
func WonByWickets(team string, wickets int) string {
	return fmt.Sprintf(" %s wins by %d wickets!", team, wickets)
}

// WonByRuns is appended when the chasing side falls short.
func WonByRuns(team string, runs int) string {
	return fmt.Sprintf(" %s wins by %d runs!", team, runs)
}

// Tied is appended when both innings finish level.
const Tied = " Match tied!"

// Kind classifies a commentary line for scorecard replay.
type Kind int

const (
	KindOther        Kind = iota // Not a ball (toss, notes)
	KindRuns                     // Scoring ball
	KindWicket                   // Dismissal
	KindAnnouncement             // Innings or match status, not a ball
	KindDot                      // Head-to-head ball with no runs or wicket
)

var (
	runsRE   = regexp.MustCompile(`(\d+) runs? scored!`)
	wicketRE = regexp.MustCompile(`WICKET! (.+?) is out!`)
)

// Line is a classified commentary line.
type Line struct {
	Kind    Kind
	Runs    int    // KindRuns only
	Batsman string // KindWicket only
}

// Classify matches text against the known ball patterns. Runs take
// precedence over wickets, and both over announcements, so a ball line
// carrying an innings-end suffix still counts as a ball.
func Classify(text string) Line {
	if m := runsRE.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return Line{Kind: KindRuns, Runs: n}
		}
	}
	if m := wicketRE.FindStringSubmatch(text); m != nil {
		return Line{Kind: KindWicket, Batsman: m[1]}
	}
	if strings.Contains(text, "overs match") ||
		strings.Contains(text, "First innings ends") ||
		strings.Contains(text, "wins by") {
		return Line{Kind: KindAnnouncement}
	}
	if strings.Contains(text, "vs") {
		return Line{Kind: KindDot}
	}
	return Line{Kind: KindOther}
}
