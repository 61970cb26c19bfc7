package commentary

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Plain-text commentary files hold one line per entry, oldest first.
// A leading innings tag is optional:
//
//	[0] Mumbai Indians won the toss and chose to bat first!
//	[1] 4 runs scored! Current score: 4/0
//	[1] WICKET! Rohit Sharma is out! 3 vs 3
//
// Untagged lines are read with Innings 0.

var tagRE = regexp.MustCompile(`^\[(\d+)\]\s?(.*)$`)

// Write writes entries oldest first with innings tags.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "[%d] %s\n", e.Innings, e.Text); err != nil {
			return fmt.Errorf("writing commentary: %w", err)
		}
	}
	return bw.Flush()
}

// Read parses a commentary file. Blank lines are skipped.
func Read(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		e := Entry{Text: text}
		if m := tagRE.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad innings tag: %w", lineNo, err)
			}
			e.Innings = n
			e.Text = m[2]
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading commentary: %w", err)
	}
	return entries, nil
}
