// Package roster provides the team catalog used to pick sides and players.
// Teams are fixed for the lifetime of a match; the catalog only supplies data.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MinPlayers is the smallest roster that can lose five wickets and still
// field a replacement batsman after each of the first four.
const MinPlayers = 6

var (
	ErrEmptyCatalog  = errors.New("catalog has no teams")
	ErrDuplicateTeam = errors.New("duplicate team name")
	ErrUnknownTeam   = errors.New("unknown team")
)

// Team is a named side with a fixed, ordered player list.
type Team struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Color   string   `json:"color,omitempty"` // Display only
	Logo    string   `json:"logo,omitempty"`  // Display only
}

// Has reports whether player is on the team.
func (t *Team) Has(player string) bool {
	for _, p := range t.Players {
		if p == player {
			return true
		}
	}
	return false
}

// Catalog is an ordered set of teams keyed by name.
type Catalog struct {
	teams []*Team
	index map[string]*Team
}

// jsonCatalog is the on-disk layout: {"teams": [...]}.
type jsonCatalog struct {
	Teams []Team `json:"teams"`
}

// New builds a catalog from teams, validating names and rosters.
func New(teams []Team) (*Catalog, error) {
	if len(teams) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		teams: make([]*Team, 0, len(teams)),
		index: make(map[string]*Team, len(teams)),
	}
	for i := range teams {
		t := teams[i]
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("team %d: name is required", i+1)
		}
		if _, ok := c.index[t.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, t.Name)
		}
		if len(t.Players) < MinPlayers {
			return nil, fmt.Errorf("team %s: need at least %d players, got %d", t.Name, MinPlayers, len(t.Players))
		}
		seen := make(map[string]bool, len(t.Players))
		for _, p := range t.Players {
			if p == "" {
				return nil, fmt.Errorf("team %s: empty player name", t.Name)
			}
			if seen[p] {
				return nil, fmt.Errorf("team %s: duplicate player %q", t.Name, p)
			}
			seen[p] = true
		}
		t.Players = append([]string(nil), t.Players...)
		c.teams = append(c.teams, &t)
		c.index[t.Name] = &t
	}
	return c, nil
}

// LoadFile loads a catalog from a JSON file.
func LoadFile(filename string) (*Catalog, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open teams file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a catalog from JSON.
func Parse(r io.Reader) (*Catalog, error) {
	var jc jsonCatalog
	if err := json.NewDecoder(r).Decode(&jc); err != nil {
		return nil, fmt.Errorf("failed to parse teams JSON: %w", err)
	}
	return New(jc.Teams)
}

// Teams returns the teams in catalog order.
func (c *Catalog) Teams() []*Team {
	out := make([]*Team, len(c.teams))
	copy(out, c.teams)
	return out
}

// Find returns the named team.
func (c *Catalog) Find(name string) (*Team, error) {
	t, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, name)
	}
	return t, nil
}

// Opponents lists every team except the named one, which is how the
// computer side's candidates are offered once the human has picked.
func (c *Catalog) Opponents(exclude string) []*Team {
	out := make([]*Team, 0, len(c.teams))
	for _, t := range c.teams {
		if t.Name != exclude {
			out = append(out, t)
		}
	}
	return out
}

// Default returns the built-in four-team catalog.
func Default() *Catalog {
	c, err := New(defaultTeams)
	if err != nil {
		panic("roster: invalid default catalog: " + err.Error())
	}
	return c
}

var defaultTeams = []Team{
	{
		Name:    "Mumbai Indians",
		Players: []string{"Rohit Sharma", "Naman Dhir", "Hardik Pandya", "Jasprit Bumrah", "Tilak Varma", "Trent Boult", "Suryakumar Yadav"},
		Color:   "blue",
		Logo:    "🏏",
	},
	{
		Name:    "Chennai Super Kings",
		Players: []string{"MS Dhoni", "Shivam Dube", "Dewald Brevis", "Noor Ahmad", "Vijay Shankar", "Ruturaj Gaikwad", "Ravindra Jadeja"},
		Color:   "yellow",
		Logo:    "🦁",
	},
	{
		Name:    "Royal Challengers Bangalore",
		Players: []string{"Virat Kohli", "Philip Salt", "Krunal Pandya", "Rajat Patidar", "Jitesh Sharma", "Tim David", "Josh Hazlewood"},
		Color:   "red",
		Logo:    "👑",
	},
	{
		Name:    "Sunrisers Hyderabad",
		Players: []string{"Travis Head", "Abhishek Sharma", "Ishan Kishan", "Pat Cummins", "Heinrich Klaseen", "Harshal Patel", "Nitish Kumar Reddy"},
		Color:   "orange",
		Logo:    "☀️",
	},
}
