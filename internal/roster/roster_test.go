package roster

import (
	"errors"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	teams := c.Teams()
	if len(teams) != 4 {
		t.Fatalf("len(Teams) = %d, want 4", len(teams))
	}
	if teams[0].Name != "Mumbai Indians" {
		t.Errorf("first team = %q, want %q", teams[0].Name, "Mumbai Indians")
	}
	for _, team := range teams {
		if len(team.Players) != 7 {
			t.Errorf("%s has %d players, want 7", team.Name, len(team.Players))
		}
	}
}

func TestFind(t *testing.T) {
	c := Default()

	team, err := c.Find("Chennai Super Kings")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if !team.Has("MS Dhoni") {
		t.Error("expected MS Dhoni in Chennai Super Kings")
	}
	if team.Has("Virat Kohli") {
		t.Error("Virat Kohli should not be in Chennai Super Kings")
	}

	if _, err := c.Find("Nobody XI"); !errors.Is(err, ErrUnknownTeam) {
		t.Errorf("Find(unknown) error = %v, want ErrUnknownTeam", err)
	}
}

func TestOpponents(t *testing.T) {
	c := Default()
	opp := c.Opponents("Mumbai Indians")
	if len(opp) != 3 {
		t.Fatalf("len(Opponents) = %d, want 3", len(opp))
	}
	for _, team := range opp {
		if team.Name == "Mumbai Indians" {
			t.Error("Opponents included the excluded team")
		}
	}
}

func TestNewValidation(t *testing.T) {
	six := []string{"a", "b", "c", "d", "e", "f"}

	tests := []struct {
		name    string
		teams   []Team
		wantErr string
	}{
		{"empty catalog", nil, "no teams"},
		{"missing name", []Team{{Name: " ", Players: six}}, "name is required"},
		{"duplicate team", []Team{{Name: "A", Players: six}, {Name: "A", Players: six}}, "duplicate team"},
		{"short roster", []Team{{Name: "A", Players: six[:5]}}, "at least 6"},
		{"duplicate player", []Team{{Name: "A", Players: []string{"a", "a", "c", "d", "e", "f"}}}, "duplicate player"},
		{"empty player", []Team{{Name: "A", Players: []string{"a", "", "c", "d", "e", "f"}}}, "empty player"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.teams)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestParse(t *testing.T) {
	js := `{"teams":[
		{"name":"Reds","players":["r1","r2","r3","r4","r5","r6"]},
		{"name":"Blues","players":["b1","b2","b3","b4","b5","b6"],"logo":"B"}
	]}`

	c, err := Parse(strings.NewReader(js))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	blues, err := c.Find("Blues")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if blues.Logo != "B" {
		t.Errorf("Logo = %q, want %q", blues.Logo, "B")
	}

	if _, err := Parse(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
