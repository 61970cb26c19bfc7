package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/yourusername/handcricket/pkg/engine"
)

func TestNotInitialized(t *testing.T) {
	shutdown()
	if rc := confirmTeams(); rc != -1 {
		t.Errorf("confirmTeams rc = %d, want -1", rc)
	}
	if getError() != errNotInitialized.Error() {
		t.Errorf("last error = %q", getError())
	}
	out, rc := matchState()
	if rc != -1 || !strings.Contains(out, "not initialized") {
		t.Errorf("matchState = %q, %d", out, rc)
	}
}

func TestSharedLibraryMatch(t *testing.T) {
	initMatch(5, false)
	defer shutdown()

	if rc := selectTeam("Mumbai Indians", "human"); rc != 0 {
		t.Fatalf("selectTeam: %s", getError())
	}
	if rc := selectTeam("Chennai Super Kings", "umpire"); rc != -1 {
		t.Error("bad role accepted")
	}
	if rc := selectTeam("Chennai Super Kings", "computer"); rc != 0 {
		t.Fatalf("selectTeam: %s", getError())
	}
	if rc := confirmTeams(); rc != 0 {
		t.Fatalf("confirmTeams: %s", getError())
	}

	out, rc := runToss()
	if rc != 0 {
		t.Fatalf("runToss: %s", out)
	}
	var toss tossResult
	if err := json.Unmarshal([]byte(out), &toss); err != nil {
		t.Fatal(err)
	}
	if toss.HumanDecides {
		if rc := decide("bowl"); rc != 0 {
			t.Fatalf("decide: %s", getError())
		}
	} else if toss.Decision == "" {
		t.Fatal("computer did not decide")
	}

	for i := 0; ; i++ {
		if i > 300 {
			t.Fatal("match did not finish")
		}
		out, rc := matchState()
		if rc != 0 {
			t.Fatalf("matchState: %s", out)
		}
		var state engine.MatchState
		if err := json.Unmarshal([]byte(out), &state); err != nil {
			t.Fatal(err)
		}
		if state.Phase == engine.PhaseMatchEnd {
			break
		}
		if state.Pending != nil {
			if rc := selectPlayers(""); rc != 0 {
				t.Fatalf("selectPlayers: %s", getError())
			}
			continue
		}
		out, rc = playBall(4)
		if rc != 0 {
			t.Fatalf("playBall: %s", out)
		}
		var res engine.BallResult
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatal(err)
		}
		if res.Human != 4 || res.Commentary == "" {
			t.Fatalf("ball = %+v", res)
		}
	}

	out, rc = matchSummary()
	if rc != 0 || !strings.Contains(out, `"winner"`) {
		t.Errorf("summary = %q, %d", out, rc)
	}
	if rc := resetMatch(); rc != 0 {
		t.Errorf("reset: %s", getError())
	}
	if _, rc := matchSummary(); rc != -1 {
		t.Error("summary after reset should fail")
	}
}

func TestSelectPlayersJSON(t *testing.T) {
	initMatch(1, false)
	defer shutdown()

	if rc := selectPlayers(`not json`); rc != -1 {
		t.Error("invalid JSON accepted")
	}
	if rc := selectPlayers(`["Rohit Sharma", "Naman Dhir"]`); rc != -1 {
		t.Error("selection accepted with nothing pending")
	}
	if getError() == "" {
		t.Error("last error not set")
	}
	if _, rc := playBall(9); rc != -1 {
		t.Error("invalid ball accepted")
	}
}
