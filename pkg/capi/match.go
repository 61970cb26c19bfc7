package main

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/yourusername/handcricket/pkg/engine"
)

var errNotInitialized = errors.New("match not initialized")

var (
	globalEngine *engine.Engine
	engineMutex  sync.Mutex
	lastError    string
	errorMutex   sync.Mutex
)

// setError stores an error message for later retrieval.
func setError(err error) {
	errorMutex.Lock()
	defer errorMutex.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getError() string {
	errorMutex.Lock()
	defer errorMutex.Unlock()
	return lastError
}

// initMatch replaces the global match with a fresh one.
func initMatch(seed int64, prompt bool) {
	engineMutex.Lock()
	defer engineMutex.Unlock()

	opts := engine.Options{Seed: seed}
	if prompt {
		opts.NextBatsman = engine.Prompt
	}
	globalEngine = engine.New(opts)
}

func shutdown() {
	engineMutex.Lock()
	defer engineMutex.Unlock()
	globalEngine = nil
}

// withEngine runs fn on the global match and records the outcome for
// last_error. It returns 0 on success and -1 on failure.
func withEngine(fn func(e *engine.Engine) error) int {
	engineMutex.Lock()
	defer engineMutex.Unlock()

	if globalEngine == nil {
		setError(errNotInitialized)
		return -1
	}
	if err := fn(globalEngine); err != nil {
		setError(err)
		return -1
	}
	setError(nil)
	return 0
}

// withEngineJSON is withEngine for calls that return a JSON document.
func withEngineJSON(fn func(e *engine.Engine) (interface{}, error)) (string, int) {
	var out string
	rc := withEngine(func(e *engine.Engine) error {
		v, err := fn(e)
		if err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out = string(data)
		return nil
	})
	if rc != 0 {
		data, _ := json.Marshal(map[string]string{"error": getError()})
		return string(data), rc
	}
	return out, 0
}

func selectTeam(name, role string) int {
	return withEngine(func(e *engine.Engine) error {
		r, err := engine.ParseRole(role)
		if err != nil {
			return err
		}
		return e.SelectTeam(name, r)
	})
}

func confirmTeams() int {
	return withEngine(func(e *engine.Engine) error { return e.ConfirmTeams() })
}

// tossResult is returned by runToss. When the computer wins, its decision
// is recorded straight away.
type tossResult struct {
	Winner       string          `json:"winner"`
	HumanDecides bool            `json:"human_decides"`
	Decision     engine.Decision `json:"decision,omitempty"`
}

func runToss() (string, int) {
	return withEngineJSON(func(e *engine.Engine) (interface{}, error) {
		winner, err := e.RunToss()
		if err != nil {
			return nil, err
		}
		res := tossResult{Winner: winner}
		if winner == e.Snapshot().Team1.Name {
			res.HumanDecides = true
			return res, nil
		}
		res.Decision = e.ComputerDecision()
		return res, e.RecordDecision(res.Decision)
	})
}

func decide(decision string) int {
	return withEngine(func(e *engine.Engine) error { return e.RecordDecision(engine.Decision(decision)) })
}

// selectPlayers answers the pending selection with a JSON array of names.
// An empty string lets the computer pick.
func selectPlayers(playersJSON string) int {
	return withEngine(func(e *engine.Engine) error {
		if playersJSON == "" {
			return e.AutoSelect()
		}
		var players []string
		if err := json.Unmarshal([]byte(playersJSON), &players); err != nil {
			return err
		}
		return e.ConfirmSelection(players)
	})
}

func playBall(choice int) (string, int) {
	return withEngineJSON(func(e *engine.Engine) (interface{}, error) {
		return e.PlayBall(choice)
	})
}

func matchState() (string, int) {
	return withEngineJSON(func(e *engine.Engine) (interface{}, error) {
		return e.Snapshot(), nil
	})
}

func matchSummary() (string, int) {
	return withEngineJSON(func(e *engine.Engine) (interface{}, error) {
		return e.Summary()
	})
}

func resetMatch() int {
	return withEngine(func(e *engine.Engine) error {
		e.Reset()
		return nil
	})
}

func main() {}
