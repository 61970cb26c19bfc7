package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yourusername/handcricket/internal/roster"
	"github.com/yourusername/handcricket/pkg/engine"
	"github.com/yourusername/handcricket/pkg/match"
	"github.com/yourusername/handcricket/pkg/scorecard"
)

// Handlers holds the HTTP handlers and the match sessions.
type Handlers struct {
	sessions *Sessions
	catalog  *roster.Catalog
	version  string
	pool     *WorkerPool

	maxSimMatches int
}

// ErrSimulationTooLarge rejects simulation requests above the server's
// match limit.
var ErrSimulationTooLarge = fmt.Errorf("%w: too many matches requested", engine.ErrInvalidInput)

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(sessions *Sessions, version string) *Handlers {
	return NewHandlersWithPool(sessions, version, nil)
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(sessions *Sessions, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		sessions: sessions,
		catalog:  sessions.catalog,
		version:  version,
		pool:     pool,

		maxSimMatches: DefaultMaxSimulationMatches,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// errorCodes gives specific engine errors their own codes.
var errorCodes = map[error]string{
	engine.ErrInvalidChoice:    "INVALID_CHOICE",
	engine.ErrInvalidRole:      "INVALID_ROLE",
	engine.ErrInvalidDecision:  "INVALID_DECISION",
	engine.ErrUnknownTeam:      "UNKNOWN_TEAM",
	engine.ErrSameTeam:         "SAME_TEAM",
	engine.ErrSelectionSize:    "SELECTION_SIZE",
	engine.ErrDuplicatePlayer:  "DUPLICATE_PLAYER",
	engine.ErrIneligiblePlayer: "INELIGIBLE_PLAYER",
	engine.ErrTeamsIncomplete:  "TEAMS_INCOMPLETE",
	engine.ErrTossNotRun:       "TOSS_NOT_RUN",
	engine.ErrTossDone:         "TOSS_DONE",
	engine.ErrNoSelection:      "NO_SELECTION",
	engine.ErrSelectionPending: "SELECTION_PENDING",
	engine.ErrPlayersNotSet:    "PLAYERS_NOT_SET",
	engine.ErrBallInProgress:   "BALL_IN_PROGRESS",
	engine.ErrWrongPhase:       "WRONG_PHASE",
}

// errorStatus maps an error to an HTTP status and response code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnknownMatch):
		return http.StatusNotFound, "MATCH_NOT_FOUND"
	case errors.Is(err, ErrTooManyMatches):
		return http.StatusServiceUnavailable, "TOO_MANY_MATCHES"
	case errors.Is(err, scorecard.ErrNoInnings):
		return http.StatusConflict, "NO_INNINGS"
	case errors.Is(err, scorecard.ErrSource):
		return http.StatusBadRequest, "INVALID_SOURCE"
	}
	code := errorCodes[err]
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		if code == "" {
			code = "INVALID_INPUT"
		}
		return http.StatusBadRequest, code
	case errors.Is(err, engine.ErrInvalidPhase):
		if code == "" {
			code = "INVALID_PHASE"
		}
		return http.StatusConflict, code
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func writeErr(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, err.Error(), code)
}

// acquire takes a match slot if a pool is configured. The returned func
// releases it.
func (h *Handlers) acquire(w http.ResponseWriter, r *http.Request) (func(), bool) {
	if h.pool == nil {
		return func() {}, true
	}
	if err := h.pool.AcquireMatch(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return nil, false
	}
	return h.pool.ReleaseMatch, true
}

// session looks up the {id} route parameter.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return nil, false
	}
	return s, true
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return false
	}
	return true
}

// mutate is the common path for match operations: find the session, run
// fn under its lock and reply with the new state.
func (h *Handlers) mutate(w http.ResponseWriter, r *http.Request, fn func(e *engine.Engine) error) {
	release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	s, ok := h.session(w, r)
	if !ok {
		return
	}
	resp, err := s.Do(fn)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.catalog != nil,
		Matches: h.sessions.Len(),
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// Teams handles GET /api/teams
func (h *Handlers) Teams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TeamsResponse{Teams: h.catalog.Teams()})
}

// CreateMatch handles POST /api/matches
func (h *Handlers) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if !decode(w, r, &req) {
		return
	}
	policy := engine.AutoNext
	switch req.NextBatsman {
	case "", "auto":
	case "prompt":
		policy = engine.Prompt
	default:
		writeError(w, http.StatusBadRequest, "next_batsman must be auto or prompt", "INVALID_POLICY")
		return
	}

	s, err := h.sessions.Create(policy, req.Seed)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.State())
}

// GetMatch handles GET /api/matches/{id}
func (h *Handlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// DeleteMatch handles DELETE /api/matches/{id}
func (h *Handlers) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectTeam handles POST /api/matches/{id}/teams
func (h *Handlers) SelectTeam(w http.ResponseWriter, r *http.Request) {
	var req SelectTeamRequest
	if !decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(e *engine.Engine) error {
		role, err := engine.ParseRole(req.Role)
		if err != nil {
			return err
		}
		return e.SelectTeam(req.Team, role)
	})
}

// ConfirmTeams handles POST /api/matches/{id}/teams/confirm
func (h *Handlers) ConfirmTeams(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(e *engine.Engine) error { return e.ConfirmTeams() })
}

// Toss handles POST /api/matches/{id}/toss. When the computer wins the
// toss it makes its decision straight away.
func (h *Handlers) Toss(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var resp TossResponse
	match, err := s.Do(func(e *engine.Engine) error {
		winner, err := e.RunToss()
		if err != nil {
			return err
		}
		resp.Winner = winner
		if winner == e.Snapshot().Team1.Name {
			resp.HumanDecides = true
			return nil
		}
		d := e.ComputerDecision()
		resp.Decision = string(d)
		return e.RecordDecision(d)
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	resp.Match = match
	writeJSON(w, http.StatusOK, resp)
}

// Decision handles POST /api/matches/{id}/decision
func (h *Handlers) Decision(w http.ResponseWriter, r *http.Request) {
	var req DecisionRequest
	if !decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(e *engine.Engine) error {
		return e.RecordDecision(engine.Decision(req.Decision))
	})
}

// Selection handles POST /api/matches/{id}/selection
func (h *Handlers) Selection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if !decode(w, r, &req) {
		return
	}
	h.mutate(w, r, func(e *engine.Engine) error {
		if req.Auto {
			return e.AutoSelect()
		}
		return e.ConfirmSelection(req.Players)
	})
}

// Ball handles POST /api/matches/{id}/ball
func (h *Handlers) Ball(w http.ResponseWriter, r *http.Request) {
	var req BallRequest
	if !decode(w, r, &req) {
		return
	}
	release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	s, ok := h.session(w, r)
	if !ok {
		return
	}
	resp, err := playBall(s, req.Choice)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// playBall is shared by the HTTP and websocket paths.
func playBall(s *Session, choice int) (BallResponse, error) {
	var ball *engine.BallResult
	match, err := s.Do(func(e *engine.Engine) error {
		var err error
		ball, err = e.PlayBall(choice)
		return err
	})
	return BallResponse{Ball: ball, Match: match}, err
}

// Reset handles POST /api/matches/{id}/reset
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(e *engine.Engine) error {
		e.Reset()
		return nil
	})
}

// Scorecard handles GET /api/matches/{id}/scorecard?innings=&source=&format=
func (h *Handlers) Scorecard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	state := s.State().State

	query := r.URL.Query()
	n := parseIntParam(query.Get("innings"), 0)
	if n == 0 {
		n = 1
		if state.Phase == engine.PhaseSecondInnings || state.Phase == engine.PhaseMatchEnd {
			n = 2
		}
	}
	card, err := scorecard.ForMatch(&state, n, scorecard.Source(query.Get("source")))
	if err != nil {
		writeErr(w, err)
		return
	}

	if query.Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		scorecard.Render(w, card)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Commentary handles GET /api/matches/{id}/commentary?limit=
func (h *Handlers) Commentary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	entries := s.State().State.Commentary
	limit := parseIntParam(r.URL.Query().Get("limit"), len(entries))
	if limit < 0 || limit > len(entries) {
		limit = len(entries)
	}
	lines := make([]string, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(lines) < limit; i-- {
		lines = append(lines, entries[i].Text)
	}
	writeJSON(w, http.StatusOK, CommentaryResponse{Lines: lines, Total: len(entries)})
}

// Summary handles GET /api/matches/{id}/summary?format=
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var sum *engine.Summary
	err := s.View(func(e *engine.Engine) error {
		var err error
		sum, err = e.Summary()
		return err
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		sum.Write(w)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Record handles GET /api/matches/{id}/record
// The ball-by-ball record is available at any point of the match.
func (h *Handlers) Record(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	state := s.State().State
	if state.Phase == engine.PhaseTeamSelection {
		writeErr(w, engine.ErrTeamsIncomplete)
		return
	}
	rec := match.FromState(&state)
	rec.Date = s.Created.Format("2006-01-02")

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		match.ExportRecord(w, rec)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Simulate handles POST /api/simulate
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !decode(w, r, &req) {
		return
	}
	opts, err := h.simulateOptions(req)
	if err != nil {
		writeErr(w, err)
		return
	}
	if h.pool != nil {
		if err := h.pool.AcquireSimulation(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSimulation()
	}

	result, err := engine.Simulate(r.Context(), h.catalog, opts, nil)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// simulateOptions applies defaults and the server's match limit. The
// engine caps workers at GOMAXPROCS.
func (h *Handlers) simulateOptions(req SimulateRequest) (engine.SimulateOptions, error) {
	opts := engine.DefaultSimulateOptions()
	if req.Matches > 0 {
		opts.Matches = req.Matches
	}
	if h.maxSimMatches > 0 && opts.Matches > h.maxSimMatches {
		return opts, fmt.Errorf("%w: %d > %d", ErrSimulationTooLarge, opts.Matches, h.maxSimMatches)
	}
	opts.Team1 = req.Team1
	opts.Team2 = req.Team2
	opts.Seed = req.Seed
	opts.Workers = req.Workers
	return opts, nil
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
