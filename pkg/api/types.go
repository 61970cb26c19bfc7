// Package api provides the HTTP/JSON and websocket API for playing hand
// cricket matches against the computer.
package api

import (
	"github.com/yourusername/handcricket/internal/equity"
	"github.com/yourusername/handcricket/internal/roster"
	"github.com/yourusername/handcricket/pkg/engine"
)

// ============================================================================
// Request Types
// ============================================================================

// CreateMatchRequest is the request body for starting a match session.
type CreateMatchRequest struct {
	NextBatsman string `json:"next_batsman,omitempty"` // "auto" (default) or "prompt"
	Seed        int64  `json:"seed,omitempty"`         // Random seed (0 = random)
}

// SelectTeamRequest assigns a team to a side.
type SelectTeamRequest struct {
	Team string `json:"team"`
	Role string `json:"role"` // "team1"/"human" or "team2"/"computer"
}

// DecisionRequest is the toss winner's choice.
type DecisionRequest struct {
	Decision string `json:"decision"` // "bat" or "bowl"
}

// SelectionRequest answers the pending player selection.
type SelectionRequest struct {
	Players []string `json:"players,omitempty"`
	Auto    bool     `json:"auto,omitempty"` // Let the server pick
}

// BallRequest plays one ball.
type BallRequest struct {
	Choice int `json:"choice"` // 1-6
}

// SimulateRequest is the request body for a Monte Carlo simulation.
type SimulateRequest struct {
	Matches int    `json:"matches,omitempty"` // Default 1000
	Team1   string `json:"team1,omitempty"`   // Empty = random
	Team2   string `json:"team2,omitempty"`   // Empty = random
	Seed    int64  `json:"seed,omitempty"`    // 0 = random
	Workers int    `json:"workers,omitempty"` // 0 = GOMAXPROCS
}

// ============================================================================
// Response Types
// ============================================================================

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Ready   bool       `json:"ready"`
	Matches int        `json:"matches"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

// TeamsResponse lists the team catalog.
type TeamsResponse struct {
	Teams []*roster.Team `json:"teams"`
}

// MatchResponse is the state of one match session.
type MatchResponse struct {
	ID      string            `json:"id"`
	State   engine.MatchState `json:"state"`
	Feed    []string          `json:"feed"`              // Recent commentary, newest first
	Outlook *equity.Outlook   `json:"outlook,omitempty"` // Live innings only
}

// TossResponse reports the toss. When the computer wins it also decides.
type TossResponse struct {
	Winner        string        `json:"winner"`
	HumanDecides  bool          `json:"human_decides"`
	Decision      string        `json:"decision,omitempty"`
	Match         MatchResponse `json:"match"`
}

// BallResponse reports one ball and the match state after it.
type BallResponse struct {
	Ball  *engine.BallResult `json:"ball"`
	Match MatchResponse      `json:"match"`
}

// CommentaryResponse lists commentary lines, newest first.
type CommentaryResponse struct {
	Lines []string `json:"lines"`
	Total int      `json:"total"`
}
