package api

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/handcricket/internal/equity"
	"github.com/yourusername/handcricket/internal/roster"
	"github.com/yourusername/handcricket/pkg/engine"
)

var (
	ErrUnknownMatch   = errors.New("match not found")
	ErrTooManyMatches = errors.New("too many matches in progress")
)

// Session is one match in progress. All engine calls go through Do so the
// engine only ever sees one caller at a time.
type Session struct {
	ID      string
	Created time.Time

	mu     sync.Mutex
	engine *engine.Engine

	subMu sync.Mutex
	subs  map[chan []byte]struct{}
}

// Do runs fn against the match engine and returns the state afterwards.
// Subscribers are sent the new state unless fn failed.
func (s *Session) Do(fn func(e *engine.Engine) error) (MatchResponse, error) {
	s.mu.Lock()
	err := fn(s.engine)
	resp := s.response()
	s.mu.Unlock()

	if err == nil {
		s.publish(WSResponse{Type: "state", Payload: resp})
	}
	return resp, err
}

// View runs fn against the engine without publishing.
func (s *Session) View(fn func(e *engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// State returns the current match state.
func (s *Session) State() MatchResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response()
}

func (s *Session) response() MatchResponse {
	state := s.engine.Snapshot()
	return MatchResponse{ID: s.ID, State: state, Feed: s.engine.Feed(), Outlook: equity.ForState(&state)}
}

// Subscribe registers a channel for state updates.
func (s *Session) Subscribe(ch chan []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs[ch] = struct{}{}
}

// Unsubscribe removes ch. No sends happen on ch after it returns.
func (s *Session) Unsubscribe(ch chan []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	delete(s.subs, ch)
}

// publish sends msg to every subscriber, dropping it for any that is full.
func (s *Session) publish(msg WSResponse) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- data:
		default:
		}
	}
}

// Sessions holds the matches in progress, keyed by uuid.
type Sessions struct {
	catalog *roster.Catalog
	max     int

	mu sync.RWMutex
	m  map[string]*Session
}

// NewSessions creates an empty session table. max <= 0 means unlimited.
func NewSessions(catalog *roster.Catalog, max int) *Sessions {
	if catalog == nil {
		catalog = roster.Default()
	}
	return &Sessions{catalog: catalog, max: max, m: make(map[string]*Session)}
}

// Create starts a new match session.
func (ss *Sessions) Create(policy engine.BatsmanPolicy, seed int64) (*Session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.max > 0 && len(ss.m) >= ss.max {
		return nil, ErrTooManyMatches
	}
	s := &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		engine:  engine.New(engine.Options{Catalog: ss.catalog, Seed: seed, NextBatsman: policy}),
		subs:    make(map[chan []byte]struct{}),
	}
	ss.m[s.ID] = s
	return s, nil
}

// Get returns the session with the given id.
func (ss *Sessions) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUnknownMatch
	}
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.m[id]
	if !ok {
		return nil, ErrUnknownMatch
	}
	return s, nil
}

// Delete ends a session.
func (ss *Sessions) Delete(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.m[id]; !ok {
		return ErrUnknownMatch
	}
	delete(ss.m, id)
	return nil
}

// Len returns the number of sessions.
func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.m)
}

// Prune drops sessions created before cutoff and returns how many went.
func (ss *Sessions) Prune(cutoff time.Time) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for id, s := range ss.m {
		if s.Created.Before(cutoff) {
			delete(ss.m, id)
			n++
		}
	}
	return n
}
