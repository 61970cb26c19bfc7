// Package external serves hand cricket over a line-based TCP protocol so
// that scripts, bots and plain telnet clients can play the human side.
//
// Protocol overview:
// - Server listens on a TCP port
// - Every connection owns its own match against the computer
// - Client sends one command per line; each response ends with a newline
// - The "board" command returns a colon-separated scoreboard (see Board)
// - Errors are reported as "Error: <message>"
package external

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/yourusername/handcricket/internal/equity"
	"github.com/yourusername/handcricket/internal/roster"
	"github.com/yourusername/handcricket/pkg/engine"
	"github.com/yourusername/handcricket/pkg/scorecard"
)

// Server implements the line protocol server.
type Server struct {
	catalog  *roster.Catalog
	listener net.Listener
	mu       sync.Mutex
	running  bool
	conns    int64
	options  ServerOptions
}

// ServerOptions configures the line protocol server.
type ServerOptions struct {
	Host          string               // Host to bind to (default all interfaces)
	Port          int                  // TCP port to listen on (0 = any free port)
	NextBatsman   engine.BatsmanPolicy // Human replacement policy for every match
	Seed          int64                // Base RNG seed; connection n uses Seed+n (0 = random)
	PromptEnabled bool                 // Send "> " after each response
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Port:          4242,
		NextBatsman:   engine.AutoNext,
		PromptEnabled: true,
	}
}

// NewServer creates a new line protocol server.
func NewServer(catalog *roster.Catalog, opts ServerOptions) *Server {
	if catalog == nil {
		catalog = roster.Default()
	}
	return &Server{
		catalog: catalog,
		options: opts,
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	addr := net.JoinHostPort(s.options.Host, strconv.Itoa(s.options.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.running = true

	go s.acceptLoop()

	return nil
}

// Addr returns the listening address, or "" when stopped.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop stops the server. Open connections finish their current command.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return // Server stopped
			}
			log.Printf("line protocol: accept error: %v", err)
			continue
		}

		s.mu.Lock()
		s.conns++
		seed := s.options.Seed
		if seed != 0 {
			seed += s.conns
		}
		s.mu.Unlock()

		go s.handleConnection(conn, newSession(s.catalog, s.options, seed))
	}
}

// handleConnection plays one match per connection.
func (s *Server) handleConnection(conn net.Conn, sess *session) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	if s.options.PromptEnabled {
		conn.Write([]byte("> "))
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("line protocol: read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response := sess.handle(line)
		conn.Write([]byte(response))

		command := strings.ToLower(strings.Fields(line)[0])
		if command == "exit" || command == "quit" {
			return
		}

		if s.options.PromptEnabled {
			conn.Write([]byte("> "))
		}
	}
}

// session is the match owned by one connection.
type session struct {
	engine *engine.Engine
}

func newSession(catalog *roster.Catalog, opts ServerOptions, seed int64) *session {
	return &session{engine: engine.New(engine.Options{
		Catalog:     catalog,
		Seed:        seed,
		NextBatsman: opts.NextBatsman,
	})}
}

func errorLine(err error) string {
	return fmt.Sprintf("Error: %v\n", err)
}

// handle processes a single command and returns the response.
func (s *session) handle(cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "Error: empty command\n"
	}

	command := strings.ToLower(parts[0])
	rest := strings.TrimSpace(cmd[len(parts[0]):])

	switch command {
	case "version":
		return "handcricket line protocol 1.0\n"

	case "help":
		return helpResponse()

	case "exit", "quit":
		return "Goodbye\n"

	case "teams":
		return s.handleTeams()

	case "team":
		return s.handleTeam(rest)

	case "confirm":
		if err := s.engine.ConfirmTeams(); err != nil {
			return errorLine(err)
		}
		return "ok\n"

	case "toss":
		return s.handleToss()

	case "decide":
		if err := s.engine.RecordDecision(engine.Decision(strings.ToLower(rest))); err != nil {
			return errorLine(err)
		}
		return s.engine.Feed()[0] + "\n" + s.pendingLine()

	case "select":
		return s.handleSelect(rest)

	case "pending":
		if line := s.pendingLine(); line != "" {
			return line
		}
		return "none\n"

	case "ball":
		return s.handleBall(rest)

	case "board", "score":
		state := s.engine.Snapshot()
		return NewBoard(&state).String() + "\n"

	case "outlook":
		state := s.engine.Snapshot()
		o := equity.ForState(&state)
		if o == nil {
			return "Error: no innings in progress\n"
		}
		return o.String() + "\n"

	case "feed":
		return s.handleFeed(rest)

	case "scorecard":
		return s.handleScorecard(rest)

	case "summary":
		sum, err := s.engine.Summary()
		if err != nil {
			return errorLine(err)
		}
		var buf bytes.Buffer
		if err := sum.Write(&buf); err != nil {
			return errorLine(err)
		}
		return buf.String()

	case "reset":
		s.engine.Reset()
		return "ok\n"

	default:
		return fmt.Sprintf("Error: unknown command '%s'\n", command)
	}
}

// helpResponse returns help text.
func helpResponse() string {
	return `Available commands:
  version            - Show version information
  help               - Show this help
  teams              - List teams
  team <role> <name> - Pick a team (role: team1/human or team2/computer)
  confirm            - Confirm both teams
  toss               - Run the toss
  decide bat|bowl    - Toss decision, when you won it
  select <names>     - Answer the pending selection (comma separated, or "auto")
  pending            - Show the pending selection
  ball <1-6>         - Play a ball with your number
  board              - Show the scoreboard line
  outlook            - Projected total, or the chase win chance
  feed [n]           - Latest commentary, newest first
  scorecard [1|2]    - Innings scorecard
  summary            - Match summary once the match is over
  reset              - Start over
  exit               - Close connection
`
}

func (s *session) handleTeams() string {
	var b strings.Builder
	for i, t := range s.engine.Catalog().Teams() {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, t.Name, strings.Join(t.Players, ", "))
	}
	return b.String()
}

func (s *session) handleTeam(args string) string {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "Error: team requires role and name\n"
	}
	role, err := engine.ParseRole(strings.ToLower(fields[0]))
	if err != nil {
		return errorLine(err)
	}
	name := strings.TrimSpace(args[len(fields[0])+1:])
	if err := s.engine.SelectTeam(name, role); err != nil {
		return errorLine(err)
	}
	return fmt.Sprintf("%s: %s\n", role, name)
}

// handleToss runs the toss. When the computer wins it decides at once.
func (s *session) handleToss() string {
	winner, err := s.engine.RunToss()
	if err != nil {
		return errorLine(err)
	}
	state := s.engine.Snapshot()
	if winner == state.Team1.Name {
		return fmt.Sprintf("toss won by %s, decide bat or bowl\n", winner)
	}
	if err := s.engine.RecordDecision(s.engine.ComputerDecision()); err != nil {
		return errorLine(err)
	}
	return s.engine.Feed()[0] + "\n" + s.pendingLine()
}

func (s *session) handleSelect(args string) string {
	var err error
	if strings.EqualFold(args, "auto") {
		err = s.engine.AutoSelect()
	} else {
		var players []string
		for _, p := range strings.Split(args, ",") {
			if p = strings.TrimSpace(p); p != "" {
				players = append(players, p)
			}
		}
		err = s.engine.ConfirmSelection(players)
	}
	if err != nil {
		return errorLine(err)
	}
	if line := s.pendingLine(); line != "" {
		return line
	}
	return "ok\n"
}

func (s *session) handleBall(args string) string {
	choice, err := strconv.Atoi(args)
	if err != nil {
		return errorLine(engine.ErrInvalidChoice)
	}
	res, err := s.engine.PlayBall(choice)
	if err != nil {
		return errorLine(err)
	}
	return fmt.Sprintf("you %d computer %d\n%s\n", res.Human, res.Computer, res.Commentary) + s.pendingLine()
}

func (s *session) handleFeed(args string) string {
	lines := s.engine.Feed()
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 0 {
			return "Error: feed length must be a non-negative number\n"
		}
		all := make([]string, 0, n)
		entries := s.engine.Commentary()
		for i := len(entries) - 1; i >= 0 && len(all) < n; i-- {
			all = append(all, entries[i].Text)
		}
		lines = all
	}
	if len(lines) == 0 {
		return "no commentary\n"
	}
	return strings.Join(lines, "\n") + "\n"
}

func (s *session) handleScorecard(args string) string {
	state := s.engine.Snapshot()
	n := 1
	if state.Phase == engine.PhaseSecondInnings || state.Phase == engine.PhaseMatchEnd {
		n = 2
	}
	if args != "" {
		v, err := strconv.Atoi(args)
		if err != nil || (v != 1 && v != 2) {
			return "Error: innings must be 1 or 2\n"
		}
		n = v
	}
	card, err := scorecard.ForMatch(&state, n, scorecard.SourceEvents)
	if err != nil {
		return errorLine(err)
	}
	var buf bytes.Buffer
	if err := scorecard.Render(&buf, card); err != nil {
		return errorLine(err)
	}
	return buf.String()
}

// pendingLine describes the pending selection with the eligible players,
// or returns "" when nothing is pending.
func (s *session) pendingLine() string {
	p := s.engine.Pending()
	if p == nil {
		return ""
	}
	state := s.engine.Snapshot()
	team := state.Team1
	if team.Name != p.Team {
		team = state.Team2
	}
	var eligible []string
	for _, name := range team.Players {
		if !contains(p.Exclude, name) {
			eligible = append(eligible, name)
		}
	}
	return fmt.Sprintf("select %s %d: %s\n", p.Kind, p.Size, strings.Join(eligible, ", "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
