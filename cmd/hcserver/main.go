// Command hcserver runs the hand cricket HTTP and websocket API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/yourusername/handcricket/internal/roster"
	"github.com/yourusername/handcricket/pkg/api"
	"github.com/yourusername/handcricket/pkg/engine"
	"github.com/yourusername/handcricket/pkg/external"
)

const version = "0.1.0"

func main() {
	def := api.DefaultConfig()

	host := flag.String("host", def.Host, "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", def.Port, "Port to listen on")
	teamsFile := flag.String("teams", "", "Path to a team catalog JSON file (default: built-in teams)")
	readTimeout := flag.Duration("read-timeout", def.ReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", def.WriteTimeout, "HTTP write timeout")
	idleTimeout := flag.Duration("idle-timeout", def.IdleTimeout, "HTTP idle timeout")
	maxMatches := flag.Int("max-matches", def.MaxMatches, "Maximum matches held in memory (0 = unlimited)")
	matchTTL := flag.Duration("match-ttl", def.MatchTTL, "Drop matches older than this (0 = never)")
	matchWorkers := flag.Int("match-workers", def.MaxMatchWorkers, "Maximum concurrent match operations")
	simWorkers := flag.Int("sim-workers", def.MaxSimulationWorkers, "Maximum concurrent simulations")
	simMatches := flag.Int("max-sim-matches", def.MaxSimulationMatches, "Largest simulation a client may request (0 = unlimited)")
	limiterRPS := flag.Float64("limiter-rps", def.Limiter.RPS, "Rate limiter maximum requests per second")
	limiterBurst := flag.Int("limiter-burst", def.Limiter.Burst, "Rate limiter maximum burst")
	limiterEnabled := flag.Bool("limiter-enabled", def.Limiter.Enabled, "Enable rate limiter")
	lineEnabled := flag.Bool("line-enabled", false, "Also serve the line protocol over TCP")
	linePort := flag.Int("line-port", external.DefaultServerOptions().Port, "Line protocol port")
	linePrompt := flag.Bool("line-prompt", false, "Ask line protocol players for the next batsman after a wicket")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("Hand Cricket API Server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("Hand Cricket API Server v%s", version)

	catalog := roster.Default()
	if *teamsFile != "" {
		var err error
		catalog, err = roster.LoadFile(*teamsFile)
		if err != nil {
			log.Fatalf("Failed to load teams: %v", err)
		}
	}
	log.Printf("Loaded %d teams", len(catalog.Teams()))

	config := api.ServerConfig{
		Host:                 *host,
		Port:                 *port,
		ReadTimeout:          *readTimeout,
		WriteTimeout:         *writeTimeout,
		IdleTimeout:          *idleTimeout,
		MaxMatchWorkers:      *matchWorkers,
		MaxSimulationWorkers: *simWorkers,
		MaxSimulationMatches: *simMatches,
		MaxMatches:           *maxMatches,
		MatchTTL:             *matchTTL,
		Limiter: api.LimiterConfig{
			RPS:     *limiterRPS,
			Burst:   *limiterBurst,
			Enabled: *limiterEnabled,
		},
	}

	if *lineEnabled {
		opts := external.DefaultServerOptions()
		opts.Host = *host
		opts.Port = *linePort
		if *linePrompt {
			opts.NextBatsman = engine.Prompt
		}
		line := external.NewServer(catalog, opts)
		if err := line.Start(); err != nil {
			log.Fatalf("Line protocol server error: %v", err)
		}
		defer line.Stop()
		log.Printf("Line protocol listening on %s", line.Addr())
	}

	server := api.NewServer(catalog, config, version)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
