// ABOUTME: Entry point for the coeffsearch demo binary
// ABOUTME: Wires config, evaluators, the evolve engine, and export together

// Package main provides coeffsearch, a thin demo binary wiring the
// evolutionary search core together: load parameters, seed an engine,
// stream progress to stdout, and export the best candidate on exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sthamann/lagrangian-evolve/config"
	"github.com/sthamann/lagrangian-evolve/eval"
	"github.com/sthamann/lagrangian-evolve/evolve"
	"github.com/sthamann/lagrangian-evolve/export"
	"github.com/sthamann/lagrangian-evolve/precision"
	"github.com/sthamann/lagrangian-evolve/stream"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "TOML parameters file (defaults built in if absent)")
	seed := flag.Uint64("seed", 1, "PRNG seed")
	generations := flag.Int("generations", 2000, "max_generations (0 = unbounded, run until stopped)")
	workers := flag.Int("workers", 0, "evaluator parallelism (0 = runtime.GOMAXPROCS)")
	debugLog := flag.Bool("debug", false, "enable debug logging to coeffsearch-debug.log")
	exportPath := flag.String("export", "", "write the final best candidate as JSON to this file")
	flag.Parse()

	// engineLogger is left a nil interface (not a nil *log.Logger boxed in
	// a non-nil interface) when debug logging is off, so evolve.Engine's
	// "if e.logger != nil" gate works correctly.
	var engineLogger evolve.Logger
	if *debugLog {
		f, err := os.OpenFile("coeffsearch-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open debug log: %v\n", err)
			return 1
		}
		defer f.Close()
		engineLogger = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	}

	params := evolve.DefaultParameters()
	if *configPath != "" {
		p, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			return 1
		}
		params = p
	}
	params.MaxGenerations = *generations

	fast := eval.New(*workers)
	precise, err := precision.New(*workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "precise evaluator unavailable, continuing fast-only: %v\n", err)
		precise = nil
	}

	var precisionEvaluator eval.Evaluator
	if precise != nil {
		precisionEvaluator = precise
	}

	engine := evolve.NewEngine(*seed, params, fast, precisionEvaluator, engineLogger)

	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config watch disabled: %v\n", err)
		} else {
			defer watcher.Close()
			go watcher.Run(engine.Params, func(err error) {
				fmt.Fprintf(os.Stderr, "reconfigure error: %v\n", err)
			})
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub := stream.NewPublisher(8)
	go printProgress(pub.Subscribe())

	if err := engine.Run(ctx, pub); err != nil {
		fmt.Fprintf(os.Stderr, "engine fault: %v\n", err)
		return 1
	}

	if *exportPath != "" {
		if best, ok := engine.HOF.Best(); ok {
			record := export.FromCandidate(best, time.Now().Unix())
			data, err := export.Marshal(record)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to marshal export: %v\n", err)
				return 1
			}
			if err := os.WriteFile(*exportPath, data, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write export: %v\n", err)
				return 1
			}
		}
	}

	return 0
}

func printProgress(updates <-chan stream.Update) {
	for u := range updates {
		switch u.Status {
		case stream.Running:
			fmt.Printf("gen=%d best_fitness=%.6g delta_alpha=%.3g eval/s=%.0f\n",
				u.Generation, u.Best.Fitness, u.Best.DeltaAlpha, u.EvalPerSec)
		case stream.Completed:
			fmt.Printf("gen=%d completed best_fitness=%.6g\n", u.Generation, u.Best.Fitness)
		case stream.Stopped:
			fmt.Printf("gen=%d stopped\n", u.Generation)
		case stream.Failed:
			fmt.Printf("gen=%d failed: %s\n", u.Generation, u.Diagnostic)
		}
	}
}
