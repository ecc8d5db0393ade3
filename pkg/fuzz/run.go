package fuzz

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Config parameterizes a fuzzing run.
type Config struct {
	Seed        uint64
	StreamLen   int
	Ticks       int
	Steps       int
	Temperature float64
	Decay       float64
	Checkpoint  string
	Verbose     bool
}

// Report is the outcome of a Run.
type Report struct {
	StepsRun           int
	Accepted, Rejected int64
	Best               []uint8
	BestCost           int
	Crash              error
}

// Run drives a Chain for cfg.Steps mutation steps, or until a crash is
// found, periodically checkpointing progress.
func Run(cfg Config) (Report, error) {
	seedRng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xFEEDFACE))
	seed := NewMutator(seedRng, cfg.StreamLen).RandomStream(cfg.StreamLen)
	if cfg.Checkpoint != "" {
		if ckpt, err := LoadCheckpoint(cfg.Checkpoint); err == nil && len(ckpt.Best) > 0 {
			seed = ckpt.Best
		}
	}

	ch := NewChain(seed, cfg.Ticks, cfg.Temperature, cfg.Seed)
	start := time.Now()

	stepsRun := 0
	for i := 0; i < cfg.Steps; i++ {
		stepsRun++
		if ch.Step(cfg.Decay) {
			break
		}
		if cfg.Verbose && i%1000 == 0 && i > 0 {
			fmt.Printf(" fuzz: %d/%d steps, accepted=%d rejected=%d best=%d (%s elapsed)\n",
				i, cfg.Steps, ch.Accepted, ch.Rejected, ch.bestCost, time.Since(start).Round(time.Millisecond))
		}
		if cfg.Checkpoint != "" && i%5000 == 0 && i > 0 {
			_ = SaveCheckpoint(cfg.Checkpoint, Checkpoint{Best: ch.Best(), BestCost: ch.bestCost, Steps: int64(i)})
		}
	}

	if cfg.Checkpoint != "" {
		_ = SaveCheckpoint(cfg.Checkpoint, Checkpoint{Best: ch.Best(), BestCost: ch.bestCost, Steps: int64(stepsRun)})
	}

	rep := Report{
		StepsRun: stepsRun,
		Accepted: ch.Accepted,
		Rejected: ch.Rejected,
		Best:     ch.Best(),
		BestCost: ch.bestCost,
		Crash:    ch.Crash,
	}
	if ch.Crash != nil {
		return rep, fmt.Errorf("found a counterexample: %w", ch.Crash)
	}
	return rep, nil
}
