package fuzz

import (
	"math"
	"math/rand/v2"
)

// Chain hunts for a byte stream that panics the decode tables, via a
// simulated-annealing random walk: mutate, score, accept improvements
// unconditionally, accept regressions with Metropolis probability,
// anneal the temperature.
type Chain struct {
	current, best  []uint8
	cost, bestCost int
	ticks          int
	temperature    float64
	rng            *rand.Rand
	mutator        *Mutator

	Accepted, Rejected int64
	Crash              error
}

// NewChain starts a walk from seed, scoring every candidate by running
// it for ticks host Tick() calls.
func NewChain(seed []uint8, ticks int, temperature float64, rngSeed uint64) *Chain {
	rng := rand.New(rand.NewPCG(rngSeed, rngSeed^0xC0FFEE))
	ch := &Chain{
		current:     append([]uint8(nil), seed...),
		ticks:       ticks,
		temperature: temperature,
		rng:         rng,
		mutator:     NewMutator(rng, 32),
	}
	ch.cost = ch.score(ch.current)
	ch.best = append([]uint8(nil), ch.current...)
	ch.bestCost = ch.cost
	return ch
}

// score is lower for more "interesting" streams: a panic scores lowest
// of all and is recorded on ch.Crash; otherwise cost falls as the
// stream's byte diversity and the final PC both rise, pushing the walk
// toward streams that exercise more of the opcode space.
func (ch *Chain) score(stream []uint8) int {
	st, err := Exec(stream, ch.ticks)
	if err != nil {
		ch.Crash = err
		return -(1 << 30)
	}
	distinct := map[uint8]bool{}
	for _, b := range stream {
		distinct[b] = true
	}
	return -(len(distinct) + int(st.PC))
}

// Step mutates the current stream, scores the candidate, and applies
// the Metropolis acceptance criterion before annealing the
// temperature. Returns true once a crash has been found.
func (ch *Chain) Step(decay float64) bool {
	candidate := ch.mutator.Mutate(ch.current)
	newCost := ch.score(candidate)

	accept := newCost <= ch.cost
	if !accept && ch.temperature > 0 {
		delta := float64(newCost - ch.cost)
		accept = ch.rng.Float64() < math.Exp(-delta/ch.temperature)
	}

	if accept {
		ch.current, ch.cost = candidate, newCost
		ch.Accepted++
		if newCost < ch.bestCost {
			ch.best = append([]uint8(nil), candidate...)
			ch.bestCost = newCost
		}
	} else {
		ch.Rejected++
	}

	ch.temperature *= decay
	return ch.Crash != nil
}

// Best returns the most interesting stream found so far.
func (ch *Chain) Best() []uint8 { return ch.best }

// Current returns the walk's current stream.
func (ch *Chain) Current() []uint8 { return ch.current }
