package ga

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-logr/logr"
)

// Improvement describes a new best tour found during a search.
type Improvement struct {
	Iteration int
	Distance  float64
	Order     []int
}

// ReportFunc is called with every strict improvement of the best distance.
type ReportFunc func(Improvement)

// SearchOptions tunes GASearch and RandomSearch. The zero value is usable.
type SearchOptions struct {
	// Population resumes an existing population instead of creating one from the config.
	Population *Population
	// CheckpointPath receives a checkpoint every Config.Checkpoint.Interval generations.
	CheckpointPath string
	Logger         logr.Logger
	Report         ReportFunc
}

// SearchResult is the best tour seen by a search.
type SearchResult struct {
	Order      []int
	Distance   float64
	Iterations int // Iterations actually run
}

func (o SearchOptions) logger() logr.Logger {
	if o.Logger.GetSink() == nil {
		return logr.Discard()
	}
	return o.Logger
}

// bestTracker keeps the shortest tour seen so far and reports improvements.
type bestTracker struct {
	result SearchResult
	report ReportFunc
}

func newBestTracker(report ReportFunc) *bestTracker {
	return &bestTracker{result: SearchResult{Distance: math.Inf(1)}, report: report}
}

func (b *bestTracker) offer(iteration int, distance float64, order func() []int) {
	if distance >= b.result.Distance {
		return
	}
	b.result.Distance = distance
	b.result.Order = order()
	if b.report != nil {
		b.report(Improvement{Iteration: iteration, Distance: distance, Order: b.result.Order})
	}
}

// GASearch evolves a population for config.Search.Iterations generations and
// returns the shortest tour seen in any generation. The initial population is
// checked as well. On cancellation it returns the best so far together with
// the context's error.
func GASearch(ctx context.Context, cities CitySet, config *Config, opts SearchOptions) (SearchResult, error) {
	log := opts.logger()

	pop := opts.Population
	if pop == nil {
		var err error
		pop, err = NewPopulationFromConfig(cities, config)
		if err != nil {
			return SearchResult{}, err
		}
	} else if pop.CitiesCount() != cities.Size() {
		return SearchResult{}, fmt.Errorf("%w: population has %d cities, got %d",
			ErrCitySetMismatch, pop.CitiesCount(), cities.Size())
	}
	pop.SetLogger(log)

	tracker := newBestTracker(opts.Report)
	best := pop.GetBest()
	tracker.offer(pop.Generation(), best.Distance(), best.Order)

	for i := 0; i < config.Search.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return tracker.result, err
		}

		pop.ComputeNextGeneration()
		tracker.result.Iterations++
		gen := pop.Generation()

		best = pop.GetBest()
		tracker.offer(gen, best.Distance(), best.Order)

		if config.Search.ReportInterval > 0 && gen%config.Search.ReportInterval == 0 {
			log.V(1).Info("Generation stats", pop.Stats().KeysAndValues()...)
		}
		if opts.CheckpointPath != "" && config.Checkpoint.Interval > 0 && gen%config.Checkpoint.Interval == 0 {
			if err := pop.SaveCheckpoint(opts.CheckpointPath); err != nil {
				log.Error(err, "Failed to save checkpoint", "generation", gen)
			}
		}
	}
	return tracker.result, nil
}

// ErrNoIterations is returned by RandomSearch when asked for fewer than one draw.
var ErrNoIterations = errors.New("ga: random search needs at least 1 iteration")

// RandomSearch draws iterations random tours and keeps the shortest. It is a
// baseline to compare GASearch against.
func RandomSearch(ctx context.Context, cities CitySet, iterations int, seed int64, opts SearchOptions) (SearchResult, error) {
	if cities.Size() < 2 {
		return SearchResult{}, ErrTooFewCities
	}
	if iterations < 1 {
		return SearchResult{}, fmt.Errorf("%w: got %d", ErrNoIterations, iterations)
	}
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed))
	tracker := newBestTracker(opts.Report)

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return tracker.result, err
		}
		order := randomPermutation(cities.Size(), rng)
		tracker.offer(i, cities.TotalPathDistance(order), func() []int { return order })
		tracker.result.Iterations++
	}
	opts.logger().V(1).Info("Random search finished", "iterations", iterations, "best", tracker.result.Distance)
	return tracker.result, nil
}
