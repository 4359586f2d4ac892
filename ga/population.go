package ga

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

var (
	// ErrOddPopulation is returned for odd population sizes, which cannot be
	// fully replaced by pairs of children.
	ErrOddPopulation = errors.New("ga: population size must be even")
	// ErrPopulationTooSmall is returned when fewer than two individuals are requested.
	ErrPopulationTooSmall = errors.New("ga: population size must be at least 2")
	// ErrMutationRate is returned for mutation rates outside [0, 1].
	ErrMutationRate = errors.New("ga: mutation rate must be between 0 and 1")
	// ErrTooFewCities is returned for city sets with fewer than two cities.
	ErrTooFewCities = errors.New("ga: at least 2 cities are required")
	// ErrCitySetMismatch is returned when a population is used with a city set
	// of a different size than the one it was created for.
	ErrCitySetMismatch = errors.New("ga: city set does not match population")
)

// Population holds the current generation of tours and evolves it.
type Population struct {
	cities       CitySet
	individuals  []*Individual // Current generation, owned exclusively.
	mutationRate float64
	reproduction *Reproduction
	generation   int
	log          logr.Logger
}

// NewPopulation creates popSize random individuals over cities.
// popSize must be even and at least 2, mutationRate within [0, 1].
// All randomness derives from seed; 0 selects a fixed default seed.
func NewPopulation(cities CitySet, popSize int, mutationRate float64, seed int64) (*Population, error) {
	if err := validatePopulationParams(cities, popSize, mutationRate); err != nil {
		return nil, err
	}

	reproduction := NewReproduction(seed)
	p := &Population{
		cities:       cities,
		individuals:  reproduction.CreateNewPopulation(cities, popSize),
		mutationRate: mutationRate,
		reproduction: reproduction,
		log:          logr.Discard(),
	}
	return p, nil
}

// NewPopulationFromConfig creates a population using the [GA] section of config.
func NewPopulationFromConfig(cities CitySet, config *Config) (*Population, error) {
	return NewPopulation(cities, config.GA.PopSize, config.GA.MutationRate, config.GA.Seed)
}

func validatePopulationParams(cities CitySet, popSize int, mutationRate float64) error {
	if popSize < 2 {
		return fmt.Errorf("%w: got %d", ErrPopulationTooSmall, popSize)
	}
	if popSize%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrOddPopulation, popSize)
	}
	if err := validateMutationRate(mutationRate); err != nil {
		return err
	}
	if cities.Size() < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewCities, cities.Size())
	}
	return nil
}

func validateMutationRate(mutationRate float64) error {
	if mutationRate < 0 || mutationRate > 1 {
		return fmt.Errorf("%w: got %g", ErrMutationRate, mutationRate)
	}
	return nil
}

// SetLogger sets the logger used for per-generation progress and logs the
// population's current state at V(2).
func (p *Population) SetLogger(log logr.Logger) {
	p.log = log
	p.log.V(2).Info("Logger attached to population", "size", len(p.individuals), "cities", p.cities.Size(),
		"mutationRate", p.mutationRate, "generation", p.generation)
}

// SetMutationRate changes the per-parent mutation probability used by the
// following generations, e.g. after resuming from a checkpoint.
func (p *Population) SetMutationRate(mutationRate float64) error {
	if err := validateMutationRate(mutationRate); err != nil {
		return err
	}
	p.mutationRate = mutationRate
	return nil
}

// ComputeNextGeneration evolves one generation: Size()/2 pairs of parents are
// chosen by fitness-proportional selection, possibly mutated, and recombined
// into two children each. The children replace the whole population.
//
// Selected parents are mutated in place, so a parent drawn again later in the
// same generation is seen with its mutations.
func (p *Population) ComputeNextGeneration() {
	children := p.reproduction.Reproduce(p.individuals, p.mutationRate)
	p.individuals = children
	p.generation++

	if p.log.V(1).Enabled() {
		stats := p.Stats()
		p.log.V(1).Info("Generation computed", "generation", p.generation,
			"bestDistance", stats.BestDistance, "meanDistance", stats.MeanDistance, "size", len(p.individuals))
	}
}

// GetBest returns the individual with the highest fitness, i.e. the shortest
// tour. The returned individual belongs to the population and is replaced at
// the next generation; use Clone or Order to keep it.
func (p *Population) GetBest() *Individual {
	var best *Individual
	for _, ind := range p.individuals {
		if best == nil || ind.Fitness() > best.Fitness() {
			best = ind
		}
	}
	if best == nil {
		panic("GetBest called on an empty population")
	}
	return best
}

// Size returns the number of individuals per generation.
func (p *Population) Size() int {
	return len(p.individuals)
}

// Generation returns the number of generations computed so far.
func (p *Population) Generation() int {
	return p.generation
}

// Seed returns the seed all of the population's random streams derive from.
func (p *Population) Seed() int64 {
	return p.reproduction.seed
}

// CitiesCount returns the number of cities in every tour.
func (p *Population) CitiesCount() int {
	return p.cities.Size()
}

// MutationRate returns the per-parent mutation probability.
func (p *Population) MutationRate() float64 {
	return p.mutationRate
}

// Individuals returns the current generation. The slice is a copy; the
// individuals are shared with the population.
func (p *Population) Individuals() []*Individual {
	out := make([]*Individual, len(p.individuals))
	copy(out, p.individuals)
	return out
}
