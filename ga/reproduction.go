package ga

import "math/rand"

// defaultSeed is used when callers pass seed == 0.
const defaultSeed int64 = 1

// Reproduction holds the random stream driving selection and mutation draws,
// and hands out independent streams to newly created individuals.
type Reproduction struct {
	rng        *rand.Rand
	seed       int64
	nextStream uint64 // Stream id for the next individual created from scratch.
}

// NewReproduction creates a reproduction manager seeded with seed (0 selects a fixed default).
func NewReproduction(seed int64) *Reproduction {
	if seed == 0 {
		seed = defaultSeed
	}
	return &Reproduction{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// deriveSeed mixes a parent seed and a stream id into a new seed
// (SplitMix64 finalizer), so that sibling streams are decorrelated.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// newStream returns a fresh random stream for one individual.
func (r *Reproduction) newStream() *rand.Rand {
	stream := r.nextStream
	r.nextStream++
	return rand.New(rand.NewSource(deriveSeed(r.seed, stream)))
}

// CreateNewPopulation creates popSize individuals with random tours.
func (r *Reproduction) CreateNewPopulation(cities CitySet, popSize int) []*Individual {
	individuals := make([]*Individual, 0, popSize)
	for i := 0; i < popSize; i++ {
		individuals = append(individuals, NewIndividual(cities, r.newStream()))
	}
	return individuals
}

// SelectParent picks an individual with probability proportional to its fitness
// (roulette wheel). A running sum is seeded with a uniform draw in [0, total)
// and the first individual that pushes it past total is chosen. If rounding
// keeps the sum from ever exceeding total, the last individual is returned.
func (r *Reproduction) SelectParent(individuals []*Individual) *Individual {
	totalFitness := 0.0
	for _, ind := range individuals {
		totalFitness += ind.Fitness()
	}

	running := r.rng.Float64() * totalFitness
	for _, ind := range individuals {
		running += ind.Fitness()
		if running > totalFitness {
			return ind
		}
	}
	return individuals[len(individuals)-1]
}

// Reproduce breeds the next generation from individuals: len/2 parent pairs
// are selected with replacement, each parent is mutated in place with
// probability mutationRate, and every pair is recombined into two children.
// The parents' generation is not modified otherwise.
func (r *Reproduction) Reproduce(individuals []*Individual, mutationRate float64) []*Individual {
	pairs := len(individuals) / 2
	children := make([]*Individual, 0, 2*pairs)
	for i := 0; i < pairs; i++ {
		parent1 := r.SelectParent(individuals)
		parent2 := r.SelectParent(individuals)
		// Same individual twice would crossover with itself.
		for parent2 == parent1 {
			parent2 = r.SelectParent(individuals)
		}

		if r.rng.Float64() < mutationRate {
			parent1.Mutate()
		}
		if r.rng.Float64() < mutationRate {
			parent2.Mutate()
		}

		child1, child2 := parent1.Recombine(parent2)
		children = append(children, child1, child2)
	}
	return children
}
