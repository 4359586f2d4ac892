package ga

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstCityDistance is a CitySet whose tour length depends only on the first
// city of the tour, which makes fitness values easy to pick in tests.
type firstCityDistance []float64

func (f firstCityDistance) Size() int { return len(f) }

func (f firstCityDistance) TotalPathDistance(order []int) float64 { return f[order[0]] }

// populationOf builds a population around hand-made individuals.
func populationOf(t *testing.T, cs CitySet, mutationRate float64, orders ...[]int) *Population {
	t.Helper()
	individuals := make([]*Individual, len(orders))
	for i, order := range orders {
		individuals[i] = &Individual{order: order, cities: cs, rng: rand.New(rand.NewSource(int64(i + 1)))}
		require.True(t, individuals[i].IsValid(), "not a tour: %v", order)
	}
	pop, err := NewPopulation(cs, 2, mutationRate, 1)
	require.NoError(t, err)
	pop.individuals = individuals
	return pop
}

func TestNewPopulation_Validation(t *testing.T) {
	cs := randomCities(t, 5, 1)
	tests := []struct {
		name         string
		cities       CitySet
		popSize      int
		mutationRate float64
		wantErr      error
	}{
		{"odd size", cs, 7, 0.1, ErrOddPopulation},
		{"zero size", cs, 0, 0.1, ErrPopulationTooSmall},
		{"single individual", cs, 1, 0.1, ErrPopulationTooSmall},
		{"negative rate", cs, 10, -0.1, ErrMutationRate},
		{"rate above one", cs, 10, 1.5, ErrMutationRate},
		{"one city", randomCities(t, 1, 1), 10, 0.1, ErrTooFewCities},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pop, err := NewPopulation(tt.cities, tt.popSize, tt.mutationRate, 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.Nil(t, pop)
		})
	}
}

func TestNewPopulation_Initial(t *testing.T) {
	cs := randomCities(t, 15, 2)
	pop, err := NewPopulation(cs, 30, 0.2, 9)
	require.NoError(t, err)

	assert.Equal(t, 30, pop.Size())
	assert.Equal(t, 0, pop.Generation())
	assert.Equal(t, 0.2, pop.MutationRate())
	for _, ind := range pop.Individuals() {
		assert.True(t, ind.IsValid())
	}
	// Each individual has its own stream, so the tours are not all equal.
	inds := pop.Individuals()
	assert.NotEqual(t, inds[0].Order(), inds[1].Order())
}

func TestComputeNextGeneration_KeepsSizeAndValidity(t *testing.T) {
	for _, size := range []int{2, 4, 10, 32} {
		cs := randomCities(t, 12, int64(size))
		pop, err := NewPopulation(cs, size, 0.5, int64(size))
		require.NoError(t, err)

		for gen := 1; gen <= 25; gen++ {
			pop.ComputeNextGeneration()
			require.Equal(t, 2*(size/2), pop.Size())
			require.Equal(t, gen, pop.Generation())
			for _, ind := range pop.Individuals() {
				require.True(t, ind.IsValid())
			}
		}
	}
}

func TestComputeNextGeneration_ReplacesEveryIndividual(t *testing.T) {
	cs := randomCities(t, 10, 3)
	pop, err := NewPopulation(cs, 8, 0.1, 3)
	require.NoError(t, err)

	before := make(map[*Individual]bool)
	for _, ind := range pop.Individuals() {
		before[ind] = true
	}
	pop.ComputeNextGeneration()
	for _, ind := range pop.Individuals() {
		assert.False(t, before[ind], "an individual survived into the next generation")
	}
}

func TestComputeNextGeneration_SameSeedSameRun(t *testing.T) {
	cs := randomCities(t, 20, 6)
	run := func() [][]int {
		pop, err := NewPopulation(cs, 10, 0.3, 1234)
		require.NoError(t, err)
		for i := 0; i < 30; i++ {
			pop.ComputeNextGeneration()
		}
		var orders [][]int
		for _, ind := range pop.Individuals() {
			orders = append(orders, ind.Order())
		}
		return orders
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Fatalf("runs with the same seed diverged (-first +second):\n%s", diff)
	}
}

func TestSelectParent_ProportionalToFitness(t *testing.T) {
	// Fitness values 1, 0.5 and 0.25.
	cs := firstCityDistance{1, 2, 4}
	pop := populationOf(t, cs, 0, []int{0, 1, 2}, []int{1, 2, 0}, []int{2, 0, 1})

	const trials = 200000
	counts := make(map[*Individual]int)
	for i := 0; i < trials; i++ {
		counts[pop.reproduction.SelectParent(pop.individuals)]++
	}

	total := 1 + 0.5 + 0.25
	for i, want := range []float64{1 / total, 0.5 / total, 0.25 / total} {
		got := float64(counts[pop.individuals[i]]) / trials
		assert.InDelta(t, want, got, 0.01, "individual %d", i)
	}
}

func TestSelectParent_SingleCandidate(t *testing.T) {
	cs := firstCityDistance{3, 3}
	pop := populationOf(t, cs, 0, []int{0, 1})
	for i := 0; i < 10; i++ {
		assert.Same(t, pop.individuals[0], pop.reproduction.SelectParent(pop.individuals))
	}
}

func TestReproduce_ParentsAreDistinct(t *testing.T) {
	// One individual dominates selection; the resampling loop must still pick
	// a different second parent.
	cs := firstCityDistance{1, 100}
	pop := populationOf(t, cs, 0, []int{0, 1}, []int{1, 0})
	for i := 0; i < 50; i++ {
		children := pop.reproduction.Reproduce(pop.individuals, 0)
		require.Len(t, children, 2)
	}
}

func TestReproduce_MutationRateOneMutatesParents(t *testing.T) {
	cs := randomCities(t, 10, 4)
	pop, err := NewPopulation(cs, 2, 1, 4)
	require.NoError(t, err)

	parents := pop.Individuals()
	before := [][]int{parents[0].Order(), parents[1].Order()}
	pop.ComputeNextGeneration()

	// With two individuals both are always selected, and both get mutated.
	assert.NotEqual(t, before[0], parents[0].Order())
	assert.NotEqual(t, before[1], parents[1].Order())
}

func TestReproduce_MutationRateZeroLeavesParents(t *testing.T) {
	cs := randomCities(t, 10, 4)
	pop, err := NewPopulation(cs, 6, 0, 4)
	require.NoError(t, err)

	parents := pop.Individuals()
	var before [][]int
	for _, p := range parents {
		before = append(before, p.Order())
	}
	pop.ComputeNextGeneration()
	for i, p := range parents {
		assert.Equal(t, before[i], p.Order())
	}
}

func TestGetBest_ReturnsShortestTour(t *testing.T) {
	cs := firstCityDistance{5, 2, 9}
	pop := populationOf(t, cs, 0, []int{0, 1, 2}, []int{1, 2, 0}, []int{2, 0, 1})

	best := pop.GetBest()
	assert.Same(t, pop.individuals[1], best)
	assert.Equal(t, 2.0, best.Distance())
}

func TestGetBest_EmptyPanics(t *testing.T) {
	cs := randomCities(t, 4, 1)
	pop := populationOf(t, cs, 0)
	assert.Panics(t, func() { pop.GetBest() })
}

func TestPopulation_SolvesSquare(t *testing.T) {
	cs := squareCities(t)
	pop, err := NewPopulation(cs, 20, 0.1, 42)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		pop.ComputeNextGeneration()
	}
	assert.InDelta(t, 4.0, pop.GetBest().Distance(), 1e-9)
}

func TestPopulation_ImprovesOnRandomCities(t *testing.T) {
	cs := randomCities(t, 20, 77)
	pop, err := NewPopulation(cs, 40, 0.2, 77)
	require.NoError(t, err)

	initial := pop.Stats().MeanDistance
	for i := 0; i < 300; i++ {
		pop.ComputeNextGeneration()
	}
	assert.Less(t, pop.Stats().MeanDistance, initial)
}

func TestNewPopulationFromConfig(t *testing.T) {
	cs := randomCities(t, 6, 1)
	config := DefaultConfig()
	config.GA.PopSize = 12
	config.GA.MutationRate = 0.3

	pop, err := NewPopulationFromConfig(cs, config)
	require.NoError(t, err)
	assert.Equal(t, 12, pop.Size())
	assert.Equal(t, 0.3, pop.MutationRate())
}

func TestSetMutationRate(t *testing.T) {
	pop, err := NewPopulation(randomCities(t, 6, 1), 4, 0.1, 1)
	require.NoError(t, err)

	require.NoError(t, pop.SetMutationRate(0.75))
	assert.Equal(t, 0.75, pop.MutationRate())

	err = pop.SetMutationRate(1.5)
	require.ErrorIs(t, err, ErrMutationRate)
	assert.Equal(t, 0.75, pop.MutationRate(), "a rejected rate leaves the old one")
}

func TestPopulation_Logging(t *testing.T) {
	var lines []string
	log := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 2})

	pop, err := NewPopulation(randomCities(t, 6, 1), 4, 0.1, 1)
	require.NoError(t, err)
	pop.SetLogger(log)
	pop.ComputeNextGeneration()

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg"="Logger attached to population"`)
	assert.Contains(t, lines[1], `"msg"="Generation computed"`)
	for _, key := range []string{`"generation"=1`, `"bestDistance"=`, `"meanDistance"=`, `"size"=4`} {
		assert.True(t, strings.Contains(lines[1], key), "missing %s in %s", key, lines[1])
	}
}
