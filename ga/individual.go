package ga

import (
	"fmt"
	"math/rand"
	"sort"
)

// CitySet is the city collection an Individual encodes a tour over.
// Implementations must be immutable for the lifetime of a run.
type CitySet interface {
	// Size returns the number of cities.
	Size() int
	// TotalPathDistance returns the length of the closed tour visiting the
	// cities in the given order and returning to the start.
	TotalPathDistance(order []int) float64
}

// Individual is one candidate tour: a permutation of city indices.
type Individual struct {
	order  []int
	cities CitySet    // Shared, never modified.
	rng    *rand.Rand // Private to this individual.

	// Memoized tour length; valid only while hasDistance is set.
	distance    float64
	hasDistance bool
}

// NewIndividual creates an individual holding a uniformly random permutation of
// the cities. rng becomes owned by the individual and must not be shared.
func NewIndividual(cities CitySet, rng *rand.Rand) *Individual {
	ind := &Individual{
		order:  randomPermutation(cities.Size(), rng),
		cities: cities,
		rng:    rng,
	}
	ind.mustBeValid("construction")
	return ind
}

// randomPermutation returns a uniformly random permutation of [0, n).
func randomPermutation(n int, rng *rand.Rand) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// Clone returns a deep copy of the individual. The clone gets its own random
// stream, seeded from this individual's stream.
func (ind *Individual) Clone() *Individual {
	order := make([]int, len(ind.order))
	copy(order, ind.order)
	return &Individual{
		order:       order,
		cities:      ind.cities,
		rng:         rand.New(rand.NewSource(ind.rng.Int63())),
		distance:    ind.distance,
		hasDistance: ind.hasDistance,
	}
}

// Mutate swaps the cities at two distinct random positions of the tour.
// Tours of fewer than two cities are left untouched.
func (ind *Individual) Mutate() {
	n := len(ind.order)
	if n < 2 {
		return
	}
	i := ind.rng.Intn(n)
	j := ind.rng.Intn(n)
	for j == i {
		j = ind.rng.Intn(n)
	}
	ind.order[i], ind.order[j] = ind.order[j], ind.order[i]
	ind.hasDistance = false

	ind.mustBeValid("mutation")
}

// Recombine performs ordered crossover with other and returns two children.
// A window [start, finish) is drawn once; the first child keeps this
// individual's cities inside the window and takes the rest in other's order,
// the second child does the same with the roles swapped.
func (ind *Individual) Recombine(other *Individual) (*Individual, *Individual) {
	ind.mustBeValid("recombination")
	other.mustBeValid("recombination")
	if len(ind.order) != len(other.order) {
		panic(fmt.Sprintf("cannot recombine tours of %d and %d cities", len(ind.order), len(other.order)))
	}

	start, finish := ind.crossoverWindow()
	child1 := crossoverChild(ind, other, start, finish)
	child2 := crossoverChild(other, ind, start, finish)
	return child1, child2
}

// crossoverWindow draws the [start, finish) range used by Recombine.
// finish is uniform over [0, n) and start uniform over [0, finish), so the
// window may be empty.
func (ind *Individual) crossoverWindow() (int, int) {
	finish := ind.rng.Intn(len(ind.order))
	start := 0
	if finish > 0 {
		start = ind.rng.Intn(finish)
	}
	return start, finish
}

// crossoverChild builds a child that equals primary on [start, finish) and
// holds the remaining cities in the order they appear in secondary.
func crossoverChild(primary, secondary *Individual, start, finish int) *Individual {
	child := primary.Clone()
	child.hasDistance = false

	inWindow := make(map[int]struct{}, finish-start)
	for _, city := range primary.order[start:finish] {
		inWindow[city] = struct{}{}
	}

	j := 0
	for i := range child.order {
		if i >= start && i < finish {
			child.order[i] = primary.order[i]
			continue
		}
		// Skip the secondary's cities that the window already provides.
		for {
			if _, taken := inWindow[secondary.order[j]]; !taken {
				break
			}
			j++
		}
		child.order[i] = secondary.order[j]
		j++
	}

	child.mustBeValid("crossover")
	return child
}

// Fitness returns 1 / tour length: higher values are shorter, fitter tours.
func (ind *Individual) Fitness() float64 {
	return 1.0 / ind.Distance()
}

// Distance returns the total length of the closed tour.
func (ind *Individual) Distance() float64 {
	if !ind.hasDistance {
		ind.distance = ind.cities.TotalPathDistance(ind.order)
		ind.hasDistance = true
	}
	return ind.distance
}

// IsValid reports whether the tour is a permutation of [0, n): every city
// index present exactly once.
func (ind *Individual) IsValid() bool {
	if len(ind.order) != ind.cities.Size() {
		return false
	}
	sorted := make([]int, len(ind.order))
	copy(sorted, ind.order)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			return false
		}
	}
	return true
}

// mustBeValid panics if the tour is not a valid permutation. A failure here is
// a bug in an operator, not bad input.
func (ind *Individual) mustBeValid(stage string) {
	if !ind.IsValid() {
		panic(fmt.Sprintf("invalid tour after %s: %v", stage, ind.order))
	}
}

// Order returns a copy of the tour's city ordering.
func (ind *Individual) Order() []int {
	order := make([]int, len(ind.order))
	copy(order, ind.order)
	return order
}

// Len returns the number of cities in the tour.
func (ind *Individual) Len() int {
	return len(ind.order)
}

// String returns a string representation of the Individual.
func (ind *Individual) String() string {
	return fmt.Sprintf("Individual(Distance: %.4f, Order: %v)", ind.Distance(), ind.order)
}
