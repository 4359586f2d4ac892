// Package ga provides a genetic-algorithm heuristic for the travelling-salesperson problem.
//
// A tour is an Individual: a permutation of city indices over a shared CitySet.
// A Population evolves a fixed, even number of tours by fitness-proportional
// (roulette) selection, swap mutation and ordered crossover, replacing the whole
// generation at every step. Fitness is the inverse of the tour length, so higher
// is better.
//
// Basic usage:
//
//	// Load the cities
//	cs, err := cities.Load("path/to/cities.tsv")
//	if err != nil {
//		log.Fatalf("Error loading cities: %v", err)
//	}
//
//	// Create a new population of 20 tours with a 10% mutation rate
//	pop, err := ga.NewPopulation(cs, 20, 0.1, 42)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	// Run for 1000 generations
//	for i := 0; i < 1000; i++ {
//		pop.ComputeNextGeneration()
//	}
//	best := pop.GetBest()
//	fmt.Println(best.Distance(), best.Order())
//
// GASearch wraps the generation loop with improvement reporting, statistics
// logging and periodic checkpoints; RandomSearch is a random-sampling baseline.
package ga
