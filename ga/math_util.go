package ga

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes the tour lengths of one generation.
type GenerationStats struct {
	Generation    int
	BestDistance  float64
	MeanDistance  float64
	StdDev        float64 // Sample standard deviation of distances
	WorstDistance float64
	TotalFitness  float64
}

// Stats computes distance statistics over the current generation.
func (p *Population) Stats() GenerationStats {
	distances := make([]float64, len(p.individuals))
	fitnesses := make([]float64, len(p.individuals))
	for i, ind := range p.individuals {
		distances[i] = ind.Distance()
		fitnesses[i] = ind.Fitness()
	}
	mean, std := stat.MeanStdDev(distances, nil)
	if len(distances) < 2 {
		std = 0
	}
	return GenerationStats{
		Generation:    p.generation,
		BestDistance:  floats.Min(distances),
		MeanDistance:  mean,
		StdDev:        std,
		WorstDistance: floats.Max(distances),
		TotalFitness:  floats.Sum(fitnesses),
	}
}

// KeysAndValues flattens the stats for structured logging.
func (s GenerationStats) KeysAndValues() []interface{} {
	return []interface{}{
		"generation", s.Generation,
		"best", round(s.BestDistance, 4),
		"mean", round(s.MeanDistance, 4),
		"stddev", round(s.StdDev, 4),
		"worst", round(s.WorstDistance, 4),
	}
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
