package ga

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-logr/logr"
)

// PopulationSaveData holds the parts of a Population needed to resume it.
// The city set is not saved; it is supplied again on load. Random streams
// cannot be serialized, so a restored population continues with fresh streams
// derived from Seed, Generation and NextStream: resuming is reproducible, but
// differs from a run that was never interrupted.
type PopulationSaveData struct {
	Orders       [][]int
	CitiesCount  int
	MutationRate float64
	Seed         int64
	Generation   int
	NextStream   uint64
}

// SaveCheckpoint saves the current state of the Population to a gzip-compressed file.
func (p *Population) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)

	saveData := PopulationSaveData{
		Orders:       make([][]int, len(p.individuals)),
		CitiesCount:  p.cities.Size(),
		MutationRate: p.mutationRate,
		Seed:         p.reproduction.seed,
		Generation:   p.generation,
		NextStream:   p.reproduction.nextStream,
	}
	for i, ind := range p.individuals {
		saveData.Orders[i] = ind.Order()
	}

	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode population data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint file '%s': %w", filePath, err)
	}

	p.log.V(2).Info("Checkpoint saved", "path", filePath, "generation", p.generation)
	return nil
}

// LoadCheckpoint restores a Population from a checkpoint file. cities must be
// the city set the checkpoint was taken with.
func LoadCheckpoint(checkpointPath string, cities CitySet) (*Population, error) {
	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	saveData := PopulationSaveData{}
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode population data from checkpoint: %w", err)
	}

	if saveData.CitiesCount != cities.Size() {
		return nil, fmt.Errorf("checkpoint was taken with %d cities, got %d", saveData.CitiesCount, cities.Size())
	}
	if err := validatePopulationParams(cities, len(saveData.Orders), saveData.MutationRate); err != nil {
		return nil, fmt.Errorf("invalid checkpoint: %w", err)
	}

	reproduction := NewReproduction(saveData.Seed)
	reproduction.nextStream = saveData.NextStream
	// Selection draws continue on a stream tied to the saved generation.
	reproduction.rng = rand.New(rand.NewSource(deriveSeed(saveData.Seed, ^uint64(saveData.Generation))))

	individuals := make([]*Individual, len(saveData.Orders))
	for i, order := range saveData.Orders {
		if len(order) != cities.Size() {
			return nil, fmt.Errorf("invalid checkpoint: tour %d has %d cities, want %d", i, len(order), cities.Size())
		}
		ind := &Individual{order: order, cities: cities}
		if !ind.IsValid() {
			return nil, fmt.Errorf("invalid checkpoint: tour %d is not a permutation", i)
		}
		ind.rng = reproduction.newStream()
		individuals[i] = ind
	}

	p := &Population{
		cities:       cities,
		individuals:  individuals,
		mutationRate: saveData.MutationRate,
		reproduction: reproduction,
		generation:   saveData.Generation,
		log:          logr.Discard(),
	}
	return p, nil
}
