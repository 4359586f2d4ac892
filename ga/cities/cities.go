// Package cities provides the city set consumed by the ga package: an immutable,
// ordered list of points on the plane with a precomputed Euclidean distance matrix.
package cities

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmpty is returned when a city set would contain no cities.
	ErrEmpty = errors.New("cities: empty city set")
	// ErrOutOfRange is returned when an ordering references a city index outside the set.
	ErrOutOfRange = errors.New("cities: index out of range")
)

// Point is a city location.
type Point struct {
	X float64
	Y float64
}

// Cities is an immutable set of city locations.
// It is safe to share one Cities value between any number of tours.
type Cities struct {
	points []Point
	dist   *mat.Dense // Symmetric pairwise distances, zero diagonal.
}

// New builds a city set from the given points. The points are copied.
func New(points []Point) (*Cities, error) {
	if len(points) == 0 {
		return nil, ErrEmpty
	}
	pts := make([]Point, len(points))
	copy(pts, points)

	n := len(pts)
	dist := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(pts[i], pts[j])
			dist.Set(i, j, d)
			dist.Set(j, i, d)
		}
	}
	return &Cities{points: pts, dist: dist}, nil
}

// Random places n cities uniformly in the square [0, extent) x [0, extent).
func Random(n int, extent float64, rng *rand.Rand) (*Cities, error) {
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{X: rng.Float64() * extent, Y: rng.Float64() * extent}
	}
	return New(points)
}

// euclidean returns the straight-line distance between two points.
func euclidean(a, b Point) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// Size returns the number of cities.
func (c *Cities) Size() int {
	return len(c.points)
}

// Point returns the location of city i.
func (c *Cities) Point(i int) Point {
	return c.points[i]
}

// Points returns a copy of all city locations in file order.
func (c *Cities) Points() []Point {
	pts := make([]Point, len(c.points))
	copy(pts, c.points)
	return pts
}

// Distance returns the distance between cities i and j.
func (c *Cities) Distance(i, j int) float64 {
	return c.dist.At(i, j)
}

// TotalPathDistance returns the length of the closed tour that visits the cities
// in the given order and returns to the first one.
// The order must only hold valid city indices; it is not checked here.
func (c *Cities) TotalPathDistance(order []int) float64 {
	if len(order) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(order); i++ {
		total += c.dist.At(order[i-1], order[i])
	}
	total += c.dist.At(order[len(order)-1], order[0])
	return total
}

// Reorder returns a new city set whose i-th city is the order[i]-th city of c.
// Used to write a tour out in visiting order.
func (c *Cities) Reorder(order []int) (*Cities, error) {
	pts := make([]Point, 0, len(order))
	for pos, idx := range order {
		if idx < 0 || idx >= len(c.points) {
			return nil, fmt.Errorf("position %d holds city %d of %d: %w", pos, idx, len(c.points), ErrOutOfRange)
		}
		pts = append(pts, c.points[idx])
	}
	return New(pts)
}
