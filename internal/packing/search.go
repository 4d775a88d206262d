package packing

import (
	"fmt"
	"math"
)

// maxCount is math.MaxInt as a float64 (2^63 on 64-bit platforms).
const maxCount = float64(math.MaxInt)

// Candidate is one orientation tried during a search.
type Candidate struct {
	Orientation Orientation
	Rotated     Prism
	Units       int
}

// Evaluation records a completed search.
type Evaluation struct {
	Container   Prism
	Product     Prism
	Orientation Orientation
	Rotated     Prism
	Units       int
	// Utilization is the fraction of container volume occupied by Units
	// copies. It is reported only and never used to rank orientations.
	Utilization float64
	Candidates  []Candidate
}

// PackableUnits counts the whole copies of product that fit in container on
// a uniform grid: trunc(cW/pW) * trunc(cD/pD) * trunc(cH/pH). Any empty axis
// yields zero; a count that does not fit in an int returns ErrUnitsOverflow.
func PackableUnits(container, product Prism) (int, error) {
	if product.height == 0 || product.width == 0 || product.depth == 0 {
		return 0, fmt.Errorf("%w: product %s", ErrDivisionByZero, product)
	}

	quotients := [3]float64{
		math.Trunc(container.width / product.width),
		math.Trunc(container.depth / product.depth),
		math.Trunc(container.height / product.height),
	}
	for _, q := range quotients {
		if q == 0 {
			return 0, nil
		}
	}

	units := 1
	for _, q := range quotients {
		if !(q < maxCount) {
			return 0, fmt.Errorf("%w: %g copies along one axis of %s in %s", ErrUnitsOverflow, q, product, container)
		}
		n := int(q)
		if units > math.MaxInt/n {
			return 0, fmt.Errorf("%w: %s in %s", ErrUnitsOverflow, product, container)
		}
		units *= n
	}

	return units, nil
}

// FindOptimalOrientation returns the orientation of product that maximises
// PackableUnits in container.
func FindOptimalOrientation(container, product Prism) (Orientation, error) {
	eval, err := Search(container, product)
	if err != nil {
		return Orientation{}, err
	}
	return eval.Orientation, nil
}

// Search evaluates every candidate orientation in order. A later candidate
// replaces the best only with a strictly greater count, so identity wins
// every tie and otherwise the first maximal candidate wins.
func Search(container, product Prism) (Evaluation, error) {
	if err := container.Validate(); err != nil {
		return Evaluation{}, fmt.Errorf("container: %w", err)
	}
	if err := product.Validate(); err != nil {
		return Evaluation{}, fmt.Errorf("product: %w", err)
	}

	candidates := make([]Candidate, 0, len(candidateOrientations))
	best := -1
	for _, orientation := range candidateOrientations {
		rotated := Rotate(product, orientation)
		units, err := PackableUnits(container, rotated)
		if err != nil {
			return Evaluation{}, err
		}
		candidates = append(candidates, Candidate{
			Orientation: orientation,
			Rotated:     rotated,
			Units:       units,
		})
		if best < 0 || units > candidates[best].Units {
			best = len(candidates) - 1
		}
	}

	winner := candidates[best]
	return Evaluation{
		Container:   container,
		Product:     product,
		Orientation: winner.Orientation,
		Rotated:     winner.Rotated,
		Units:       winner.Units,
		Utilization: float64(winner.Units) * product.Volume() / container.Volume(),
		Candidates:  candidates,
	}, nil
}
