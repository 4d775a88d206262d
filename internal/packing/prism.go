package packing

import (
	"fmt"
	"math"
)

// Axis names used in errors and reports.
const (
	AxisHeight = "height"
	AxisWidth  = "width"
	AxisDepth  = "depth"
)

// Prism is an immutable rectangular solid. The zero value is not a valid
// prism; build one with NewPrism.
type Prism struct {
	height float64
	width  float64
	depth  float64
}

// NewPrism validates the dimensions and returns the prism.
func NewPrism(height, width, depth float64) (Prism, error) {
	p := Prism{height: height, width: width, depth: depth}
	if err := p.Validate(); err != nil {
		return Prism{}, err
	}
	return p, nil
}

// MustPrism is NewPrism for literals known to be valid. It panics otherwise.
func MustPrism(height, width, depth float64) Prism {
	p, err := NewPrism(height, width, depth)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports the first dimension that is not a positive finite number.
func (p Prism) Validate() error {
	for _, dim := range []struct {
		axis  string
		value float64
	}{
		{AxisHeight, p.height},
		{AxisWidth, p.width},
		{AxisDepth, p.depth},
	} {
		if math.IsNaN(dim.value) || math.IsInf(dim.value, 0) || dim.value <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %g", ErrInvalidDimension, dim.axis, dim.value)
		}
	}
	return nil
}

func (p Prism) Height() float64 { return p.height }
func (p Prism) Width() float64  { return p.width }
func (p Prism) Depth() float64  { return p.depth }

// Dimensions returns height, width and depth in that order.
func (p Prism) Dimensions() [3]float64 {
	return [3]float64{p.height, p.width, p.depth}
}

// Volume returns height * width * depth.
func (p Prism) Volume() float64 {
	return p.height * p.width * p.depth
}

func (p Prism) String() string {
	return fmt.Sprintf("%gx%gx%g", p.height, p.width, p.depth)
}
