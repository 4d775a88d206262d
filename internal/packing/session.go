package packing

import "fmt"

// Product is a measured prism with its currently assigned orientation.
type Product struct {
	dimensions  Prism
	orientation Orientation
}

// Dimensions returns the product as measured, before rotation.
func (p Product) Dimensions() Prism { return p.dimensions }

// Orientation returns the assigned orientation.
func (p Product) Orientation() Orientation { return p.orientation }

// RotatedDimensions returns the dimensions used for packing.
func (p Product) RotatedDimensions() Prism {
	return Rotate(p.dimensions, p.orientation)
}

// Container is the fixed packing space. It is never rotated.
type Container struct {
	dimensions Prism
}

func (c Container) Dimensions() Prism { return c.dimensions }
func (c Container) Volume() float64   { return c.dimensions.Volume() }

// Session holds one container and one product under evaluation.
type Session struct {
	container  Container
	product    Product
	evaluation *Evaluation
}

// NewSession validates both prisms and starts the product at Identity.
func NewSession(container, product Prism) (*Session, error) {
	if err := container.Validate(); err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}
	return &Session{
		container: Container{dimensions: container},
		product:   Product{dimensions: product, orientation: Identity},
	}, nil
}

// Evaluate runs the orientation search and assigns the winner to the
// product. The product is left untouched when the search fails.
func (s *Session) Evaluate() (Orientation, error) {
	eval, err := Search(s.container.dimensions, s.product.dimensions)
	if err != nil {
		return Orientation{}, err
	}
	s.product.orientation = eval.Orientation
	s.evaluation = &eval
	return eval.Orientation, nil
}

func (s *Session) Container() Container { return s.container }
func (s *Session) Product() Product     { return s.product }

// Evaluation returns the last completed search, if any.
func (s *Session) Evaluation() (Evaluation, bool) {
	if s.evaluation == nil {
		return Evaluation{}, false
	}
	return *s.evaluation, true
}
