package packing

// Packer describes the behaviour required from an orientation evaluator.
type Packer interface {
	Evaluate(container, product Prism) (Evaluation, error)
}

type gridPacker struct{}

// New creates a Packer that runs one Session per call.
func New() Packer {
	return &gridPacker{}
}

func (g *gridPacker) Evaluate(container, product Prism) (Evaluation, error) {
	session, err := NewSession(container, product)
	if err != nil {
		return Evaluation{}, err
	}
	if _, err := session.Evaluate(); err != nil {
		return Evaluation{}, err
	}
	eval, _ := session.Evaluation()
	return eval, nil
}
