package packing

import (
	"errors"
	"testing"
)

func TestNewSessionValidatesInputs(t *testing.T) {
	t.Parallel()

	if _, err := NewSession(MustPrism(1, 1, 1), Prism{}); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension for product, got %v", err)
	}
	if _, err := NewSession(Prism{}, MustPrism(1, 1, 1)); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension for container, got %v", err)
	}
}

func TestSessionEvaluateAssignsWinner(t *testing.T) {
	t.Parallel()

	session, err := NewSession(MustPrism(10, 10, 2), MustPrism(1, 1, 3))
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}

	if got := session.Product().Orientation(); got != Identity {
		t.Fatalf("expected identity before evaluation, got %s", got)
	}
	if _, ok := session.Evaluation(); ok {
		t.Fatalf("expected no evaluation before Evaluate")
	}

	orientation, err := session.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if want := (Orientation{XAxis: true}); orientation != want {
		t.Fatalf("expected %s, got %s", want, orientation)
	}

	product := session.Product()
	if product.Orientation() != orientation {
		t.Fatalf("expected product orientation %s, got %s", orientation, product.Orientation())
	}
	if got, want := product.RotatedDimensions().Dimensions(), [3]float64{3, 1, 1}; got != want {
		t.Fatalf("expected rotated dimensions %v, got %v", want, got)
	}
	if got := product.Dimensions().Dimensions(); got != [3]float64{1, 1, 3} {
		t.Fatalf("measured dimensions must not change, got %v", got)
	}

	eval, ok := session.Evaluation()
	if !ok || eval.Units != 60 {
		t.Fatalf("expected recorded evaluation with 60 units, got %+v", eval)
	}
	if session.Container().Volume() != 200 {
		t.Fatalf("unexpected container volume %v", session.Container().Volume())
	}
}

func TestSessionEvaluateIsRepeatable(t *testing.T) {
	t.Parallel()

	session, err := NewSession(MustPrism(2, 1, 10), MustPrism(2, 10, 1))
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}

	first, err := session.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	second, err := session.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical results, got %s and %s", first, second)
	}
}

func TestPackerEvaluate(t *testing.T) {
	t.Parallel()

	eval, err := New().Evaluate(MustPrism(10, 10, 10), MustPrism(5, 5, 5))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if eval.Orientation != Identity || eval.Units != 8 {
		t.Fatalf("unexpected evaluation: %+v", eval)
	}

	if _, err := New().Evaluate(MustPrism(1, 1, 1), Prism{}); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
}
