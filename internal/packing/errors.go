package packing

import "errors"

var (
	// ErrInvalidDimension is returned when a prism dimension is not a positive finite number.
	ErrInvalidDimension = errors.New("dimensions must be positive finite numbers")
	// ErrDivisionByZero is returned when a zero product dimension reaches the unit count.
	ErrDivisionByZero = errors.New("product dimension is zero, packable units are undefined")
	// ErrUnitsOverflow is returned when a unit count exceeds the range of int.
	ErrUnitsOverflow = errors.New("packable units exceed the representable range")
)
