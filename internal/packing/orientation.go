package packing

import (
	"fmt"
	"strconv"
	"strings"
)

// Orientation is a 3-bit rotation code. Each flag applies one transposition
// of the prism's dimensions; see Rotate for the order.
type Orientation struct {
	XAxis bool
	YAxis bool
	ZAxis bool
}

// Identity leaves a prism unchanged.
var Identity = Orientation{}

// candidateOrientations is the search order. Identity seeds the search and
// therefore wins every tie. (0,1,1) and (1,1,1) are absent because they
// reproduce (1,1,0) and (0,1,0).
var candidateOrientations = [...]Orientation{
	{},
	{XAxis: true},
	{XAxis: true, YAxis: true},
	{XAxis: true, ZAxis: true},
	{ZAxis: true},
	{YAxis: true},
}

// CandidateOrientations returns the six evaluated orientations in search order.
func CandidateOrientations() []Orientation {
	out := make([]Orientation, len(candidateOrientations))
	copy(out, candidateOrientations[:])
	return out
}

// IsCandidate reports whether o is one of the six evaluated orientations.
func (o Orientation) IsCandidate() bool {
	for _, c := range candidateOrientations {
		if c == o {
			return true
		}
	}
	return false
}

// Tuple returns the flags as 0/1 integers.
func (o Orientation) Tuple() (int, int, int) {
	return bit(o.XAxis), bit(o.YAxis), bit(o.ZAxis)
}

// Code renders the orientation as "(x,y,z)".
func (o Orientation) Code() string {
	x, y, z := o.Tuple()
	return fmt.Sprintf("(%d,%d,%d)", x, y, z)
}

func (o Orientation) String() string {
	return o.Code()
}

// ParseOrientation accepts "x,y,z" with optional surrounding parentheses.
// Only the six evaluated orientations are accepted.
func ParseOrientation(raw string) (Orientation, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")

	parts := strings.Split(trimmed, ",")
	if len(parts) != 3 {
		return Orientation{}, fmt.Errorf("orientation %q must have three flags", raw)
	}

	var flags [3]bool
	for i, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || (value != 0 && value != 1) {
			return Orientation{}, fmt.Errorf("orientation %q: flag %q must be 0 or 1", raw, part)
		}
		flags[i] = value == 1
	}

	o := Orientation{XAxis: flags[0], YAxis: flags[1], ZAxis: flags[2]}
	if !o.IsCandidate() {
		return Orientation{}, fmt.Errorf("orientation %s is not one of the evaluated orientations", o.Code())
	}
	return o, nil
}

// Rotate returns p's dimensions under o. The swaps are applied in order,
// each on the output of the previous one:
//  1. XAxis swaps height and depth.
//  2. YAxis swaps width and depth.
//  3. ZAxis swaps height and width.
func Rotate(p Prism, o Orientation) Prism {
	h, w, d := p.height, p.width, p.depth
	if o.XAxis {
		h, d = d, h
	}
	if o.YAxis {
		w, d = d, w
	}
	if o.ZAxis {
		h, w = w, h
	}
	return Prism{height: h, width: w, depth: d}
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
