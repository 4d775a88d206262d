// Package packing selects the axis-aligned orientation of a rectangular
// product that lets the most whole copies fit into a rectangular container.
// Copies are counted by independent per-axis grid division, not by true
// three-dimensional bin packing.
package packing
