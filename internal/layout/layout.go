// Package layout computes force-directed 2D positions for similarity graphs.
//
// The simulation is a cooled iterative solver: each tick applies link
// attraction, many-body repulsion, centering, collision avoidance, and any
// registered constraint forces, then integrates velocities and clamps the
// result to the viewport. Alpha is the decaying temperature; the run settles
// when alpha drops below AlphaMin or the tick ceiling is reached, so a
// simulation never runs unboundedly.
package layout

import (
	"math"
)

// Node is a simulation entity. Positions and velocities are owned by the
// simulation; consumers read them between ticks and never write them.
type Node struct {
	ID     string
	Label  string
	Weight float64

	// Radius is the visual circle radius derived from Weight.
	Radius float64

	X, Y   float64
	VX, VY float64

	// Pinned fixes the node at (PinX, PinY) each tick. Used for drags and
	// for the radial view's focal node.
	Pinned     bool
	PinX, PinY float64
}

// Edge links two nodes by index into the simulation's node slice. Weight is
// the similarity score in [0,1]; heavier edges are shorter and stiffer.
//
// A positive Distance overrides the weight-derived target separation. The
// radial view uses this to place orbiters at score-derived radii from the
// focal node.
type Edge struct {
	Source   int
	Target   int
	Weight   float64
	Distance float64
}

// Config holds the tuning constants for one simulation.
type Config struct {
	Width  float64
	Height float64

	// Margin keeps nodes clear of UI chrome at the viewport edges. Node
	// positions are clamped to the margin-inset rectangle after every tick,
	// and rendered edge endpoints reuse the same clamped positions.
	Margin float64

	// Link force: target separation is LinkBaseDistance − weight×LinkSpread,
	// never below LinkMinDistance. Pull strength scales with edge weight.
	LinkBaseDistance float64
	LinkSpread       float64
	LinkMinDistance  float64
	LinkStrength     float64

	// ChargeStrength is the pairwise repulsion magnitude.
	ChargeStrength float64

	// CenterStrength is the weak pull toward the viewport center.
	CenterStrength float64

	// Collision radius is the node radius plus an estimate of the rendered
	// label extent, padded by CollidePadding.
	CollidePadding float64
	LabelCharWidth float64
	LabelHeight    float64

	// Cooling schedule.
	AlphaInit     float64
	AlphaDecay    float64
	AlphaMin      float64
	VelocityDecay float64
	MaxTicks      int

	// Visual radius scale. Area, not radius, tracks weight: a square-root
	// scale keeps small citation-count differences from producing extreme
	// size differences.
	MinRadius float64
	MaxRadius float64

	// Seed for initial node placement.
	Seed int64
}

// DefaultConfig returns the tuning used by both network views.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:            width,
		Height:           height,
		Margin:           40,
		LinkBaseDistance: 180,
		LinkSpread:       120,
		LinkMinDistance:  60,
		LinkStrength:     0.4,
		ChargeStrength:   900,
		CenterStrength:   0.02,
		CollidePadding:   6,
		LabelCharWidth:   7,
		LabelHeight:      14,
		AlphaInit:        1,
		AlphaDecay:       0.0228,
		AlphaMin:         0.001,
		VelocityDecay:    0.6,
		MaxTicks:         600,
		MinRadius:        14,
		MaxRadius:        42,
		Seed:             42,
	}
}

// RadiusForWeight maps an item weight to a visual radius on a square-root
// scale against the maximum weight in the working set.
func RadiusForWeight(weight, maxWeight float64, cfg Config) float64 {
	if maxWeight <= 0 || weight <= 0 {
		return cfg.MinRadius
	}
	ratio := math.Sqrt(weight) / math.Sqrt(maxWeight)
	if ratio > 1 {
		ratio = 1
	}
	return cfg.MinRadius + ratio*(cfg.MaxRadius-cfg.MinRadius)
}

// CollisionRadius returns the separation radius for a node: its circle plus
// the estimated half-extent of its rendered label.
func CollisionRadius(n *Node, cfg Config) float64 {
	labelHalfWidth := float64(len(n.Label)) * cfg.LabelCharWidth / 2
	extent := n.Radius
	if labelHalfWidth > extent {
		extent = labelHalfWidth
	}
	return extent + cfg.LabelHeight/2 + cfg.CollidePadding
}

// clamp limits v to the [lo, hi] interval.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// finite reports whether v is a usable coordinate.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
