package layout

import (
	"math"
	"math/rand"
)

// Force is a custom constraint applied every tick before integration. The
// radial view registers its focal-pin force through this interface.
type Force interface {
	Apply(nodes []*Node, alpha float64)
}

// Simulation owns the canonical node positions for one render. It is not safe
// for concurrent use; drive it from a single goroutine (see Runner).
type Simulation struct {
	cfg   Config
	nodes []*Node
	edges []Edge

	alpha       float64
	alphaTarget float64
	ticks       int

	forces  []Force
	dragged map[string]bool
	rng     *rand.Rand
}

// New creates a simulation and scatters any unpositioned nodes around the
// viewport center. Node radii are derived from weights if unset.
func New(nodes []*Node, edges []Edge, cfg Config) *Simulation {
	s := &Simulation{
		cfg:     cfg,
		nodes:   nodes,
		edges:   edges,
		alpha:   cfg.AlphaInit,
		dragged: make(map[string]bool),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}

	maxWeight := 0.0
	for _, n := range nodes {
		if n.Weight > maxWeight {
			maxWeight = n.Weight
		}
	}

	cx, cy := cfg.Width/2, cfg.Height/2
	for _, n := range nodes {
		if n.Radius == 0 {
			n.Radius = RadiusForWeight(n.Weight, maxWeight, cfg)
		}
		if n.X == 0 && n.Y == 0 {
			n.X = cx + (s.rng.Float64()-0.5)*cfg.Width*0.6
			n.Y = cy + (s.rng.Float64()-0.5)*cfg.Height*0.6
		}
	}

	return s
}

// Nodes exposes the canonical node slice for read-only consumers.
func (s *Simulation) Nodes() []*Node { return s.nodes }

// Edges exposes the current edge slice.
func (s *Simulation) Edges() []Edge { return s.edges }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks returns how many ticks have run.
func (s *Simulation) Ticks() int { return s.ticks }

// AddForce registers a custom constraint force.
func (s *Simulation) AddForce(f Force) {
	s.forces = append(s.forces, f)
}

// SetEdges swaps the edge set without rebuilding node state, for incremental
// graph mutation. Callers reheat afterwards so the change animates.
func (s *Simulation) SetEdges(edges []Edge) {
	s.edges = edges
}

// Reheat raises alpha so a mutated graph animates toward its new equilibrium
// instead of snapping, and clears the tick budget for the new run.
func (s *Simulation) Reheat(alpha float64) {
	if alpha > s.alpha {
		s.alpha = alpha
	}
	s.ticks = 0
}

// SetAlphaTarget sets the floor alpha decays toward. A non-zero target keeps
// the system warm during drags.
func (s *Simulation) SetAlphaTarget(target float64) {
	s.alphaTarget = target
}

// SetSize re-targets the centering force after a viewport resize. The layout
// is preserved; a small reheat nudges nodes toward the new center.
func (s *Simulation) SetSize(width, height float64) {
	s.cfg.Width = width
	s.cfg.Height = height
	s.Reheat(0.3)
}

// Settled reports whether the cooling schedule has finished.
func (s *Simulation) Settled() bool {
	if s.ticks >= s.cfg.MaxTicks {
		return true
	}
	return s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin
}

// Tick advances the simulation one step. It reports whether the simulation is
// still running; once settled it becomes a no-op returning false.
func (s *Simulation) Tick() bool {
	if s.Settled() || len(s.nodes) == 0 {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	for _, f := range s.forces {
		f.Apply(s.nodes, s.alpha)
	}
	s.integrate()
	s.resolveCollisions()
	s.clampPositions()

	s.ticks++
	return !s.Settled()
}

// Run ticks until the simulation settles and returns the tick count.
func (s *Simulation) Run() int {
	for s.Tick() {
	}
	return s.ticks
}

// applyLinks pulls connected nodes toward a target separation that shrinks as
// edge weight grows: stronger topical relation, shorter and stiffer spring.
func (s *Simulation) applyLinks() {
	for _, e := range s.edges {
		if e.Source < 0 || e.Target < 0 || e.Source >= len(s.nodes) || e.Target >= len(s.nodes) {
			continue
		}
		a, b := s.nodes[e.Source], s.nodes[e.Target]

		dx, dy := b.X-a.X, b.Y-a.Y
		dist := math.Hypot(dx, dy)
		if dist < 1e-6 {
			dx, dy = s.jiggle(), s.jiggle()
			dist = math.Hypot(dx, dy)
		}

		target := e.Distance
		if target <= 0 {
			target = clamp(s.cfg.LinkBaseDistance-e.Weight*s.cfg.LinkSpread,
				s.cfg.LinkMinDistance, s.cfg.LinkBaseDistance)
		}
		strength := s.cfg.LinkStrength * e.Weight * s.alpha
		pull := (dist - target) / dist * strength

		a.VX += dx * pull / 2
		a.VY += dy * pull / 2
		b.VX -= dx * pull / 2
		b.VY -= dy * pull / 2
	}
}

// applyCharge repels every node pair so unrelated nodes spread apart.
func (s *Simulation) applyCharge() {
	for i := range s.nodes {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]

			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			if dist < 1e-6 {
				dx, dy = s.jiggle(), s.jiggle()
				dist = math.Hypot(dx, dy)
			}

			push := s.cfg.ChargeStrength * s.alpha / (dist * dist)
			a.VX -= dx / dist * push
			a.VY -= dy / dist * push
			b.VX += dx / dist * push
			b.VY += dy / dist * push
		}
	}
}

// applyCenter pulls the system weakly toward the viewport center so the
// layout never drifts off-screen.
func (s *Simulation) applyCenter() {
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	for _, n := range s.nodes {
		n.VX += (cx - n.X) * s.cfg.CenterStrength * s.alpha
		n.VY += (cy - n.Y) * s.cfg.CenterStrength * s.alpha
	}
}

// integrate applies velocity decay, moves nodes, and enforces pins. Pinned
// nodes shed their velocity so they pick up no residual momentum.
func (s *Simulation) integrate() {
	for _, n := range s.nodes {
		if n.Pinned {
			n.X, n.Y = n.PinX, n.PinY
			n.VX, n.VY = 0, 0
			continue
		}

		n.VX *= s.cfg.VelocityDecay
		n.VY *= s.cfg.VelocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
}

// resolveCollisions separates overlapping nodes by their collision radii,
// which include an estimate of each label's rendered extent so text does not
// overlap, not just circles.
func (s *Simulation) resolveCollisions() {
	for i := range s.nodes {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]

			minDist := CollisionRadius(a, s.cfg) + CollisionRadius(b, s.cfg)
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			if dist >= minDist {
				continue
			}
			if dist < 1e-6 {
				dx, dy = s.jiggle(), s.jiggle()
				dist = math.Hypot(dx, dy)
			}

			overlap := (minDist - dist) / dist
			shiftX, shiftY := dx*overlap/2, dy*overlap/2

			switch {
			case a.Pinned && b.Pinned:
				// Both fixed; leave them.
			case a.Pinned:
				b.X += shiftX * 2
				b.Y += shiftY * 2
			case b.Pinned:
				a.X -= shiftX * 2
				a.Y -= shiftY * 2
			default:
				a.X -= shiftX
				a.Y -= shiftY
				b.X += shiftX
				b.Y += shiftY
			}
		}
	}
}

// clampPositions keeps every node inside the margin-inset viewport and resets
// any non-finite coordinate to the center. A NaN that escaped into positions
// would silently freeze the layout, so the guard is unconditional.
func (s *Simulation) clampPositions() {
	for _, n := range s.nodes {
		if !finite(n.X) || !finite(n.Y) || !finite(n.VX) || !finite(n.VY) {
			n.X, n.Y = s.cfg.Width/2, s.cfg.Height/2
			n.VX, n.VY = 0, 0
			continue
		}
		n.X = clamp(n.X, s.cfg.Margin, s.cfg.Width-s.cfg.Margin)
		n.Y = clamp(n.Y, s.cfg.Margin, s.cfg.Height-s.cfg.Margin)
	}
}

// jiggle returns a tiny random offset to break exact coincidence.
func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-3
}
