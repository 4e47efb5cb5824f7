// Package radial maintains the focal-node bubble view: one node pinned at the
// layout center with the rest orbiting at score-derived radii, and a promote
// operation that re-roots the view on a different node.
package radial

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/hifivelabs/hifive/internal/graph"
	"github.com/hifivelabs/hifive/internal/layout"
)

const (
	// WorkingSetSize bounds how many items the radial view shows.
	WorkingSetSize = 15

	// promoteAlpha is the reheat used when the focal node changes, so the
	// transition animates instead of snapping.
	promoteAlpha = 0.8

	// Orbit geometry: the highest-scoring orbiter sits at OrbitBase, the
	// lowest at OrbitBase+OrbitSpread, plus a per-node jitter so equal
	// scores do not collapse onto a single ring.
	OrbitBase      = 150.0
	OrbitSpread    = 150.0
	OrbitJitterMax = 24.0

	// focalPullStrength glides the focal node toward the center each tick.
	focalPullStrength = 0.25
)

// ErrUnknownNode is returned by Promote for an id outside the working set.
var ErrUnknownNode = errors.New("node not in radial working set")

// Controller owns the node set of one radial render. The focal node is kept
// first in the node slice for consistent z-ordering; every edge runs from the
// focal node to an orbiter and is regenerated whenever the focal changes.
type Controller struct {
	cfg layout.Config
	log zerolog.Logger

	sim      *layout.Simulation
	nodes    []*layout.Node
	focalID  string
	maxScore float64
	pin      *focalPin
}

// New builds a radial controller from the given items. Items beyond the
// working set, after sorting by score, are dropped. The initial focal node is
// the item with the maximum score.
func New(items []graph.Item, cfg layout.Config, logger *zerolog.Logger) (*Controller, error) {
	if len(items) == 0 {
		return nil, errors.New("radial view needs at least one item")
	}

	sorted := make([]graph.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})
	if len(sorted) > WorkingSetSize {
		sorted = sorted[:WorkingSetSize]
	}

	c := &Controller{
		cfg:      cfg,
		log:      nopIfNil(logger),
		maxScore: sorted[0].Weight,
		focalID:  sorted[0].ID,
	}

	c.nodes = make([]*layout.Node, 0, len(sorted))
	for _, item := range sorted {
		c.nodes = append(c.nodes, &layout.Node{
			ID:     item.ID,
			Label:  item.Label,
			Weight: item.Weight,
		})
	}

	c.pin = &focalPin{cx: cfg.Width / 2, cy: cfg.Height / 2}
	c.pin.focalID = c.focalID

	c.sim = layout.New(c.nodes, c.focalEdges(), cfg)
	c.sim.AddForce(c.pin)

	// Start the focal node at the center so the first frame is already
	// recognizably radial.
	c.nodes[0].X = cfg.Width / 2
	c.nodes[0].Y = cfg.Height / 2

	return c, nil
}

// Sim exposes the underlying simulation for the runner and renderer.
func (c *Controller) Sim() *layout.Simulation { return c.sim }

// Nodes returns the node slice, focal node first.
func (c *Controller) Nodes() []*layout.Node { return c.nodes }

// FocalID returns the id of the current focal node.
func (c *Controller) FocalID() string { return c.focalID }

// SetCenter retargets the focal pin, keeping the focal node anchored at the
// layout center after a viewport resize.
func (c *Controller) SetCenter(cx, cy float64) {
	c.pin.cx = cx
	c.pin.cy = cy
}

// Promote re-roots the view on the node with the given id: the old focal is
// demoted, the new focal moves to the front of the node list, every edge and
// orbit radius is regenerated, and the simulation restarts warm. The whole
// transition happens in one call so no consumer observes two focal nodes or
// none.
func (c *Controller) Promote(id string) error {
	if id == c.focalID {
		return nil
	}

	idx := -1
	for i, n := range c.nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	// Demote: the old focal sheds any pin it picked up and re-joins free
	// simulation as an ordinary orbiter.
	c.nodes[0].Pinned = false

	promoted := c.nodes[idx]
	copy(c.nodes[1:idx+1], c.nodes[:idx])
	c.nodes[0] = promoted

	c.focalID = id
	c.pin.focalID = id
	c.recomputeMaxScore()

	c.sim.SetEdges(c.focalEdges())
	c.sim.Reheat(promoteAlpha)

	c.log.Debug().Str("focal", id).Msg("focal node promoted")
	return nil
}

// recomputeMaxScore refreshes the score ceiling orbit radii are derived from.
func (c *Controller) recomputeMaxScore() {
	c.maxScore = 0
	for _, n := range c.nodes {
		if n.Weight > c.maxScore {
			c.maxScore = n.Weight
		}
	}
}

// focalEdges generates the synthetic focal-to-orbiter edge set. The focal
// node is index 0 by construction.
func (c *Controller) focalEdges() []layout.Edge {
	edges := make([]layout.Edge, 0, len(c.nodes)-1)
	for i := 1; i < len(c.nodes); i++ {
		n := c.nodes[i]
		edges = append(edges, layout.Edge{
			Source:   0,
			Target:   i,
			Weight:   scoreRatio(n.Weight, c.maxScore),
			Distance: OrbitRadius(n.ID, n.Weight, c.maxScore),
		})
	}
	return edges
}

// OrbitRadius returns the target distance from the focal node for an orbiter:
// higher scores orbit closer, and a deterministic per-id jitter keeps
// same-score nodes off a single degenerate ring.
func OrbitRadius(id string, score, maxScore float64) float64 {
	return OrbitBase + (1-scoreRatio(score, maxScore))*OrbitSpread + idJitter(id)
}

// scoreRatio normalizes a score against the working-set maximum.
func scoreRatio(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	r := score / maxScore
	if r > 1 {
		r = 1
	}
	if r < 0 {
		r = 0
	}
	return r
}

// idJitter derives a stable offset in [0, OrbitJitterMax) from a node id.
func idJitter(id string) float64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return float64(h.Sum32()%1000) / 1000 * OrbitJitterMax
}

// focalPin is the constraint force that drags the focal node toward the
// viewport center every tick and zeroes its velocity so it never picks up
// residual momentum from neighboring interactions.
type focalPin struct {
	focalID string
	cx, cy  float64
}

func (f *focalPin) Apply(nodes []*layout.Node, alpha float64) {
	for _, n := range nodes {
		if n.ID != f.focalID {
			continue
		}
		n.X += (f.cx - n.X) * focalPullStrength
		n.Y += (f.cy - n.Y) * focalPullStrength
		n.VX, n.VY = 0, 0
		return
	}
}

// WobbleAt returns the display-only orbit decoration offset for a node at
// clock parameter t (seconds). It is a pure function of the id and the clock,
// is never written back into simulation state, and so cannot destabilize the
// physics.
func WobbleAt(id string, t float64) (dx, dy float64) {
	phase := float64(hashOf(id)%628) / 100 // 0 .. 2π
	return 3 * math.Cos(t*0.8+phase), 3 * math.Sin(t*0.8+phase)
}

func hashOf(id string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()
}

func nopIfNil(logger *zerolog.Logger) zerolog.Logger {
	if logger == nil {
		return zerolog.Nop()
	}
	return *logger
}
