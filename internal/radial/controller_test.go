package radial

import (
	"fmt"
	"math"
	"testing"

	"github.com/hifivelabs/hifive/internal/graph"
	"github.com/hifivelabs/hifive/internal/layout"
)

func researcherItems(n int) []graph.Item {
	items := make([]graph.Item, n)
	for i := range items {
		items[i] = graph.Item{
			ID:     fmt.Sprintf("r%d", i),
			Label:  fmt.Sprintf("Researcher %d", i),
			Weight: float64(1000 * (n - i)), // descending scores, r0 highest
		}
	}
	return items
}

func TestNewPicksMaxScoreFocal(t *testing.T) {
	items := researcherItems(5)
	// Shuffle so the max is not first in input order.
	items[0], items[3] = items[3], items[0]

	c, err := New(items, layout.DefaultConfig(800, 600), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if c.FocalID() != "r0" {
		t.Errorf("focal = %s, want highest-score r0", c.FocalID())
	}
	if c.Nodes()[0].ID != "r0" {
		t.Errorf("focal node not first in node list: %s", c.Nodes()[0].ID)
	}
}

func TestNewBoundsWorkingSet(t *testing.T) {
	c, err := New(researcherItems(40), layout.DefaultConfig(800, 600), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(c.Nodes()) != WorkingSetSize {
		t.Errorf("working set size = %d, want %d", len(c.Nodes()), WorkingSetSize)
	}
}

func TestNewRejectsEmptyInput(t *testing.T) {
	if _, err := New(nil, layout.DefaultConfig(800, 600), nil); err == nil {
		t.Error("New(nil) succeeded, want error")
	}
}

func TestEdgesAllRunFromFocal(t *testing.T) {
	c, err := New(researcherItems(8), layout.DefaultConfig(800, 600), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	edges := c.Sim().Edges()
	if len(edges) != len(c.Nodes())-1 {
		t.Fatalf("edge count = %d, want %d", len(edges), len(c.Nodes())-1)
	}
	for _, e := range edges {
		if e.Source != 0 {
			t.Errorf("edge source index = %d, want focal index 0", e.Source)
		}
		if e.Distance <= 0 {
			t.Errorf("edge to node %d has no orbit distance", e.Target)
		}
	}
}

func TestPromoteInvariants(t *testing.T) {
	c, err := New(researcherItems(10), layout.DefaultConfig(800, 600), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Sim().Run()
	oldFocal := c.FocalID()

	if err := c.Promote("r7"); err != nil {
		t.Fatalf("Promote: %v", err)
	}

	if c.FocalID() != "r7" {
		t.Errorf("focal = %s, want r7", c.FocalID())
	}
	if c.Nodes()[0].ID != "r7" {
		t.Errorf("promoted node not moved to front: %s", c.Nodes()[0].ID)
	}

	// Exactly n-1 synthetic edges, all hub-ed on the new focal; the old
	// focal appears only as an ordinary orbiter target.
	edges := c.Sim().Edges()
	if len(edges) != len(c.Nodes())-1 {
		t.Fatalf("edge count = %d, want %d", len(edges), len(c.Nodes())-1)
	}
	oldFocalAsHub := 0
	for _, e := range edges {
		if e.Source != 0 {
			t.Errorf("edge source = %d, want 0", e.Source)
		}
		if c.Nodes()[e.Source].ID == oldFocal {
			oldFocalAsHub++
		}
	}
	if oldFocalAsHub != 0 {
		t.Errorf("old focal still hubs %d edges", oldFocalAsHub)
	}

	// Node order shifted, not lost.
	seen := map[string]int{}
	for _, n := range c.Nodes() {
		seen[n.ID]++
	}
	if len(seen) != 10 {
		t.Errorf("node set corrupted by promote: %v", seen)
	}

	// Promote restarts the cooling schedule so the transition animates.
	if c.Sim().Settled() {
		t.Error("simulation still settled after promote")
	}
	if c.Sim().Alpha() < promoteAlpha {
		t.Errorf("alpha = %v after promote, want >= %v", c.Sim().Alpha(), promoteAlpha)
	}
}

func TestPromoteUnknownNode(t *testing.T) {
	c, err := New(researcherItems(4), layout.DefaultConfig(800, 600), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Promote("nope"); err == nil {
		t.Error("Promote of unknown id succeeded")
	}
}

func TestPromoteSameFocalIsNoOp(t *testing.T) {
	c, err := New(researcherItems(4), layout.DefaultConfig(800, 600), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Sim().Run()
	if err := c.Promote(c.FocalID()); err != nil {
		t.Fatalf("Promote(current focal): %v", err)
	}
	if !c.Sim().Settled() {
		t.Error("promoting the current focal reheated the simulation")
	}
}

func TestFocalConvergesToCenter(t *testing.T) {
	cfg := layout.DefaultConfig(800, 600)
	c, err := New(researcherItems(6), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Sim().Run()

	focal := c.Nodes()[0]
	cx, cy := cfg.Width/2, cfg.Height/2
	if math.Hypot(focal.X-cx, focal.Y-cy) > 10 {
		t.Errorf("focal at (%.1f, %.1f), want near center (%.1f, %.1f)", focal.X, focal.Y, cx, cy)
	}
	if focal.VX != 0 || focal.VY != 0 {
		t.Error("focal node carries residual velocity")
	}
}

func TestSetCenterRecentersFocalAfterResize(t *testing.T) {
	c, err := New(researcherItems(6), layout.DefaultConfig(800, 600), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Sim().Run()

	c.Sim().SetSize(1100, 700)
	c.SetCenter(550, 350)
	c.Sim().Run()

	focal := c.Nodes()[0]
	if math.Hypot(focal.X-550, focal.Y-350) > 10 {
		t.Errorf("focal at (%.1f, %.1f) after resize, want near new center (550, 350)", focal.X, focal.Y)
	}
}

func TestOrbitRadiusOrderingAndJitter(t *testing.T) {
	high := OrbitRadius("a", 900, 1000)
	low := OrbitRadius("a", 100, 1000)
	if high >= low {
		t.Errorf("higher score should orbit closer: high=%v low=%v", high, low)
	}

	// Same score, different ids: deterministic but distinct radii.
	r1 := OrbitRadius("alice", 500, 1000)
	r2 := OrbitRadius("bob", 500, 1000)
	if r1 == r2 {
		t.Error("equal scores collapsed to identical radii")
	}
	if r1 != OrbitRadius("alice", 500, 1000) {
		t.Error("orbit radius not deterministic for the same id")
	}
}

func TestWobbleIsDisplayOnly(t *testing.T) {
	c, err := New(researcherItems(5), layout.DefaultConfig(800, 600), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Sim().Run()

	n := c.Nodes()[1]
	x, y := n.X, n.Y
	dx1, dy1 := WobbleAt(n.ID, 1.0)
	dx2, dy2 := WobbleAt(n.ID, 2.5)

	if n.X != x || n.Y != y {
		t.Error("wobble mutated simulation state")
	}
	if dx1 == dx2 && dy1 == dy2 {
		t.Error("wobble does not move over time")
	}
	if math.Hypot(dx1, dy1) > 10 {
		t.Errorf("wobble magnitude %v too large to be cosmetic", math.Hypot(dx1, dy1))
	}
}
