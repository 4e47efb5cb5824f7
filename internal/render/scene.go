// Package render turns simulation state into drawable frames and export
// formats. It only ever reads node positions; every visual adjustment
// (wobble decoration, endpoint clamping, label wrapping) happens on the
// frame, never on the physics state.
package render

import (
	"math"

	"github.com/hifivelabs/hifive/internal/layout"
	"github.com/hifivelabs/hifive/internal/radial"
)

// Mode selects the view a frame is rendered for.
type Mode int

const (
	// NetworkMode is the clustered topic network: node clicks navigate.
	NetworkMode Mode = iota

	// RadialMode is the focal bubble view: node clicks promote.
	RadialMode
)

// Circle is one drawable node.
type Circle struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Lines  []string `json:"lines"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Radius float64  `json:"radius"`

	// Cluster indexes the cluster legend; -1 when unclustered.
	Cluster int  `json:"cluster"`
	Focal   bool `json:"focal,omitempty"`

	Tooltip map[string]string `json:"tooltip,omitempty"`
}

// Segment is one drawable edge with endpoints taken from the clamped node
// positions, so a drawn line can never diverge from its nodes.
type Segment struct {
	SourceID string  `json:"sourceId"`
	TargetID string  `json:"targetId"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	Weight   float64 `json:"weight"`
}

// LegendEntry is one cluster with its member count.
type LegendEntry struct {
	Cluster int `json:"cluster"`
	Count   int `json:"count"`
}

// Frame is one drawable snapshot of a simulation.
type Frame struct {
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Mode     Mode          `json:"mode"`
	Circles  []Circle      `json:"circles"`
	Segments []Segment     `json:"segments"`
	Legend   []LegendEntry `json:"legend,omitempty"`
	Settled  bool          `json:"settled"`
	Alpha    float64       `json:"alpha"`
}

// SnapshotOptions configures frame building.
type SnapshotOptions struct {
	Mode Mode

	// ClusterOf maps node id to cluster index for coloring; nil leaves all
	// circles unclustered.
	ClusterOf map[string]int
	Legend    []LegendEntry

	// FocalID marks the focal circle in radial mode.
	FocalID string

	// Clock drives the display-only orbit wobble in radial mode, in
	// seconds. Zero disables the decoration.
	Clock float64

	// Tooltips maps node id to tooltip fields carried through untouched.
	Tooltips map[string]map[string]string

	// LabelMaxWidthPx bounds wrapped label lines. Zero uses a default
	// proportional to node size.
	LabelMaxWidthPx float64
}

// defaultLabelWidthPx bounds wrapped label lines when no width is configured.
const defaultLabelWidthPx = 110.0

// Snapshot builds a frame from the current simulation state. The simulation
// is only read; the wobble decoration is added to the frame coordinates and
// never written back.
func Snapshot(sim *layout.Simulation, cfg layout.Config, opts SnapshotOptions) Frame {
	labelWidth := opts.LabelMaxWidthPx
	if labelWidth <= 0 {
		labelWidth = defaultLabelWidthPx
	}

	nodes := sim.Nodes()
	frame := Frame{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Mode:    opts.Mode,
		Circles: make([]Circle, 0, len(nodes)),
		Legend:  opts.Legend,
		Settled: sim.Settled(),
		Alpha:   sim.Alpha(),
	}

	positions := make(map[string][2]float64, len(nodes))
	for _, n := range nodes {
		x, y := n.X, n.Y
		if opts.Mode == RadialMode && opts.Clock != 0 && n.ID != opts.FocalID {
			dx, dy := radial.WobbleAt(n.ID, opts.Clock)
			x = clampCoord(x+dx, cfg.Margin, cfg.Width-cfg.Margin)
			y = clampCoord(y+dy, cfg.Margin, cfg.Height-cfg.Margin)
		}
		positions[n.ID] = [2]float64{x, y}

		cluster := -1
		if opts.ClusterOf != nil {
			if ci, ok := opts.ClusterOf[n.ID]; ok {
				cluster = ci
			}
		}

		frame.Circles = append(frame.Circles, Circle{
			ID:      n.ID,
			Label:   n.Label,
			Lines:   WrapLabel(n.Label, labelWidth),
			X:       x,
			Y:       y,
			Radius:  n.Radius,
			Cluster: cluster,
			Focal:   opts.Mode == RadialMode && n.ID == opts.FocalID,
			Tooltip: opts.Tooltips[n.ID],
		})
	}

	for _, e := range sim.Edges() {
		if e.Source < 0 || e.Target < 0 || e.Source >= len(nodes) || e.Target >= len(nodes) {
			continue
		}
		src, dst := nodes[e.Source], nodes[e.Target]
		p1, p2 := positions[src.ID], positions[dst.ID]
		frame.Segments = append(frame.Segments, Segment{
			SourceID: src.ID,
			TargetID: dst.ID,
			X1:       p1[0],
			Y1:       p1[1],
			X2:       p2[0],
			Y2:       p2[1],
			Weight:   e.Weight,
		})
	}

	return frame
}

// HitTest returns the id of the topmost circle containing the point, if any.
// Circles earlier in the frame sit higher in the z-order, matching the focal
// node's front position in the node list.
func (f *Frame) HitTest(x, y float64) (string, bool) {
	for _, c := range f.Circles {
		if math.Hypot(c.X-x, c.Y-y) <= c.Radius {
			return c.ID, true
		}
	}
	return "", false
}

// TooltipAt returns the tooltip payload for the circle under the pointer and
// the position to show it at, offset from the pointer coordinates.
func (f *Frame) TooltipAt(x, y float64) (map[string]string, float64, float64, bool) {
	id, ok := f.HitTest(x, y)
	if !ok {
		return nil, 0, 0, false
	}
	for _, c := range f.Circles {
		if c.ID == id {
			return c.Tooltip, x + 12, y + 12, true
		}
	}
	return nil, 0, 0, false
}

func clampCoord(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
