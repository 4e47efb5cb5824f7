// Package view orchestrates one rendered scene: it loads data, builds the
// similarity graph and clusters, drives the layout simulation, and answers
// frame and click requests. A State owns exactly one scene; switching views
// means building a new State.
package view

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hifivelabs/hifive/internal/cluster"
	"github.com/hifivelabs/hifive/internal/feed"
	"github.com/hifivelabs/hifive/internal/graph"
	"github.com/hifivelabs/hifive/internal/layout"
	"github.com/hifivelabs/hifive/internal/radial"
	"github.com/hifivelabs/hifive/internal/render"
	"github.com/hifivelabs/hifive/internal/similarity"
)

// Kind selects what a State renders.
type Kind int

const (
	// TopicNetwork is the clustered trending-topic graph.
	TopicNetwork Kind = iota

	// ResearcherNetwork links researchers who share a topic token.
	ResearcherNetwork

	// ResearcherRadial is the focal-node bubble view over researchers.
	ResearcherRadial
)

// Source provides the data a view renders. *feed.Client satisfies it; tests
// substitute fixtures.
type Source interface {
	TrendingTopics(ctx context.Context) ([]feed.Topic, error)
	SearchResearchers(ctx context.Context, filter feed.ResearcherFilter) ([]feed.Researcher, error)
}

// Options configures a State.
type Options struct {
	Kind   Kind
	Filter feed.ResearcherFilter

	// Width and Height size the viewport in pixels. Zero uses the layout
	// defaults.
	Width, Height float64

	// Source is the live data source. Nil renders the built-in sample
	// datasets directly.
	Source Source

	// Offline forces the sample datasets even when a Source is set.
	Offline bool

	// TickInterval overrides the runner cadence, mainly for tests.
	TickInterval time.Duration

	// OnFrame receives a fresh frame after every simulation tick.
	OnFrame func(render.Frame)

	// OnNavigate receives clicks on network-view nodes. The id and label
	// identify the item; building a destination URL is the caller's job.
	OnNavigate func(id, label string)

	Logger *zerolog.Logger
}

// State is one live scene. All exported methods are safe for concurrent use.
type State struct {
	id   uuid.UUID
	opts Options
	cfg  layout.Config
	log  zerolog.Logger

	mu sync.Mutex

	// pending tags the in-flight load; a completed load applies only if its
	// token is still the pending one, so a rapid reload cannot be overwritten
	// by a slow stale response.
	pending uuid.UUID

	items     []graph.Item
	clusterOf map[string]int
	legend    []render.LegendEntry

	sim    *layout.Simulation
	orbit  *radial.Controller
	runner *layout.Runner

	usedFallback bool
	empty        bool
}

// New creates a State. Call Load before requesting frames.
func New(opts Options) *State {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 900
	}
	if height <= 0 {
		height = 640
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	s := &State{
		id:   uuid.New(),
		opts: opts,
		cfg:  layout.DefaultConfig(width, height),
		log:  log,
	}
	s.log = s.log.With().Str("view", s.id.String()[:8]).Logger()
	return s
}

// Load fetches data, builds the scene, and starts the simulation. Calling it
// again reloads: the previous run is stopped and a load that was still in
// flight is discarded when it completes.
func (s *State) Load(ctx context.Context) error {
	token := uuid.New()
	s.mu.Lock()
	s.pending = token
	s.mu.Unlock()

	items, fallback, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	// Stop the old run outside s.mu: its tick callback takes s.mu to build
	// frames, so stopping under the lock could deadlock.
	s.mu.Lock()
	if s.pending != token {
		s.mu.Unlock()
		s.log.Debug().Msg("discarding stale load")
		return nil
	}
	oldRunner := s.runner
	s.runner = nil
	s.mu.Unlock()
	if oldRunner != nil {
		oldRunner.Stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != token {
		s.log.Debug().Msg("discarding stale load")
		return nil
	}
	s.usedFallback = fallback
	return s.applyLocked(items)
}

// fetch returns the scene's items and whether the sample fallback was used.
func (s *State) fetch(ctx context.Context) (items []graph.Item, fallback bool, err error) {
	switch s.opts.Kind {
	case TopicNetwork:
		topics, fb, err := s.fetchTopics(ctx)
		if err != nil {
			return nil, false, err
		}
		return topicItems(topics), fb, nil
	default:
		researchers, fb, err := s.fetchResearchers(ctx)
		if err != nil {
			return nil, false, err
		}
		return researcherItems(researchers), fb, nil
	}
}

func (s *State) fetchTopics(ctx context.Context) ([]feed.Topic, bool, error) {
	if s.opts.Source == nil || s.opts.Offline {
		return feed.MockTrending(), s.opts.Source != nil, nil
	}
	topics, err := s.opts.Source.TrendingTopics(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("topic fetch failed, using sample data")
		return feed.MockTrending(), true, nil
	}
	return topics, false, nil
}

func (s *State) fetchResearchers(ctx context.Context) ([]feed.Researcher, bool, error) {
	if s.opts.Source == nil || s.opts.Offline {
		return feed.FilterResearchers(feed.MockResearchers(), s.opts.Filter), s.opts.Source != nil, nil
	}
	researchers, err := s.opts.Source.SearchResearchers(ctx, s.opts.Filter)
	if err != nil {
		s.log.Warn().Err(err).Msg("researcher fetch failed, using sample data")
		return feed.FilterResearchers(feed.MockResearchers(), s.opts.Filter), true, nil
	}
	return researchers, false, nil
}

// applyLocked rebuilds the scene from items. Caller holds s.mu and has
// already stopped any previous runner.
func (s *State) applyLocked(items []graph.Item) error {
	s.items = items
	s.empty = len(items) == 0
	if s.empty {
		s.sim = nil
		s.orbit = nil
		s.log.Info().Msg("no data to display")
		return nil
	}

	if s.opts.Kind == ResearcherRadial {
		orbit, err := radial.New(items, s.cfg, &s.log)
		if err != nil {
			return fmt.Errorf("building radial view: %w", err)
		}
		s.orbit = orbit
		s.sim = orbit.Sim()
		s.clusterOf = nil
		s.legend = nil
	} else {
		if err := s.buildNetworkLocked(items); err != nil {
			return err
		}
	}

	s.runner = layout.NewRunner(layout.RunnerConfig{
		Interval: s.opts.TickInterval,
		OnTick:   s.emitFrame,
		Logger:   &s.log,
	})
	s.runner.Start(s.sim)

	s.log.Info().
		Int("items", len(items)).
		Bool("fallback", s.usedFallback).
		Msg("view loaded")
	return nil
}

// buildNetworkLocked builds the similarity graph, clusters, and simulation
// for the two network kinds. Caller holds s.mu.
func (s *State) buildNetworkLocked(items []graph.Item) error {
	opts := graph.TopicOptions()
	if s.opts.Kind == ResearcherNetwork {
		opts = graph.ResearcherOptions()
	}

	g, err := graph.Build(items, opts)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	tokenSets := make([]similarity.TokenSet, len(g.Nodes))
	for i, n := range g.Nodes {
		tokenSets[i] = n.Tokens
	}
	result := cluster.Assign(tokenSets, cluster.DefaultThreshold)

	s.clusterOf = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		s.clusterOf[n.ID] = result.Assignment[i]
	}
	s.legend = s.legend[:0]
	for ci := range result.Clusters {
		s.legend = append(s.legend, render.LegendEntry{
			Cluster: ci,
			Count:   result.Clusters[ci].MemberCount(),
		})
	}

	nodes := make([]*layout.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = &layout.Node{ID: n.ID, Label: n.Label, Weight: n.Weight}
	}
	edges := make([]layout.Edge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = layout.Edge{Source: e.Source, Target: e.Target, Weight: e.Weight}
	}

	s.orbit = nil
	s.sim = layout.New(nodes, edges, s.cfg)
	return nil
}

// emitFrame forwards a snapshot to the OnFrame callback.
func (s *State) emitFrame(sim *layout.Simulation) {
	if s.opts.OnFrame == nil {
		return
	}
	s.opts.OnFrame(s.Frame())
}

// Frame snapshots the current scene. Safe to call while the simulation runs.
func (s *State) Frame() render.Frame {
	return s.FrameAt(0)
}

// FrameAt snapshots the scene with the orbit wobble evaluated at the given
// clock, in seconds. A zero clock disables the decoration.
func (s *State) FrameAt(clock float64) render.Frame {
	s.mu.Lock()
	sim, runner := s.sim, s.runner
	cfg := s.cfg
	opts := s.snapshotOptsLocked(clock)
	s.mu.Unlock()

	if sim == nil {
		return render.Frame{Width: cfg.Width, Height: cfg.Height, Mode: opts.Mode}
	}
	if runner == nil {
		return render.Snapshot(sim, cfg, opts)
	}

	var frame render.Frame
	runner.Do(func() {
		frame = render.Snapshot(sim, cfg, opts)
	})
	return frame
}

// snapshotOptsLocked assembles render options for the current scene. Caller
// holds s.mu.
func (s *State) snapshotOptsLocked(clock float64) render.SnapshotOptions {
	opts := render.SnapshotOptions{
		Mode:      render.NetworkMode,
		ClusterOf: s.clusterOf,
		Legend:    s.legend,
		Clock:     clock,
		Tooltips:  s.tooltipsLocked(),
	}
	if s.opts.Kind == ResearcherRadial {
		opts.Mode = render.RadialMode
		if s.orbit != nil {
			opts.FocalID = s.orbit.FocalID()
		}
	}
	return opts
}

// tooltipsLocked maps node id to its metadata for hover rendering.
func (s *State) tooltipsLocked() map[string]map[string]string {
	if len(s.items) == 0 {
		return nil
	}
	tips := make(map[string]map[string]string, len(s.items))
	for _, item := range s.items {
		if len(item.Metadata) > 0 {
			tips[item.ID] = item.Metadata
		}
	}
	return tips
}

// Click dispatches a pointer click at scene coordinates. In the radial view a
// hit promotes the node; in the network views it fires OnNavigate. Reports
// whether a node was hit.
func (s *State) Click(x, y float64) bool {
	frame := s.Frame()
	handler := render.ClickHandler{
		Mode: frame.Mode,
		OnPromote: func(id string) {
			if err := s.Promote(id); err != nil {
				s.log.Warn().Err(err).Str("node", id).Msg("promote failed")
			}
		},
		OnNavigate: s.opts.OnNavigate,
	}
	return handler.Click(&frame, x, y)
}

// Promote re-roots the radial view on the given node and resumes the
// simulation if it had settled.
func (s *State) Promote(id string) error {
	s.mu.Lock()
	orbit, runner := s.orbit, s.runner
	s.mu.Unlock()

	if orbit == nil || runner == nil {
		return fmt.Errorf("promote outside radial view")
	}

	var err error
	runner.Do(func() {
		err = orbit.Promote(id)
	})
	if err != nil {
		return err
	}
	if !runner.Running() {
		runner.Start(orbit.Sim())
	}
	return nil
}

// Resize updates the viewport and reheats gently so nodes glide to the new
// bounds instead of snapping.
func (s *State) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}

	s.mu.Lock()
	s.cfg.Width, s.cfg.Height = width, height
	sim, runner, orbit := s.sim, s.runner, s.orbit
	s.mu.Unlock()

	if sim == nil || runner == nil {
		return
	}
	runner.Do(func() {
		sim.SetSize(width, height)
		if orbit != nil {
			orbit.SetCenter(width/2, height/2)
		}
		sim.Reheat(0.3)
	})
	if !runner.Running() {
		runner.Start(sim)
	}
}

// Settle runs the simulation synchronously to completion and returns the tick
// count. Used by the CLI exporters, which want the final layout, not an
// animation.
func (s *State) Settle() int {
	s.mu.Lock()
	sim, runner := s.sim, s.runner
	s.mu.Unlock()

	if sim == nil {
		return 0
	}
	if runner == nil {
		return sim.Run()
	}
	runner.Stop()
	var ticks int
	runner.Do(func() {
		ticks = sim.Run()
	})
	return ticks
}

// Stop halts the simulation runner.
func (s *State) Stop() {
	s.mu.Lock()
	runner := s.runner
	s.mu.Unlock()
	if runner != nil {
		runner.Stop()
	}
}

// Empty reports whether the last load produced no items.
func (s *State) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.empty
}

// UsedFallback reports whether the last load fell back to the sample data.
func (s *State) UsedFallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedFallback
}

// FocalID returns the radial view's current focal node id, or "".
func (s *State) FocalID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orbit == nil {
		return ""
	}
	return s.orbit.FocalID()
}

// topicItems converts topics to graph items. The topic name is the id; the
// recent-work count is the weight.
func topicItems(topics []feed.Topic) []graph.Item {
	items := make([]graph.Item, 0, len(topics))
	for _, t := range topics {
		items = append(items, graph.Item{
			ID:     t.Topic,
			Label:  t.Topic,
			Weight: float64(t.Count),
			Metadata: map[string]string{
				"count": strconv.Itoa(t.Count),
			},
		})
	}
	return items
}

// researcherItems converts researchers to graph items. The composite score
// (citations plus works) is the weight.
func researcherItems(researchers []feed.Researcher) []graph.Item {
	items := make([]graph.Item, 0, len(researchers))
	// OpenAlex disambiguates authors upstream, but the fallback data and
	// arbitrary sources may carry namesakes. Node ids must be unique, so
	// repeats get a numeric suffix while the label keeps the bare name.
	seen := make(map[string]int, len(researchers))
	for _, r := range researchers {
		id := r.Name
		if n := seen[r.Name]; n > 0 {
			id = fmt.Sprintf("%s #%d", r.Name, n+1)
		}
		seen[r.Name]++
		items = append(items, graph.Item{
			ID:     id,
			Label:  r.Name,
			Weight: r.Score(),
			Metadata: map[string]string{
				"affiliation": r.Affiliation,
				"country":     r.Country,
				"link":        r.Link,
				"citations":   strconv.Itoa(r.Citations),
				"works":       strconv.Itoa(r.WorksCount),
			},
		})
	}
	return items
}
