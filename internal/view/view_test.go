package view

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hifivelabs/hifive/internal/feed"
	"github.com/hifivelabs/hifive/internal/layout"
	"github.com/hifivelabs/hifive/internal/render"
)

// fakeSource serves fixtures or a forced error.
type fakeSource struct {
	topics      []feed.Topic
	researchers []feed.Researcher
	err         error
}

func (f *fakeSource) TrendingTopics(ctx context.Context) ([]feed.Topic, error) {
	return f.topics, f.err
}

func (f *fakeSource) SearchResearchers(ctx context.Context, filter feed.ResearcherFilter) ([]feed.Researcher, error) {
	return feed.FilterResearchers(f.researchers, filter), f.err
}

// fixtureTopics has a known overlap structure: the first three share
// "language", the third and fourth share "vision", and the last shares
// nothing with anyone.
func fixtureTopics() []feed.Topic {
	return []feed.Topic{
		{Topic: "Large Language Models", Count: 100},
		{Topic: "Language Models", Count: 80},
		{Topic: "Vision Language Pretraining", Count: 60},
		{Topic: "Computer Vision", Count: 50},
		{Topic: "Robotics", Count: 40},
	}
}

func loadTopicView(t *testing.T, src Source) *State {
	t.Helper()
	s := New(Options{
		Kind:         TopicNetwork,
		Source:       src,
		TickInterval: time.Millisecond,
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func TestTopicNetworkEndToEnd(t *testing.T) {
	s := loadTopicView(t, &fakeSource{topics: fixtureTopics()})
	if s.Empty() {
		t.Fatal("view reported empty with five topics")
	}
	if s.UsedFallback() {
		t.Fatal("fallback used although the source succeeded")
	}

	ticks := s.Settle()
	cfg := layout.DefaultConfig(900, 640)
	if ticks > cfg.MaxTicks {
		t.Fatalf("settled after %d ticks, ceiling is %d", ticks, cfg.MaxTicks)
	}

	frame := s.Frame()
	if len(frame.Circles) != 5 {
		t.Fatalf("circles = %d, want 5", len(frame.Circles))
	}

	// Edges exist exactly between token-overlapping pairs above the
	// threshold.
	type pair [2]string
	want := map[pair]bool{
		{"Large Language Models", "Language Models"}:            true,
		{"Large Language Models", "Vision Language Pretraining"}: true,
		{"Language Models", "Vision Language Pretraining"}:      true,
		{"Vision Language Pretraining", "Computer Vision"}:      true,
	}
	got := make(map[pair]bool)
	for _, seg := range frame.Segments {
		got[pair{seg.SourceID, seg.TargetID}] = true
		if seg.SourceID == "Robotics" || seg.TargetID == "Robotics" {
			t.Errorf("isolated topic got an edge: %s-%s", seg.SourceID, seg.TargetID)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("segments = %v, want %v", got, want)
	}
	for p := range want {
		if !got[p] {
			t.Errorf("missing edge %s-%s", p[0], p[1])
		}
	}

	// Overlapping topics group together, so there are fewer clusters than
	// items.
	if len(frame.Legend) == 0 || len(frame.Legend) >= len(frame.Circles) {
		t.Fatalf("legend has %d clusters for %d items", len(frame.Legend), len(frame.Circles))
	}

	// Every settled position is finite and inside the margin-inset bounds.
	for _, c := range frame.Circles {
		if math.IsNaN(c.X) || math.IsInf(c.X, 0) || math.IsNaN(c.Y) || math.IsInf(c.Y, 0) {
			t.Fatalf("non-finite position for %s: (%v,%v)", c.ID, c.X, c.Y)
		}
		if c.X < cfg.Margin || c.X > frame.Width-cfg.Margin || c.Y < cfg.Margin || c.Y > frame.Height-cfg.Margin {
			t.Fatalf("%s outside bounds at (%v,%v)", c.ID, c.X, c.Y)
		}
	}
}

func TestLoadFallsBackToSampleData(t *testing.T) {
	s := loadTopicView(t, &fakeSource{err: errors.New("connection refused")})
	if !s.UsedFallback() {
		t.Fatal("expected fallback after source error")
	}
	frame := s.Frame()
	if len(frame.Circles) != len(feed.MockTrending()) {
		t.Fatalf("circles = %d, want the sample dataset", len(frame.Circles))
	}
}

func TestEmptyState(t *testing.T) {
	s := loadTopicView(t, &fakeSource{topics: []feed.Topic{}})
	if !s.Empty() {
		t.Fatal("expected empty view")
	}
	frame := s.Frame()
	if len(frame.Circles) != 0 || len(frame.Segments) != 0 {
		t.Fatalf("empty view produced %d circles, %d segments", len(frame.Circles), len(frame.Segments))
	}
	if frame.Width == 0 || frame.Height == 0 {
		t.Fatal("empty frame lost its viewport size")
	}
}

func TestReloadReplacesScene(t *testing.T) {
	src := &fakeSource{topics: fixtureTopics()}
	s := loadTopicView(t, src)

	src.topics = []feed.Topic{{Topic: "Quantum Computing", Count: 10}}
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	frame := s.Frame()
	if len(frame.Circles) != 1 || frame.Circles[0].ID != "Quantum Computing" {
		t.Fatalf("reload kept the old scene: %d circles", len(frame.Circles))
	}
}

func TestNetworkClickNavigates(t *testing.T) {
	var gotID, gotLabel string
	s := New(Options{
		Kind:         TopicNetwork,
		Source:       &fakeSource{topics: fixtureTopics()},
		TickInterval: time.Millisecond,
		OnNavigate:   func(id, label string) { gotID, gotLabel = id, label },
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(s.Stop)
	s.Settle()

	frame := s.Frame()
	target := frame.Circles[0]
	if !s.Click(target.X, target.Y) {
		t.Fatal("click on a circle center missed")
	}
	if gotID == "" || gotLabel == "" {
		t.Fatal("navigate callback not fired")
	}

	// The hit is resolved by z-order, so the reported node must actually
	// contain the click point.
	found := false
	for _, c := range frame.Circles {
		if c.ID == gotID && math.Hypot(c.X-target.X, c.Y-target.Y) <= c.Radius {
			found = true
		}
	}
	if !found {
		t.Fatalf("navigate reported %q which does not contain the click", gotID)
	}

	if s.Click(-50, -50) {
		t.Fatal("click far outside the viewport reported a hit")
	}
}

func TestRadialPromote(t *testing.T) {
	s := New(Options{
		Kind:         ResearcherRadial,
		TickInterval: time.Millisecond,
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(s.Stop)
	s.Settle()

	// Highest composite score in the sample directory leads the view.
	if got := s.FocalID(); got != "Prof. James Anderson" {
		t.Fatalf("initial focal = %q", got)
	}

	if err := s.Promote("Dr. Sarah Chen"); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if got := s.FocalID(); got != "Dr. Sarah Chen" {
		t.Fatalf("focal after promote = %q", got)
	}

	if err := s.Promote("nobody"); err == nil {
		t.Fatal("expected error promoting unknown id")
	}

	frame := s.Frame()
	if frame.Mode != render.RadialMode {
		t.Fatalf("frame mode = %v, want radial", frame.Mode)
	}
	focal := 0
	for _, c := range frame.Circles {
		if c.Focal {
			focal++
			if c.ID != "Dr. Sarah Chen" {
				t.Fatalf("focal circle is %q", c.ID)
			}
		}
	}
	if focal != 1 {
		t.Fatalf("focal circles = %d, want exactly 1", focal)
	}
}

func TestRadialClickPromotes(t *testing.T) {
	s := New(Options{
		Kind:         ResearcherRadial,
		TickInterval: time.Millisecond,
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(s.Stop)
	s.Settle()

	frame := s.Frame()
	var orbiter *render.Circle
	for i := range frame.Circles {
		if !frame.Circles[i].Focal {
			orbiter = &frame.Circles[i]
			break
		}
	}
	if orbiter == nil {
		t.Fatal("no orbiter circle found")
	}

	if !s.Click(orbiter.X, orbiter.Y) {
		t.Fatal("click on orbiter missed")
	}
	got := s.FocalID()
	if got == "Prof. James Anderson" {
		t.Fatal("click did not change the focal node")
	}

	// The promoted node must contain the click point in the pre-click frame.
	var clicked render.Circle
	for _, c := range frame.Circles {
		if c.ID == got {
			clicked = c
		}
	}
	if math.Hypot(clicked.X-orbiter.X, clicked.Y-orbiter.Y) > clicked.Radius {
		t.Fatalf("promoted %q which does not contain the click", got)
	}
}

func TestResize(t *testing.T) {
	s := loadTopicView(t, &fakeSource{topics: fixtureTopics()})
	s.Settle()

	s.Resize(1200, 900)
	s.Settle()

	frame := s.Frame()
	if frame.Width != 1200 || frame.Height != 900 {
		t.Fatalf("frame size = %vx%v after resize", frame.Width, frame.Height)
	}
	for _, c := range frame.Circles {
		if c.X < 0 || c.X > 1200 || c.Y < 0 || c.Y > 900 {
			t.Fatalf("%s outside resized viewport at (%v,%v)", c.ID, c.X, c.Y)
		}
	}

	// Degenerate sizes are ignored.
	s.Resize(0, -10)
	if f := s.Frame(); f.Width != 1200 {
		t.Fatal("degenerate resize was applied")
	}
}

func TestRadialResizeRecentersFocal(t *testing.T) {
	src := &fakeSource{researchers: []feed.Researcher{
		{Name: "Li", Citations: 900, WorksCount: 40},
		{Name: "Kim", Citations: 400, WorksCount: 30},
		{Name: "Park", Citations: 200, WorksCount: 20},
	}}
	s := New(Options{
		Kind:         ResearcherRadial,
		Source:       src,
		TickInterval: time.Millisecond,
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(s.Stop)
	s.Settle()

	s.Resize(1100, 800)
	s.Settle()

	frame := s.Frame()
	for _, c := range frame.Circles {
		if !c.Focal {
			continue
		}
		if math.Hypot(c.X-550, c.Y-400) > 10 {
			t.Fatalf("focal %s at (%.1f, %.1f) after resize, want near (550, 400)", c.ID, c.X, c.Y)
		}
		return
	}
	t.Fatal("no focal circle in frame")
}

func TestDuplicateResearcherNames(t *testing.T) {
	src := &fakeSource{researchers: []feed.Researcher{
		{Name: "Wei Li", Affiliation: "Tsinghua", Topics: []string{"nlp"}, Citations: 500, WorksCount: 40},
		{Name: "Wei Li", Affiliation: "Peking", Topics: []string{"vision"}, Citations: 300, WorksCount: 25},
	}}
	s := New(Options{
		Kind:         ResearcherNetwork,
		Source:       src,
		TickInterval: time.Millisecond,
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load with namesake researchers: %v", err)
	}
	t.Cleanup(s.Stop)
	s.Settle()

	frame := s.Frame()
	if len(frame.Circles) != 2 {
		t.Fatalf("circles = %d, want 2", len(frame.Circles))
	}
	if frame.Circles[0].ID == frame.Circles[1].ID {
		t.Fatalf("namesakes share id %q", frame.Circles[0].ID)
	}
	for _, c := range frame.Circles {
		if c.Label != "Wei Li" {
			t.Errorf("label = %q, want the bare name", c.Label)
		}
	}
}

func TestResearcherFilterNarrowsView(t *testing.T) {
	s := New(Options{
		Kind:         ResearcherNetwork,
		Filter:       feed.ResearcherFilter{Country: "UK"},
		TickInterval: time.Millisecond,
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(s.Stop)

	frame := s.Frame()
	if len(frame.Circles) != 2 {
		t.Fatalf("circles = %d, want the 2 UK researchers", len(frame.Circles))
	}
	for _, c := range frame.Circles {
		if c.Tooltip["country"] != "UK" {
			t.Fatalf("%s has country %q", c.ID, c.Tooltip["country"])
		}
	}
}
