package graph

import (
	"fmt"

	dgraph "github.com/dominikbraun/graph"

	"github.com/hifivelabs/hifive/internal/similarity"
)

const (
	// TopicThreshold is the minimum similarity for an edge in the topic
	// network view. Strictly exceeded: a score exactly at the threshold
	// produces no edge.
	TopicThreshold = 0.18

	// MaxItems caps how many items one graph build accepts. Pairwise
	// similarity is O(n^2); the cap keeps a build well under a frame.
	MaxItems = 50
)

// EdgeRule decides which pairs become edges.
type EdgeRule int

const (
	// ThresholdRule links pairs whose similarity strictly exceeds the
	// configured threshold (topic network).
	ThresholdRule EdgeRule = iota

	// SharedTokenRule links pairs that share at least one token, however
	// weak the overall overlap (researcher network).
	SharedTokenRule
)

// Options configures a graph build.
type Options struct {
	Rule      EdgeRule
	Threshold float64 // used by ThresholdRule
}

// TopicOptions returns the configuration for the topic network view.
func TopicOptions() Options {
	return Options{Rule: ThresholdRule, Threshold: TopicThreshold}
}

// ResearcherOptions returns the configuration for the researcher network view.
func ResearcherOptions() Options {
	return Options{Rule: SharedTokenRule}
}

// Graph holds the built node and edge slices plus an adjacency index.
type Graph struct {
	Nodes []Node
	Edges []Edge

	adjacency dgraph.Graph[string, Node]
}

// Build tokenizes the items, scores every unordered pair, and keeps the pairs
// the edge rule accepts. Items beyond MaxItems are ignored.
func Build(items []Item, opts Options) (*Graph, error) {
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}

	g := &Graph{
		Nodes: make([]Node, 0, len(items)),
		adjacency: dgraph.New(func(n Node) string {
			return n.ID
		}, dgraph.Weighted()),
	}

	for _, item := range items {
		node := Node{
			ID:       item.ID,
			Label:    item.Label,
			Weight:   item.Weight,
			Tokens:   similarity.Tokenize(item.Label),
			Metadata: item.Metadata,
		}
		if err := g.adjacency.AddVertex(node); err != nil {
			return nil, fmt.Errorf("adding node %q: %w", item.ID, err)
		}
		g.Nodes = append(g.Nodes, node)
	}

	for i := 0; i < len(g.Nodes); i++ {
		for j := i + 1; j < len(g.Nodes); j++ {
			score := similarity.Jaccard(g.Nodes[i].Tokens, g.Nodes[j].Tokens)
			if !opts.accepts(g.Nodes[i], g.Nodes[j], score) {
				continue
			}

			g.Edges = append(g.Edges, Edge{Source: i, Target: j, Weight: score})
			err := g.adjacency.AddEdge(g.Nodes[i].ID, g.Nodes[j].ID,
				dgraph.EdgeWeight(int(score*100)),
				dgraph.EdgeData(score))
			if err != nil {
				return nil, fmt.Errorf("adding edge %q-%q: %w", g.Nodes[i].ID, g.Nodes[j].ID, err)
			}
		}
	}

	return g, nil
}

// accepts applies the edge rule to one scored pair.
func (o Options) accepts(a, b Node, score float64) bool {
	switch o.Rule {
	case SharedTokenRule:
		return similarity.SharesToken(a.Tokens, b.Tokens)
	default:
		return score > o.Threshold
	}
}

// Degree returns how many edges touch the node with the given id.
func (g *Graph) Degree(id string) (int, error) {
	adj, err := g.adjacency.AdjacencyMap()
	if err != nil {
		return 0, fmt.Errorf("reading adjacency: %w", err)
	}
	return len(adj[id]), nil
}

// Neighbors returns the ids adjacent to the node with the given id.
func (g *Graph) Neighbors(id string) ([]string, error) {
	adj, err := g.adjacency.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("reading adjacency: %w", err)
	}

	neighbors := make([]string, 0, len(adj[id]))
	for other := range adj[id] {
		neighbors = append(neighbors, other)
	}
	return neighbors, nil
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}
