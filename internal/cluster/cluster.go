// Package cluster groups labeled items by token-set similarity.
package cluster

import (
	"github.com/hifivelabs/hifive/internal/similarity"
)

// DefaultThreshold is the minimum centroid similarity for an item to join an
// existing cluster instead of seeding a new one.
const DefaultThreshold = 0.25

// Cluster is a runtime grouping of item indices. The centroid is the union of
// every member's token set and grows as members are appended; it is never
// rebuilt or shrunk within a pass.
type Cluster struct {
	Members  []int
	Centroid similarity.TokenSet
}

// MemberCount returns how many items the cluster holds, for legend rendering.
func (c *Cluster) MemberCount() int {
	return len(c.Members)
}

// Result holds the outcome of one clustering pass.
type Result struct {
	// Assignment maps item index to cluster index.
	Assignment []int
	Clusters   []Cluster
}

// Assign runs a single greedy pass over the token sets in input order.
//
// Each item joins the earliest-created cluster whose centroid similarity
// reaches the threshold, or seeds a new singleton cluster. Clusters are never
// merged, split, or rebalanced once formed, so the outcome depends on input
// order. This trades clustering quality for O(n*k) cost, which is fine at the
// bounded item caps used by the views.
func Assign(tokenSets []similarity.TokenSet, threshold float64) Result {
	result := Result{
		Assignment: make([]int, len(tokenSets)),
	}

	for i, tokens := range tokenSets {
		target := -1
		for ci := range result.Clusters {
			if similarity.Jaccard(tokens, result.Clusters[ci].Centroid) >= threshold {
				target = ci
				break
			}
		}

		if target < 0 {
			result.Clusters = append(result.Clusters, Cluster{
				Members:  []int{i},
				Centroid: similarity.Union(tokens, nil),
			})
			result.Assignment[i] = len(result.Clusters) - 1
			continue
		}

		c := &result.Clusters[target]
		c.Members = append(c.Members, i)
		c.Centroid = similarity.Union(c.Centroid, tokens)
		result.Assignment[i] = target
	}

	return result
}
