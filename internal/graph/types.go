// Package graph builds similarity graphs from labeled items.
package graph

import (
	"github.com/hifivelabs/hifive/internal/similarity"
)

// Item is one labeled unit of input data: a trending topic or a researcher.
type Item struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`

	// Metadata is carried through untouched for tooltips and navigation.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Node is an index-addressable graph node with the item's derived token set.
type Node struct {
	ID     string              `json:"id"`
	Label  string              `json:"label"`
	Weight float64             `json:"weight"`
	Tokens similarity.TokenSet `json:"-"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// Edge connects two nodes by slice index with their similarity score.
type Edge struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Weight float64 `json:"weight"`
}
