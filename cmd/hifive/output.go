package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hifivelabs/hifive/internal/render"
)

// Constants for human output formatting.
const (
	TopicNameMaxLen     = 40 // Topic column width in trending output
	ResearcherNameWidth = 24 // Name column width in researcher output
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that write a file.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Nodes  int    `json:"nodes,omitempty"`
	Edges  int    `json:"edges,omitempty"`
	Ticks  int    `json:"ticks,omitempty"`
}

// frameJSON marshals a frame for file export.
func frameJSON(frame *render.Frame) ([]byte, error) {
	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return append(data, '\n'), nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
