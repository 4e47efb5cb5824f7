package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hifivelabs/hifive/internal/config"
	"github.com/hifivelabs/hifive/internal/feed"
	"github.com/hifivelabs/hifive/internal/view"
)

var (
	radialOut     string
	radialFormat  string
	radialTitle   string
	radialWidth   float64
	radialHeight  float64
	radialOffline bool
	radialPromote []string
	radialFrames  int

	radialTopic       string
	radialInstitution string
	radialCountry     string
)

func init() {
	radialCmd.Flags().StringVarP(&radialOut, "out", "o", "", "Output file (required; .html, .png, or .json)")
	radialCmd.Flags().StringVar(&radialFormat, "format", "", "Output format, inferred from --out extension when empty")
	radialCmd.Flags().StringVar(&radialTitle, "title", "AI Researchers", "Page title for HTML export")
	radialCmd.Flags().Float64Var(&radialWidth, "width", 0, "Viewport width in pixels")
	radialCmd.Flags().Float64Var(&radialHeight, "height", 0, "Viewport height in pixels")
	radialCmd.Flags().BoolVar(&radialOffline, "offline", false, "Use the embedded sample dataset instead of the API")
	radialCmd.Flags().StringArrayVar(&radialPromote, "promote", nil, "Promote this researcher to focal before export (repeatable, applied in order)")
	radialCmd.Flags().IntVar(&radialFrames, "frames", 1, "Export N numbered snapshots sampling the orbit wobble")

	radialCmd.Flags().StringVar(&radialTopic, "topic", "", "Filter by topic substring")
	radialCmd.Flags().StringVar(&radialInstitution, "institution", "", "Filter by institution substring")
	radialCmd.Flags().StringVar(&radialCountry, "country", "", "Filter by country code")

	radialCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(radialCmd)
}

var radialCmd = &cobra.Command{
	Use:   "radial",
	Short: "Render the focal researcher bubble view to a file",
	Long: `Render the radial researcher view: the top-scored researcher sits at
the center with the rest orbiting at score-derived distances, closest
first. --promote re-roots the view on another researcher before the
layout settles, the same transition a click performs.

With --frames N the settled layout is exported N times with the
display-only orbit wobble sampled at successive instants, numbered
-000, -001, and so on.

Examples:
  hifive radial --out radial.html --offline
  hifive radial --out radial.png --promote "Dr. Sarah Chen"
  hifive radial --out orbit.png --frames 8 --offline`,
	RunE: runRadial,
}

func runRadial(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	width, height := config.GetViewport()
	if radialWidth > 0 {
		width = radialWidth
	}
	if radialHeight > 0 {
		height = radialHeight
	}

	state := view.New(view.Options{
		Kind: view.ResearcherRadial,
		Filter: feed.ResearcherFilter{
			Topic:       radialTopic,
			Institution: radialInstitution,
			Country:     radialCountry,
		},
		Width:   width,
		Height:  height,
		Source:  newFeedClient(logger),
		Offline: radialOffline || config.GetOffline(),
		Logger:  &logger,
	})
	if err := state.Load(cmd.Context()); err != nil {
		exitWithError(ExitDataError, "loading radial view: %v", err)
	}
	defer state.Stop()

	ticks := state.Settle()
	for _, id := range radialPromote {
		if err := state.Promote(id); err != nil {
			exitWithError(ExitDataError, "promoting %q: %v", id, err)
		}
		ticks += state.Settle()
	}

	frame := state.Frame()
	if radialFrames > 1 {
		if err := exportWobbleFrames(state, radialOut, radialFormat, radialTitle, radialFrames); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	} else if err := exportFrame(&frame, radialOut, radialFormat, radialTitle); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Wrote %s: focal %s, %d orbiters, settled in %d ticks\n",
			radialOut, state.FocalID(), len(frame.Circles)-1, ticks)
		if state.UsedFallback() {
			fmt.Println("(offline: rendered sample data)")
		}
		return nil
	}
	return outputJSON(struct {
		StatusResponse
		Focal string `json:"focal"`
	}{
		StatusResponse: StatusResponse{
			Status: "written",
			Path:   radialOut,
			Nodes:  len(frame.Circles),
			Edges:  len(frame.Segments),
			Ticks:  ticks,
		},
		Focal: state.FocalID(),
	})
}

// wobbleFrameStep is the clock increment between exported wobble snapshots,
// in seconds.
const wobbleFrameStep = 0.25

// exportWobbleFrames writes n snapshots of the settled layout with the orbit
// wobble sampled at successive clocks, as out-000.ext, out-001.ext, ...
func exportWobbleFrames(state *view.State, out, format, title string, n int) error {
	ext := filepath.Ext(out)
	stem := strings.TrimSuffix(out, ext)

	for i := 0; i < n; i++ {
		frame := state.FrameAt(float64(i+1) * wobbleFrameStep)
		path := fmt.Sprintf("%s-%03d%s", stem, i, ext)
		if err := exportFrame(&frame, path, format, title); err != nil {
			return err
		}
	}
	return nil
}
