package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hifivelabs/hifive/internal/config"
	"github.com/hifivelabs/hifive/internal/feed"
	"github.com/hifivelabs/hifive/internal/render"
	"github.com/hifivelabs/hifive/internal/view"
)

var (
	networkKind    string
	networkOut     string
	networkFormat  string
	networkTitle   string
	networkWidth   float64
	networkHeight  float64
	networkOffline bool

	networkTopic       string
	networkInstitution string
	networkCountry     string
)

func init() {
	networkCmd.Flags().StringVar(&networkKind, "kind", "topics", "Network kind: topics or researchers")
	networkCmd.Flags().StringVarP(&networkOut, "out", "o", "", "Output file (required; .html, .png, or .json)")
	networkCmd.Flags().StringVar(&networkFormat, "format", "", "Output format, inferred from --out extension when empty")
	networkCmd.Flags().StringVar(&networkTitle, "title", "", "Page title for HTML export")
	networkCmd.Flags().Float64Var(&networkWidth, "width", 0, "Viewport width in pixels")
	networkCmd.Flags().Float64Var(&networkHeight, "height", 0, "Viewport height in pixels")
	networkCmd.Flags().BoolVar(&networkOffline, "offline", false, "Use the embedded sample dataset instead of the API")

	networkCmd.Flags().StringVar(&networkTopic, "topic", "", "Researcher filter: topic substring")
	networkCmd.Flags().StringVar(&networkInstitution, "institution", "", "Researcher filter: institution substring")
	networkCmd.Flags().StringVar(&networkCountry, "country", "", "Researcher filter: country code")

	networkCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(networkCmd)
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Render a similarity network to a file",
	Long: `Render a clustered similarity network and export the settled layout.

The topics kind links topics whose label similarity exceeds the edge
threshold and colors them by cluster. The researchers kind links
researchers who share an interest token.

The export format follows the --out extension: .html is a
self-contained page, .png a static image, .json the raw frame.

Examples:
  hifive network --out topics.html
  hifive network --kind researchers --country US --out us.png
  hifive network --out frame.json --offline`,
	RunE: runNetwork,
}

func runNetwork(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	kind := view.TopicNetwork
	switch networkKind {
	case "topics":
	case "researchers":
		kind = view.ResearcherNetwork
	default:
		exitWithError(ExitError, "unknown network kind %q (want topics or researchers)", networkKind)
	}

	width, height := config.GetViewport()
	if networkWidth > 0 {
		width = networkWidth
	}
	if networkHeight > 0 {
		height = networkHeight
	}

	state := view.New(view.Options{
		Kind:    kind,
		Filter:  researcherNetworkFilter(),
		Width:   width,
		Height:  height,
		Source:  newFeedClient(logger),
		Offline: networkOffline || config.GetOffline(),
		Logger:  &logger,
	})
	if err := state.Load(cmd.Context()); err != nil {
		exitWithError(ExitDataError, "loading network: %v", err)
	}
	defer state.Stop()

	ticks := state.Settle()
	frame := state.Frame()

	if err := exportFrame(&frame, networkOut, networkFormat, exportTitle()); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Wrote %s: %d nodes, %d edges, settled in %d ticks\n",
			networkOut, len(frame.Circles), len(frame.Segments), ticks)
		if state.UsedFallback() {
			fmt.Println("(offline: rendered sample data)")
		}
		return nil
	}
	return outputJSON(StatusResponse{
		Status: "written",
		Path:   networkOut,
		Nodes:  len(frame.Circles),
		Edges:  len(frame.Segments),
		Ticks:  ticks,
	})
}

// researcherNetworkFilter assembles the researcher filter from command flags.
// It only matters for the researchers kind.
func researcherNetworkFilter() feed.ResearcherFilter {
	return feed.ResearcherFilter{
		Topic:       networkTopic,
		Institution: networkInstitution,
		Country:     networkCountry,
	}
}

// exportTitle returns the HTML page title, defaulting by kind.
func exportTitle() string {
	if networkTitle != "" {
		return networkTitle
	}
	if networkKind == "researchers" {
		return "AI Researcher Network"
	}
	return "Trending AI Topics"
}

// exportFrame writes the frame in the requested format. An empty format is
// inferred from the output extension.
func exportFrame(frame *render.Frame, out, format, title string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(out), ".")
	}

	switch format {
	case "html":
		page, err := render.GenerateHTML(frame, title)
		if err != nil {
			return fmt.Errorf("rendering html: %w", err)
		}
		if err := os.WriteFile(out, []byte(page), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		return nil
	case "png":
		return render.SavePNG(frame, out)
	case "json":
		data, err := frameJSON(frame)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want html, png, or json)", format)
	}
}
