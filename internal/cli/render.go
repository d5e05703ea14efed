package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output base path
	formats    string // output formats, comma-separated
	background string // SVG background color
	titles     bool   // per-word <title> tooltips
}

// renderCommand creates the render command for turning layouts into artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout file to SVG or JSON",
		Long: `Render a layout file to SVG or JSON.

The layout file is produced by 'layout' (or 'render -f json'). Rendering does
not recompute placement, so output is identical for identical layouts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output base path (default: input without .layout.json)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVar(&ro.background, "background", "", "SVG background color")
	cmd.Flags().BoolVar(&ro.titles, "titles", false, "add hover titles to words")

	return cmd
}

// runRender reads the layout and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	prog := newProgress(c.Logger)

	l, err := layout.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	opts := pipeline.Options{
		Formats:    parseFormats(ro.formats),
		Background: ro.background,
		Titles:     ro.titles,
		Logger:     c.Logger,
	}
	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	base := renderBase(input, ro.output)
	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(l.Words), len(l.Words)+len(l.Skipped), cached)
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(opts.Formats)))
	return nil
}

// renderBase strips the layout suffix: cloud.layout.json renders to cloud.svg.
func renderBase(input, output string) string {
	if output != "" {
		return output
	}
	if strings.HasSuffix(input, ".layout.json") {
		return strings.TrimSuffix(input, ".layout.json")
	}
	return outputPath(input, "", "")
}
