package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	pkgio "github.com/matzehuels/wordcloud/pkg/io"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output     string // layout.json path
	formats    string // artifact formats, comma-separated
	noCache    bool
	refresh    bool
	background string
	palette    []string
	flags      layoutFlags
}

// layoutCommand creates the layout command for computing word cloud layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var lo layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [cloud-file]",
		Short: "Compute a word cloud layout from a cloud file",
		Long: `Compute a word cloud layout from a cloud file.

The cloud file is TOML or JSON pipeline options (words, size, fonts, colors),
or any other file, whose text is counted into word frequencies. The output is
a layout.json document plus the requested artifacts (SVG by default), written
next to the input.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], lo)
		},
	}

	cmd.Flags().StringVarP(&lo.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&lo.formats, "format", "f", "", "artifact format(s): svg (default), json (comma-separated)")
	cmd.Flags().BoolVar(&lo.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&lo.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().StringVar(&lo.background, "background", "", "SVG background color")
	cmd.Flags().StringSliceVar(&lo.palette, "palette", nil, "fill colors, cycled by word (default category10)")
	lo.flags.register(cmd)

	return cmd
}

// runLayout loads the cloud file, computes the layout with live progress, and
// writes the layout and artifacts.
func (c *CLI) runLayout(ctx context.Context, input string, lo layoutOpts) error {
	opts, err := loadOptions(input, lo.flags)
	if err != nil {
		return err
	}
	if lo.formats != "" || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(lo.formats)
	}
	if lo.background != "" {
		opts.Background = lo.background
	}
	if len(lo.palette) > 0 {
		opts.Palette = lo.palette
	}
	opts.Refresh = lo.refresh
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(lo.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	total := len(opts.Words)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d words...", total))
	spinner.Start()

	var placed atomic.Int64
	result, err := runner.ExecuteStream(ctx, opts, func(w cloud.PlacedWord) {
		n := placed.Add(1)
		spinner.SetMessage(fmt.Sprintf("Placing words... %d/%d %s", n, total, w.Text))
	})
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	layoutPath := outputPath(input, lo.output, ".layout.json")
	if err := layout.WriteFile(result.Layout, layoutPath); err != nil {
		return fmt.Errorf("write output %s: %w", layoutPath, err)
	}

	printSuccess("Layout complete")
	printFile(layoutPath)
	for _, format := range opts.Formats {
		path := outputPath(input, "", "."+format)
		if path == input {
			path = outputPath(input, "", ".out."+format)
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(result.Layout.Words), total, result.CacheInfo.LayoutHit)
	if len(result.Layout.Skipped) > 0 {
		printWarning("Did not fit: %s", strings.Join(result.Layout.Skipped, ", "))
	}
	printNewline()
	printNextStep("Re-render", appName+" render "+layoutPath)

	return nil
}

// loadOptions imports a cloud file and applies layout flags, for commands
// that drive the pipeline directly.
func loadOptions(input string, flags layoutFlags) (pipeline.Options, error) {
	opts, err := pkgio.ImportOptions(input)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("load cloud file %s: %w", input, err)
	}
	flags.apply(&opts)
	return opts, nil
}
