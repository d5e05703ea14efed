package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/compute"
	"github.com/matzehuels/wordcloud/pkg/controller"
	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/offload"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	remote  string
	preempt bool
	flags   layoutFlags
}

// watchCommand creates the watch command, an interactive terminal viewer that
// recomputes the layout whenever the cloud file or the view changes.
func (c *CLI) watchCommand() *cobra.Command {
	var wo watchOpts

	cmd := &cobra.Command{
		Use:   "watch [cloud-file]",
		Short: "Interactively lay out a cloud file in the terminal",
		Long: `Interactively lay out a cloud file in the terminal.

The layout is recomputed whenever the file changes on disk, and words appear
as they are placed. Keys:

  s        new random seed
  +/-      grow or shrink the canvas
  o        toggle background computation
  tab      select the next word
  q        quit

With --remote, background computation runs on a "wordcloud serve" instance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], wo)
		},
	}

	cmd.Flags().StringVar(&wo.remote, "remote", "", "server URL for background computation")
	cmd.Flags().BoolVar(&wo.preempt, "preempt", false, "cancel running layouts when the input changes")
	wo.flags.register(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, wo watchOpts) error {
	load := func() (pipeline.Options, error) {
		opts, err := loadOptions(input, wo.flags)
		if err != nil {
			return opts, err
		}
		return opts, opts.ValidateForLayout()
	}
	opts, err := load()
	if err != nil {
		return err
	}

	ctrlOpts := []controller.Option{controller.WithLogger(c.Logger)}
	if wo.preempt {
		ctrlOpts = append(ctrlOpts, controller.WithPreemption())
	}
	if wo.remote != "" {
		ctrlOpts = append(ctrlOpts, controller.WithOffload(func() (offload.Transport, error) {
			return offload.NewHTTPTransport(wo.remote, nil)
		}))
	}

	ctrl := controller.New(compute.New(engine.New(), compute.WithLogger(c.Logger)), ctrlOpts...)
	defer ctrl.Close()

	if wo.remote != "" {
		if err := ctrl.SetOffload(true); err != nil {
			return err
		}
	}

	m := newWatchModel(ctrl, opts, load)
	if info, err := os.Stat(input); err == nil {
		m.modTime = info.ModTime()
	}
	m.path = input
	m.offload = wo.remote != ""
	m.submit()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("run viewer: %w", err)
	}

	if fm, ok := final.(watchModel); ok {
		if fm.state.Err != nil {
			printError("%s", errors.UserMessage(fm.state.Err))
		}
		printStats(len(fm.state.Words), len(fm.opts.Words), false)
	}
	return nil
}

// pollInterval is how often the viewer refreshes controller state and checks
// the cloud file for changes.
const pollInterval = 100 * time.Millisecond
