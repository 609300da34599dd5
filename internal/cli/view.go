package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/view"
)

type viewOpts struct {
	file    string
	dir     string
	watch   bool
	noCache bool
}

// viewCommand creates the interactive terminal view.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [mapping]",
		Short: "Explore a class hierarchy in the terminal",
		Long: `Explore a class hierarchy in the terminal.

Drag classes with the mouse to move them; edges follow. Arrow keys pan,
'r' reloads, 'esc' drops the current drag and 'q' quits.

The hierarchy comes from a local mapping file, or with --file from the
analysis backend (or from mapping files in --dir). With --watch the view
reloads whenever the mapping file changes.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeMappingFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if opts.file != "" {
					return fmt.Errorf("give either a mapping file or --file, not both")
				}
				if err := apperrors.ValidatePath(args[0]); err != nil {
					return err
				}
				opts.dir = filepath.Dir(args[0])
				opts.file = filepath.Base(args[0])
			}
			if opts.file == "" {
				return fmt.Errorf("a mapping file or --file is required")
			}
			return c.runView(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "analyzed source file to fetch")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "read mappings from this directory instead of the backend")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the mapping file changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runView(ctx context.Context, opts viewOpts) error {
	if opts.watch && opts.dir == "" {
		return fmt.Errorf("--watch needs a local mapping file or --dir")
	}

	src, closeSource, err := c.newSource(ctx, opts.dir, opts.noCache)
	if err != nil {
		return err
	}
	defer closeSource()

	cfg := c.config()
	session := view.New(view.Options{
		Source:   src,
		Spacing:  cfg.Layout.Spacing(),
		NodeSize: cfg.Layout.NodeSize(),
		Logger:   c.Logger,
	})
	defer session.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newViewModel(ctx, session, opts.file)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Session events may fire inside Update, so they are sent from their own
	// goroutine to avoid blocking the program loop.
	session.OnChange(func(ev view.Event) {
		go p.Send(sessionMsg(ev))
	})

	// Log lines would tear the alternate screen.
	c.Logger.SetOutput(io.Discard)
	defer c.Logger.SetOutput(os.Stderr)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	if opts.watch {
		eg.Go(func() error {
			return watchMapping(egctx, opts.dir, opts.file, func() {
				p.Send(reloadMsg{})
			})
		})
	}
	return eg.Wait()
}
