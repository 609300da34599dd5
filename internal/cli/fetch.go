package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/source"
)

type fetchOpts struct {
	outDir  string
	list    bool
	noCache bool
}

// fetchCommand creates the fetch command, which stores a file's mapping
// next to the working files as <file>.hierarchy.json.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch [file]",
		Short: "Fetch the class hierarchy of a file from the analysis backend",
		Long: `Fetch the class hierarchy of a source file from the analysis backend.

The mapping is written to <file>.hierarchy.json in the output directory,
where 'build', 'render' and 'view --dir' pick it up. Responses are cached;
use --refresh to bypass the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "output-dir", "o", ".", "directory to write the mapping to")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "print the classes as a table")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Bool("refresh", false, "ignore cached responses")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, file string, opts fetchOpts) error {
	if err := apperrors.ValidateFileName(file); err != nil {
		return err
	}
	if err := apperrors.ValidatePath(opts.outDir); err != nil {
		return err
	}

	client, cc, err := c.newClient(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	logger := loggerFromContext(ctx)
	logger.Debug("fetching", "url", client.ClassesURL(file))

	spinner := newSpinner(ctx, fmt.Sprintf("Fetching %s...", file))
	spinner.Start()
	m, err := client.Classes(ctx, file)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Fetching %s failed", file))
		return err
	}
	spinner.Stop()

	path, err := source.WriteHierarchy(opts.outDir, file, m)
	if err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}

	if m.Len() == 0 {
		printWarning("%s has no class hierarchy", file)
	} else {
		printSuccess("Fetched %d classes from %s", m.Len(), file)
	}
	printFile(path)
	if opts.list && m.Len() > 0 {
		fmt.Fprintln(stdout, mappingTable(m))
	}
	printNextStep("Explore it", "classview view --dir "+filepath.Clean(opts.outDir)+" "+file)
	return nil
}
