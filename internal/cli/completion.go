package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classview/pkg/pipeline"
	"github.com/matzehuels/classview/pkg/store"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a shell completion script for classview.

Load it for the current shell, for example:

  source <(classview completion bash)
  classview completion fish | source

Completion covers commands, flags, mapping files and render formats.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// mappingExts are the extensions of hierarchy mapping files.
var mappingExts = []string{"json", "yaml", "yml", "toml"}

// completeMappingFile completes a single mapping (or graph) file argument.
func completeMappingFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return mappingExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes a comma-separated --format list, offering only
// formats not given yet.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, prefix := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, prefix = toComplete[:i+1], toComplete[i+1:]
	}
	given := make(map[string]bool)
	for _, f := range strings.Split(done, ",") {
		given[f] = true
	}

	var out []string
	for _, f := range []string{pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON} {
		if !given[f] && strings.HasPrefix(f, prefix) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeStoreBackend completes --store-backend.
func completeStoreBackend(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{store.BackendMemory, store.BackendFile, store.BackendMongo}, cobra.ShellCompDirectiveNoFileComp
}
