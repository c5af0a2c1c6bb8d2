package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rackscape/pkg/pipeline"
	"github.com/matzehuels/rackscape/pkg/rack/profile"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for rackscape on stdout.

  bash:        source <(rackscape completion bash)
  zsh:         rackscape completion zsh > "${fpath[1]}/_rackscape"
  fish:        rackscape completion fish > ~/.config/fish/completions/rackscape.fish
  powershell:  rackscape completion powershell | Out-String | Invoke-Expression

Profile names and output formats complete as well.`,
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

// completeProfiles offers built-in profile names and falls back to file
// completion for profile paths.
func completeProfiles(_ *cobra.Command, _ []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	var out []cobra.Completion
	for _, name := range profile.Names() {
		if strings.HasPrefix(name, toComplete) {
			p, _ := profile.Builtin(name)
			out = append(out, cobra.CompletionWithDesc(name, fmt.Sprintf("%d devices", p.Len())))
		}
	}
	if len(out) > 0 {
		return out, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveDefault
}

// completeFirstProfile completes a profile for the first positional argument only.
func completeFirstProfile(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return completeProfiles(cmd, args, toComplete)
}

// completeFormats offers the artifact formats for --format.
func completeFormats(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return slices.Sorted(maps.Keys(pipeline.ValidFormats)), cobra.ShellCompDirectiveNoFileComp
}
