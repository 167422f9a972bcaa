package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for mutdom and print it to stdout.

Bash:
  $ source <(mutdom completion bash)
  $ mutdom completion bash > /etc/bash_completion.d/mutdom

Zsh (compinit must be enabled):
  $ mutdom completion zsh > "${fpath[1]}/_mutdom"

Fish:
  $ mutdom completion fish > ~/.config/fish/completions/mutdom.fish

PowerShell:
  PS> mutdom completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell: %s", args[0])
		},
	}
}

// completeFiles completes the single positional argument with files of the
// given extensions.
func completeFiles(exts ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	trimmed := make([]string, len(exts))
	for i, e := range exts {
		trimmed[i] = strings.TrimPrefix(e, ".")
	}
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return trimmed, cobra.ShellCompDirectiveFilterFileExt
	}
}
