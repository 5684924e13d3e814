package completion

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Shells lists the shells that completion scripts can be generated for.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// Command creates the `completion` command
func Command() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate a shell completion script for zipdeploy",
		Long: `Prints a completion script for zipdeploy. Completions cover commands and flags,
e.g. 'zipdeploy publish --<TAB>' lists --app, --source, --url and friends.

Bash:

  $ source <(zipdeploy completion bash)
  $ zipdeploy completion bash > /etc/bash_completion.d/zipdeploy

Zsh:

  $ zipdeploy completion zsh > "${fpath[1]}/_zipdeploy"

fish:

  $ zipdeploy completion fish > ~/.config/fish/completions/zipdeploy.fish

PowerShell:

  PS> zipdeploy completion powershell | Out-String | Invoke-Expression

Start a new shell afterwards.`,
		Example:               "zipdeploy completion zsh > \"${fpath[1]}/_zipdeploy\"",
		DisableFlagsInUseLine: true,
		ValidArgs:             Shells,
		Args:                  cobra.ExactValidArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Generate(cmd.Root(), args[0], os.Stdout)
		},
	}

	return cmd
}

// Generate writes the completion script of root for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}
