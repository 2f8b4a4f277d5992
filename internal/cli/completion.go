package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// shells maps each supported shell to its completion script generator.
var shells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
	"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
	"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
	"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the completion command. Besides subcommands and
// flags, the generated scripts complete outline files, outline formats,
// template files and catalog layout names.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for slidesmith.

  $ source <(slidesmith completion bash)
  $ slidesmith completion zsh > "${fpath[1]}/_slidesmith"
  $ slidesmith completion fish > ~/.config/fish/completions/slidesmith.fish
  PS> slidesmith completion powershell | Out-String | Invoke-Expression

Outline arguments complete to .json, .yaml and .md files, --template to
.pptx files, and "slidesmith layouts" to the layout names of the active
catalog.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shells[args[0]](cmd.Root(), os.Stdout)
		},
	}
}

// =============================================================================
// Completers
// =============================================================================

var (
	outlineExts  = []string{"json", "yaml", "yml", "md", "markdown"}
	templateExts = []string{"pptx"}
)

// completeOutlineFile offers outline files for the first argument only.
func completeOutlineFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return outlineExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeConvertFiles offers an outline to read, then a JSON or YAML file
// to write.
func completeConvertFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return outlineExts, cobra.ShellCompDirectiveFilterFileExt
	case 1:
		return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func completeTemplateFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return templateExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeOutlineFormat offers the names accepted by --format and --from.
func completeOutlineFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"json\tJSON outline",
		"yaml\tYAML outline",
		"md\tMarkdown notes",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeWriteFormat offers the formats convert can write.
func completeWriteFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json\tJSON outline", "yaml\tYAML outline"}, cobra.ShellCompDirectiveNoFileComp
}

// completeLayoutName offers the layout names of the configured catalog that
// are not already on the command line, with their indices as descriptions.
func (c *CLI) completeLayoutName(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	cat, err := cfg.OpenCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	prefix := strings.ToUpper(toComplete)
	var out []string
	for _, name := range cat.LayoutNames() {
		if slices.Contains(args, name) || !strings.HasPrefix(name, prefix) {
			continue
		}
		out = append(out, fmt.Sprintf("%s\tlayout %d", name, cat.LayoutIndex(name)))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerCompletion attaches fn to the named flag of cmd. The flag must
// exist.
func registerCompletion(cmd *cobra.Command, flag string, fn func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)) {
	if err := cmd.RegisterFlagCompletionFunc(flag, fn); err != nil {
		panic(fmt.Sprintf("completion for --%s: %v", flag, err))
	}
}
