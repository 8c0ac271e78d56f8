package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Widget scripts capture stdout of the builder and either insert the
// result into the edit buffer or, when the immediate tag is present,
// execute it straight away.
var integrationScripts = map[string]string{
	"zsh": `
# whichcmd integration for zsh
whichcmd_widget() {
    local result
    result=$(<$TTY whichcmd build --immediate)
    if [[ $? -eq 0 && -n $result ]]; then
        if [[ $result == __IMMEDIATE__* ]]; then
            BUFFER="${result#__IMMEDIATE__}"
            zle accept-line
        else
            LBUFFER+="$result"
        fi
    fi
    zle reset-prompt
}
zle -N whichcmd_widget
bindkey '^P' whichcmd_widget
`,
	"bash": `
# whichcmd integration for bash
__whichcmd_widget() {
    local result
    result=$(whichcmd build --immediate)
    if [[ $? -eq 0 && -n $result ]]; then
        if [[ $result == __IMMEDIATE__* ]]; then
            eval "${result#__IMMEDIATE__}"
        else
            READLINE_LINE="${READLINE_LINE:0:READLINE_POINT}${result}${READLINE_LINE:READLINE_POINT}"
            (( READLINE_POINT += ${#result} ))
        fi
    fi
}
bind -x '"\C-p": __whichcmd_widget'
`,
	"fish": `
# whichcmd integration for fish
function __whichcmd_widget
    set -l result (whichcmd build --immediate)
    if test $status -eq 0; and test -n "$result"
        if string match -q '__IMMEDIATE__*' -- "$result"
            eval (string replace '__IMMEDIATE__' '' -- "$result")
        else
            commandline -i -- "$result"
        end
    end
    commandline -f repaint
end
bind \cp __whichcmd_widget
`,
}

func supportedShells() []string {
	shells := make([]string, 0, len(integrationScripts))
	for name := range integrationScripts {
		shells = append(shells, name)
	}
	sort.Strings(shells)
	return shells
}

var integrationCmd = &cobra.Command{
	Use:   "integration <shell>",
	Short: "Print the key-binding widget for a shell",
	Long: `Print a snippet to source from your shell configuration. The snippet
binds Ctrl+P to launch the builder and insert (or execute) the result.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: supportedShells(),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, ok := integrationScripts[args[0]]
		if !ok {
			return fmt.Errorf("shell %q is not supported (supported: %s)", args[0], strings.Join(supportedShells(), ", "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), script)
		return nil
	},
}
