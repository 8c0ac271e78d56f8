// Package cmd wires the whichcmd CLI: the interactive builder plus the
// small helper subcommands shell widgets rely on.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/whichcmd/internal/config"
	"github.com/oakwood-commons/whichcmd/internal/history"
	"github.com/oakwood-commons/whichcmd/internal/ui"
	"github.com/oakwood-commons/whichcmd/pkg/logger"
	"github.com/oakwood-commons/whichcmd/pkg/settings"
)

var (
	immediate  bool
	configPath string
	uiHeight   int
	noColor    bool
	debug      bool

	rootCtx context.Context
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "A which-key style command builder for the shell",
	Long: `whichcmd walks a user-defined key tree to compose a shell command one
keystroke at a time. The TUI renders on stderr; the finished command is
printed to stdout so shell widgets can capture it with $(...).`,
	Example: "\n  whichcmd\n  whichcmd build --immediate\n  whichcmd integration zsh\n",
	Args:    cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		var level int8 = 0
		if debug {
			level = -1
		}
		lgr := logger.Get(level)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)
	},
	Run: func(cmd *cobra.Command, args []string) {
		runBuild(cmd, args)
	},
}

// buildCmd is the explicit spelling of the default action. Shell widgets
// call it by name so their bindings survive future default changes.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Interactively build a command and print it to stdout",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runBuild(cmd, args)
	},
}

func runBuild(_ *cobra.Command, _ []string) {
	log := logger.FromContext(rootCtx)

	params := settings.NewCliParams()
	params.ConfigPath = configPath
	params.Height = uiHeight
	params.NoColor = noColor
	params.PrintImmediateTag = immediate
	if debug {
		params.MinLogLevel = -1
	}
	params.Height = clampHeight(params.Height, detectTerminalHeight())
	ctx := settings.IntoContext(rootCtx, params)

	tr, err := config.Load(params.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	result, built, err := ui.Run(ctx, tr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !built {
		fmt.Fprintln(os.Stderr, "cancelled")
		os.Exit(1)
	}

	if werr := history.Write(result.Command); werr != nil {
		log.Error(werr, "failed to persist command")
	}

	if params.PrintImmediateTag && result.Immediate {
		fmt.Println(settings.ImmediateTag + result.Command)
		return
	}
	fmt.Println(result.Command)
}

// detectTerminalHeight returns the best-effort terminal height by probing
// stderr then stdin. Stdout is skipped: shell widgets capture it with
// $(...), so it is rarely a TTY during a build.
func detectTerminalHeight() int {
	for _, fd := range []uintptr{os.Stderr.Fd(), os.Stdin.Fd()} {
		if _, h, err := term.GetSize(int(fd)); err == nil && h > 0 {
			return h
		}
	}
	return 0
}

// clampHeight keeps the requested content height inside the terminal,
// leaving one row for the shell prompt. A nonsense request falls back to
// the default before clamping, so a short terminal still wins. Unknown
// terminal size (0) leaves the request untouched.
func clampHeight(requested, terminal int) int {
	if requested < 1 {
		requested = settings.DefaultHeight
	}
	if terminal > 0 && requested > terminal-1 {
		return terminal - 1
	}
	return requested
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a commands YAML file (default: user config dir)")
	rootCmd.PersistentFlags().IntVar(&uiHeight, "height", settings.DefaultHeight, "content height of the TUI in rows")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.Flags().BoolVarP(&immediate, "immediate", "i", false, "prefix output with "+settings.ImmediateTag+" when the selected command requests execution")
	buildCmd.Flags().BoolVarP(&immediate, "immediate", "i", false, "prefix output with "+settings.ImmediateTag+" when the selected command requests execution")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(heightCmd)
	rootCmd.AddCommand(integrationCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
