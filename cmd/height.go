package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// heightCmd exists for shell widgets that need to reserve terminal rows
// before launching the builder.
var heightCmd = &cobra.Command{
	Use:   "height",
	Short: "Print the content height of the TUI in rows",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(uiHeight) //nolint:forbidigo
		return nil
	},
}
