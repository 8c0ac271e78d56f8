package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/whichcmd/internal/history"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the most recently built command",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		command, err := history.Read()
		if err != nil {
			return fmt.Errorf("no previously built command: %w", err)
		}
		fmt.Println(command) //nolint:forbidigo
		return nil
	},
}
