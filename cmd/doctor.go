package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/whichcmd/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate the commands file and report problems",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error resolving configuration path: %v\n", err)
				os.Exit(1)
			}
		}
		if _, err := config.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration file is valid: %s\n", path) //nolint:forbidigo
	},
}
