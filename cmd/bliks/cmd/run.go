package cmd

import (
	"github.com/RiskoZoSlovenska/bliks-lang/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file] [arg...]",
	Short: "Compile and run a script file (the root command's default behavior)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlagOverrides(c, cfg)
		return runFile(cfg, args[0], args[1:])
	},
}
