package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hrchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	Long:  `Runs an interactive wizard that writes a .hrchat.yml configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("config file %s already exists; remove it first to re-run init", cfgFile)
		}
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
