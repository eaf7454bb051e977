package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hrchat",
	Short: "AI assistant for HR data with semantic search",
	Long: `hrchat answers natural-language questions about employees, attendance
and shift schedules. It keeps a semantic vector index in sync with the
HR database, combines live statistics with similarity search, and
generates answers with an LLM.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".hrchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
