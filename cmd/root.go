package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "freeflow",
	Short: "FreeFlow - back-office automation for freelancers",
	Long:  `FreeFlow automates client intake, contract drafting, and invoicing with LLM agents.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
}

func Execute() error {
	return rootCmd.Execute()
}
