package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "exo",
	Short: "Exo — Client Portal",
	Long:  "Exo is the client portal backend for a multimedia studio: organizations, projects with lifecycle stages, stage-driven invoicing, hour tracking, and an activity feed.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/exo.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
