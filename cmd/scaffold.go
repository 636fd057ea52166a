/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/sliceapp/authserver/config"
	"github.com/sliceapp/authserver/internal/scaffold"
	"github.com/spf13/cobra"
)

// scaffoldCmd represents the scaffold command
var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Starts the scaffold template service",
	Long: `Starts the scaffold microservice template. It serves a mock data
route and a health check only; use it as a starting point for new services.

	authserver scaffold
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		srv := scaffold.New(cfg)
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "scaffold error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scaffoldCmd)
}
