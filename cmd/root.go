package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "todoapi",
	Short: "Todo list REST backend",
	Long:  `A REST backend for a personal to-do list application with JWT authentication, token revocation and a password-reset flow.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
