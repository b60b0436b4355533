package main

import (
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "bookreview-service"

var rootCmd = &cobra.Command{
	Use:   "bookreview",
	Short: "Book review REST API",
	Long: `bookreview serves the book review API: user accounts, a book catalogue
and reviews whose ratings are aggregated onto every book.

Configuration is read from the environment (and an optional .env file).`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
