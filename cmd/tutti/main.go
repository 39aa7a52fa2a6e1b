// Package main implements the tutti storefront service and its back-office CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sergiomvp10/tutti-services/config"
)

var (
	configFile string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tutti",
	Short: "Tutti Services storefront",
	Long: `tutti runs the storefront service of the Tutti Services produce distributor
and offers back-office commands against the same upstream API.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/tutti.yml", "config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(adminCmd)
}

func loadConfig() (*config.AppConfig, error) {
	return config.LoadConfig(configFile)
}
