package cmd

import (
	"fmt"
	"os"

	cobra "github.com/spf13/cobra"

	config "github.com/capture-tools/zoomd/config"
	logger "github.com/capture-tools/zoomd/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "zoomd",
	Short: "Zoom-to-mouse engine for screen capture",
	Long: `zoomd animates a crop rectangle over a screen capture source so the
frame smoothly zooms toward the mouse cursor and follows it. It handles
multi-monitor layouts, HiDPI scale detection, configurable zoom profiles
and remote control over WebSocket/UDP.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use 'zoomd run' to start the engine or --help to see available commands.")
	},
}

func Execute() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is .zoomd/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	logger.Init(verbose)

	configPath, _ := rootCmd.PersistentFlags().GetString("config")
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
}
