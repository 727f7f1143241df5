package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sarlink/internal/config"
	"sarlink/internal/logger"
)

var (
	configPath string
	logPath    string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sarlink",
	Short: "Multi-robot search-and-rescue mission console",
	Long: `SAR-LINK simulates a ground robot and a UAV in a tunnel and turns natural-language
instructions into per-robot tasks using a generative planning backend.
Run without a subcommand to open the interactive console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("log") {
			cfg.LogFile = logPath
		}
		if err := logger.Init(cfg.LogFile); err != nil {
			return fmt.Errorf("could not initialize logger: %w", err)
		}
		return nil
	},
	RunE: runConsole,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "process log file (\"-\" for stderr)")

	rootCmd.AddCommand(consoleCmd, serveCmd, simulateCmd, planCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
