package main

import (
	"fmt"
	"os"

	"github.com/ethanbaker/parlavoice/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	envFile  string
	logLevel string

	cfg    *utils.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "parlavoice",
	Short: "ParlaVoice - speech transcription collection service",
	Long: `ParlaVoice serves a two page form that collects participant and phone
details, then runs randomized read-aloud transcription rounds and uploads each
finished session as one JSON object to object storage.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Find env file
		if envFile == "" {
			envFile = os.Getenv("ENV_FILE")
		}
		if envFile == "" {
			envFile = ".env"
		}

		// Load global config
		cfg = utils.NewConfigFromEnv(envFile)
		if logLevel != "" {
			cfg.Set("LOG_LEVEL", logLevel)
		}

		var err error
		if logger, err = utils.NewLogger(cfg); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Environment file to load (default $ENV_FILE or .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
