// Command syndata is the synthetic data generation service and its
// companion CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/specmint/syndata/internal/logger"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// godotenv.Load is optional: a missing .env file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		os.Stderr.WriteString("warning: failed to load .env file: " + err.Error() + "\n")
	}

	log := logger.New()

	var configFile string
	rootCmd := &cobra.Command{
		Use:     "syndata",
		Short:   "Synthetic data generation service",
		Long:    "syndata generates schema-driven synthetic records via deterministic synthesis, LLM enrichment, retrieval-augmented adaptation, or a hybrid of the two.",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: specmint.yaml)")

	rootCmd.AddCommand(
		newServeCmd(&configFile, log),
		newGenerateCmd(&configFile, log),
		newSchemasCmd(&configFile, log),
		newValidateCmd(log),
		newDoctorCmd(&configFile, log),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
