package cmd

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cchalm/study-buddy/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "study-buddy",
	Short: "AI study assistant web backend",
	Long: `Study Buddy is a small web backend that forwards chat, grammar correction, summarization
and image analysis requests to a hosted generative model, keeping per-session chat memory
and writing each exchange to an object store for auditing.`,
	PersistentPreRunE: loadRootConfig,
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(_ *cobra.Command, _ []string) error {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return nil
}
