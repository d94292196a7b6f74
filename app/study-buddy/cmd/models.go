package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cchalm/study-buddy/internal/telemetry"
	"github.com/cchalm/study-buddy/internal/transport"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available from the configured provider",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := setupContext()
	tracer := telemetry.NoopTracer()

	models, err := createModelClient(ctx, transport.NewHTTPClient(tracer), tracer)
	if err != nil {
		return err
	}

	names, err := models.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
