package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/cchalm/study-buddy/internal/ai"
	"github.com/cchalm/study-buddy/internal/audit"
	"github.com/cchalm/study-buddy/internal/server"
	"github.com/cchalm/study-buddy/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Starts the web server. The process refuses to start unless the API key for the
configured model provider is set.`,
	RunE: runServe,
}

var addrFlag string

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Address to listen on (overrides LISTEN_ADDR)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if addrFlag != "" {
		cfg.ListenAddr = addrFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := setupContext()

	telemetryProvider, err := createTelemetryProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shut down telemetry: %v", err)
		}
	}()
	tracer := telemetryProvider.Tracer()
	httpClient := transport.NewHTTPClient(tracer)

	log.Printf("Starting Study Buddy %s (commit %s)", versionInfo.version, versionInfo.gitCommit)
	log.Printf("Model provider: %s", cfg.ModelProvider)

	models, err := createModelClient(ctx, httpClient, tracer)
	if err != nil {
		return err
	}

	historyStore, closeHistory, err := createHistoryStore()
	if err != nil {
		return err
	}
	defer closeHistory()
	log.Printf("Conversation store: %s", cfg.SessionStore)

	auditStore, closeAudit, err := createAuditStore(ctx, tracer)
	if err != nil {
		return err
	}
	defer closeAudit()
	log.Printf("Audit store: %s", cfg.AuditStore)

	srv, err := server.NewServer(server.Options{
		Addr:           cfg.ListenAddr,
		Models:         models,
		Conversations:  ai.NewManager(historyStore),
		Audit:          audit.NewLogger(auditStore),
		SessionSecret:  cfg.SessionSecret,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.ListenAndServe(ctx)
}
