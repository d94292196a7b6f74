package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/cchalm/study-buddy/internal/ai"
	"github.com/cchalm/study-buddy/internal/blobstore"
	"github.com/cchalm/study-buddy/internal/config"
	"github.com/cchalm/study-buddy/internal/provider"
	"github.com/cchalm/study-buddy/internal/telemetry"
)

func setupContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		log.Println("Interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		log.Fatal("Forcing shutdown")
	}()

	return ctx
}

func createTelemetryProvider(ctx context.Context) (*telemetry.Provider, error) {
	telemetryConfig := telemetry.TelemetryConfig{
		Enabled:      cfg.TelemetryEnabled,
		OTLPEndpoint: cfg.OTLPEndpoint,
	}
	return telemetry.NewProvider(ctx, telemetryConfig)
}

func createModelClient(ctx context.Context, httpClient *http.Client, tracer trace.Tracer) (provider.Client, error) {
	client, err := provider.NewClient(ctx, provider.Config{
		Type:       provider.ProviderType(cfg.ModelProvider),
		APIKey:     cfg.APIKey,
		Model:      cfg.ModelName,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return provider.WithTracing(client, tracer), nil
}

// createHistoryStore returns the configured conversation history store and a function releasing its resources
func createHistoryStore() (ai.HistoryStore, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := ai.NewRedisHistoryStore(client, cfg.SessionTTL)
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("Failed to close redis client: %v", err)
			}
		}, nil
	case config.SessionStoreFS:
		store, err := ai.NewFileSystemHistoryStore(cfg.ConversationsDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return ai.NewMemoryHistoryStore(), func() {}, nil
	}
}

// createAuditStore returns the configured audit object store, or nil when auditing is disabled, and a function
// releasing its resources
func createAuditStore(ctx context.Context, tracer trace.Tracer) (blobstore.Store, func(), error) {
	var store blobstore.Store
	closeFn := func() {}

	switch cfg.AuditStore {
	case config.AuditStoreNone:
		return nil, closeFn, nil
	case config.AuditStoreGCS:
		gcs, err := blobstore.NewGCSStore(ctx, cfg.AuditBucket, cfg.GCSAccessToken, nil)
		if err != nil {
			// Auditing is best-effort
			log.Printf("Audit logging disabled, failed to create GCS audit store: %v", err)
			return nil, closeFn, nil
		}
		store = gcs
		closeFn = func() {
			if err := gcs.Close(); err != nil {
				log.Printf("Failed to close storage client: %v", err)
			}
		}
	case config.AuditStoreSupabase:
		supabaseStore, err := blobstore.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.AuditBucket)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Supabase audit store: %w", err)
		}
		store = supabaseStore
	case config.AuditStoreFS:
		store = blobstore.NewFileSystemStore(cfg.AuditDir)
	default:
		return nil, nil, fmt.Errorf("unsupported audit store '%s'", cfg.AuditStore)
	}

	return blobstore.WithTracing(store, tracer), closeFn, nil
}
