// Package audit records each request's input and output to an object store for later inspection.
//
// Audit logging is best-effort: Log makes a single attempt and returns any failure to the caller, which is
// expected to report it locally and carry on. Nothing read by the rest of the service depends on these records.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cchalm/study-buddy/internal/blobstore"
)

const (
	objectPrefix    = "logs/"
	objectTimeStamp = "20060102-150405"
	contentType     = "application/json"
)

// Record is one persisted input/output pair
type Record struct {
	Timestamp string `json:"timestamp"` // RFC 3339
	Endpoint  string `json:"endpoint"`
	Input     string `json:"input"`
	Output    string `json:"output"`
}

// Logger writes audit records to a blobstore.Store
type Logger struct {
	store blobstore.Store
	now   func() time.Time
}

// NewLogger creates a logger writing to store. A nil store yields a logger that records nothing
func NewLogger(store blobstore.Store) *Logger {
	return &Logger{store: store, now: time.Now}
}

// Enabled reports whether records are persisted anywhere
func (l *Logger) Enabled() bool {
	return l != nil && l.store != nil
}

// ObjectName returns the name a record for endpoint written at t is stored under. Names have one-second
// resolution, so two records for the same endpoint in the same second share a name and the later one wins
func ObjectName(endpoint string, t time.Time) string {
	return fmt.Sprintf("%s%s_%s.json", objectPrefix, endpoint, t.Format(objectTimeStamp))
}

// Log persists one input/output pair and returns the object name it was written to
func (l *Logger) Log(ctx context.Context, input string, output string, endpoint string) (string, error) {
	if !l.Enabled() {
		return "", nil
	}

	now := l.now()
	name := ObjectName(endpoint, now)
	record := Record{
		Timestamp: now.Format(time.RFC3339Nano),
		Endpoint:  endpoint,
		Input:     input,
		Output:    output,
	}

	b, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit record: %w", err)
	}
	if err := l.store.Put(ctx, name, b, contentType); err != nil {
		return "", fmt.Errorf("failed to store audit record '%s': %w", name, err)
	}
	return name, nil
}
