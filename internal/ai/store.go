package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// HistoryStore manages storage of per-session conversation histories
type HistoryStore interface {
	// Get returns the turns stored under the given key, oldest first, or nil if nothing is stored at that key
	Get(ctx context.Context, key string) ([]Turn, error)
	// Append adds turns to the end of the history stored under the given key
	Append(ctx context.Context, key string, turns ...Turn) error
	// Clear empties the history stored under the given key
	Clear(ctx context.Context, key string) error
}

// MemoryHistoryStore implements HistoryStore with an in-process map. Histories are lost on restart
type MemoryHistoryStore struct {
	mu        sync.RWMutex
	histories map[string][]Turn
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{
		histories: make(map[string][]Turn),
	}
}

func (s *MemoryHistoryStore) Get(_ context.Context, key string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.histories[key]
	if !ok {
		return nil, nil
	}
	// Copy so callers never alias the stored slice
	return append([]Turn{}, turns...), nil
}

func (s *MemoryHistoryStore) Append(_ context.Context, key string, turns ...Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[key] = append(s.histories[key], turns...)
	return nil
}

func (s *MemoryHistoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[key] = []Turn{}
	return nil
}

// FileSystemHistoryStore implements HistoryStore using one JSON file per key in a directory
type FileSystemHistoryStore struct {
	dir string // The directory keys will be relative to
	mu  sync.Mutex
}

func NewFileSystemHistoryStore(dir string) (*FileSystemHistoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create conversations directory: %w", err)
	}
	return &FileSystemHistoryStore{dir: dir}, nil
}

func (s *FileSystemHistoryStore) Get(_ context.Context, key string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(key)
}

func (s *FileSystemHistoryStore) Append(_ context.Context, key string, turns ...Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(key)
	if err != nil {
		return err
	}
	return s.write(key, append(existing, turns...))
}

func (s *FileSystemHistoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(key, []Turn{})
}

func (s *FileSystemHistoryStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid history key '%s'", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileSystemHistoryStore) read(key string) ([]Turn, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// The file doesn't exist so nothing is stored at this key
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var turns []Turn
	err = json.Unmarshal(b, &turns)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation history: %w", err)
	}
	return turns, nil
}

func (s *FileSystemHistoryStore) write(key string, turns []Turn) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	b, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation history: %w", err)
	}
	err = os.WriteFile(path, b, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

const (
	historyKeyPrefix  = "conversation:"
	defaultHistoryTTL = 24 * time.Hour
)

// RedisHistoryStore implements HistoryStore with one Redis list per key. Each element is a JSON-encoded turn.
// Keys expire after a TTL that is refreshed on every read and write
type RedisHistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHistoryStore(client *redis.Client, ttl time.Duration) *RedisHistoryStore {
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	return &RedisHistoryStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisHistoryStore) Get(ctx context.Context, key string) ([]Turn, error) {
	redisKey := historyKeyPrefix + key
	vals, err := s.client.LRange(ctx, redisKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history from redis: %w", err)
	}
	if len(vals) == 0 {
		return nil, nil
	}

	turns := make([]Turn, 0, len(vals))
	for _, val := range vals {
		var turn Turn
		if err := json.Unmarshal([]byte(val), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversation turn: %w", err)
		}
		turns = append(turns, turn)
	}

	// Refresh TTL on read; a failure here only shortens the session's life
	_ = s.client.Expire(ctx, redisKey, s.ttl).Err()

	return turns, nil
}

func (s *RedisHistoryStore) Append(ctx context.Context, key string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}
	redisKey := historyKeyPrefix + key

	vals := make([]any, 0, len(turns))
	for _, turn := range turns {
		b, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to marshal conversation turn: %w", err)
		}
		vals = append(vals, string(b))
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, redisKey, vals...)
		pipe.Expire(ctx, redisKey, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append history in redis: %w", err)
	}
	return nil
}

// Clear deletes the list. Redis has no empty lists, so a cleared history reads back as an empty one
func (s *RedisHistoryStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, historyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to clear history in redis: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (s *RedisHistoryStore) Close() error {
	return s.client.Close()
}
