// Package routesource loads route documents and publishes them to a
// routing.Store. Sources read YAML from a file or a Redis key; a Reloader
// coalesces concurrent reloads and can run on a cron schedule or on Redis
// pub/sub notifications.
package routesource

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"service-gateway/internal/circuitbreaker"
	"service-gateway/internal/common/errors"
	"service-gateway/internal/common/validation"
	gatewayredis "service-gateway/internal/redis"
	"service-gateway/internal/routing"
)

// Source produces a complete route document
type Source interface {
	Name() string
	Load(ctx context.Context) (routing.Document, error)
}

// Parse decodes a YAML (or JSON) route document and validates it. Unknown
// fields are rejected.
func Parse(data []byte) (routing.Document, error) {
	var doc routing.Document
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, errors.ConfigError("route document is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return doc, errors.ConfigError(fmt.Sprintf("invalid route document: %v", err))
	}

	if err := validation.ValidateStruct(doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// FileSource reads a route document from disk on every Load
type FileSource struct {
	path string
}

// NewFileSource creates a source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name identifies the source in logs and metrics
func (s *FileSource) Name() string {
	return "file"
}

// Path returns the file path
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and parses the file
func (s *FileSource) Load(ctx context.Context) (routing.Document, error) {
	if err := ctx.Err(); err != nil {
		return routing.Document{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return routing.Document{}, errors.ConfigError(fmt.Sprintf("cannot read routes file %s: %v", s.path, err))
	}
	return Parse(data)
}

// KeyReader is the Redis read the RedisSource needs
type KeyReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// RedisSource reads a route document stored under a Redis key. Reads go
// through a guard so an unreachable Redis fails fast instead of stalling
// every reload.
type RedisSource struct {
	client KeyReader
	key    string
	guard  *circuitbreaker.Guard
}

// NewRedisSource creates a source for key. A nil guard gets the
// SourceGuardConfig defaults.
func NewRedisSource(client KeyReader, key string, guard *circuitbreaker.Guard) *RedisSource {
	if guard == nil {
		guard = circuitbreaker.NewGuard("routes-redis", circuitbreaker.SourceGuardConfig, nil)
	}
	return &RedisSource{client: client, key: key, guard: guard}
}

// Name identifies the source in logs and metrics
func (s *RedisSource) Name() string {
	return "redis"
}

// Key returns the Redis key
func (s *RedisSource) Key() string {
	return s.key
}

// Guard exposes the breaker around Redis reads
func (s *RedisSource) Guard() *circuitbreaker.Guard {
	return s.guard
}

// Load fetches and parses the document
func (s *RedisSource) Load(ctx context.Context) (routing.Document, error) {
	var data []byte
	err := s.guard.Execute(ctx, func(ctx context.Context) error {
		var err error
		data, err = s.client.Get(ctx, s.key)
		if stderrors.Is(err, gatewayredis.ErrKeyNotFound) {
			return errors.NotFoundError(fmt.Sprintf("route document at redis key %q", s.key))
		}
		return err
	})
	if err != nil {
		return routing.Document{}, err
	}
	return Parse(data)
}

// StaticSource always returns the same document
type StaticSource struct {
	doc routing.Document
}

// NewStaticSource wraps doc
func NewStaticSource(doc routing.Document) *StaticSource {
	return &StaticSource{doc: doc}
}

// Name identifies the source in logs and metrics
func (s *StaticSource) Name() string {
	return "static"
}

// Load returns the wrapped document
func (s *StaticSource) Load(context.Context) (routing.Document, error) {
	return s.doc, nil
}
