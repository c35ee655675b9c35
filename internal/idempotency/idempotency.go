// Package idempotency remembers responses to requests carrying an
// Idempotency-Key header so that a retried bill is not charged twice.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Header is the request header carrying the client's key
const Header = "Idempotency-Key"

// ReplayedHeader is set on responses served from the cache
const ReplayedHeader = "Idempotent-Replayed"

var (
	// ErrInProgress is returned by Reserve while another request holds the key
	ErrInProgress = errors.New("request with this idempotency key is in progress")

	// ErrFingerprintMismatch is returned by Reserve when the key was first
	// used with a different request
	ErrFingerprintMismatch = errors.New("idempotency key reused with a different request")
)

const pendingPrefix = "pending:"

// Key returns the trimmed Idempotency-Key header, or ""
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

// Fingerprint hashes the JSON encoding of a decoded request
func Fingerprint(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Record is a stored response and the fingerprint of the request that
// produced it
type Record struct {
	Fingerprint string          `json:"fingerprint"`
	Status      int             `json:"status"`
	Body        json.RawMessage `json:"body"`
}

// Store reserves keys and remembers the response produced under them
type Store interface {
	// Reserve claims key for the request with fingerprint. It returns the
	// stored record if the key already completed, ErrInProgress if it is
	// claimed but not complete, ErrFingerprintMismatch if the key belongs to
	// another request, or (nil, nil) when the caller now owns the key.
	Reserve(ctx context.Context, key, fingerprint string) (*Record, error)

	// Complete stores the response for a key the caller owns. rec carries
	// the fingerprint given to Reserve.
	Complete(ctx context.Context, key string, rec Record) error

	// Release drops a key the caller owns so the request can be retried
	Release(ctx context.Context, key string) error
}

// RedisStore implements Store with SETNX on Redis
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store on client. Keys expire after ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "idempotency:billing:", ttl: ttl}
}

func (s *RedisStore) Reserve(ctx context.Context, key, fingerprint string) (*Record, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, pendingPrefix+fingerprint, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Reserve(ctx, key, fingerprint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if owner, pending := strings.CutPrefix(val, pendingPrefix); pending {
		if owner != fingerprint {
			return nil, ErrFingerprintMismatch
		}
		return nil, ErrInProgress
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency record: %w", err)
	}
	if rec.Fingerprint != fingerprint {
		return nil, ErrFingerprintMismatch
	}
	return &rec, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
