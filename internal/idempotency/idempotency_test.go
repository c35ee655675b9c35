package idempotency

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestReserveCompleteReplay(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Reserve(ctx, "k1", "fp-a")
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = s.Reserve(ctx, "k1", "fp-a")
	assert.ErrorIs(t, err, ErrInProgress)

	body := json.RawMessage(`{"sale_id":7}`)
	require.NoError(t, s.Complete(ctx, "k1", Record{Fingerprint: "fp-a", Status: 200, Body: body}))

	rec, err = s.Reserve(ctx, "k1", "fp-a")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 200, rec.Status)
	assert.JSONEq(t, `{"sale_id":7}`, string(rec.Body))
}

func TestReleaseAllowsRetry(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Reserve(ctx, "k2", "fp")
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "k2"))

	rec, err := s.Reserve(ctx, "k2", "fp")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestKeysExpire(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, err := s.Reserve(ctx, "k3", "fp")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	rec, err := s.Reserve(ctx, "k3", "fp")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReserveRejectsOtherRequest(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Reserve(ctx, "k4", "fp-a")
	require.NoError(t, err)

	_, err = s.Reserve(ctx, "k4", "fp-b")
	assert.ErrorIs(t, err, ErrFingerprintMismatch)

	require.NoError(t, s.Complete(ctx, "k4", Record{Fingerprint: "fp-a", Status: 200, Body: json.RawMessage(`{}`)}))

	_, err = s.Reserve(ctx, "k4", "fp-b")
	assert.ErrorIs(t, err, ErrFingerprintMismatch)

	rec, err := s.Reserve(ctx, "k4", "fp-a")
	require.NoError(t, err)
	require.NotNil(t, rec)
}

func TestFingerprint(t *testing.T) {
	type body struct {
		CustomerID uint `json:"customer_id"`
	}

	a, err := Fingerprint(body{CustomerID: 1})
	require.NoError(t, err)
	b, err := Fingerprint(body{CustomerID: 1})
	require.NoError(t, err)
	c, err := Fingerprint(body{CustomerID: 2})
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestKeyHeader(t *testing.T) {
	req := httptest.NewRequest("POST", "/billing", nil)
	assert.Equal(t, "", Key(req))

	req.Header.Set(Header, "  abc ")
	assert.Equal(t, "abc", Key(req))
}
