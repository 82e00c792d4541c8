package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"geobot/internal/geocode"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreUnknownChatIsIdle(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.State != StateIdle {
		t.Fatalf("state = %q, want idle", sess.State)
	}
	if len(sess.Details) != 0 {
		t.Fatalf("details = %v, want empty", sess.Details)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := Session{
		State:   StateAwaitingDetails,
		Details: []geocode.Field{geocode.FieldCity, geocode.FieldCountry},
	}
	if err := store.Put(ctx, 7, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.State != StateAwaitingDetails {
		t.Fatalf("state = %q", out.State)
	}
	if len(out.Details) != 2 || out.Details[0] != geocode.FieldCity || out.Details[1] != geocode.FieldCountry {
		t.Fatalf("details = %v, order must be preserved", out.Details)
	}
}

func TestRedisStoreOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, 7, Session{State: StateAwaitingQuery}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, 7, Idle()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.State != StateIdle {
		t.Fatalf("state = %q, want idle after overwrite", out.State)
	}
}

func TestMemoryStoreDefaults(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.State != StateIdle {
		t.Fatalf("state = %q, want idle", sess.State)
	}

	if err := store.Put(ctx, 1, Session{State: StateSelectingDetails, Details: []geocode.Field{geocode.FieldStreet}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	sess, err = store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.State != StateSelectingDetails || len(sess.Details) != 1 {
		t.Fatalf("unexpected session: %+v", sess)
	}
}
