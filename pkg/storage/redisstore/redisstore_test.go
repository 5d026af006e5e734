package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alexim39/marketspase-engine/pkg/config"
	"github.com/alexim39/marketspase-engine/pkg/storage"
	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	values map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	value, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(value)
	return cmd
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	switch typed := value.(type) {
	case []byte:
		m.values[key] = string(typed)
	case string:
		m.values[key] = typed
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &Store{client: newMockCmdable()}

	_, found, err := store.Read(ctx, storage.KeyCart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected missing key before write")
	}

	if err := store.Write(ctx, storage.KeyCart, []byte(`[{"productId":"p1"}]`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	value, found, err := store.Read(ctx, storage.KeyCart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || string(value) != `[{"productId":"p1"}]` {
		t.Fatalf("unexpected read result found=%v value=%s", found, value)
	}

	if err := store.Delete(ctx, storage.KeyCart); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found, _ := store.Read(ctx, storage.KeyCart); found {
		t.Fatal("expected key to be gone after delete")
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.PoolSize != 5 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
