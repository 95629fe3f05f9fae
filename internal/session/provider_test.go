package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewManager(NewRedisStore(rdb), time.Hour, zerolog.Nop()), mr, rdb
}

// blockingStore holds Load until release is closed.
type blockingStore struct {
	Store
	release chan struct{}
	loads   int
}

func (b *blockingStore) Load(ctx context.Context, key string) ([]byte, error) {
	b.loads++
	<-b.release
	return b.Store.Load(ctx, key)
}

func seed(t *testing.T, mr *miniredis.Miniredis, sessionID string, profile model.SessionProfile) {
	t.Helper()
	blob, err := json.Marshal(profile)
	require.NoError(t, err)
	require.NoError(t, mr.Set(config.CacheKey.SessionKey(sessionID), string(blob)))
}

func TestResolvePersistedProfile(t *testing.T) {
	m, mr, _ := newTestManager(t)
	want := model.SessionProfile{ID: 7, Role: model.RoleDoctor, DisplayName: "Dr. Ortega"}
	seed(t, mr, "s1", want)

	p := m.NewProvider("s1")
	assert.Equal(t, StateIdle, p.State())

	got, ok := p.Resolve(context.Background())
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, StateResolved, p.State())
}

func TestResolveMissingSessionIsAbsent(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, ok := m.NewProvider("nobody").Resolve(context.Background())
	assert.False(t, ok)

	_, ok = m.NewProvider("").Resolve(context.Background())
	assert.False(t, ok)
}

func TestResolveMalformedBlobIsAbsent(t *testing.T) {
	m, mr, _ := newTestManager(t)
	require.NoError(t, mr.Set(config.CacheKey.SessionKey("bad"), "not-json"))
	require.NoError(t, mr.Set(config.CacheKey.SessionKey("role"), `{"id":1,"role":"superuser"}`))

	assert.NotPanics(t, func() {
		_, ok := m.NewProvider("bad").Resolve(context.Background())
		assert.False(t, ok)
	})
	_, ok := m.NewProvider("role").Resolve(context.Background())
	assert.False(t, ok)
}

func TestResolvingUntilStoreAnswers(t *testing.T) {
	m, mr, _ := newTestManager(t)
	seed(t, mr, "s1", model.SessionProfile{ID: 1, Role: model.RoleAdmin})

	bs := &blockingStore{Store: m.store, release: make(chan struct{})}
	p := newProvider(bs, "s1", time.Hour, zerolog.Nop())

	p.Init(context.Background())
	assert.Equal(t, StateResolving, p.State())
	_, ok := p.Profile()
	assert.False(t, ok)

	select {
	case <-p.Ready():
		t.Fatal("ready before store answered")
	default:
	}

	close(bs.release)
	<-p.Ready()
	assert.Equal(t, StateResolved, p.State())
	_, ok = p.Profile()
	assert.True(t, ok)
}

func TestStoreReadOnlyOnce(t *testing.T) {
	m, mr, _ := newTestManager(t)
	seed(t, mr, "s1", model.SessionProfile{ID: 1, Role: model.RoleAdmin})

	bs := &blockingStore{Store: m.store, release: make(chan struct{})}
	close(bs.release)
	p := newProvider(bs, "s1", time.Hour, zerolog.Nop())

	_, ok := p.Resolve(context.Background())
	require.True(t, ok)

	// Removing the blob behind the provider's back does not change its answer.
	mr.Del(config.CacheKey.SessionKey("s1"))
	for i := 0; i < 3; i++ {
		_, ok = p.Resolve(context.Background())
		assert.True(t, ok)
	}
	assert.Equal(t, 1, bs.loads)
}

func TestResolveContextCancelled(t *testing.T) {
	m, _, _ := newTestManager(t)
	bs := &blockingStore{Store: m.store, release: make(chan struct{})}
	p := newProvider(bs, "s1", time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := p.Resolve(ctx)
	assert.False(t, ok)

	close(bs.release)
	<-p.Ready()
}

func TestLoginThenLogout(t *testing.T) {
	m, mr, rdb := newTestManager(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, config.CacheKey.SessionEventsChannel("s1"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p := m.NewProvider("s1")
	profile := model.SessionProfile{ID: 3, Role: model.RoleAdmin, DisplayName: "Ana"}
	require.NoError(t, p.Login(ctx, profile))
	assert.True(t, mr.Exists(config.CacheKey.SessionKey("s1")))

	got, ok := p.Profile()
	require.True(t, ok)
	assert.Equal(t, profile, got)

	// A fresh provider resolves the blob written by Login.
	_, ok = m.NewProvider("s1").Resolve(ctx)
	assert.True(t, ok)

	require.NoError(t, p.Logout(ctx))
	assert.False(t, mr.Exists(config.CacheKey.SessionKey("s1")))
	_, ok = p.Profile()
	assert.False(t, ok)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, EventLogout, ev.Type)
	assert.Equal(t, "s1", ev.SessionID)
}

func TestLoginRejectsInvalidInput(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	assert.ErrorIs(t, m.NewProvider("s1").Login(ctx, model.SessionProfile{ID: 1, Role: "root"}), ErrInvalidRole)
	assert.ErrorIs(t, m.NewProvider("").Login(ctx, model.SessionProfile{ID: 1, Role: model.RoleAdmin}), ErrNoSessionID)
}

func TestCloseDropsProfile(t *testing.T) {
	m, mr, _ := newTestManager(t)
	seed(t, mr, "s1", model.SessionProfile{ID: 1, Role: model.RolePatient})

	p := m.NewProvider("s1")
	_, ok := p.Resolve(context.Background())
	require.True(t, ok)

	p.Close()
	assert.Equal(t, StateClosed, p.State())
	_, ok = p.Profile()
	assert.False(t, ok)
	assert.True(t, mr.Exists(config.CacheKey.SessionKey("s1")))
	assert.ErrorIs(t, p.Logout(context.Background()), ErrClosed)
}

func TestSettledProviderIgnoresCancelledContext(t *testing.T) {
	m, _, _ := newTestManager(t)
	p := m.NewProvider("s1")
	profile := model.SessionProfile{ID: 4, Role: model.RoleDoctor}
	require.NoError(t, p.Login(context.Background(), profile))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 200; i++ {
		got, ok := p.Resolve(ctx)
		require.True(t, ok)
		assert.Equal(t, profile, got)
	}
	require.NoError(t, p.Logout(ctx))
}

// closingStore closes the provider while Save is in flight.
type closingStore struct {
	Store
	p *Provider
}

func (c *closingStore) Save(ctx context.Context, key string, blob []byte, ttl time.Duration) error {
	c.p.Close()
	return c.Store.Save(ctx, key, blob, ttl)
}

func TestLoginAfterConcurrentCloseKeepsProviderEmpty(t *testing.T) {
	m, _, _ := newTestManager(t)
	cs := &closingStore{Store: m.store}
	p := newProvider(cs, "s1", time.Hour, zerolog.Nop())
	cs.p = p

	err := p.Login(context.Background(), model.SessionProfile{ID: 5, Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrClosed)
	_, ok := p.Profile()
	assert.False(t, ok)
	assert.Equal(t, StateClosed, p.State())
}
