package cart

import (
	"context"
	"sync"
	"time"

	"mvee-store/internal/repository"

	"go.uber.org/zap"
)

// 触られていないStoreをメモリに残しておく時間。
// 落としても次のアクセスでスナップショットから復元される
const storeIdleTTL = 30 * time.Minute

type storeEntry struct {
	store    *Store
	lastSeen time.Time
}

// Manager はセッションキーごとに生きているStoreを束ねる。
// 同じキーには常に同じStoreを返す（セッションをまたぐ共有状態は無い）。
// 放置されたセッションのStoreは定期的にメモリから落とす
type Manager struct {
	mu        sync.Mutex
	entries   map[string]*storeEntry
	snapshots repository.CartSnapshotRepository
	log       *zap.Logger
	idleTTL   time.Duration
}

func NewManager(snapshots repository.CartSnapshotRepository, log *zap.Logger) *Manager {
	m := &Manager{
		entries:   make(map[string]*storeEntry),
		snapshots: snapshots,
		log:       log,
		idleTTL:   storeIdleTTL,
	}
	go m.cleanup()
	return m
}

// Store はセッションのカートを返す。初回はスナップショットから復元する
func (m *Manager) Store(ctx context.Context, sessionKey string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[sessionKey]; ok {
		e.lastSeen = time.Now()
		return e.store
	}
	s := NewStore(ctx, sessionKey, m.snapshots, m.log)
	m.entries[sessionKey] = &storeEntry{store: s, lastSeen: time.Now()}
	return s
}

// しばらく来ていないセッションのStoreを捨てる
func (m *Manager) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		m.evictIdle(time.Now())
	}
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.entries {
		if now.Sub(e.lastSeen) > m.idleTTL {
			delete(m.entries, key)
		}
	}
}
