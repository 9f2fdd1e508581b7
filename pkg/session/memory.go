package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/lottieframes/pkg/exporter"
)

// ExporterFactory creates the exporter of a new session.
type ExporterFactory func() (*exporter.Exporter, error)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	newExporter ExporterFactory
	ttl         time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(newExporter ExporterFactory, ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		newExporter: newExporter,
		ttl:         ttl,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	ex, err := m.newExporter()
	if err != nil {
		return nil, err
	}

	now := m.now()
	sctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        NewID(),
		CreatedAt: now,
		Exporter:  ex,
		ctx:       sctx,
		cancel:    cancel,
		expiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := m.now()
	if s.expired(now) {
		m.Delete(ctx, id)
		return nil, ErrExpired
	}
	s.touch(now, m.ttl)
	return s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.close()
	}
	return nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.expired(now) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired), nil
}

// Len is the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	return nil
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (m *MemoryStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup(ctx)
		}
	}
}
