package session

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/fjod/go_pizza/internal/publisher"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultTickInterval is one minute of the delivery countdown.
	DefaultTickInterval = time.Minute

	// DefaultSessionTTL is how long an untouched session is kept.
	DefaultSessionTTL = 2 * time.Hour

	// DefaultMaxSessions caps live sessions; the idlest one is evicted to make
	// room.
	DefaultMaxSessions = 10000
)

type Config struct {
	TickInterval time.Duration
	SessionTTL   time.Duration
	WelcomeBonus int64
	SeedOrders   bool
	MaxSessions  int
	OutboxSize   int
}

// MenuLookup resolves a catalog id for the demo order history.
type MenuLookup func(id int64) (domain.CatalogItem, bool)

// Manager owns every live session and drives the delivery countdown.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg    Config
	menu   MenuLookup
	outbox *publisher.Outbox
	clock  func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewManager(cfg Config, menu MenuLookup, pub publisher.Publisher) *Manager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if pub == nil {
		pub = publisher.NewLogPublisher()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		menu:     menu,
		outbox:   publisher.NewOutbox(pub, cfg.OutboxSize),
		clock:    time.Now,
		stop:     make(chan struct{}),
	}
}

// Create opens a new session under a fresh id and keeps it.
func (m *Manager) Create() *Session {
	s := m.Transient()

	m.mu.Lock()
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.evictIdlest()
	}
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	log.Debug().Str("session_id", s.ID()).Msg("session created")
	return s
}

// Transient builds a session that the manager does not keep. It serves
// read-only requests from visitors who have no session yet.
func (m *Manager) Transient() *Session {
	id := uuid.NewString()
	s := New(id, Options{
		WelcomeBonus: m.cfg.WelcomeBonus,
		Clock:        m.clock,
		Notify:       m.publish,
	})
	if m.cfg.SeedOrders && m.menu != nil {
		if err := s.seed(m.menu); err != nil {
			log.Error().Err(err).Str("session_id", id).Msg("failed to seed order history")
		}
	}
	return s
}

// evictIdlest drops the least recently used session. Callers hold m.mu.
func (m *Manager) evictIdlest() {
	now := m.clock()
	var (
		victim string
		oldest time.Duration = -1
	)
	for id, s := range m.sessions {
		if idle := s.idleSince(now); idle > oldest {
			victim, oldest = id, idle
		}
	}
	if victim != "" {
		delete(m.sessions, victim)
		log.Warn().Str("session_id", victim).Int("max_sessions", m.cfg.MaxSessions).Msg("session limit reached, evicted idlest session")
	}
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, creating a new one when id is
// empty or unknown.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start launches the countdown loop and the order event outbox. Both stop
// when ctx is done or Close is called; the outbox flushes what it holds.
func (m *Manager) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.wg.Add(3)
	go m.run(ctx)
	go func() {
		defer m.wg.Done()
		m.outbox.Run(ctx)
	}()
	go func() {
		defer m.wg.Done()
		defer cancel()
		select {
		case <-ctx.Done():
		case <-m.stop:
		}
	}()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Tick()
			m.expireSessions()
		case <-ctx.Done():
			return
		}
	}
}

// Tick advances the countdown of every session once.
func (m *Manager) Tick() int {
	var delivered int
	for _, s := range m.snapshot() {
		delivered += len(s.Tick())
	}
	return delivered
}

func (m *Manager) expireSessions() {
	now := m.clock()
	var expired []string
	for _, s := range m.snapshot() {
		if s.idleSince(now) > m.cfg.SessionTTL {
			expired = append(expired, s.ID())
		}
	}
	if len(expired) == 0 {
		return
	}

	m.mu.Lock()
	for _, id := range expired {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	log.Info().Int("count", len(expired)).Msg("expired idle sessions")
}

func (m *Manager) snapshot() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// publish queues n for the outbox. It never blocks the session.
func (m *Manager) publish(n domain.Notification) {
	if err := m.outbox.Enqueue(n); err != nil {
		log.Error().Err(err).Stringer("order_id", n.OrderID).Str("event_type", string(n.Kind)).Msg("dropped order event")
	}
}

// Close stops the countdown loop and the outbox and waits for both to exit.
func (m *Manager) Close() {
	m.closeOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
}
