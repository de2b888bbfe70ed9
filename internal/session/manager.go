package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"drishti/internal/adapters/config"
	"drishti/internal/domain/lang"
	"drishti/internal/metrics"
	"drishti/internal/services/perception"
	"drishti/pkg/errors"
	"drishti/pkg/logger"
)

// Session is one active continuous-monitoring subscription. The registry
// owns it; the worker holds a reference and watches its context.
type Session struct {
	ID       string
	Language string

	queue  *resultQueue
	cancel context.CancelFunc
	done   chan struct{}

	mu           sync.Mutex
	lastActivity time.Time
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Manager owns the session registry and the per-session monitoring workers.
type Manager struct {
	perceptor  Perceptor
	describer  Describer
	translator Translator
	cfg        config.SessionConfig
	log        *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

// Perceptor yields detected scene items for one monitoring cycle.
type Perceptor interface {
	CaptureAndDetect(ctx context.Context) ([]perception.Item, error)
}

// Describer rewrites a composed scene summary into conversational text.
type Describer interface {
	Describe(ctx context.Context, scene string) (string, error)
}

// Translator localizes worker output at poll time. Implementations are
// fail-open and return the original text when translation is not possible.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

func NewManager(perceptor Perceptor, describer Describer, translator Translator, cfg config.SessionConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		perceptor:  perceptor,
		describer:  describer,
		translator: translator,
		cfg:        cfg,
		log:        logger.Get().With("component", "sessions"),
		sessions:   make(map[string]*Session),
		rootCtx:    ctx,
		rootCancel: cancel,
	}
}

// Start registers a new monitoring session and spawns its worker. If id is
// already registered, the old session is stopped and replaced. An empty id
// gets a generated one. Returns the effective identifier.
func (m *Manager) Start(id, language string) string {
	if id == "" {
		id = uuid.NewString()
	}
	code := lang.Normalize(language)

	m.mu.Lock()
	if old, ok := m.sessions[id]; ok {
		m.stopLocked(old)
	}

	ctx, cancel := context.WithCancel(m.rootCtx)
	s := &Session{
		ID:           id,
		Language:     code,
		queue:        newResultQueue(m.cfg.QueueSize),
		cancel:       cancel,
		done:         make(chan struct{}),
		lastActivity: time.Now(),
	}
	m.sessions[id] = s
	active := len(m.sessions)
	m.mu.Unlock()

	metrics.SessionsActive.Set(float64(active))
	m.log.Infow("Session started", "session_id", id, "language", code)

	go m.runWorker(ctx, s)
	return id
}

// Poll refreshes the session's activity timestamp and destructively reads
// the oldest queued result, localizing its response text. A nil Result with
// nil error means the session exists but has nothing queued yet.
func (m *Manager) Poll(ctx context.Context, id string) (*Result, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		return nil, errors.ErrSessionNotFound
	}

	s.touch()

	r, ok := s.queue.TryPop()
	if !ok {
		return nil, nil
	}

	if s.Language != lang.English && r.Response != "" {
		r.Response = m.translator.Translate(ctx, r.Response, lang.English, s.Language)
	}
	return &r, nil
}

// Stop halts the session's worker and removes it from the registry.
func (m *Manager) Stop(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		m.stopLocked(s)
	}
	active := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return errors.ErrSessionNotFound
	}

	metrics.SessionsActive.Set(float64(active))
	m.log.Infow("Session stopped", "session_id", id)
	return nil
}

// Sweep removes sessions idle for longer than the configured threshold.
// Returns the number of sessions removed.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var stale []*Session
	for _, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
		}
	}
	for _, s := range stale {
		m.stopLocked(s)
	}
	active := len(m.sessions)
	m.mu.Unlock()

	if len(stale) > 0 {
		metrics.SessionsActive.Set(float64(active))
		for _, s := range stale {
			m.log.Infow("Session cleaned up", "session_id", s.ID)
		}
	}
	return len(stale)
}

// ActiveCount returns the number of registered sessions.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown stops every session and waits for the workers to exit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	m.rootCancel()
	for _, s := range all {
		<-s.done
	}
	metrics.SessionsActive.Set(0)
}

// stopLocked signals the worker and unregisters the session. Caller holds m.mu.
func (m *Manager) stopLocked(s *Session) {
	s.cancel()
	delete(m.sessions, s.ID)
}
