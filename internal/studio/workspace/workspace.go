// Package workspace는 스튜디오 세션을 생성하고 수명을 관리합니다.
// 세션마다 별도의 저장소와 조율기, 취소 가능한 컨텍스트를 가지며
// 세션이 닫히면 진행 중인 생성 결과는 버려집니다.
package workspace

import (
	"context"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/AX07/cryptoax07-visual-generator/internal/studio/orchestrator"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/sequencer"
	"github.com/AX07/cryptoax07-visual-generator/internal/studio/session"
	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
	"github.com/AX07/cryptoax07-visual-generator/pkg/messaging"
)

// ErrSessionClosed 닫힌 세션에 작업을 시작하려는 경우
var ErrSessionClosed = apperrors.NewAppError(apperrors.ErrConflict, "Session closed", nil)

// Session 스튜디오 세션 하나
type Session struct {
	ID           string
	Store        *session.Store
	Orchestrator *orchestrator.Orchestrator

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.Logger

	// mu는 lastSeen과 함께 닫힘 이후의 wg.Add를 막습니다.
	mu       sync.Mutex
	lastSeen time.Time
}

// Context 세션 수명과 같은 컨텍스트. 세션이 닫히면 취소됩니다.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Go는 fn을 세션 컨텍스트로 백그라운드 실행합니다.
// 이미 닫힌 세션이면 실행하지 않고 ErrSessionClosed를 반환합니다.
func (s *Session) Go(name string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if err := fn(s.ctx); err != nil && s.ctx.Err() == nil {
			s.logger.Warn("background workflow failed", zap.String("workflow", name), zap.Error(err))
		}
	}()
	return nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// close는 진행 중인 작업을 취소하고 이후 변경을 막습니다.
func (s *Session) close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.Store.Close()
}

// Wait 백그라운드 작업이 모두 끝날 때까지 기다립니다.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Event 세션 변경 발행 메시지
type Event struct {
	SessionID  string    `json:"sessionId"`
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	ItemID     string    `json:"itemId,omitempty"`
	At         time.Time `json:"at"`
}

// Registry 세션 레지스트리
type Registry struct {
	gen       orchestrator.Generator
	delay     time.Duration
	ttl       time.Duration
	publisher messaging.Publisher
	channel   string
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option Registry 옵션
type Option func(*Registry)

// WithItemDelay 이미지 생성 사이 대기 시간
func WithItemDelay(d time.Duration) Option {
	return func(r *Registry) { r.delay = d }
}

// WithTTL 마지막 접근 이후 세션을 유지하는 시간. 0이면 만료하지 않습니다.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

// WithPublisher 세션 변경 이벤트 발행자
func WithPublisher(p messaging.Publisher, channel string) Option {
	return func(r *Registry) {
		r.publisher = p
		r.channel = channel
	}
}

// WithLogger 로거를 설정합니다.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithClock 시각 함수를 교체합니다.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry 세션 레지스트리를 생성합니다.
func NewRegistry(gen orchestrator.Generator, opts ...Option) *Registry {
	r := &Registry{
		gen:       gen,
		delay:     orchestrator.DefaultItemDelay,
		publisher: messaging.NopPublisher{},
		logger:    zap.NewNop(),
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create 새 세션을 만듭니다.
func (r *Registry) Create() (*Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	logger := r.logger.With(zap.String("session", id))
	store := session.NewStore(session.WithObserver(r.observer(id)))

	s := &Session{
		ID:    id,
		Store: store,
		Orchestrator: orchestrator.New(r.gen, store,
			orchestrator.WithSequencer(sequencer.New(r.delay, sequencer.WithLogger(logger))),
			orchestrator.WithLogger(logger),
		),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
		lastSeen: r.now(),
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	logger.Info("studio session created")
	return s, nil
}

// Get id 세션을 조회하고 마지막 접근 시각을 갱신합니다.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Len 활성 세션 수
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close id 세션을 닫습니다. 진행 중인 생성 결과는 버려집니다.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.close()
		s.logger.Info("studio session closed")
	}
	return ok
}

// Sweep TTL이 지난 세션을 닫고 닫은 수를 반환합니다.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.RLock()
	var expired []string
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range expired {
		r.Close(id)
	}
	return len(expired)
}

// RunJanitor ctx가 끝날 때까지 interval마다 Sweep을 실행합니다.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("expired studio sessions closed", zap.Int("count", n))
			}
		}
	}
}

// Shutdown 모든 세션을 닫습니다.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	for _, s := range sessions {
		s.Wait()
	}
}

func (r *Registry) observer(sessionID string) session.Observer {
	return func(c session.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := r.publisher.Publish(ctx, r.channel, Event{
			SessionID:  sessionID,
			Collection: c.Collection,
			Op:         c.Op,
			ItemID:     c.ID,
			At:         r.now(),
		})
		if err != nil {
			r.logger.Warn("failed to publish session event",
				zap.String("session", sessionID),
				zap.String("collection", c.Collection),
				zap.Error(err),
			)
		}
	}
}
