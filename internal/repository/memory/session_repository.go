package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/pkg/store"
)

const (
	DefaultSessionTimeout = 60 * time.Minute
	DefaultSweepInterval  = 10 * time.Minute
)

// SessionStore keeps conversation sessions in process memory. Sessions are
// never expired by the cache itself; Sweep removes the idle ones.
type SessionStore struct {
	sessions    *cache.Cache
	connections *cache.Cache

	timeout       time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        logger.ILogger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type Option func(*SessionStore)

func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) {
		s.now = now
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *SessionStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithSweepInterval(d time.Duration) Option {
	return func(s *SessionStore) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

func NewSessionStore(log logger.ILogger, opts ...Option) *SessionStore {
	s := &SessionStore{
		sessions:      cache.New(cache.NoExpiration, 0),
		connections:   cache.New(cache.NoExpiration, 0),
		timeout:       DefaultSessionTimeout,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		logger:        log,
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the session for id, creating it on first use, and marks it active.
func (s *SessionStore) GetOrCreate(sessionID string) *store.ConversationSession {
	now := s.now()
	if sess, ok := s.lookup(sessionID); ok {
		sess.Touch(now)
		return sess
	}

	fresh := store.NewConversationSession(sessionID, now)
	if err := s.sessions.Add(sessionID, fresh, cache.NoExpiration); err == nil {
		s.logger.Debug("SessionStore", "Session created", map[string]interface{}{"session_id": sessionID})
		return fresh
	}

	// Another caller created it between lookup and Add.
	if sess, ok := s.lookup(sessionID); ok {
		sess.Touch(now)
		return sess
	}
	s.sessions.Set(sessionID, fresh, cache.NoExpiration)
	return fresh
}

// Get returns an existing session without touching it.
func (s *SessionStore) Get(sessionID string) (*store.ConversationSession, bool) {
	return s.lookup(sessionID)
}

func (s *SessionStore) lookup(sessionID string) (*store.ConversationSession, bool) {
	x, found := s.sessions.Get(sessionID)
	if !found {
		return nil, false
	}
	return x.(*store.ConversationSession), true
}

func (s *SessionStore) HasTrainingContext(sessionID string) bool {
	sess, ok := s.lookup(sessionID)
	return ok && sess.HasTrainingContext()
}

func (s *SessionStore) TrainingContext(sessionID string) string {
	if sess, ok := s.lookup(sessionID); ok {
		return sess.TrainingContext()
	}
	return ""
}

func (s *SessionStore) MarkTrainingContextLoaded(sessionID, rendered string, materialIDs []string) {
	s.GetOrCreate(sessionID).MarkTrainingContextLoaded(rendered, materialIDs, s.now())
}

// History returns the message-log entries of the last maxTurns turns, two
// entries per turn. A non-positive maxTurns returns the whole log.
func (s *SessionStore) History(sessionID string, maxTurns int) []string {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return []string{}
	}
	return sess.Messages(2 * maxTurns)
}

func (s *SessionStore) Turns(sessionID string) []store.ConversationTurn {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return nil
	}
	return sess.Turns()
}

// AppendTurn records a completed user/assistant exchange.
func (s *SessionStore) AppendTurn(sessionID, userQuery, reply string) {
	s.GetOrCreate(sessionID).AppendTurn(userQuery, reply, store.TurnConversation, s.now())
}

// AppendWelcome records a welcome reply with no user half.
func (s *SessionStore) AppendWelcome(sessionID, reply string) {
	s.AppendAssistantMessage(sessionID, reply, store.TurnWelcome, map[string]string{"is_welcome_message": "true"})
}

func (s *SessionStore) AppendAssistantMessage(sessionID, reply string, turnType store.TurnType, metadata map[string]string) {
	s.GetOrCreate(sessionID).AppendAssistantOnly(reply, turnType, metadata, s.now())
}

func (s *SessionStore) HasWelcomeMessage(sessionID string) bool {
	_, ok := s.ExistingWelcomeMessage(sessionID)
	return ok
}

func (s *SessionStore) ExistingWelcomeMessage(sessionID string) (string, bool) {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return "", false
	}
	return sess.WelcomeMessage()
}

func (s *SessionStore) ProviderState(sessionID string) store.ProviderState {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return store.ProviderState{}
	}
	return sess.ProviderState(s.now())
}

func (s *SessionStore) SetProviderState(sessionID, conversationID, responseID string) {
	if sess, ok := s.lookup(sessionID); ok {
		sess.SetProviderState(conversationID, responseID)
	}
}

// InvalidateAllTrainingContexts clears the cached selection on every live
// session and returns how many sessions had one.
func (s *SessionStore) InvalidateAllTrainingContexts() int {
	invalidated := 0
	for _, item := range s.sessions.Items() {
		if item.Object.(*store.ConversationSession).InvalidateTrainingContext() {
			invalidated++
		}
	}
	s.logger.Info("SessionStore", "Training contexts invalidated", map[string]interface{}{"count": invalidated})
	return invalidated
}

func (s *SessionStore) ClearSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

// ActiveSessionIDs lists sessions whose last activity is within the timeout.
func (s *SessionStore) ActiveSessionIDs() []string {
	now := s.now()
	items := s.sessions.Items()
	ids := make([]string, 0, len(items))
	for id, item := range items {
		if now.Sub(item.Object.(*store.ConversationSession).LastActivity()) <= s.timeout {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}

// Sweep removes sessions idle for longer than the timeout and returns how many went.
func (s *SessionStore) Sweep() int {
	now := s.now()
	removed := 0
	for id, item := range s.sessions.Items() {
		sess := item.Object.(*store.ConversationSession)
		if now.Sub(sess.LastActivity()) > s.timeout {
			s.sessions.Delete(id)
			removed++
		}
	}
	return removed
}

// MapConnection binds a transport connection to a session.
func (s *SessionStore) MapConnection(connectionID, sessionID string) {
	s.connections.Set(connectionID, sessionID, cache.NoExpiration)
}

// UnmapConnection forgets the binding; the session itself is left for the sweep.
func (s *SessionStore) UnmapConnection(connectionID string) {
	s.connections.Delete(connectionID)
}

func (s *SessionStore) ResolveConnection(connectionID string) (string, bool) {
	x, found := s.connections.Get(connectionID)
	if !found {
		return "", false
	}
	return x.(string), true
}

// Start runs the sweep on a ticker until ctx is done or Stop is called.
func (s *SessionStore) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.safeSweep()
			}
		}
	}()
}

func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

func (s *SessionStore) safeSweep() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("SessionStore", "Session sweep panicked", map[string]interface{}{"error": fmt.Sprint(r)})
		}
	}()

	if removed := s.Sweep(); removed > 0 {
		s.logger.Info("SessionStore", "Expired sessions removed", map[string]interface{}{
			"removed":   removed,
			"remaining": s.Count(),
		})
	}
}
