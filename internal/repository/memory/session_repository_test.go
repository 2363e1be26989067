package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-buddy-be/internal/pkg/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*SessionStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)}
	return NewSessionStore(logger.NewNopLogger(), WithClock(clock.Now)), clock
}

func TestSessionStore_GetOrCreateReturnsSameSession(t *testing.T) {
	s, _ := newTestStore(t)

	first := s.GetOrCreate("browser-1")
	second := s.GetOrCreate("browser-1")

	assert.Same(t, first, second)
	assert.Equal(t, 1, s.Count())
}

func TestSessionStore_ConcurrentGetOrCreate(t *testing.T) {
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	got := make(chan interface{}, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got <- s.GetOrCreate("shared")
		}()
	}
	wg.Wait()
	close(got)

	var first interface{}
	for sess := range got {
		if first == nil {
			first = sess
		}
		assert.Same(t, first, sess)
	}
}

func TestSessionStore_ConcurrentAppendsAreNotTorn(t *testing.T) {
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendTurn("shared", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}(i)
	}
	wg.Wait()

	history := s.History("shared", 0)
	require.Len(t, history, 20)
	for i := 0; i < len(history); i += 2 {
		var n int
		_, err := fmt.Sscanf(history[i], "Human: q%d", &n)
		require.NoError(t, err, history[i])
		assert.Equal(t, fmt.Sprintf("Assistant: a%d", n), history[i+1])
	}
	assert.Len(t, s.Turns("shared"), 40)
}

func TestSessionStore_SweepRemovesIdleSessions(t *testing.T) {
	s, clock := newTestStore(t)

	s.GetOrCreate("idle")
	s.GetOrCreate("busy")

	clock.Advance(59 * time.Minute)
	s.GetOrCreate("busy")

	clock.Advance(2 * time.Minute)
	removed := s.Sweep()

	assert.Equal(t, 1, removed)
	_, ok := s.Get("idle")
	assert.False(t, ok)
	_, ok = s.Get("busy")
	assert.True(t, ok)
}

func TestSessionStore_HistoryCountsTurns(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 1; i <= 4; i++ {
		s.AppendTurn("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	tests := []struct {
		name     string
		maxTurns int
		want     []string
	}{
		{"last turn", 1, []string{"Human: q4", "Assistant: a4"}},
		{"last two turns", 2, []string{"Human: q3", "Assistant: a3", "Human: q4", "Assistant: a4"}},
		{"window larger than log", 10, s.History("s1", 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.History("s1", tt.maxTurns))
		})
	}
	assert.Len(t, s.History("s1", 0), 8)
}

func TestSessionStore_HistoryOfUnknownSessionIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.History("nobody", 10))
	assert.False(t, s.HasTrainingContext("nobody"))
	assert.False(t, s.HasWelcomeMessage("nobody"))
}

func TestSessionStore_WelcomeLookup(t *testing.T) {
	s, _ := newTestStore(t)

	s.AppendWelcome("s1", "<p>Welcome aboard</p>")

	msg, ok := s.ExistingWelcomeMessage("s1")
	assert.True(t, ok)
	assert.Equal(t, "<p>Welcome aboard</p>", msg)

	turns := s.Turns("s1")
	require.Len(t, turns, 1)
	assert.Empty(t, turns[0].UserQuery)
	assert.Equal(t, "true", turns[0].Metadata["is_welcome_message"])
}

func TestSessionStore_InvalidateAllTrainingContexts(t *testing.T) {
	s, _ := newTestStore(t)

	s.MarkTrainingContextLoaded("a", "ctx-a", []string{"m1"})
	s.MarkTrainingContextLoaded("b", "ctx-b", []string{"m2"})
	s.GetOrCreate("c")
	s.AppendTurn("a", "q", "r")

	assert.Equal(t, 2, s.InvalidateAllTrainingContexts())
	assert.False(t, s.HasTrainingContext("a"))
	assert.False(t, s.HasTrainingContext("b"))
	assert.Len(t, s.History("a", 0), 2)
}

func TestSessionStore_ConnectionMapping(t *testing.T) {
	s, _ := newTestStore(t)

	s.GetOrCreate("browser-1")
	s.MapConnection("conn-1", "browser-1")

	id, ok := s.ResolveConnection("conn-1")
	assert.True(t, ok)
	assert.Equal(t, "browser-1", id)

	s.UnmapConnection("conn-1")
	_, ok = s.ResolveConnection("conn-1")
	assert.False(t, ok)

	_, ok = s.Get("browser-1")
	assert.True(t, ok, "disconnect must not remove the session")
}

func TestSessionStore_ClearSessionAndActiveIDs(t *testing.T) {
	s, clock := newTestStore(t)

	s.GetOrCreate("a")
	s.GetOrCreate("b")
	assert.ElementsMatch(t, []string{"a", "b"}, s.ActiveSessionIDs())

	s.ClearSession("a")
	assert.ElementsMatch(t, []string{"b"}, s.ActiveSessionIDs())

	clock.Advance(61 * time.Minute)
	assert.Empty(t, s.ActiveSessionIDs())
}

func TestSessionStore_StartAndStop(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := NewSessionStore(logger.NewNopLogger(),
		WithClock(clock.Now),
		WithTimeout(time.Minute),
		WithSweepInterval(5*time.Millisecond),
	)
	s.GetOrCreate("stale")
	clock.Advance(2 * time.Minute)

	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, ok := s.Get("stale")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
