package location

import (
	"context"
	"sync"
	"time"

	"github.com/khanape/khana-cli/internal/domain"
)

const debounceDelay = 500 * time.Millisecond

// Suggester is implemented by Resolver.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]domain.Suggestion, error)
}

// Searcher debounces keystroke-level queries against the resolver.
// Each Search call restarts the delay timer; once the input has been
// quiet for the debounce window, the latest query runs and its result
// is delivered through the callback. Completions of superseded queries
// are discarded, so the callback only ever observes results in issue
// order and never a stale result after a newer one.
type Searcher struct {
	suggester Suggester
	deliver   func(query string, suggestions []domain.Suggestion, err error)
	delay     time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
	wg    sync.WaitGroup
}

// NewSearcher creates a Searcher delivering results to deliver.
func NewSearcher(suggester Suggester, deliver func(query string, suggestions []domain.Suggestion, err error)) *Searcher {
	return &Searcher{
		suggester: suggester,
		deliver:   deliver,
		delay:     debounceDelay,
	}
}

// Search schedules query for execution after the debounce delay,
// cancelling any pending earlier query.
func (s *Searcher) Search(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	token := s.seq
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.run(ctx, token, query)
	})
}

// Cancel drops any pending query without running it.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
}

// Wait blocks until no scheduled query is pending or running. Callers
// must not issue new Search calls concurrently with Wait.
func (s *Searcher) Wait() {
	s.wg.Wait()
}

func (s *Searcher) run(ctx context.Context, token uint64, query string) {
	if !s.current(token) {
		return
	}
	suggestions, err := s.suggester.Suggest(ctx, query)
	if !s.current(token) {
		return
	}
	s.deliver(query, suggestions, err)
}

func (s *Searcher) current(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.seq
}
