// Package cleanup garbage-collects backing objects whose job rows are gone.
package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/printgate/printgate/pkg/storage"
)

// Config configures the sweeper's worker pool.
type Config struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

type task struct {
	key     string
	attempt int
}

// Sweeper deletes storage keys in the background with bounded retries.
// Deletion is best-effort: by the time a key is enqueued its job row is
// already gone, so a lost delete leaves an orphaned object, never a live
// disclosure path.
type Sweeper struct {
	objects storage.ObjectStore

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	tasks   chan task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewSweeper builds a sweeper over the given object store.
func NewSweeper(objects storage.ObjectStore, cfg Config) *Sweeper {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Sweeper{
		objects:    objects,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		tasks:      make(chan task, cfg.BufferSize),
	}
}

// Start launches the workers. Safe to call once.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	s.started = true
	s.logger.Sugar().Infow("cleanup sweeper started", "workers", s.workers)
}

// Stop cancels workers and waits for them to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Sugar().Infow("cleanup sweeper stopped")
}

// Enqueue schedules a storage key for deletion. If the sweeper is not
// running or its buffer is full, the delete runs inline as a fallback so
// the key is never silently dropped.
func (s *Sweeper) Enqueue(key string) {
	if s == nil || key == "" {
		return
	}
	s.mu.Lock()
	started := s.started
	ctx := s.ctx
	s.mu.Unlock()

	if !started {
		s.deleteNow(context.Background(), key)
		return
	}
	select {
	case s.tasks <- task{key: key}:
	case <-ctx.Done():
	default:
		s.deleteNow(ctx, key)
	}
}

func (s *Sweeper) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case t := <-s.tasks:
			if err := s.objects.Delete(s.ctx, t.key); err != nil {
				s.retry(t, err)
			}
		}
	}
}

func (s *Sweeper) retry(t task, err error) {
	t.attempt++
	if t.attempt > s.maxRetries {
		s.logger.Sugar().Errorw("object delete exceeded retries", "key", t.key, "error", err)
		return
	}
	s.logger.Sugar().Warnw("object delete failed, retrying", "key", t.key, "attempt", t.attempt, "error", err)

	go func(t task) {
		timer := time.NewTimer(s.retryDelay)
		defer timer.Stop()
		select {
		case <-s.ctx.Done():
		case <-timer.C:
			select {
			case s.tasks <- t:
			case <-s.ctx.Done():
			}
		}
	}(t)
}

func (s *Sweeper) deleteNow(ctx context.Context, key string) {
	if err := s.objects.Delete(ctx, key); err != nil {
		s.logger.Sugar().Warnw("object delete failed", "key", key, "error", err)
	}
}
