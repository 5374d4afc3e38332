// Package scheduler runs a refresh function on a fixed interval and publishes each successful
// result to its subscribers.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hopelouisville/dashboard/internal/pkg/logger"
)

type RefreshFunc[T any] func(ctx context.Context) (T, error)

type Listener[T any] func(ctx context.Context, v T)

type Config struct {
	Name       string
	Interval   time.Duration
	RunOnStart bool
}

type subscription[T any] struct {
	id int
	fn Listener[T]
}

type Scheduler[T any] struct {
	cfg     Config
	refresh RefreshFunc[T]

	mx        sync.Mutex
	cancel    context.CancelFunc
	listeners []subscription[T]
	nextID    int

	latest    T
	latestAt  time.Time
	hasLatest bool
}

func New[T any](cfg Config, refresh RefreshFunc[T]) (*Scheduler[T], error) {
	if refresh == nil {
		return nil, errors.New("scheduler: nil refresh func")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("scheduler: interval must be positive")
	}
	return &Scheduler[T]{cfg: cfg, refresh: refresh}, nil
}

// Start launches the ticker. Calling it on a running scheduler does nothing.
// Refreshes run on a context detached from ctx cancellation, so Stop and ctx cancel end the
// ticker but not a refresh already in flight.
func (s *Scheduler[T]) Start(ctx context.Context) {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.cancel != nil {
		return
	}

	tickCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	runCtx := logger.With(context.WithoutCancel(ctx), "scheduler", s.cfg.Name)
	logger.Infof(runCtx, "scheduler started, interval %s", s.cfg.Interval)

	go s.loop(tickCtx, runCtx)
}

func (s *Scheduler[T]) loop(tickCtx, runCtx context.Context) {
	if s.cfg.RunOnStart {
		_, _ = s.run(runCtx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-tickCtx.Done():
			return
		case <-ticker.C:
			_, _ = s.run(runCtx)
		}
	}
}

// Stop ends the ticker.
func (s *Scheduler[T]) Stop() {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	logger.Infof(context.Background(), "scheduler %s stopped", s.cfg.Name)
}

func (s *Scheduler[T]) IsActive() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.cancel != nil
}

// ManualRefresh runs a refresh now, outside the timer, and notifies subscribers on success.
func (s *Scheduler[T]) ManualRefresh(ctx context.Context) (T, error) {
	return s.run(logger.With(ctx, "scheduler", s.cfg.Name))
}

// Subscribe registers fn for every published result. The returned func removes it.
func (s *Scheduler[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	s.mx.Lock()
	defer s.mx.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Scheduler[T]) unsubscribe(id int) {
	s.mx.Lock()
	defer s.mx.Unlock()

	for i, sub := range s.listeners {
		if sub.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Latest returns the last published result and when it was published.
func (s *Scheduler[T]) Latest() (T, time.Time, bool) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.latest, s.latestAt, s.hasLatest
}

func (s *Scheduler[T]) run(ctx context.Context) (T, error) {
	started := time.Now()

	v, err := s.refresh(ctx)
	if err != nil {
		logger.Errorf(ctx, "refresh failed: %s", err.Error())
		return v, err
	}

	logger.Debugf(ctx, "refresh done in %s", time.Since(started))
	s.publish(ctx, v)
	return v, nil
}

func (s *Scheduler[T]) publish(ctx context.Context, v T) {
	s.mx.Lock()
	s.latest, s.latestAt, s.hasLatest = v, time.Now().UTC(), true
	listeners := make([]subscription[T], len(s.listeners))
	copy(listeners, s.listeners)
	s.mx.Unlock()

	for _, sub := range listeners {
		notify(ctx, sub.fn, v)
	}
}

func notify[T any](ctx context.Context, fn Listener[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "subscriber panicked: %v", r)
		}
	}()
	fn(ctx, v)
}
