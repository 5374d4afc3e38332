package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/cache"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
	"github.com/hopelouisville/dashboard/internal/pkg/logger"
)

type named interface {
	Name() string
}

// load returns the cached result for key or runs fetch once for all concurrent callers.
// The shared fetch does not inherit any caller's cancellation; a caller whose ctx ends stops
// waiting and gets a failed result. Fetches started before an invalidation are not cached.
func load[T any](ctx context.Context, s *Service, c *cache.Cache, key string, fetch func(context.Context) domain.SourceResult[T]) domain.SourceResult[T] {
	if v, ok := c.Get(key); ok {
		if res, ok := v.(domain.SourceResult[T]); ok {
			logger.Debugf(ctx, "cache hit for %s", key)
			return res
		}
	}

	gen := s.currentGeneration()
	ch := s.inflight.DoChan(key, func() (interface{}, error) {
		res := fetch(logger.With(context.WithoutCancel(ctx), "dataset", key))
		s.setIfCurrent(c, gen, key, res)
		return res, nil
	})

	select {
	case r := <-ch:
		return r.Val.(domain.SourceResult[T])
	case <-ctx.Done():
		return domain.Failed[T](constants.SourceAggregator, ctx.Err())
	}
}

// fanOut calls every source concurrently and waits for all of them. Result i belongs to
// sources[i], whatever order the calls finish in.
func fanOut[S named, T any](ctx context.Context, cfg Config, sources []S, fetch func(S, context.Context) domain.SourceResult[T]) []domain.SourceResult[T] {
	results := make([]domain.SourceResult[T], len(sources))

	var eg errgroup.Group
	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			results[i] = withRetry(ctx, cfg, func(ctx context.Context) domain.SourceResult[T] {
				return safeCall(ctx, src, fetch)
			})
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func withRetry[T any](ctx context.Context, cfg Config, call func(context.Context) domain.SourceResult[T]) domain.SourceResult[T] {
	var res domain.SourceResult[T]

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.RetryInterval), uint64(max(cfg.MaxRetries, 0))),
		ctx,
	)
	_ = backoff.Retry(func() error {
		res = call(ctx)
		if !res.Success {
			return errors.New(res.Error)
		}
		return nil
	}, policy)

	return res
}

func safeCall[S named, T any](ctx context.Context, src S, fetch func(S, context.Context) domain.SourceResult[T]) (res domain.SourceResult[T]) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "source %s panicked: %v", src.Name(), r)
			res = domain.Failed[T](src.Name(), fmt.Errorf("panic: %v", r))
		}
	}()
	return fetch(src, ctx)
}

func names[S named](sources []S) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Name())
	}
	return out
}

func sourceLabel(contributors []string) string {
	if len(contributors) == 0 {
		return constants.SourceAggregator
	}
	return strings.Join(contributors, ",")
}
