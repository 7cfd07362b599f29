package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/downlz/llmcostguide/config"
	"github.com/downlz/llmcostguide/internal/cache"
	"github.com/downlz/llmcostguide/internal/models"
	"github.com/downlz/llmcostguide/pkg/logger"
)

// ErrUnauthorized marks authentication-class store failures. These surface
// immediately and are never retried.
var ErrUnauthorized = errors.New("unauthorized")

// FetchOptions is the full parameter tuple of a catalog query. It doubles as
// the cache key: identical tuples inside the freshness window share a result.
type FetchOptions struct {
	Provider      string
	Search        string
	SortBy        string
	SortDirection string
	Limit         int
	Offset        int
}

func (o FetchOptions) cacheKey() string {
	if term := strings.ToLower(strings.TrimSpace(o.Search)); term != "" {
		// The search path returns the full matching set regardless of sort
		// and paging, so those must not split the cache entry.
		return "models|search=" + term
	}
	return fmt.Sprintf("models|provider=%s|sort=%s.%s|limit=%d|offset=%d",
		o.Provider, o.SortBy, o.SortDirection, o.Limit, o.Offset)
}

func countKey(provider, search string) string {
	return fmt.Sprintf("count|provider=%s|search=%s", provider, strings.ToLower(strings.TrimSpace(search)))
}

const (
	connectionKey = "connection"
	providersKey  = "providers"
)

// ModelQueryService is the data-fetch orchestrator: it composes repository
// queries, caches results by parameter tuple with separate freshness and
// retention windows, and retries transient failures with exponential
// backoff. Record, count and connectivity queries are independent of one
// another.
type ModelQueryService struct {
	cache cache.Cache

	freshFor         time.Duration
	retainFor        time.Duration
	countFreshFor    time.Duration
	connectionFor    time.Duration
	providerFreshFor time.Duration

	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration

	sleep func(context.Context, time.Duration) error

	// repository calls, swappable in tests
	fetchFn     func(context.Context, ModelFilter) ([]models.LLMModel, error)
	searchFn    func(context.Context, string) ([]models.LLMModel, error)
	countFn     func(context.Context, string, string) (int64, error)
	providersFn func(context.Context) ([]string, error)
	probeFn     func(context.Context) error
}

func NewModelQueryService(c cache.Cache, cfg *config.Config) *ModelQueryService {
	return &ModelQueryService{
		cache:            c,
		freshFor:         cfg.ModelCacheFreshFor,
		retainFor:        cfg.ModelCacheRetainFor,
		countFreshFor:    cfg.CountCacheFreshFor,
		connectionFor:    cfg.ConnectionCacheFor,
		providerFreshFor: cfg.ProviderCacheFreshFor,
		maxAttempts:      cfg.QueryRetryMaxAttempts,
		baseDelay:        cfg.QueryRetryBaseDelay,
		maxDelay:         cfg.QueryRetryMaxDelay,
		sleep:            sleepContext,
		fetchFn:          FindModels,
		searchFn:         SearchModels,
		countFn:          CountModels,
		providersFn:      GetProviders,
		probeFn:          CheckConnection,
	}
}

// FetchModels returns the records for one parameter tuple. A non-empty
// search issues a search-scoped query returning the full matching set,
// ignoring sort and paging; the client refines further. Fresh cached
// results never trigger a remote call.
func (s *ModelQueryService) FetchModels(ctx context.Context, opts FetchOptions) ([]models.LLMModel, error) {
	key := opts.cacheKey()
	var cached []models.LLMModel
	if s.cacheLoad(ctx, key, s.freshFor, &cached) {
		return cached, nil
	}

	var records []models.LLMModel
	err := s.withRetry(ctx, "models", func() error {
		var err error
		if strings.TrimSpace(opts.Search) != "" {
			records, err = s.searchFn(ctx, opts.Search)
		} else {
			records, err = s.fetchFn(ctx, ModelFilter{
				Provider:      opts.Provider,
				SortBy:        opts.SortBy,
				SortDirection: opts.SortDirection,
				Limit:         opts.Limit,
				Offset:        opts.Offset,
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cacheStore(ctx, key, records, s.retainFor)
	return records, nil
}

// CountModels drives pagination: the same filters in count-only mode,
// cached and retried independently of the record query.
func (s *ModelQueryService) CountModels(ctx context.Context, provider, search string) (int64, error) {
	key := countKey(provider, search)
	var cached int64
	if s.cacheLoad(ctx, key, s.countFreshFor, &cached) {
		return cached, nil
	}

	var total int64
	err := s.withRetry(ctx, "count", func() error {
		var err error
		total, err = s.countFn(ctx, provider, search)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.cacheStore(ctx, key, total, s.countFreshFor)
	return total, nil
}

// Providers returns the distinct active providers, cached.
func (s *ModelQueryService) Providers(ctx context.Context) ([]string, error) {
	var cached []string
	if s.cacheLoad(ctx, providersKey, s.providerFreshFor, &cached) {
		return cached, nil
	}

	var providers []string
	err := s.withRetry(ctx, "providers", func() error {
		var err error
		providers, err = s.providersFn(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cacheStore(ctx, providersKey, providers, s.providerFreshFor)
	return providers, nil
}

// CheckConnection reports store reachability. Briefly cached, never retried.
func (s *ModelQueryService) CheckConnection(ctx context.Context) bool {
	var cached bool
	if s.cacheLoad(ctx, connectionKey, s.connectionFor, &cached) {
		return cached
	}

	connected := s.probeFn(ctx) == nil
	s.cacheStore(ctx, connectionKey, connected, s.connectionFor)
	return connected
}

// Invalidate evicts every record and count entry, forcing the next queries
// to hit the store. Called after a successful import.
func (s *ModelQueryService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, func(key string) bool {
		return strings.HasPrefix(key, "models|") ||
			strings.HasPrefix(key, "count|") ||
			key == providersKey
	})
}

// withRetry runs fn up to maxAttempts times with exponential backoff,
// doubling from baseDelay and capping at maxDelay. Authentication-class
// errors abort immediately.
func (s *ModelQueryService) withRetry(ctx context.Context, label string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := s.baseDelay << (attempt - 1)
			if delay > s.maxDelay {
				delay = s.maxDelay
			}
			if err := s.sleep(ctx, delay); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if IsAuthError(lastErr) {
			return lastErr
		}
		logger.Log.Warn("query attempt failed",
			zap.String("query", label),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}
	return lastErr
}

// sleepContext waits out a backoff delay, returning early when the request
// context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsAuthError classifies store failures that must not be retried.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"auth", "401", "403", "invalid api key", "jwt"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func (s *ModelQueryService) cacheLoad(ctx context.Context, key string, freshFor time.Duration, out interface{}) bool {
	raw, storedAt, ok := s.cache.Get(ctx, key)
	if !ok || time.Since(storedAt) > freshFor {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (s *ModelQueryService) cacheStore(ctx context.Context, key string, value interface{}, retain time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, retain); err != nil {
		logger.Log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
