package locking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// LockOptions configures the distributed account mutexes.
type LockOptions struct {
	// Expiry bounds how long a crashed holder keeps an account locked. A live holder
	// extends its locks every Expiry/3 until the callback returns.
	Expiry time.Duration

	// Tries is the number of acquisition attempts before giving up.
	Tries int

	RetryDelay time.Duration

	DriftFactor float64

	Logger *slog.Logger
}

// DefaultLockOptions suits posting: locks outlive a slow transaction and waiters queue for a few seconds.
func DefaultLockOptions() LockOptions {
	return LockOptions{
		Expiry:      30 * time.Second,
		Tries:       64,
		RetryDelay:  50 * time.Millisecond,
		DriftFactor: 0.01,
		Logger:      slog.Default(),
	}
}

// RedisLocker serializes work on the same accounts across processes sharing a Redis.
type RedisLocker struct {
	redsync *redsync.Redsync
	opts    LockOptions
}

// NewRedisLocker creates a redsync-backed account locker.
func NewRedisLocker(client redis.UniversalClient, opts LockOptions) *RedisLocker {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &RedisLocker{
		redsync: redsync.New(goredis.NewPool(client)),
		opts:    opts,
	}
}

var _ portsrepo.AccountLocker = (*RedisLocker)(nil)

func (l *RedisLocker) WithAccountLocks(ctx context.Context, organizationID string, accountIDs []string, fn func() error) error {
	logger := l.opts.Logger
	keys := lockKeys(organizationID, accountIDs)

	held := make([]*redsync.Mutex, 0, len(keys))
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			// Release even when the caller's context is already done.
			if ok, err := held[i].UnlockContext(context.WithoutCancel(ctx)); !ok || err != nil {
				logger.Error("Failed to release account lock", "lock", held[i].Name(), "ok", ok, "error", err)
			}
		}
	}()

	for _, key := range keys {
		mutex := l.redsync.NewMutex(
			key,
			redsync.WithExpiry(l.opts.Expiry),
			redsync.WithTries(l.opts.Tries),
			redsync.WithRetryDelay(l.opts.RetryDelay),
			redsync.WithDriftFactor(l.opts.DriftFactor),
		)
		if err := mutex.LockContext(ctx); err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		held = append(held, mutex)
	}

	logger.Debug("Account locks acquired", "organization_id", organizationID, "locks", len(held))

	stop := l.keepAlive(context.WithoutCancel(ctx), held)
	defer stop()
	return fn()
}

// keepAlive extends every held mutex on a ticker until the returned stop func is called.
func (l *RedisLocker) keepAlive(ctx context.Context, held []*redsync.Mutex) (stop func()) {
	interval := l.opts.Expiry / 3
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				for _, m := range held {
					if ok, err := m.ExtendContext(ctx); !ok || err != nil {
						l.opts.Logger.Warn("Failed to extend account lock", "lock", m.Name(), "ok", ok, "error", err)
					}
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}
