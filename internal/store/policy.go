package store

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// defaultRetryInterval is the first wait between attempts.
const defaultRetryInterval = 100 * time.Millisecond

// Policy bounds each fetch. The zero value fails fast: one attempt, no timeout.
type Policy struct {
	MaxRetries      int
	Timeout         time.Duration // per attempt
	InitialInterval time.Duration // first backoff wait
}

// policyStore applies a Policy around another store.
type policyStore struct {
	next   contract.DataStore
	policy Policy
}

// WithPolicy decorates ds with retries and per-attempt timeouts.
// A zero policy returns ds unchanged.
func WithPolicy(ds contract.DataStore, p Policy) contract.DataStore {
	if p.MaxRetries <= 0 && p.Timeout <= 0 {
		return ds
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = defaultRetryInterval
	}
	return &policyStore{next: ds, policy: p}
}

// Query implements contract.DataStore.
func (s *policyStore) Query(ctx context.Context, q schema.TableQuery) ([]schema.Record, error) {
	var rows []schema.Record
	operation := func() error {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.policy.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, s.policy.Timeout)
		}
		defer cancel()

		result, err := s.next.Query(attemptCtx, q)
		if err != nil {
			// Bad identifiers fail the same way on every attempt
			if errors.Is(err, schema.ErrInvalidIdentifier) {
				return backoff.Permanent(err)
			}
			return err
		}
		rows = result
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.policy.InitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(s.policy.MaxRetries, 0))), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		var fetchErr *schema.DataFetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, schema.NewDataFetchError(q.Table, err)
	}
	return rows, nil
}

// Close implements contract.DataStore.
func (s *policyStore) Close() error {
	return s.next.Close()
}
