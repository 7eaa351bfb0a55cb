// Package engine serializes mutating transactions per balance manager. A
// manager's object version is a fencing token: two plans built from the same
// version cannot both land, so the sequencer admits one mutation at a time
// per manager and applies its outcome before building the next.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deepbook_go/internal/domain"
	"deepbook_go/internal/infra"
	"deepbook_go/internal/service"
)

// BuildFunc builds a plan from the store's current version snapshot. The
// sequencer calls it again after refetching an authoritative version, so it
// must be safe to invoke more than once.
type BuildFunc func() (*domain.TransactionPlan, error)

// RetryPolicy bounds internal retries for version conflicts and transient
// network failures.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy is used when the config leaves the policy empty.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
	MaxDelay:    30 * time.Second,
}

type task struct {
	ctx     context.Context
	manager string
	build   BuildFunc
	reply   chan taskResult
}

type taskResult struct {
	outcome *domain.TransactionOutcome
	err     error
}

// lane is the FIFO admission queue of one balance manager. A single
// goroutine drains it, so at most one mutation per manager is in flight.
// The inbox is unbuffered: admission is a rendezvous, so once a send
// succeeds the lane owns the task and is guaranteed to reply to it.
type lane struct {
	inbox chan *task
}

// Sequencer admits at most one mutating plan per balance manager at a time.
// Requests for different managers proceed concurrently; requests for the
// same manager queue FIFO behind the in-flight one.
type Sequencer struct {
	store   *service.ManagerStore
	gateway domain.ChainGateway
	policy  RetryPolicy
	logger  *slog.Logger

	mu     sync.Mutex
	lanes  map[string]*lane
	closed bool

	root   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSequencer creates a sequencer over the given store and gateway.
func NewSequencer(store *service.ManagerStore, gateway domain.ChainGateway, policy RetryPolicy) *Sequencer {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy
	}
	root, cancel := context.WithCancel(context.Background())
	return &Sequencer{
		store:   store,
		gateway: gateway,
		policy:  policy,
		logger:  slog.Default().With("module", "sequencer"),
		lanes:   make(map[string]*lane),
		root:    root,
		cancel:  cancel,
	}
}

// Submit queues a mutating intent for the manager and waits for its outcome.
// A caller cancelling ctx before admission abandons the request without side
// effects; once the plan has gone to the chain the call reports the real
// outcome (or an unknown-outcome error), never a silent retraction.
func (s *Sequencer) Submit(ctx context.Context, managerName string, build BuildFunc) (*domain.TransactionOutcome, error) {
	ln, err := s.laneFor(managerName)
	if err != nil {
		return nil, err
	}

	t := &task{
		ctx:     ctx,
		manager: managerName,
		build:   build,
		reply:   make(chan taskResult, 1),
	}

	select {
	case ln.inbox <- t:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.root.Done():
		return nil, domain.ErrSequencerClosed
	}

	// Admitted: the lane always replies, either with the execution result or
	// ErrSequencerClosed from the shutdown drain. Waiting on anything else
	// here would drop the outcome of a plan that already went to the chain.
	res := <-t.reply
	return res.outcome, res.err
}

// Close stops all lanes. Queued tasks receive ErrSequencerClosed.
func (s *Sequencer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Sequencer) laneFor(managerName string) (*lane, error) {
	// Fail fast on unknown managers before queuing anything.
	if _, err := s.store.Get(managerName); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrSequencerClosed
	}

	ln, ok := s.lanes[managerName]
	if !ok {
		ln = &lane{inbox: make(chan *task)}
		s.lanes[managerName] = ln
		s.wg.Add(1)
		infra.GlobalMetrics.IncrementLanes()
		go s.run(managerName, ln)
	}
	return ln, nil
}

func (s *Sequencer) run(managerName string, ln *lane) {
	defer s.wg.Done()
	defer infra.GlobalMetrics.DecrementLanes()

	for {
		select {
		case <-s.root.Done():
			s.drain(ln)
			return
		case t := <-ln.inbox:
			if t.ctx.Err() != nil {
				// Abandoned while queued: never admitted, no side effects.
				t.reply <- taskResult{err: t.ctx.Err()}
				continue
			}
			outcome, err := s.execute(t)
			if err != nil {
				infra.GlobalMetrics.RecordFailure()
			}
			t.reply <- taskResult{outcome: outcome, err: err}
		}
	}
}

func (s *Sequencer) drain(ln *lane) {
	for {
		select {
		case t := <-ln.inbox:
			t.reply <- taskResult{err: domain.ErrSequencerClosed}
		default:
			return
		}
	}
}

// execute runs the build -> submit -> apply cycle with bounded retries. The
// outcome is applied to the store before returning, which also means before
// the lane admits the next queued task for this manager.
func (s *Sequencer) execute(t *task) (*domain.TransactionOutcome, error) {
	var lastErr error

	for attempt := 0; attempt < s.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			infra.GlobalMetrics.RecordRetry()
			delay := infra.BackoffWith(attempt-1, s.policy.BaseDelay, s.policy.MaxDelay)
			select {
			case <-t.ctx.Done():
				return nil, fmt.Errorf("retry wait: %w", t.ctx.Err())
			case <-s.root.Done():
				return nil, domain.ErrSequencerClosed
			case <-time.After(delay):
			}
		}

		plan, err := t.build()
		if err != nil {
			// Build failures never reached the chain; surface as-is.
			return nil, err
		}

		started := time.Now()
		outcome, err := s.gateway.Submit(t.ctx, plan)
		if err == nil {
			infra.GlobalMetrics.RecordSubmit(time.Since(started).Nanoseconds())
			if applyErr := s.store.ApplyOutcome(t.manager, outcome); applyErr != nil {
				return outcome, applyErr
			}
			return outcome, nil
		}
		lastErr = err

		var conflict *domain.VersionConflictError
		switch {
		case errors.As(err, &conflict):
			infra.GlobalMetrics.RecordVersionConflict()
			s.logger.Warn("version conflict, refetching",
				slog.String("manager", t.manager),
				slog.Int("attempt", attempt+1),
				slog.Any("error", err))
			if rerr := s.resyncVersion(t.ctx, t.manager); rerr != nil {
				return nil, rerr
			}
			// Loop rebuilds against the refreshed version.

		case domain.IsOutcomeUnknown(err):
			// The chain may have committed. Resync the authoritative version
			// so the next admitted plan is not built over a stale one, then
			// surface the unknown outcome without retrying.
			s.logger.Warn("outcome unknown, resyncing before surfacing",
				slog.String("manager", t.manager),
				slog.Any("error", err))
			if rerr := s.resyncVersion(t.ctx, t.manager); rerr != nil {
				s.logger.Error("resync after timeout failed",
					slog.String("manager", t.manager),
					slog.Any("error", rerr))
			}
			return nil, err

		case domain.IsRetriable(err):
			s.logger.Warn("transient submit failure",
				slog.String("manager", t.manager),
				slog.Int("attempt", attempt+1),
				slog.Any("error", err))
			// Loop retries with backoff.

		default:
			// Deterministic chain rejection or caller error.
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v",
		domain.ErrRetriesExhausted, s.policy.MaxAttempts, lastErr)
}

// resyncVersion refetches the manager object's authoritative version and
// invalidates cached balances, since some other actor has mutated the object.
func (s *Sequencer) resyncVersion(ctx context.Context, managerName string) error {
	m, err := s.store.Get(managerName)
	if err != nil {
		return err
	}

	state, err := s.gateway.QueryObject(ctx, m.ObjectID)
	if err != nil {
		return fmt.Errorf("refetch version for %s: %w", managerName, err)
	}

	if err := s.store.SetVersion(managerName, state.Version); err != nil {
		return err
	}
	return s.store.InvalidateAll(managerName)
}
