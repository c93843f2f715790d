package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/websocket"
)

// RenewalScheduler is the Renewal Scheduler (C8): a single periodic task
// that renews or deactivates budgets whose window has expired, mirroring
// ProjectionWorker's start/stop/done-channel shape.
type RenewalScheduler struct {
	budgetRepo domain.BudgetRepository
	logger     zerolog.Logger
	interval   time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}
	mu         sync.Mutex
	running    bool
	publisher  websocket.EventPublisher
}

func NewRenewalScheduler(budgetRepo domain.BudgetRepository, logger zerolog.Logger, interval time.Duration) *RenewalScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RenewalScheduler{
		budgetRepo: budgetRepo,
		logger:     logger.With().Str("component", "renewal_scheduler").Logger(),
		interval:   interval,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		publisher:  websocket.NoOpPublisher{},
	}
}

// SetPublisher wires the realtime event hub.
func (w *RenewalScheduler) SetPublisher(p websocket.EventPublisher) {
	w.publisher = p
}

// Start begins the background renewal loop. It runs once immediately, then
// on every tick, until Stop is called or ctx is cancelled.
func (w *RenewalScheduler) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("starting renewal scheduler")
	go w.run(ctx)
}

// Stop blocks until the current tick (if any) finishes and the loop exits.
func (w *RenewalScheduler) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("renewal scheduler stopped")
}

func (w *RenewalScheduler) run(ctx context.Context) {
	defer close(w.doneCh)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-w.stopCh:
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick processes every pending budget row. Each row is isolated: one
// failure logs and continues rather than aborting the batch (spec §4.8
// step 3). Each row gets its own 10-second context, but processRow does
// not pass it to the repository calls, so the timeout does not interrupt
// a stuck row.
func (w *RenewalScheduler) tick(ctx context.Context) {
	today := time.Now().UTC()

	pending, err := w.budgetRepo.ListPendingProcessing(today)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to list pending budgets")
		return
	}

	var renewed, deactivated, failed int
	for _, budget := range pending {
		rowCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := w.processRow(rowCtx, budget, today)
		cancel()
		if err != nil {
			w.logger.Error().Err(err).Int64("budget_id", budget.ID).Msg("failed to process budget row")
			failed++
			continue
		}
		if budget.AutoRenew {
			renewed++
		} else {
			deactivated++
		}
	}

	w.logger.Info().
		Int("renewed", renewed).
		Int("deactivated", deactivated).
		Int("failed", failed).
		Msg("renewal tick complete")
}

func (w *RenewalScheduler) processRow(_ context.Context, budget *domain.Budget, today time.Time) error {
	if !budget.AutoRenew {
		if err := w.budgetRepo.Deactivate(budget.OwnerID, budget.PublicID); err != nil {
			return err
		}
		budget.State = domain.BudgetStateInactive
		w.publisher.Publish(budget.OwnerID, websocket.BudgetUpdated(budget))
		return nil
	}

	start := budget.EndDate.AddDate(0, 0, 1)
	end := budget.Frequency.NextWindowEnd(start)

	renewed := &domain.Budget{
		PublicID:   uuid.New(),
		OwnerID:    budget.OwnerID,
		CategoryID: budget.CategoryID,
		Cap:        budget.Cap,
		Frequency:  budget.Frequency,
		AutoRenew:  budget.AutoRenew,
		StartDate:  start,
		EndDate:    end,
		State:      domain.BudgetStateActive,
	}

	if err := w.budgetRepo.Deactivate(budget.OwnerID, budget.PublicID); err != nil {
		return err
	}

	// If a concurrent request already created an ACTIVE budget for this
	// (owner, category), the store's uniqueness invariant rejects the
	// insert; this row fails in isolation and the batch continues
	// (spec §4.8 concurrency contract).
	created, err := w.budgetRepo.Create(renewed)
	if err != nil {
		return err
	}

	w.publisher.Publish(budget.OwnerID, websocket.BudgetRenewed(created))
	return nil
}
