// Package bot owns the run/stop/mode state machine and the two periodic
// execution loops (training generator, live poller).
package bot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HristianD/trading-bot/internal/config"
	"github.com/HristianD/trading-bot/internal/feed"
	"github.com/HristianD/trading-bot/internal/logger"
	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/types"
)

// Evaluator is the strategy surface the scheduler invokes on each tick.
type Evaluator interface {
	Evaluate(ctx context.Context, symbol string, mode types.Mode, price decimal.Decimal, ts time.Time) error
}

// Scheduler runs at most one periodic loop at a time, matching the current
// mode. Mode switches atomically replace the loop; a tick queued before the
// switch observes the generation guard and becomes a no-op.
type Scheduler struct {
	cfg    config.BotConfig
	store  store.Store
	source feed.PriceSource
	engine Evaluator

	baseCtx context.Context

	mu     sync.Mutex // guards mode, cancel and state transitions
	mode   types.Mode
	cancel context.CancelFunc

	running    atomic.Bool
	generation atomic.Int64

	cursorMu sync.Mutex
	cursor   trainingCursor
}

// trainingCursor is the resumable state of the synthetic series generator.
type trainingCursor struct {
	lastPrice     decimal.Decimal
	hasLast       bool
	lastTimestamp time.Time
	stepIndex     int
}

var (
	trainingSeedPrice  = decimal.NewFromInt(50000)
	trainingFloorPrice = decimal.NewFromInt(10000)
)

// trainingStepInterval is the synthetic time between two generated samples.
const trainingStepInterval = 30 * time.Minute

func NewScheduler(ctx context.Context, cfg config.BotConfig, st store.Store, source feed.PriceSource, engine Evaluator) *Scheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Scheduler{
		cfg:     cfg,
		store:   st,
		source:  source,
		engine:  engine,
		baseCtx: ctx,
		mode:    types.ModeTraining,
	}
}

// Start moves the bot into RUNNING(mode), replacing any active loop.
// Re-issuing Start for the current mode still restarts the loop.
func (s *Scheduler) Start(ctx context.Context, mode types.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	status := store.BotStatus{Running: true, Mode: mode, LastRunAt: &now}
	if err := s.store.Status().Save(ctx, status); err != nil {
		return fmt.Errorf("persisting bot status: %w", err)
	}

	s.mode = mode
	s.running.Store(true)
	gen := s.generation.Add(1)

	if s.cancel != nil {
		s.cancel()
	}
	loopCtx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel

	interval := s.cfg.LiveInterval()
	if mode == types.ModeTraining {
		interval = s.cfg.TrainingInterval()
	}
	go s.runLoop(loopCtx, gen, mode, interval)
	logger.Infof("bot started mode=%s interval=%s", mode, interval)
	return nil
}

// Stop moves the bot to STOPPED. Stopping an already-stopped bot is a no-op.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(ctx)
}

func (s *Scheduler) stopLocked(ctx context.Context) error {
	s.running.Store(false)
	s.generation.Add(1)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	status := store.BotStatus{Running: false, Mode: s.mode}
	if err := s.store.Status().Save(ctx, status); err != nil {
		return fmt.Errorf("persisting bot status: %w", err)
	}
	logger.Infof("bot stopped mode=%s", s.mode)
	return nil
}

// Reset stops the bot, clears the account/portfolio/ledger books, deletes
// the symbol's price history and zeroes the training cursor. Safe to call
// from any state.
func (s *Scheduler) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stopLocked(ctx); err != nil {
		return err
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()
	if err := uow.Accounts().ResetToInitial(ctx); err != nil {
		return err
	}
	if err := uow.Positions().DeleteAll(ctx); err != nil {
		return err
	}
	if err := uow.Trades().DeleteAll(ctx); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit reset transaction: %w", err)
	}
	committed = true

	if err := s.store.Prices().Clear(ctx, s.cfg.Symbol); err != nil {
		return err
	}

	s.cursorMu.Lock()
	s.cursor = trainingCursor{}
	s.cursorMu.Unlock()

	logger.Infof("bot reset symbol=%s", s.cfg.Symbol)
	return nil
}

// Status returns the persisted state snapshot exactly as last written.
func (s *Scheduler) Status(ctx context.Context) (store.BotStatus, error) {
	return s.store.Status().Get(ctx)
}

func (s *Scheduler) runLoop(ctx context.Context, gen int64, mode types.Mode, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Debugf("bot %s loop exited", mode)
			return
		case <-ticker.C:
			s.tick(ctx, gen, mode)
		}
	}
}

// tick re-checks the guard before acting: a tick that fired before a mode
// switch or stop took effect must not mutate state.
func (s *Scheduler) tick(ctx context.Context, gen int64, mode types.Mode) {
	if !s.running.Load() || s.generation.Load() != gen {
		return
	}
	var err error
	switch mode {
	case types.ModeTraining:
		err = s.trainingStep(ctx, gen)
	case types.ModeLive:
		err = s.tradingStep(ctx)
	}
	if err != nil {
		// Abandon this tick; the next one proceeds independently.
		logger.Errorf("bot %s tick failed: %v", mode, err)
	}
}

// trainingStep generates the next random-walk sample, appends it and runs
// the strategy once enough history exists for both moving averages.
func (s *Scheduler) trainingStep(ctx context.Context, gen int64) error {
	s.cursorMu.Lock()
	cur := s.cursor
	s.cursorMu.Unlock()

	price := trainingSeedPrice
	ts := time.Now()
	if cur.hasLast {
		price = cur.lastPrice
		ts = cur.lastTimestamp
	}

	price = price.Add(randomWalkDelta())
	if price.LessThan(trainingFloorPrice) {
		price = trainingFloorPrice
	}

	tick := store.PriceTick{
		Symbol:    s.cfg.Symbol,
		Mode:      types.ModeTraining,
		Price:     price,
		Timestamp: ts,
	}
	if err := s.store.Prices().Upsert(ctx, tick); err != nil {
		return fmt.Errorf("appending training price: %w", err)
	}

	var evalErr error
	if cur.stepIndex > s.cfg.LongMAPeriod {
		evalErr = s.engine.Evaluate(ctx, s.cfg.Symbol, types.ModeTraining, price, ts)
	}

	next := trainingCursor{
		lastPrice:     price,
		hasLast:       true,
		lastTimestamp: ts.Add(trainingStepInterval),
		stepIndex:     cur.stepIndex + 1,
	}
	s.cursorMu.Lock()
	// A reset may have zeroed the cursor while this tick was in flight;
	// only advance it if the generation is still ours.
	if s.generation.Load() == gen {
		s.cursor = next
	}
	s.cursorMu.Unlock()
	return evalErr
}

// tradingStep polls the live feed. A feed failure skips the tick silently.
func (s *Scheduler) tradingStep(ctx context.Context) error {
	price, ok := s.source.FetchCurrent(ctx)
	if !ok {
		logger.Debugf("bot live feed returned no price, skipping tick")
		return nil
	}
	now := time.Now()
	tick := store.PriceTick{
		Symbol:    s.cfg.Symbol,
		Mode:      types.ModeLive,
		Price:     price,
		Timestamp: now,
	}
	if err := s.store.Prices().Upsert(ctx, tick); err != nil {
		return fmt.Errorf("appending live price: %w", err)
	}
	return s.engine.Evaluate(ctx, s.cfg.Symbol, types.ModeLive, price, now)
}
