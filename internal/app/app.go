// Package app wires the store, feed, strategy and HTTP surface together and
// owns process lifecycle.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/HristianD/trading-bot/internal/bot"
	"github.com/HristianD/trading-bot/internal/config"
	"github.com/HristianD/trading-bot/internal/executor"
	"github.com/HristianD/trading-bot/internal/feed"
	"github.com/HristianD/trading-bot/internal/logger"
	"github.com/HristianD/trading-bot/internal/notify"
	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/store/sqlite"
	"github.com/HristianD/trading-bot/internal/strategy"
	bothttp "github.com/HristianD/trading-bot/internal/transport/http"
	"github.com/HristianD/trading-bot/internal/types"
)

// App is the fully-wired bot process.
type App struct {
	cfg      *config.Config
	store    store.Store
	source   feed.PriceSource
	notifier notify.TextNotifier
	engine   *strategy.Engine
}

func NewApp(cfg *config.Config) (*App, error) {
	st, err := sqlite.NewSqliteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	source, err := feed.New(cfg.Feed, cfg.Bot.Symbol)
	if err != nil {
		st.Close()
		return nil, err
	}

	var notifier notify.TextNotifier = notify.Noop{}
	if cfg.Notify.Telegram.Enabled {
		notifier = notify.NewTelegram(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	}

	exec := executor.New(st, notifier)
	engine := strategy.NewEngine(st, exec, strategy.Params{
		ShortMAPeriod:   cfg.Bot.ShortMAPeriod,
		LongMAPeriod:    cfg.Bot.LongMAPeriod,
		TradePercentage: decimal.NewFromFloat(cfg.Bot.TradePercentage),
	})

	return &App{
		cfg:      cfg,
		store:    st,
		source:   source,
		notifier: notifier,
		engine:   engine,
	}, nil
}

// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.store.Close()

	if err := a.seedAccounts(ctx); err != nil {
		return err
	}

	scheduler := bot.NewScheduler(ctx, a.cfg.Bot, a.store, a.source, a.engine)
	server, err := bothttp.NewServer(bothttp.ServerConfig{
		Addr:   a.cfg.App.HTTPAddr,
		Bot:    scheduler,
		Store:  a.store,
		Symbol: a.cfg.Bot.Symbol,
	})
	if err != nil {
		return err
	}

	logger.Infof("trading bot up symbol=%s feed=%s http=%s", a.cfg.Bot.Symbol, a.source.Name(), server.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		return scheduler.Stop(context.Background())
	})
	return g.Wait()
}

// seedAccounts ensures each mode has a funded paper account before the first
// trade can fire.
func (a *App) seedAccounts(ctx context.Context) error {
	initial := decimal.NewFromFloat(a.cfg.Bot.InitialBalance)
	for _, mode := range []types.Mode{types.ModeTraining, types.ModeLive} {
		_, found, err := a.store.Accounts().Get(ctx, mode)
		if err != nil {
			return fmt.Errorf("reading %s account: %w", mode, err)
		}
		if found {
			continue
		}
		account := store.Account{Mode: mode, Balance: initial, InitialBalance: initial}
		if err := a.store.Accounts().Save(ctx, account); err != nil {
			return fmt.Errorf("seeding %s account: %w", mode, err)
		}
		logger.Infof("seeded %s account balance=%s", mode, initial)
	}
	return nil
}
