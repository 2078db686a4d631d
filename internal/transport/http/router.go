package bothttp

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/HristianD/trading-bot/internal/logger"
	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/types"
)

// BotController is the scheduler surface exposed over HTTP.
type BotController interface {
	Start(ctx context.Context, mode types.Mode) error
	Stop(ctx context.Context) error
	Reset(ctx context.Context) error
	Status(ctx context.Context) (store.BotStatus, error)
}

// Router exposes the bot control operations and the read endpoints.
type Router struct {
	bot    BotController
	store  store.Store
	symbol string
}

func NewRouter(bot BotController, st store.Store, symbol string) *Router {
	return &Router{bot: bot, store: st, symbol: strings.ToUpper(strings.TrimSpace(symbol))}
}

// Register mounts the routes under the given group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.POST("/bot/start", r.handleStart)
	group.POST("/bot/stop", r.handleStop)
	group.POST("/bot/reset", r.handleReset)
	group.GET("/bot/status", r.handleStatus)
	group.GET("/account", r.handleAccount)
	group.GET("/portfolio", r.handlePortfolio)
	group.GET("/trades", r.handleTrades)
	group.GET("/prices", r.handlePrices)
}

func (r *Router) handleStart(c *gin.Context) {
	mode, err := types.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := r.bot.Start(c.Request.Context(), mode); err != nil {
		logger.Errorf("[api] bot start failed ip=%s mode=%s err=%v", c.ClientIP(), mode, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] bot start ip=%s mode=%s", c.ClientIP(), mode)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Bot started in " + mode.String() + " mode",
	})
}

func (r *Router) handleStop(c *gin.Context) {
	if err := r.bot.Stop(c.Request.Context()); err != nil {
		logger.Errorf("[api] bot stop failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] bot stop ip=%s", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Bot stopped"})
}

func (r *Router) handleReset(c *gin.Context) {
	if err := r.bot.Reset(c.Request.Context()); err != nil {
		logger.Errorf("[api] bot reset failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] bot reset ip=%s", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Bot reset successfully"})
}

func (r *Router) handleStatus(c *gin.Context) {
	status, err := r.bot.Status(c.Request.Context())
	if err != nil {
		logger.Errorf("[api] bot status failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	payload := gin.H{
		"running": status.Running,
		"mode":    status.Mode.String(),
	}
	if status.LastRunAt != nil {
		payload["last_run"] = status.LastRunAt
	}
	c.JSON(http.StatusOK, payload)
}

func (r *Router) handleAccount(c *gin.Context) {
	mode, err := types.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	account, found, err := r.store.Accounts().Get(ctx, mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no account for mode " + mode.String()})
		return
	}
	portfolioValue, err := r.portfolioValue(ctx, mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":            mode.String(),
		"balance":         account.Balance,
		"initial_balance": account.InitialBalance,
		"portfolio_value": portfolioValue,
		"total_value":     account.Balance.Add(portfolioValue),
	})
}

func (r *Router) portfolioValue(ctx context.Context, mode types.Mode) (decimal.Decimal, error) {
	positions, err := r.store.Positions().List(ctx, mode)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range positions {
		latest, ok, err := r.store.Prices().Latest(ctx, p.Symbol, mode)
		if err != nil {
			return decimal.Zero, err
		}
		if !ok {
			continue
		}
		total = total.Add(p.Quantity.Mul(latest.Price))
	}
	return total, nil
}

func (r *Router) handlePortfolio(c *gin.Context) {
	mode, err := types.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	positions, err := r.store.Positions().List(ctx, mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(positions))
	for _, p := range positions {
		entry := gin.H{
			"symbol":       p.Symbol,
			"quantity":     p.Quantity,
			"average_cost": p.AverageCost,
		}
		if latest, ok, err := r.store.Prices().Latest(ctx, p.Symbol, mode); err == nil && ok {
			entry["current_price"] = latest.Price
			entry["current_value"] = p.Quantity.Mul(latest.Price)
			entry["unrealized_pnl"] = latest.Price.Sub(p.AverageCost).Mul(p.Quantity)
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode.String(), "positions": out})
}

func (r *Router) handleTrades(c *gin.Context) {
	mode, err := types.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	trades, err := r.store.Trades().Recent(c.Request.Context(), mode, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(trades))
	for _, t := range trades {
		out = append(out, gin.H{
			"trade_uid":   t.UID,
			"symbol":      t.Symbol,
			"trade_type":  string(t.Type),
			"quantity":    t.Quantity,
			"price":       t.Price,
			"total_value": t.TotalValue,
			"profit_loss": t.ProfitLoss,
			"timestamp":   t.Timestamp,
		})
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode.String(), "trades": out})
}

func (r *Router) handlePrices(c *gin.Context) {
	mode, err := types.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	ticks, err := r.store.Prices().History(c.Request.Context(), r.symbol, mode, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, gin.H{
			"symbol":    t.Symbol,
			"price":     t.Price,
			"timestamp": t.Timestamp,
		})
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode.String(), "prices": out})
}
