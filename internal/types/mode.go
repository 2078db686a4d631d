package types

import (
	"fmt"
	"strings"
)

// Mode selects which of the two isolated books the bot trades against.
type Mode string

const (
	// ModeTraining generates a synthetic random-walk series for back-testing.
	ModeTraining Mode = "TRAINING"
	// ModeLive polls a real price feed at real-time cadence.
	ModeLive Mode = "LIVE"
)

// ParseMode normalizes a user-supplied mode string. "TRADING" is accepted
// as a legacy spelling of LIVE.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TRAINING":
		return ModeTraining, nil
	case "LIVE", "TRADING":
		return ModeLive, nil
	default:
		return "", fmt.Errorf("unknown mode %q", raw)
	}
}

func (m Mode) String() string { return string(m) }

// TradeType is the direction of an executed trade.
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)
