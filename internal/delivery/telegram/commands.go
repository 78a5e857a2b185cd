package telegram

import (
	"errors"
	"strconv"
	"strings"
)

const HelpText = `Commands:
/track <symbol> - add a ticker to the watchlist
/untrack <symbol> - remove a ticker from the watchlist
/list - show the watchlist
/price <symbol> - current quote and move vs previous close
/history <symbol> [n] - recent alert days (default 10)
/status - tracker settings and last cycle summary
/help - show this help

Example:
/track AAPL
/history AAPL 5
`

var ErrInvalidArguments = errors.New("invalid arguments")

const defaultHistoryLimit = 10

func ParseSymbolArg(args string) (string, error) {
	symbol := strings.TrimSpace(args)
	if symbol == "" || len(strings.Fields(symbol)) != 1 {
		return "", ErrInvalidArguments
	}
	return symbol, nil
}

func ParseHistoryArgs(args string) (symbol string, limit int, err error) {
	parts := strings.Fields(args)
	switch len(parts) {
	case 1:
		return parts[0], defaultHistoryLimit, nil
	case 2:
		limit, err := strconv.Atoi(parts[1])
		if err != nil || limit < 1 {
			return "", 0, ErrInvalidArguments
		}
		return parts[0], limit, nil
	default:
		return "", 0, ErrInvalidArguments
	}
}
