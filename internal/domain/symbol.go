package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidSymbol = errors.New("invalid symbol")

const maxSymbolLen = 12

type TrackedSymbol struct {
	ID        uint
	Symbol    string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NormalizeSymbol trims and uppercases raw ticker input. Only A-Z, 0-9,
// '.' and '-' are accepted (BRK.B, BF-B), at most 12 characters.
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" || len(s) > maxSymbolLen {
		return "", ErrInvalidSymbol
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-':
		default:
			return "", ErrInvalidSymbol
		}
	}
	return s, nil
}
