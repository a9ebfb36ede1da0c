package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is one of the two balance sides of double-entry bookkeeping.
type Side string

const (
	Dr Side = "Dr"
	Cr Side = "Cr"
)

// Epsilon is the smallest amount treated as non-zero in reports.
var Epsilon = decimal.RequireFromString("0.01")

// ParseSide accepts "Dr"/"Cr" and the spelled-out "debit"/"credit" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dr", "debit":
		return Dr, nil
	case "cr", "credit":
		return Cr, nil
	}
	return "", fmt.Errorf("invalid side %q", s)
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Cr {
		return Dr
	}
	return Cr
}

// Balance is an unsigned amount carrying its Dr/Cr suffix.
type Balance struct {
	Amount decimal.Decimal
	Side   Side
}

// BalanceOf converts a Dr-positive signed amount into a Balance.
// Zero is reported as Dr.
func BalanceOf(signed decimal.Decimal) Balance {
	if signed.IsNegative() {
		return Balance{Amount: signed.Neg(), Side: Cr}
	}
	return Balance{Amount: signed, Side: Dr}
}

// Signed returns the Dr-positive signed amount.
func (b Balance) Signed() decimal.Decimal {
	if b.Side == Cr {
		return b.Amount.Neg()
	}
	return b.Amount
}

// IsZero reports whether the balance is below Epsilon.
func (b Balance) IsZero() bool {
	return b.Amount.Abs().LessThan(Epsilon)
}

func (b Balance) String() string {
	return b.Amount.StringFixed(2) + " " + string(b.Side)
}
