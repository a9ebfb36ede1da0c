package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cleared-dev/books/internal/model"
)

var typePrefixes = map[model.VoucherType]string{
	model.VoucherJournal:  "JV",
	model.VoucherPayment:  "PV",
	model.VoucherReceipt:  "RV",
	model.VoucherContra:   "CV",
	model.VoucherSales:    "SV",
	model.VoucherPurchase: "PU",
}

// Prefix returns the voucher-number prefix for a voucher type. Unknown
// types number as journals.
func Prefix(vt model.VoucherType) string {
	if p, ok := typePrefixes[vt]; ok {
		return p
	}
	return "JV"
}

// FormatVoucherID returns a voucher number like "PV-2025-01-007".
func FormatVoucherID(vt model.VoucherType, year, month, seq int) string {
	return fmt.Sprintf("%s-%04d-%02d-%03d", Prefix(vt), year, month, seq)
}

// FormatEntryID returns the ID of leg n of a voucher: leg 0='a', 1='b', etc.
func FormatEntryID(voucherID string, leg int) string {
	return voucherID + string(rune('a'+leg))
}

// ParseVoucherID splits "PV-2025-01-007" (optionally with a leg suffix)
// into prefix, year, month and sequence.
func ParseVoucherID(s string) (prefix string, year, month, seq int, err error) {
	base := VoucherOf(s)

	parts := strings.SplitN(base, "-", 4)
	if len(parts) != 4 || parts[0] == "" {
		return "", 0, 0, 0, fmt.Errorf("invalid voucher ID format: %q", s)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid year in voucher ID %q: %w", s, err)
	}
	month, err = strconv.Atoi(parts[2])
	if err != nil || month < 1 || month > 12 {
		return "", 0, 0, 0, fmt.Errorf("invalid month in voucher ID %q", s)
	}
	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid sequence in voucher ID %q: %w", s, err)
	}
	return parts[0], year, month, seq, nil
}

// VoucherOf strips the leg suffix from an entry ID.
// "PV-2025-01-007b" -> "PV-2025-01-007"
func VoucherOf(entryID string) string {
	i := len(entryID)
	for i > 0 && entryID[i-1] >= 'a' && entryID[i-1] <= 'z' {
		i--
	}
	return entryID[:i]
}
