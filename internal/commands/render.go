package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cleared-dev/books/internal/hierarchy"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/report"
)

// localeFor picks digit grouping from the business currency.
func localeFor(currency string) language.Tag {
	if strings.EqualFold(currency, "INR") {
		return language.MustParse("en-IN")
	}
	return language.English
}

type renderer struct {
	w     io.Writer
	p     *message.Printer
	title cases.Caser
}

func newRenderer(w io.Writer, currency string) *renderer {
	tag := localeFor(currency)
	return &renderer{w: w, p: message.NewPrinter(tag), title: cases.Title(tag)}
}

// amount groups the integer digits for the locale and keeps exactly two
// decimals.
func (r *renderer) amount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err == nil {
		intPart = r.p.Sprintf("%d", n)
	}
	if d.IsNegative() {
		return "-" + intPart + "." + frac
	}
	return intPart + "." + frac
}

func (r *renderer) balance(b model.Balance) string {
	if b.IsZero() {
		return r.amount(decimal.Zero)
	}
	return r.amount(b.Amount) + " " + string(b.Side)
}

// blank renders zero as an empty cell.
func (r *renderer) blank(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return r.amount(d)
}

func (r *renderer) heading(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
}

func (r *renderer) warning(w *report.Warning) {
	if w != nil {
		fmt.Fprintf(r.w, "WARNING: %s\n", w)
	}
}

// sections writes a hierarchy view: primary group, its ledgers, then each
// subgroup indented beneath it. nature picks the side a section total is
// shown on.
func (r *renderer) sections(v hierarchy.View, nature model.Side) {
	tw := r.table()
	for _, s := range v.Sections {
		fmt.Fprintf(tw, "%s\t\t%s\t\n", s.Name, r.amount(s.Net(nature)))
		for _, l := range s.Ledgers {
			fmt.Fprintf(tw, "  %s\t%s\t\t\n", l.Name, r.balance(l.Balance))
		}
		for _, sg := range s.Subgroups {
			fmt.Fprintf(tw, "  %s\t\t\t\n", sg.Label)
			for _, l := range sg.Ledgers {
				fmt.Fprintf(tw, "    %s\t%s\t\t\n", l.Name, r.balance(l.Balance))
			}
		}
	}
	tw.Flush()
}
