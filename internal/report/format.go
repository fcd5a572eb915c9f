package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts and dates the way the user's locale expects.
// The zero Formatter prints plain two-decimal amounts and ISO dates in UTC.
type Formatter struct {
	printer *message.Printer
	loc     *time.Location
	layout  string
	symbol  string
}

// NewFormatter builds a Formatter for a BCP 47 locale such as "pt-BR".
// A nil location means UTC.
func NewFormatter(locale string, loc *time.Location) (Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return Formatter{}, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return Formatter{
		printer: message.NewPrinter(tag),
		loc:     loc,
		layout:  dateLayout(tag),
		symbol:  currencySymbol(tag),
	}, nil
}

// Amount formats v with two decimals and the locale's separators.
func (f Formatter) Amount(v float64) string {
	if f.printer == nil {
		return fmt.Sprintf("%.2f", v)
	}
	return f.printer.Sprintf("%.2f", v)
}

// Money is Amount prefixed with the locale's currency symbol, if known.
func (f Formatter) Money(v float64) string {
	if f.symbol == "" {
		return f.Amount(v)
	}
	return f.symbol + " " + f.Amount(v)
}

// Date formats the calendar date of t in the formatter's time zone.
func (f Formatter) Date(t time.Time) string {
	loc, layout := f.loc, f.layout
	if loc == nil {
		loc = time.UTC
	}
	if layout == "" {
		layout = time.DateOnly
	}
	return t.In(loc).Format(layout)
}

func dateLayout(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch base.String() {
	case "de":
		return "02.01.2006"
	case "pt", "es", "it", "fr":
		return "02/01/2006"
	case "en":
		if region.String() == "US" {
			return "1/2/2006"
		}
		return "02/01/2006"
	default:
		return time.DateOnly
	}
}

func currencySymbol(tag language.Tag) string {
	region, _ := tag.Region()
	switch region.String() {
	case "BR":
		return "R$"
	case "US":
		return "$"
	case "PT", "IT", "ES", "FR", "DE":
		return "€"
	case "GB":
		return "£"
	default:
		return ""
	}
}
