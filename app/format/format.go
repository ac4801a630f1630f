package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// backendTimeLayout is how the POS backend serialises timestamps.
const backendTimeLayout = "2006-01-02 15:04:05"

// Formatter renders money and timestamps for the configured locale.
// Monetary values are grouped per locale, carry no decimal places and
// end with the currency glyph.
type Formatter struct {
	printer *message.Printer
	glyph   string
	layout  string
}

// New builds a formatter for the given BCP 47 locale tag and currency
// glyph. An unparseable tag falls back to Vietnamese, the shop default.
func New(locale, glyph string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Vietnamese
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		glyph:   glyph,
		layout:  "02/01/2006 15:04:05",
	}
}

// Currency renders an amount with locale grouping, no decimals and the
// trailing glyph, e.g. 20000 -> "20.000₫" for vi.
func (f *Formatter) Currency(amount float64) string {
	return f.printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0))) + f.glyph
}

// DateTime renders a timestamp as locale date plus locale time,
// space-separated.
func (f *Formatter) DateTime(t time.Time) string {
	return t.Format(f.layout)
}

// DateTimeString re-renders a backend timestamp string for display.
// Unparseable values are passed through untouched.
func (f *Formatter) DateTimeString(s string) string {
	t, err := time.Parse(backendTimeLayout, s)
	if err != nil {
		return s
	}
	return f.DateTime(t)
}
