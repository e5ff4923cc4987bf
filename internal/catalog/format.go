package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Currency defaults for the storefront.
const (
	CurrencySymbol = "৳"
	CurrencyCode   = "BDT"
	DefaultLocale  = "bn-BD"
)

// Regions that group digits in lakhs and crores (12,34,56,789).
var lakhRegions = map[string]bool{"BD": true, "IN": true, "NP": true, "PK": true}

// Formatter renders whole-currency amounts with a fixed symbol. The digit
// grouping follows the locale's region.
type Formatter struct {
	symbol string
	tag    language.Tag
	lakh   bool
}

// NewFormatter parses a BCP 47 locale such as "bn-BD".
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	region, _ := tag.Region()
	return &Formatter{
		symbol: symbol,
		tag:    tag,
		lakh:   lakhRegions[region.String()],
	}, nil
}

// MustFormatter is NewFormatter for compile-time constants.
func MustFormatter(locale, symbol string) *Formatter {
	f, err := NewFormatter(locale, symbol)
	if err != nil {
		panic(err)
	}
	return f
}

var defaultFormatter = MustFormatter(DefaultLocale, CurrencySymbol)

// FormatCurrency formats amount as "৳ 4,50,000" using the default locale.
func FormatCurrency(amount int64) string {
	return defaultFormatter.Format(amount)
}

// Tag returns the formatter's locale.
func (f *Formatter) Tag() language.Tag { return f.tag }

// Format renders amount with no fractional digits. The output of a
// non-negative amount parses back with ParsePriceStrict.
func (f *Formatter) Format(amount int64) string {
	sign := ""
	// Negate in uint64 so math.MinInt64 survives.
	u := uint64(amount)
	if amount < 0 {
		sign = "-"
		u = -u
	}
	digits := strconv.FormatUint(u, 10)

	var grouped string
	if f.lakh {
		grouped = groupLakh(digits)
	} else {
		grouped = groupThousands(digits)
	}
	return sign + f.symbol + " " + grouped
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func groupLakh(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	rest, last3 := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	head := len(rest) % 2
	if head > 0 {
		b.WriteString(rest[:head])
	}
	for i := head; i < len(rest); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(rest[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(last3)
	return b.String()
}
