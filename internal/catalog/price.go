package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
)

// ErrInvalidPrice is returned (wrapped) for price strings that do not reduce
// to a non-negative integer.
var ErrInvalidPrice = errors.New("invalid price format")

var priceParseFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "storefront_price_parse_failures_total",
	Help: "Price strings that failed to parse and were replaced by a fallback",
})

// ParsePriceStrict parses a display price such as "৳ 4,50,000" into 450000.
// Currency symbols, comma separators and whitespace are discarded; what is
// left must be a non-empty run of ASCII digits.
func ParsePriceStrict(s string) (int64, error) {
	digits := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)

	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, invalidPrice(s, nil)
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, invalidPrice(s, err)
	}
	return v, nil
}

func invalidPrice(s string, cause error) error {
	err := ErrInvalidPrice
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidPrice, cause)
	}
	return &apperrors.AppError{
		Code:    "INVALID_PRICE",
		Message: fmt.Sprintf("invalid price format: %q", s),
		Status:  http.StatusBadRequest,
		Err:     errors.Join(apperrors.ErrInvalidInput, err),
	}
}

// ParsePriceSafe parses like ParsePriceStrict but never fails: malformed input
// is logged with the request-scoped logger, counted, and replaced by fallback.
func ParsePriceSafe(ctx context.Context, s string, fallback int64) int64 {
	v, err := ParsePriceStrict(s)
	if err != nil {
		priceParseFailures.Inc()
		logger.FromContext(ctx).WarnContext(ctx, "failed to parse price, using fallback",
			slog.String("price", s),
			slog.Int64("fallback", fallback),
		)
		return fallback
	}
	return v
}

// IsValidPrice reports whether s parses strictly.
func IsValidPrice(s string) bool {
	_, err := ParsePriceStrict(s)
	return err == nil
}
