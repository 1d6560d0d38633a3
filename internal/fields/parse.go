package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var nonDigitRe = regexp.MustCompile(`\D+`)

// dateLayouts accepted by ParseDate, tried in order. ISO first, then the
// Brazilian day-first forms.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02/01/06",
}

// ParseDate leniently parses a date-ish value. Already-structured times pass
// through date-truncated; unparseable input yields nil.
func ParseDate(value any) *time.Time {
	switch t := value.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	case *time.Time:
		if t == nil {
			return nil
		}
		return ParseDate(*t)
	case string:
		raw := strings.TrimSpace(t)
		if raw == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
				return &parsed
			}
		}
		return nil
	default:
		return nil
	}
}

// ParseDecimal parses a money-ish value to two decimal places. When both
// "," and "." are present, "." is a thousands separator and "," the decimal
// separator (Brazilian convention); a lone "," is the decimal separator.
// Unparseable input yields nil.
func ParseDecimal(value any) *decimal.Decimal {
	switch t := value.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return quantize(t)
	case *decimal.Decimal:
		if t == nil {
			return nil
		}
		return quantize(*t)
	case float64:
		return quantize(decimal.NewFromFloat(t))
	case int:
		return quantize(decimal.NewFromInt(int64(t)))
	case int64:
		return quantize(decimal.NewFromInt(t))
	case string:
		raw := strings.TrimSpace(t)
		if raw == "" {
			return nil
		}
		hasComma := strings.Contains(raw, ",")
		hasPeriod := strings.Contains(raw, ".")
		switch {
		case hasComma && hasPeriod:
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		case hasComma:
			raw = strings.ReplaceAll(raw, ",", ".")
		}
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil
		}
		return quantize(parsed)
	default:
		return nil
	}
}

func quantize(d decimal.Decimal) *decimal.Decimal {
	rounded := d.Round(2)
	return &rounded
}

// NormalizeDigits strips every non-digit rune. exactLen rejects (returns "")
// any run whose digit count differs; maxLen truncates. Zero disables either
// constraint.
func NormalizeDigits(value any, maxLen, exactLen int) string {
	raw := stringify(value)
	if raw == "" {
		return ""
	}
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	if exactLen > 0 && len(digits) != exactLen {
		return ""
	}
	if maxLen > 0 && len(digits) > maxLen {
		return digits[:maxLen]
	}
	return digits
}

// CleanText collapses whitespace and truncates.
func CleanText(value any, maxLen int) string {
	cleaned := strings.Join(strings.Fields(stringify(value)), " ")
	if maxLen > 0 && len(cleaned) > maxLen {
		return cleaned[:maxLen]
	}
	return cleaned
}

func stringify(value any) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		d := decimal.NewFromFloat(t)
		return d.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
