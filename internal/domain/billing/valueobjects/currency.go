package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// NormalizeCurrency upper-cases an ISO 4217 code and rejects unknown codes.
func NormalizeCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return unit.String(), nil
}
