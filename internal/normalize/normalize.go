package normalize

import (
	"strings"
	"unicode"
)

// Email canonicalizes an email address for lookups and uniqueness checks.
func Email(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// EmailKey returns the canonical email as a dedup key, nil when absent so
// email-less applications never collide on the uniqueness index.
func EmailKey(input string) *string {
	normalized := Email(input)
	if normalized == "" {
		return nil
	}

	return &normalized
}

// Phone strips formatting from a phone number, keeping digits and a leading
// plus sign. It returns nil when nothing dialable remains, so phoneless
// applications never collide on the uniqueness index.
func Phone(input string) *string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	var builder strings.Builder
	for i, r := range trimmed {
		if r == '+' && i == 0 {
			builder.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}

	normalized := builder.String()
	if normalized == "" || normalized == "+" {
		return nil
	}

	return &normalized
}
