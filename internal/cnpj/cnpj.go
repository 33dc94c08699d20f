// Package cnpj validates Brazilian federal registry identifiers before any
// lookup is attempted against the registry API.
package cnpj

import "strings"

var (
	firstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Clean strips every non-digit character from a raw CNPJ string.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(14)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether the raw value is a structurally valid CNPJ. The
// input may carry formatting punctuation; it is cleaned first.
func Valid(raw string) bool {
	digits := Clean(raw)
	if len(digits) != 14 {
		return false
	}
	allSame := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}
	if checkDigit(digits[:12], firstWeights) != int(digits[12]-'0') {
		return false
	}
	return checkDigit(digits[:13], secondWeights) == int(digits[13]-'0')
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
