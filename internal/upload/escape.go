package upload

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Escape sanitizes a filename for use as storage metadata.
// Characters outside A-Z, a-z, 0-9 and "@*_+-./" are percent-encoded per
// UTF-16 code unit: %XX below 0x100 and %uXXXX above.
func Escape(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, unit := range utf16.Encode([]rune(name)) {
		switch {
		case isUnescaped(unit):
			b.WriteByte(byte(unit))
		case unit < 0x100:
			fmt.Fprintf(&b, "%%%02X", unit)
		default:
			fmt.Fprintf(&b, "%%u%04X", unit)
		}
	}
	return b.String()
}

func isUnescaped(unit uint16) bool {
	switch {
	case 'A' <= unit && unit <= 'Z', 'a' <= unit && unit <= 'z', '0' <= unit && unit <= '9':
		return true
	}
	switch unit {
	case '@', '*', '_', '+', '-', '.', '/':
		return true
	}
	return false
}
