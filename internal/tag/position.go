package tag

import (
	"strconv"
	"strings"
)

// ParsePosition parses "N", "N/Total" and "/Total". Either part may be
// absent; unparsable parts read as absent.
func ParsePosition(text string) (number uint16, hasNumber bool, total uint16, hasTotal bool) {
	num, tot, found := strings.Cut(text, "/")
	number, hasNumber = parseUint16(num)
	if found {
		total, hasTotal = parseUint16(tot)
	}
	return
}

// FormatPosition is the inverse of ParsePosition. It returns "" when
// neither part is present.
func FormatPosition(number uint16, hasNumber bool, total uint16, hasTotal bool) string {
	var b strings.Builder
	if hasNumber {
		b.WriteString(strconv.FormatUint(uint64(number), 10))
	}
	if hasTotal {
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(total), 10))
	}
	return b.String()
}

func parseUint16(s string) (uint16, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}
