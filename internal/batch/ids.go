package batch

import (
	"fmt"
	"strconv"
	"strings"
)

// CanonicalLoanID coerces a loan identifier to its canonical join key: the
// numeric value cast to an integer and rendered as a decimal string, so
// "00123", "123.0" and "123" all become "123". Every identifier must pass
// through this on both sides of a join; mixed representations silently drop
// rows otherwise.
func CanonicalLoanID(v string) (string, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return "", fmt.Errorf("empty loan id")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("loan id %q is not numeric: %w", v, err)
	}
	return strconv.FormatInt(int64(f), 10), nil
}
