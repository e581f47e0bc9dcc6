package zipcode

import (
	"errors"
	"strings"
)

var ErrInvalidZipcode = errors.New("郵便番号は7桁の数字で入力してください")

var hyphens = strings.NewReplacer(
	"－", "-", // full-width hyphen-minus
	"ー", "-", // katakana prolonged sound mark, common IME slip
	"‐", "-",
	"−", "-",
	"―", "-",
)

// Normalize turns user input such as "100-0001", "1000001" or "１００－０００１"
// into seven ASCII digits.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "〒")
	s = strings.TrimSpace(hyphens.Replace(s))

	digits := make([]byte, 0, 7)
	for i, r := range []rune(s) {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, byte(r))
		case r >= '０' && r <= '９':
			digits = append(digits, byte('0'+(r-'０')))
		case r == '-' && i == 3 && len(digits) == 3:
		default:
			return "", ErrInvalidZipcode
		}
	}
	if len(digits) != 7 {
		return "", ErrInvalidZipcode
	}
	return string(digits), nil
}
