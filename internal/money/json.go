package money

import (
	"fmt"
	"strconv"
)

// MarshalJSON encodes the amount as a bare JSON number in decimal form,
// so no precision is lost to float round-tripping.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
// The server reports balances and transaction amounts as decimal strings;
// locally cached values round-trip as numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*a = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid amount %s: %w", s, err)
		}
		s = unquoted
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
