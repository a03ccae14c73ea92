// README: Common value objects used across modules.
package types

import "strconv"

// ID identifies a vehicle (usually its registration plate).
type ID string

// Money is a whole-unit toll amount labelled with the rule table currency.
type Money struct {
	Amount   int64
	Currency string
}

func (m Money) String() string {
	if m.Currency == "" {
		return strconv.FormatInt(m.Amount, 10)
	}
	return strconv.FormatInt(m.Amount, 10) + " " + m.Currency
}
