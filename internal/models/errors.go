package models

import "fmt"

// UnsupportedCurrencyError reports a base or target code outside the
// configured currency set. It is the one fetch-path error surfaced to callers.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %s", e.Code)
}

// InvalidAmountError reports a non-finite or negative conversion amount.
type InvalidAmountError struct {
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount: %s", e.Reason)
}
