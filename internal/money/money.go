// Package money implements the calculations for budget totals.
//
// All values are decimal.Decimal so that repeated calculations do not
// accumulate binary floating point drift. Rounding to two decimal places
// happens at the API boundary, not here.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DiscountKind determines how a discount value is interpreted.
type DiscountKind string

const (
	// DiscountPercentage interprets the value as a percentage of the subtotal.
	DiscountPercentage DiscountKind = "percentage"
	// DiscountFixed interprets the value as a fixed amount.
	DiscountFixed DiscountKind = "fixed"
)

var (
	ErrInvalidDiscountKind       = errors.New("the discount kind must be \"percentage\" or \"fixed\"")
	ErrInvalidDiscountValue      = errors.New("the discount value must not be negative")
	ErrInvalidDiscountPercentage = errors.New("a percentage discount must be between 0 and 100")
	ErrInvalidInstallmentCount   = errors.New("the number of installments must be at least 1")
)

// Valid reports whether the kind is one of the supported discount kinds.
func (k DiscountKind) Valid() bool {
	return k == DiscountPercentage || k == DiscountFixed
}

// DiscountSpec is the reduction applied to a budget's subtotal.
type DiscountSpec struct {
	Kind  DiscountKind
	Value decimal.Decimal
}

// Validate checks the discount for values that can never be correct,
// independently of the subtotal it will be applied to.
func (s DiscountSpec) Validate() error {
	if !s.Kind.Valid() {
		return ErrInvalidDiscountKind
	}

	if s.Value.IsNegative() {
		return ErrInvalidDiscountValue
	}

	if s.Kind == DiscountPercentage && s.Value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscountPercentage
	}

	return nil
}

// Line is one quantity × unit price entry of a calculation.
type Line struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Total returns quantity × unit price for the line.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Subtotal sums the totals of all lines. An empty slice yields zero.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero

	for _, line := range lines {
		sum = sum.Add(line.Total())
	}

	return sum
}

// DiscountAmount calculates the amount a discount reduces the subtotal by.
//
// A fixed discount is clamped to the subtotal, so the resulting final total
// can never become negative, no matter what users configure.
func DiscountAmount(subtotal decimal.Decimal, discount DiscountSpec) decimal.Decimal {
	if discount.Kind == DiscountFixed {
		return decimal.Min(discount.Value, subtotal)
	}

	return subtotal.Mul(discount.Value).Div(decimal.NewFromInt(100))
}

// FinalTotal returns subtotal − discountAmount, floored at zero.
func FinalTotal(subtotal, discountAmount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discountAmount)
	if total.IsNegative() {
		return decimal.Zero
	}

	return total
}

// InstallmentValue splits the final total into equal installments.
func InstallmentValue(finalTotal decimal.Decimal, count int64) (decimal.Decimal, error) {
	if count < 1 {
		return decimal.Zero, ErrInvalidInstallmentCount
	}

	return finalTotal.Div(decimal.NewFromInt(count)), nil
}
