package checkout

import (
	"fmt"
	"math/rand/v2"

	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Lines snapshots cart items as order lines.
func Lines(items []models.CartItem) []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(items))
	for _, ci := range items {
		lines = append(lines, models.OrderLine{
			ItemID:      ci.ID,
			Title:       ci.Title,
			Description: ci.Description,
			Price:       ci.Price,
			ImageURL:    ci.ImageURL,
			CategoryID:  ci.CategoryID,
			Quantity:    ci.Quantity,
		})
	}
	return lines
}

// Totals returns Σ(price × quantity) and that sum plus the delivery fee.
func Totals(lines []models.OrderLine, fee decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	return subtotal, subtotal.Add(fee)
}

// Change is tendered minus total. Tendering less than the total is refused.
func Change(tendered, total decimal.Decimal) (decimal.Decimal, error) {
	if tendered.LessThan(total) {
		return decimal.Zero, apperrors.BusinessRule("checkout.Change",
			fmt.Sprintf("Cash amount must be at least %s", total.StringFixed(2)))
	}
	return tendered.Sub(total), nil
}

// ToMinorUnits converts reais to centavos, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// Rand is the part of math/rand/v2 used for display ids.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the math/rand/v2 global source, which is safe for
// concurrent use.
var DefaultRand Rand = globalRand{}

// NewDisplayID returns an id of one uppercase letter and four digits,
// e.g. "K0427".
func NewDisplayID(r Rand) string {
	return fmt.Sprintf("%c%04d", 'A'+rune(r.IntN(26)), r.IntN(10000))
}
