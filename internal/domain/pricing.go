package domain

import "strconv"

// Delivery estimates keyed off product kind and quantity. Design work is
// always quoted at the same window regardless of quantity.
const (
	deliverySmallBatch = "24-48 hours"
	deliveryMidBatch   = "2-3 business days"
	deliveryLargeBatch = "4-7 business days"
	deliveryDesignWork = "3-5 business days"
)

// NormalizeQuantity coerces raw quantity input to a positive integer. Zero,
// negative, and unparsable values become 1: orders below one unit do not
// exist as a business rule, so bad input is floored rather than rejected.
func NormalizeQuantity(raw string) int {
	quantity, err := strconv.Atoi(raw)
	if err != nil || quantity < 1 {
		return 1
	}
	return quantity
}

// ClampQuantity applies the same floor to an already-parsed quantity.
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// ComputePricing derives the full pricing breakdown for an order attempt.
// Quantity is floor-coerced to 1; an unrecognised paper kind fails with
// ErrUnknownPaper.
func ComputePricing(config ProductConfig, quantity int, paper PaperKind) (PricingDetails, error) {
	option, err := PaperOptionFor(paper)
	if err != nil {
		return PricingDetails{}, err
	}

	quantity = ClampQuantity(quantity)
	unitPrice := config.BasePrice + option.Surcharge

	return PricingDetails{
		BasePrice:         config.BasePrice,
		Quantity:          quantity,
		PaperKind:         option.Kind,
		PaperSurcharge:    option.Surcharge,
		UnitPrice:         unitPrice,
		TotalPrice:        unitPrice * int64(quantity),
		EstimatedDelivery: EstimateDelivery(config.Kind, quantity),
	}, nil
}

// EstimateDelivery returns the deterministic delivery window for a product
// kind and quantity.
func EstimateDelivery(kind ProductKind, quantity int) string {
	if kind == ProductGraphicWork {
		return deliveryDesignWork
	}
	switch {
	case quantity <= 50:
		return deliverySmallBatch
	case quantity <= 200:
		return deliveryMidBatch
	default:
		return deliveryLargeBatch
	}
}
