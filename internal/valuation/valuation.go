// Package valuation derives a product's inventory count and weighted-average
// cost from its stock-movement ledger. The functions are pure: callers load
// the relevant ledger slice, apply or retract a movement, and persist the
// returned product state inside the same transaction as the ledger mutation.
package valuation

import (
	"github.com/shopspring/decimal"

	"tillpoint/backend/internal/domain"
)

// costPrecision matches the 40 fractional digits the average_price column
// carries, so repeated re-aggregation never loses cost information.
const costPrecision = 40

// AverageCost returns the quantity-weighted mean import price over the
// incoming entries of a ledger. Entries without an import price still count
// toward the quantity denominator but contribute no cost. Returns zero when
// no incoming quantity exists.
func AverageCost(ledger []domain.StockMovement) decimal.Decimal {
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for _, entry := range ledger {
		if entry.MovementType != domain.MovementIncoming {
			continue
		}
		qty := decimal.NewFromInt(int64(entry.Quantity))
		totalQty = totalQty.Add(qty)
		if entry.ImportPrice != nil {
			totalCost = totalCost.Add(qty.Mul(*entry.ImportPrice))
		}
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalCost.DivRound(totalQty, costPrecision)
}

// ApplyMovement returns the product state after mov has been added to the
// ledger. ledger must already include mov. A nil inventory count is treated
// as zero. Outgoing movements never touch the average price, and the count is
// allowed to go negative.
func ApplyMovement(product domain.Product, mov domain.StockMovement, ledger []domain.StockMovement) domain.Product {
	count := 0
	if product.InventoryCount != nil {
		count = *product.InventoryCount
	}

	switch mov.MovementType {
	case domain.MovementIncoming:
		if mov.ImportPrice != nil {
			product.AveragePrice = AverageCost(ledger)
		}
		count += mov.Quantity
	case domain.MovementOutgoing:
		count -= mov.Quantity
	}

	product.InventoryCount = &count
	return product
}

// RetractMovement returns the product state after mov has been removed from
// the ledger, undoing exactly what ApplyMovement did. ledger must already
// exclude mov.
func RetractMovement(product domain.Product, mov domain.StockMovement, ledger []domain.StockMovement) domain.Product {
	count := 0
	if product.InventoryCount != nil {
		count = *product.InventoryCount
	}

	switch mov.MovementType {
	case domain.MovementIncoming:
		if mov.ImportPrice != nil {
			product.AveragePrice = AverageCost(ledger)
		}
		count -= mov.Quantity
	case domain.MovementOutgoing:
		count += mov.Quantity
	}

	product.InventoryCount = &count
	return product
}
