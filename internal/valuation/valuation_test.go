package valuation

import (
	"testing"

	"github.com/shopspring/decimal"

	"tillpoint/backend/internal/domain"
)

func price(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func incoming(qty int, importPrice string) domain.StockMovement {
	mov := domain.StockMovement{
		Quantity:     qty,
		MovementType: domain.MovementIncoming,
	}
	if importPrice != "" {
		mov.ImportPrice = price(importPrice)
	}
	return mov
}

func outgoing(qty int) domain.StockMovement {
	return domain.StockMovement{
		Quantity:     qty,
		MovementType: domain.MovementOutgoing,
	}
}

func TestAverageCostWeightedMean(t *testing.T) {
	ledger := []domain.StockMovement{
		incoming(10, "10"),
		incoming(10, "20"),
	}
	got := AverageCost(ledger)
	if !got.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("average cost = %s, want 15", got)
	}
}

func TestAverageCostEmptyLedgerIsZero(t *testing.T) {
	if got := AverageCost(nil); !got.IsZero() {
		t.Fatalf("average cost of empty ledger = %s, want 0", got)
	}
	if got := AverageCost([]domain.StockMovement{outgoing(5)}); !got.IsZero() {
		t.Fatalf("average cost with only outgoing entries = %s, want 0", got)
	}
}

func TestAverageCostOrderIndependent(t *testing.T) {
	forward := []domain.StockMovement{incoming(3, "7.50"), incoming(9, "1.25"), incoming(1, "100")}
	backward := []domain.StockMovement{forward[2], forward[1], forward[0]}
	if a, b := AverageCost(forward), AverageCost(backward); !a.Equal(b) {
		t.Fatalf("average cost depends on order: %s vs %s", a, b)
	}
}

func TestAverageCostUnpricedIncomingDilutes(t *testing.T) {
	// Entries without an import price add quantity but no cost.
	ledger := []domain.StockMovement{
		incoming(10, "10"),
		incoming(10, ""),
	}
	got := AverageCost(ledger)
	if !got.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("average cost = %s, want 5", got)
	}
}

func TestApplyIncomingUpdatesCountAndAverage(t *testing.T) {
	product := domain.Product{AveragePrice: decimal.Zero}

	first := incoming(10, "10")
	ledger := []domain.StockMovement{first}
	product = ApplyMovement(product, first, ledger)

	second := incoming(10, "20")
	ledger = append(ledger, second)
	product = ApplyMovement(product, second, ledger)

	if product.InventoryCount == nil || *product.InventoryCount != 20 {
		t.Fatalf("inventory count = %v, want 20", product.InventoryCount)
	}
	if !product.AveragePrice.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("average price = %s, want 15", product.AveragePrice)
	}
}

func TestApplyTreatsNilCountAsZero(t *testing.T) {
	product := domain.Product{InventoryCount: nil, AveragePrice: decimal.Zero}
	mov := outgoing(4)
	product = ApplyMovement(product, mov, nil)
	if product.InventoryCount == nil || *product.InventoryCount != -4 {
		t.Fatalf("inventory count = %v, want -4", product.InventoryCount)
	}
}

func TestOutgoingNeverTouchesAveragePrice(t *testing.T) {
	product := domain.Product{AveragePrice: decimal.Zero}
	ledger := []domain.StockMovement{incoming(10, "10"), incoming(5, "12")}
	product = ApplyMovement(product, ledger[0], ledger[:1])
	product = ApplyMovement(product, ledger[1], ledger)

	want := decimal.RequireFromString("160").DivRound(decimal.RequireFromString("15"), costPrecision)

	out := outgoing(8)
	product = ApplyMovement(product, out, append(ledger, out))

	if product.InventoryCount == nil || *product.InventoryCount != 7 {
		t.Fatalf("inventory count = %v, want 7", product.InventoryCount)
	}
	if !product.AveragePrice.Equal(want) {
		t.Fatalf("average price = %s, want %s", product.AveragePrice, want)
	}
}

func TestRetractInvertsApply(t *testing.T) {
	product := domain.Product{AveragePrice: decimal.Zero}

	first := incoming(10, "10")
	product = ApplyMovement(product, first, []domain.StockMovement{first})
	countBefore := *product.InventoryCount
	avgBefore := product.AveragePrice

	second := incoming(7, "33.33")
	product = ApplyMovement(product, second, []domain.StockMovement{first, second})
	product = RetractMovement(product, second, []domain.StockMovement{first})

	if *product.InventoryCount != countBefore {
		t.Fatalf("inventory count = %d, want %d", *product.InventoryCount, countBefore)
	}
	if !product.AveragePrice.Equal(avgBefore) {
		t.Fatalf("average price = %s, want %s", product.AveragePrice, avgBefore)
	}
}

func TestRetractFirstIncomingLeavesRemainingAverage(t *testing.T) {
	product := domain.Product{AveragePrice: decimal.Zero}
	first := incoming(10, "10")
	second := incoming(10, "20")
	product = ApplyMovement(product, first, []domain.StockMovement{first})
	product = ApplyMovement(product, second, []domain.StockMovement{first, second})

	product = RetractMovement(product, first, []domain.StockMovement{second})

	if *product.InventoryCount != 10 {
		t.Fatalf("inventory count = %d, want 10", *product.InventoryCount)
	}
	if !product.AveragePrice.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("average price = %s, want 20", product.AveragePrice)
	}
}

func TestRetractLastIncomingResetsAverageToZero(t *testing.T) {
	product := domain.Product{AveragePrice: decimal.Zero}
	only := incoming(5, "9.99")
	product = ApplyMovement(product, only, []domain.StockMovement{only})
	product = RetractMovement(product, only, nil)

	if *product.InventoryCount != 0 {
		t.Fatalf("inventory count = %d, want 0", *product.InventoryCount)
	}
	if !product.AveragePrice.IsZero() {
		t.Fatalf("average price = %s, want 0", product.AveragePrice)
	}
}

func TestRetractOutgoingRestoresCount(t *testing.T) {
	count := 3
	product := domain.Product{InventoryCount: &count, AveragePrice: decimal.Zero}
	product = RetractMovement(product, outgoing(8), nil)
	if *product.InventoryCount != 11 {
		t.Fatalf("inventory count = %d, want 11", *product.InventoryCount)
	}
}
