package domain

import (
	"errors"
	"testing"
)

func TestComputePricing_Invariants(t *testing.T) {
	for _, config := range ProductConfigs() {
		for _, paper := range PaperOptions() {
			details, err := ComputePricing(config, 7, paper.Kind)
			if err != nil {
				t.Fatalf("ComputePricing(%s, %s) error: %v", config.Kind, paper.Kind, err)
			}
			if details.UnitPrice != config.BasePrice+paper.Surcharge {
				t.Fatalf("%s/%s: expected unit price %d, got %d", config.Kind, paper.Kind, config.BasePrice+paper.Surcharge, details.UnitPrice)
			}
			if details.TotalPrice != details.UnitPrice*int64(details.Quantity) {
				t.Fatalf("%s/%s: total %d != unit %d * quantity %d", config.Kind, paper.Kind, details.TotalPrice, details.UnitPrice, details.Quantity)
			}
		}
	}
}

func TestComputePricing_QuantityFloor(t *testing.T) {
	config, err := ProductConfigFor(ProductWeddingCard)
	if err != nil {
		t.Fatalf("ProductConfigFor error: %v", err)
	}

	for _, quantity := range []int{0, -5} {
		details, err := ComputePricing(config, quantity, PaperStandard)
		if err != nil {
			t.Fatalf("ComputePricing quantity %d error: %v", quantity, err)
		}
		if details.Quantity != 1 {
			t.Fatalf("expected quantity coerced to 1, got %d", details.Quantity)
		}
	}
}

func TestComputePricing_UnknownPaper(t *testing.T) {
	config, err := ProductConfigFor(ProductPoster)
	if err != nil {
		t.Fatalf("ProductConfigFor error: %v", err)
	}
	if _, err := ComputePricing(config, 1, PaperKind("cardboard")); !errors.Is(err, ErrUnknownPaper) {
		t.Fatalf("expected ErrUnknownPaper, got %v", err)
	}
}

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"10", 10},
		{"1", 1},
		{"0", 1},
		{"-3", 1},
		{"", 1},
		{"abc", 1},
	}
	for _, tc := range cases {
		if got := NormalizeQuantity(tc.raw); got != tc.want {
			t.Fatalf("NormalizeQuantity(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestEstimateDelivery(t *testing.T) {
	cases := []struct {
		kind     ProductKind
		quantity int
		want     string
	}{
		{ProductWeddingCard, 50, "24-48 hours"},
		{ProductWeddingCard, 51, "2-3 business days"},
		{ProductPoster, 200, "2-3 business days"},
		{ProductPoster, 201, "4-7 business days"},
		{ProductGraphicWork, 1, "3-5 business days"},
		{ProductGraphicWork, 500, "3-5 business days"},
	}
	for _, tc := range cases {
		if got := EstimateDelivery(tc.kind, tc.quantity); got != tc.want {
			t.Fatalf("EstimateDelivery(%s, %d) = %q, want %q", tc.kind, tc.quantity, got, tc.want)
		}
	}
}

func TestProductConfigFor_Unknown(t *testing.T) {
	if _, err := ProductConfigFor(ProductKind("balloon")); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}
