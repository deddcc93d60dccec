package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestCalculate_RepresentativeQuote(t *testing.T) {
	// 100g of filament at 17.49/kg, 6h print on a 100W printer,
	// 10 minutes of labour at 13/h, one hardware item at 10.29.
	in := Input{
		Filaments: []FilamentLine{
			{Name: "PLA Silver", PricePerGram: 17.49 / 1000.0, GramsUsed: 100},
		},
		Hardware: []HardwareLine{
			{Name: "M3 insert kit", Quantity: 1, UnitPrice: 10.29},
		},
		Print: &PrintSetup{
			PowerUsageWatts:     100,
			DepreciationPerHour: 0.14,
			PrintMinutes:        360,
		},
		Labour: &Labour{
			PreparationMinutes:    5,
			PostProcessingMinutes: 5,
			RatePerHour:           13,
		},
		Rates: Rates{
			MarkupPercent:     75,
			DiscountPercent:   5,
			ElectricityPerKWh: 0.2166,
		},
	}

	result := Calculate(in)

	nearlyEqual(t, "filamentCost", result.Breakdown.FilamentCost, 1.749)
	nearlyEqual(t, "hardwareCost", result.Breakdown.HardwareCost, 10.29)
	nearlyEqual(t, "powerCost", result.Breakdown.PowerCost, 0.12996)
	nearlyEqual(t, "depreciationCost", result.Breakdown.DepreciationCost, 0.84)
	nearlyEqual(t, "labourCost", result.Breakdown.LabourCost, 13.0/6.0)

	subtotal := 1.749 + 10.29 + 0.12996 + 0.84 + 13.0/6.0
	nearlyEqual(t, "subtotal", result.Breakdown.Subtotal, subtotal)

	afterMarkup := subtotal * 1.75
	nearlyEqual(t, "afterMarkup", result.Breakdown.AfterMarkup, afterMarkup)
	nearlyEqual(t, "total", result.Totals.Total, afterMarkup*0.95)

	if math.Abs(result.Totals.Total-25.24) > 0.01 {
		t.Fatalf("total %.4f not within a cent of the documented 25.24", result.Totals.Total)
	}
}

func TestCalculate_StepsCompoundSequentially(t *testing.T) {
	in := Input{
		Hardware: []HardwareLine{{Quantity: 1, UnitPrice: 100}},
		Rates:    Rates{MarkupPercent: 50, DiscountPercent: 10, TaxRatePercent: 20},
	}

	result := Calculate(in)

	// Discount applies to the post-markup price, tax to the discounted one.
	nearlyEqual(t, "afterMarkup", result.Breakdown.AfterMarkup, 150)
	nearlyEqual(t, "discountAmount", result.Breakdown.DiscountAmount, 15)
	nearlyEqual(t, "afterDiscount", result.Breakdown.AfterDiscount, 135)
	nearlyEqual(t, "taxAmount", result.Breakdown.TaxAmount, 27)
	nearlyEqual(t, "total", result.Totals.Total, 162)
}

func TestCalculate_MarkupNeverLowersPrice(t *testing.T) {
	in := Input{
		Filaments: []FilamentLine{{PricePerGram: 0.02, GramsUsed: 340}},
		Labour:    &Labour{DesignMinutes: 45, RatePerHour: 18},
		Rates:     Rates{MarkupPercent: 30},
	}

	result := Calculate(in)

	if result.Totals.Total < result.Breakdown.Subtotal {
		t.Fatalf("total %v below subtotal %v with positive markup and no discount/tax",
			result.Totals.Total, result.Breakdown.Subtotal)
	}
}

func TestCalculate_EmptyQuoteIsZero(t *testing.T) {
	result := Calculate(Input{Rates: Rates{MarkupPercent: 75, DiscountPercent: 5, TaxRatePercent: 19}})

	nearlyEqual(t, "subtotal", result.Breakdown.Subtotal, 0)
	nearlyEqual(t, "total", result.Totals.Total, 0)
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Input{
		Filaments: []FilamentLine{{PricePerGram: 0.01749, GramsUsed: 100}},
		Hardware:  []HardwareLine{{Quantity: 3, UnitPrice: 2.5}},
		Print:     &PrintSetup{PowerUsageWatts: 220, DepreciationPerHour: 0.2, PrintMinutes: 95},
		Labour:    &Labour{OtherMinutes: 12, RatePerHour: 13},
		Rates:     Rates{MarkupPercent: 40, DiscountPercent: 2.5, TaxRatePercent: 19, ElectricityPerKWh: 0.31},
	}

	first := Calculate(in)
	second := Calculate(in)

	if first != second {
		t.Fatalf("results differ for identical input:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestCalculate_NaNInputsCoercedToZero(t *testing.T) {
	nan := math.NaN()
	in := Input{
		Filaments: []FilamentLine{{PricePerGram: nan, GramsUsed: 120}},
		Hardware:  []HardwareLine{{Quantity: 2, UnitPrice: math.Inf(1)}},
		Print:     &PrintSetup{PowerUsageWatts: nan, DepreciationPerHour: 0.14, PrintMinutes: 60},
		Labour:    &Labour{DesignMinutes: nan, RatePerHour: 13},
		Rates:     Rates{MarkupPercent: nan, ElectricityPerKWh: 0.2},
	}

	result := Calculate(in)

	if math.IsNaN(result.Totals.Total) || math.IsInf(result.Totals.Total, 0) {
		t.Fatalf("total is not finite: %v", result.Totals.Total)
	}
	nearlyEqual(t, "depreciationCost", result.Breakdown.DepreciationCost, 0.14)
}

func TestDerivedCatalogFields(t *testing.T) {
	nearlyEqual(t, "pricePerKg", PricePerKg(17.49, 1000), 17.49)
	nearlyEqual(t, "pricePerKg half spool", PricePerKg(12, 500), 24)
	nearlyEqual(t, "pricePerKg zero weight", PricePerKg(12, 0), 0)

	nearlyEqual(t, "depreciationPerHour", DepreciationPerHour(250, 30, 2000), 0.14)
	nearlyEqual(t, "depreciationPerHour zero lifetime", DepreciationPerHour(250, 30, 0), 0)
}

func TestAggregate_MatchesCalculateOnSameComponents(t *testing.T) {
	in := Input{
		Filaments: []FilamentLine{{PricePerGram: 0.02, GramsUsed: 250}},
		Hardware:  []HardwareLine{{Quantity: 4, UnitPrice: 1.1}},
		Print:     &PrintSetup{PowerUsageWatts: 150, DepreciationPerHour: 0.14, PrintMinutes: 180},
		Labour:    &Labour{DesignMinutes: 30, RatePerHour: 13},
		Rates:     Rates{MarkupPercent: 50, DiscountPercent: 10, TaxRatePercent: 19, ElectricityPerKWh: 0.2166},
	}

	full := Calculate(in)
	rebuilt := Aggregate(Breakdown{
		FilamentCost:     full.Breakdown.FilamentCost,
		HardwareCost:     full.Breakdown.HardwareCost,
		PowerCost:        full.Breakdown.PowerCost,
		DepreciationCost: full.Breakdown.DepreciationCost,
		LabourCost:       full.Breakdown.LabourCost,
	}, in.Rates)

	if full != rebuilt {
		t.Fatalf("aggregate diverges from calculate:\ncalculate %+v\naggregate %+v", full, rebuilt)
	}
}
