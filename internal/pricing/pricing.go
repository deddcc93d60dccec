// Package pricing computes quote costs. Everything here is pure: line
// items and rates in, a full cost breakdown out. The stores persist the
// resulting snapshot, they never redo this math.
package pricing

import "math"

// FilamentLine is one filament entry of a quote.
type FilamentLine struct {
	Name         string
	PricePerGram float64
	GramsUsed    float64
}

// HardwareLine is one purchased-part entry of a quote.
type HardwareLine struct {
	Name      string
	Quantity  float64
	UnitPrice float64
}

// PrintSetup captures the machine-time inputs of a quote.
type PrintSetup struct {
	PrinterName         string
	PowerUsageWatts     float64
	DepreciationPerHour float64
	PrintMinutes        float64
}

// Labour captures the manual-work inputs of a quote.
type Labour struct {
	DesignMinutes         float64
	PreparationMinutes    float64
	PostProcessingMinutes float64
	OtherMinutes          float64
	RatePerHour           float64
}

// Rates holds the global pricing parameters applied on top of line costs.
type Rates struct {
	MarkupPercent     float64
	DiscountPercent   float64
	TaxRatePercent    float64
	ElectricityPerKWh float64
}

// Input groups everything Calculate needs.
type Input struct {
	Filaments []FilamentLine
	Hardware  []HardwareLine
	Print     *PrintSetup
	Labour    *Labour
	Rates     Rates
}

// Breakdown contains every intermediate value of the calculation, in the
// order the steps compound: subtotal, then markup, then discount on the
// post-markup price, then tax on the discounted price.
type Breakdown struct {
	FilamentCost      float64
	HardwareCost      float64
	PowerCost         float64
	DepreciationCost  float64
	MaterialsSubtotal float64
	LabourCost        float64
	ServicesSubtotal  float64
	Subtotal          float64
	MarkupAmount      float64
	AfterMarkup       float64
	DiscountAmount    float64
	AfterDiscount     float64
	TaxAmount         float64
}

// Totals contains the roll-up values of the calculation.
type Totals struct {
	Total float64
}

// Result groups the full pricing output.
type Result struct {
	Breakdown Breakdown
	Totals    Totals
}

// sanitize coerces NaN and infinities to 0 so malformed numeric input
// can never poison a stored total.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// PricePerKg derives the catalog price per kilogram from spool price and
// spool weight in grams. A zero weight yields 0 rather than dividing.
func PricePerKg(spoolPrice, spoolWeightGrams float64) float64 {
	if spoolWeightGrams <= 0 {
		return 0
	}
	return sanitize(spoolPrice / spoolWeightGrams * 1000)
}

// DepreciationPerHour derives the amortized hourly cost of printer
// ownership from purchase price, service cost and expected lifetime.
func DepreciationPerHour(price, serviceCost, depreciationHours float64) float64 {
	if depreciationHours <= 0 {
		return 0
	}
	return sanitize((price + serviceCost) / depreciationHours)
}

// FilamentLineCost is grams used times the snapshotted price per gram.
func FilamentLineCost(line FilamentLine) float64 {
	return sanitize(line.GramsUsed) * sanitize(line.PricePerGram)
}

// HardwareLineCost is quantity times the snapshotted unit price.
func HardwareLineCost(line HardwareLine) float64 {
	return sanitize(line.Quantity) * sanitize(line.UnitPrice)
}

// PowerCost converts wattage and print time into electricity cost.
func PowerCost(setup PrintSetup, electricityPerKWh float64) float64 {
	kw := sanitize(setup.PowerUsageWatts) / 1000.0
	hours := sanitize(setup.PrintMinutes) / 60.0
	return kw * hours * sanitize(electricityPerKWh)
}

// DepreciationCost charges the printer's hourly depreciation for the
// print time.
func DepreciationCost(setup PrintSetup) float64 {
	return sanitize(setup.PrintMinutes) / 60.0 * sanitize(setup.DepreciationPerHour)
}

// LabourCost sums all labour minutes and bills them at the hourly rate.
func LabourCost(labour Labour) float64 {
	minutes := sanitize(labour.DesignMinutes) +
		sanitize(labour.PreparationMinutes) +
		sanitize(labour.PostProcessingMinutes) +
		sanitize(labour.OtherMinutes)
	return minutes / 60.0 * sanitize(labour.RatePerHour)
}

// Calculate computes the full cost breakdown for a quote. Absent print
// setup or labour contribute 0; no line items at all yield a 0 total.
func Calculate(in Input) Result {
	var b Breakdown

	for _, line := range in.Filaments {
		b.FilamentCost += FilamentLineCost(line)
	}
	for _, line := range in.Hardware {
		b.HardwareCost += HardwareLineCost(line)
	}
	if in.Print != nil {
		b.PowerCost = PowerCost(*in.Print, in.Rates.ElectricityPerKWh)
		b.DepreciationCost = DepreciationCost(*in.Print)
	}
	if in.Labour != nil {
		b.LabourCost = LabourCost(*in.Labour)
	}

	return Aggregate(b, in.Rates)
}

// Aggregate applies the sequential subtotal, markup, discount and tax
// steps on top of already-computed component costs. Callers holding
// stored cost snapshots use this to rebuild the full breakdown without
// re-deriving the per-line values.
func Aggregate(b Breakdown, rates Rates) Result {
	b.MaterialsSubtotal = b.FilamentCost + b.HardwareCost + b.PowerCost + b.DepreciationCost
	b.ServicesSubtotal = b.LabourCost
	b.Subtotal = b.MaterialsSubtotal + b.ServicesSubtotal

	b.MarkupAmount = b.Subtotal * sanitize(rates.MarkupPercent) / 100.0
	b.AfterMarkup = b.Subtotal + b.MarkupAmount
	b.DiscountAmount = b.AfterMarkup * sanitize(rates.DiscountPercent) / 100.0
	b.AfterDiscount = b.AfterMarkup - b.DiscountAmount
	b.TaxAmount = b.AfterDiscount * sanitize(rates.TaxRatePercent) / 100.0

	return Result{
		Breakdown: b,
		Totals:    Totals{Total: b.AfterDiscount + b.TaxAmount},
	}
}
