// Package quotes persists the quote aggregate: a header row plus four
// child collections (filament lines, hardware lines, print setup,
// labour) written and replaced as one atomic unit.
package quotes

// FilamentLine is one filament entry of a stored quote. Name and price
// are snapshots copied from the catalog when the line was added; later
// catalog edits do not touch them.
type FilamentLine struct {
	ID           int64   `json:"id,omitempty"`
	FilamentID   int64   `json:"filament_id"`
	FilamentName string  `json:"filament_name"`
	PricePerGram float64 `json:"price_per_gram"`
	GramsUsed    float64 `json:"grams_used"`
	TotalCost    float64 `json:"total_cost"`
}

// HardwareLine is one purchased-part entry of a stored quote.
type HardwareLine struct {
	ID           int64   `json:"id,omitempty"`
	HardwareID   int64   `json:"hardware_id"`
	HardwareName string  `json:"hardware_name"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TotalCost    float64 `json:"total_cost"`
}

// PrintSetup is the one-to-one machine-time record of a quote. Power and
// depreciation costs are snapshots computed when the quote was priced.
type PrintSetup struct {
	PrinterID        int64   `json:"printer_id"`
	PrinterName      string  `json:"printer_name"`
	PrintTime        float64 `json:"print_time"`
	PowerCost        float64 `json:"power_cost"`
	DepreciationCost float64 `json:"depreciation_cost"`
}

// Labour is the one-to-one manual-work record of a quote.
type Labour struct {
	DesignMinutes         float64 `json:"design_minutes"`
	PreparationMinutes    float64 `json:"preparation_minutes"`
	PostProcessingMinutes float64 `json:"post_processing_minutes"`
	OtherMinutes          float64 `json:"other_minutes"`
	LabourRatePerHour     float64 `json:"labour_rate_per_hour"`
	TotalCost             float64 `json:"total_cost"`
}

// Quote is the aggregate root. TotalCost is a cached snapshot of the
// priced total; callers recompute it on any line change before saving.
type Quote struct {
	ID              int64   `json:"id"`
	QuoteNumber     string  `json:"quote_number"`
	Title           string  `json:"title"`
	CustomerName    string  `json:"customer_name"`
	Date            string  `json:"date"`
	Notes           string  `json:"notes"`
	MarkupPercent   float64 `json:"markup_percent"`
	DiscountPercent float64 `json:"discount_percent"`
	Quantity        int64   `json:"quantity"`
	TotalCost       float64 `json:"total_cost"`
	IsQuickQuote    bool    `json:"is_quick_quote"`
	CreatedAt       string  `json:"created_at,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`

	Filaments []FilamentLine `json:"filaments"`
	Hardware  []HardwareLine `json:"hardware"`
	Print     *PrintSetup    `json:"print_setup,omitempty"`
	Labour    *Labour        `json:"labour,omitempty"`
}
