package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/threedq/threedq/internal/domain"
	"github.com/threedq/threedq/internal/export"
	"github.com/threedq/threedq/internal/invoice"
	"github.com/threedq/threedq/internal/pricing"
	"github.com/threedq/threedq/internal/quotes"
	"github.com/threedq/threedq/internal/settings"
)

const dateLayout = "2006-01-02"

type filamentLinePayload struct {
	FilamentID   int64   `json:"filament_id" validate:"required,gt=0"`
	GramsUsed    float64 `json:"grams_used" validate:"gte=0"`
	PricePerGram float64 `json:"price_per_gram" validate:"gte=0"`
}

type hardwareLinePayload struct {
	HardwareID int64   `json:"hardware_id" validate:"required,gt=0"`
	Quantity   float64 `json:"quantity" validate:"gte=0"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
}

type printPayload struct {
	PrinterID int64   `json:"printer_id" validate:"required,gt=0"`
	PrintTime float64 `json:"print_time" validate:"gte=0"`
}

type labourPayload struct {
	DesignMinutes         float64 `json:"design_minutes" validate:"gte=0"`
	PreparationMinutes    float64 `json:"preparation_minutes" validate:"gte=0"`
	PostProcessingMinutes float64 `json:"post_processing_minutes" validate:"gte=0"`
	OtherMinutes          float64 `json:"other_minutes" validate:"gte=0"`
	LabourRatePerHour     float64 `json:"labour_rate_per_hour" validate:"gte=0"`
}

// quotePayload is the write shape for full quotes. Lines reference
// catalog rows; prices and rates left at zero are filled from the
// catalog and settings, anything non-zero is taken as an override.
type quotePayload struct {
	Title           string  `json:"title"`
	CustomerName    string  `json:"customer_name" validate:"required"`
	Date            string  `json:"date" validate:"required"`
	Notes           string  `json:"notes"`
	MarkupPercent   float64 `json:"markup_percent" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	Quantity        int64   `json:"quantity" validate:"gte=0"`

	Filaments []filamentLinePayload `json:"filaments" validate:"dive"`
	Hardware  []hardwareLinePayload `json:"hardware" validate:"dive"`
	Print     *printPayload         `json:"print_setup"`
	Labour    *labourPayload        `json:"labour"`
}

type quickQuotePayload struct {
	Title        string  `json:"title"`
	CustomerName string  `json:"customer_name" validate:"required"`
	Date         string  `json:"date" validate:"required"`
	Notes        string  `json:"notes"`
	TotalCost    float64 `json:"total_cost" validate:"gte=0"`
}

type breakdownResponse struct {
	FilamentCost      float64 `json:"filament_cost"`
	HardwareCost      float64 `json:"hardware_cost"`
	PowerCost         float64 `json:"power_cost"`
	DepreciationCost  float64 `json:"depreciation_cost"`
	MaterialsSubtotal float64 `json:"materials_subtotal"`
	LabourCost        float64 `json:"labour_cost"`
	ServicesSubtotal  float64 `json:"services_subtotal"`
	Subtotal          float64 `json:"subtotal"`
	MarkupAmount      float64 `json:"markup_amount"`
	AfterMarkup       float64 `json:"after_markup"`
	DiscountAmount    float64 `json:"discount_amount"`
	AfterDiscount     float64 `json:"after_discount"`
	TaxAmount         float64 `json:"tax_amount"`
}

type previewResponse struct {
	Currency  string            `json:"currency"`
	Breakdown breakdownResponse `json:"breakdown"`
	Total     float64           `json:"total"`
}

func toBreakdownResponse(b pricing.Breakdown) breakdownResponse {
	return breakdownResponse{
		FilamentCost:      b.FilamentCost,
		HardwareCost:      b.HardwareCost,
		PowerCost:         b.PowerCost,
		DepreciationCost:  b.DepreciationCost,
		MaterialsSubtotal: b.MaterialsSubtotal,
		LabourCost:        b.LabourCost,
		ServicesSubtotal:  b.ServicesSubtotal,
		Subtotal:          b.Subtotal,
		MarkupAmount:      b.MarkupAmount,
		AfterMarkup:       b.AfterMarkup,
		DiscountAmount:    b.DiscountAmount,
		AfterDiscount:     b.AfterDiscount,
		TaxAmount:         b.TaxAmount,
	}
}

func validateDate(raw string) error {
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return domain.NewValidationError("date", "must use YYYY-MM-DD")
	}
	return nil
}

// resolveQuote turns a write payload into a storable aggregate: catalog
// references are resolved to snapshots, settings fill the rates the
// payload leaves at zero, and the full breakdown is computed once.
func (s *server) resolveQuote(p quotePayload) (quotes.Quote, pricing.Result, error) {
	if err := validateDate(p.Date); err != nil {
		return quotes.Quote{}, pricing.Result{}, err
	}

	defaults, err := s.settings.Pricing()
	if err != nil {
		return quotes.Quote{}, pricing.Result{}, domain.NewStorageError("load pricing settings", err)
	}

	quantity := p.Quantity
	if quantity == 0 {
		quantity = 1
	}

	q := quotes.Quote{
		Title:           strings.TrimSpace(p.Title),
		CustomerName:    strings.TrimSpace(p.CustomerName),
		Date:            p.Date,
		Notes:           p.Notes,
		MarkupPercent:   p.MarkupPercent,
		DiscountPercent: p.DiscountPercent,
		Quantity:        quantity,
	}
	in := pricing.Input{
		Rates: pricing.Rates{
			MarkupPercent:     p.MarkupPercent,
			DiscountPercent:   p.DiscountPercent,
			TaxRatePercent:    defaults.TaxRatePercent,
			ElectricityPerKWh: defaults.ElectricityPerKWh,
		},
	}

	for _, line := range p.Filaments {
		filament, err := s.catalog.GetFilament(line.FilamentID)
		if domain.IsNotFound(err) {
			return quotes.Quote{}, pricing.Result{}, domain.NewValidationError("filament_id",
				fmt.Sprintf("filament %d does not exist", line.FilamentID))
		}
		if err != nil {
			return quotes.Quote{}, pricing.Result{}, err
		}

		price := line.PricePerGram
		if price == 0 {
			price = filament.PricePerGram()
		}
		q.Filaments = append(q.Filaments, quotes.FilamentLine{
			FilamentID:   filament.ID,
			FilamentName: filament.Name,
			PricePerGram: price,
			GramsUsed:    line.GramsUsed,
		})
		in.Filaments = append(in.Filaments, pricing.FilamentLine{
			Name:         filament.Name,
			PricePerGram: price,
			GramsUsed:    line.GramsUsed,
		})
	}

	for _, line := range p.Hardware {
		item, err := s.catalog.GetHardware(line.HardwareID)
		if domain.IsNotFound(err) {
			return quotes.Quote{}, pricing.Result{}, domain.NewValidationError("hardware_id",
				fmt.Sprintf("hardware %d does not exist", line.HardwareID))
		}
		if err != nil {
			return quotes.Quote{}, pricing.Result{}, err
		}

		unitPrice := line.UnitPrice
		if unitPrice == 0 {
			unitPrice = item.UnitPrice
		}
		q.Hardware = append(q.Hardware, quotes.HardwareLine{
			HardwareID:   item.ID,
			HardwareName: item.Name,
			Quantity:     line.Quantity,
			UnitPrice:    unitPrice,
		})
		in.Hardware = append(in.Hardware, pricing.HardwareLine{
			Name:      item.Name,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
	}

	if p.Print != nil {
		printer, err := s.catalog.GetPrinter(p.Print.PrinterID)
		if domain.IsNotFound(err) {
			return quotes.Quote{}, pricing.Result{}, domain.NewValidationError("printer_id",
				fmt.Sprintf("printer %d does not exist", p.Print.PrinterID))
		}
		if err != nil {
			return quotes.Quote{}, pricing.Result{}, err
		}

		in.Print = &pricing.PrintSetup{
			PrinterName:         printer.Name,
			PowerUsageWatts:     printer.PowerUsage,
			DepreciationPerHour: printer.DepreciationPerHour,
			PrintMinutes:        p.Print.PrintTime,
		}
		q.Print = &quotes.PrintSetup{
			PrinterID:   printer.ID,
			PrinterName: printer.Name,
			PrintTime:   p.Print.PrintTime,
		}
	}

	if p.Labour != nil {
		rate := p.Labour.LabourRatePerHour
		if rate == 0 {
			rate = defaults.LabourRatePerHour
		}
		in.Labour = &pricing.Labour{
			DesignMinutes:         p.Labour.DesignMinutes,
			PreparationMinutes:    p.Labour.PreparationMinutes,
			PostProcessingMinutes: p.Labour.PostProcessingMinutes,
			OtherMinutes:          p.Labour.OtherMinutes,
			RatePerHour:           rate,
		}
		q.Labour = &quotes.Labour{
			DesignMinutes:         p.Labour.DesignMinutes,
			PreparationMinutes:    p.Labour.PreparationMinutes,
			PostProcessingMinutes: p.Labour.PostProcessingMinutes,
			OtherMinutes:          p.Labour.OtherMinutes,
			LabourRatePerHour:     rate,
		}
	}

	result := pricing.Calculate(in)
	if q.Print != nil {
		q.Print.PowerCost = result.Breakdown.PowerCost
		q.Print.DepreciationCost = result.Breakdown.DepreciationCost
	}
	q.TotalCost = result.Totals.Total

	return q, result, nil
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var payload quotePayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, r, err)
		return
	}

	q, _, err := s.resolveQuote(payload)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.quotes.Create(q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *server) handleQuotePreview(w http.ResponseWriter, r *http.Request) {
	var payload quotePayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, r, err)
		return
	}

	_, result, err := s.resolveQuote(payload)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	defaults, err := s.settings.Pricing()
	if err != nil {
		s.respondError(w, r, domain.NewStorageError("load pricing settings", err))
		return
	}

	s.respondJSON(w, http.StatusOK, previewResponse{
		Currency:  defaults.Currency,
		Breakdown: toBreakdownResponse(result.Breakdown),
		Total:     result.Totals.Total,
	})
}

func (s *server) handleQuickQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var payload quickQuotePayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateDate(payload.Date); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.quotes.Create(quotes.Quote{
		Title:        strings.TrimSpace(payload.Title),
		CustomerName: strings.TrimSpace(payload.CustomerName),
		Date:         payload.Date,
		Notes:        payload.Notes,
		Quantity:     1,
		TotalCost:    payload.TotalCost,
		IsQuickQuote: true,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	q, err := s.quotes.Get(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, q)
}

func (s *server) handleQuoteUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var payload quotePayload
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, r, err)
		return
	}

	existing, err := s.quotes.Get(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	q, _, err := s.resolveQuote(payload)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	q.ID = existing.ID
	q.QuoteNumber = existing.QuoteNumber
	q.IsQuickQuote = existing.IsQuickQuote

	updated, err := s.quotes.Update(q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *server) handleQuoteDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.quotes.Delete(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleQuoteDuplicate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	dup, err := s.quotes.Duplicate(id, time.Now())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, dup)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	list, err := s.quotes.List(query)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *server) handleQuotesExport(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	list, err := s.quotes.List(query)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	currency, err := s.settings.Get(settings.KeyCurrency, "EUR")
	if err != nil {
		s.respondError(w, r, domain.NewStorageError("load currency setting", err))
		return
	}

	workbook, err := export.QuoteListExcel(list, currency)
	if err != nil {
		s.respondError(w, r, domain.NewStorageError("render quote export", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="quotes.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(workbook); err != nil {
		s.logger.Error("failed to write export", "err", err)
	}
}

func (s *server) handleQuoteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	q, err := s.quotes.Get(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	defaults, err := s.settings.Pricing()
	if err != nil {
		s.respondError(w, r, domain.NewStorageError("load pricing settings", err))
		return
	}

	// Rebuild the breakdown from the stored cost snapshots; nothing is
	// re-derived from the catalog.
	components := pricing.Breakdown{}
	for _, line := range q.Filaments {
		components.FilamentCost += line.TotalCost
	}
	for _, line := range q.Hardware {
		components.HardwareCost += line.TotalCost
	}
	if q.Print != nil {
		components.PowerCost = q.Print.PowerCost
		components.DepreciationCost = q.Print.DepreciationCost
	}
	if q.Labour != nil {
		components.LabourCost = q.Labour.TotalCost
	}

	result := pricing.Aggregate(components, pricing.Rates{
		MarkupPercent:   q.MarkupPercent,
		DiscountPercent: q.DiscountPercent,
		TaxRatePercent:  defaults.TaxRatePercent,
	})
	total := result.Totals.Total
	if q.IsQuickQuote {
		total = q.TotalCost
	}

	pdf, err := invoice.Render(invoice.Document{
		Quote:     q,
		Breakdown: result.Breakdown,
		Total:     total,
		Currency:  defaults.Currency,
	})
	if err != nil {
		s.respondError(w, r, domain.NewStorageError("render invoice", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, q.QuoteNumber))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		s.logger.Error("failed to write invoice", "err", err)
	}
}
