package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/etnz/satstack"
	"github.com/go-chi/chi/v5"
)

// ReportResponse is a yearly tax report.
type ReportResponse struct {
	Year           int                       `json:"year"`
	TotalGain      satstack.Money            `json:"totalGain"`
	ShortTermGain  satstack.Money            `json:"shortTermGain"`
	LongTermGain   satstack.Money            `json:"longTermGain"`
	EstimatedTax   satstack.Money            `json:"estimatedTax"`
	TotalProceeds  satstack.Money            `json:"totalProceeds"`
	TotalCostBasis satstack.Money            `json:"totalCostBasis"`
	ShortTermCount int                       `json:"shortTermCount"`
	LongTermCount  int                       `json:"longTermCount"`
	MonthlyGains   map[string]satstack.Money `json:"monthlyGains"` // by month name.
	Disposals      []satstack.Disposal       `json:"disposals,omitempty"`
	Invalid        []InvalidTransaction      `json:"invalid,omitempty"`
}

func newReportResponse(r satstack.YearlyTaxReport, withDisposals bool) ReportResponse {
	res := ReportResponse{
		Year:           r.Year,
		TotalGain:      r.TotalGain,
		ShortTermGain:  r.ShortTermGain,
		LongTermGain:   r.LongTermGain,
		EstimatedTax:   r.EstimatedTax,
		TotalProceeds:  r.TotalProceeds,
		TotalCostBasis: r.TotalCostBasis,
		ShortTermCount: r.ShortTermCount,
		LongTermCount:  r.LongTermCount,
		MonthlyGains:   make(map[string]satstack.Money, len(r.MonthlyGains)),
	}
	for m, g := range r.MonthlyGains {
		res.MonthlyGains[m.String()] = g
	}
	if withDisposals {
		res.Disposals = r.Disposals
		if res.Disposals == nil {
			res.Disposals = []satstack.Disposal{}
		}
	}
	return res
}

// DisposalsResponse lists the disposals of the ledger.
type DisposalsResponse struct {
	Disposals []satstack.Disposal  `json:"disposals"`
	Invalid   []InvalidTransaction `json:"invalid,omitempty"`
}

// InstallmentResponse is a quarterly estimated payment.
type InstallmentResponse struct {
	Quarter int            `json:"quarter"`
	DueDate satstack.Date  `json:"dueDate"`
	Amount  satstack.Money `json:"amount"`
	Due     bool           `json:"due"`
}

// HoldingResponse is the bitcoin still held on a day.
type HoldingResponse struct {
	Date           satstack.Date        `json:"date"`
	Quantity       satstack.Quantity    `json:"quantity"`
	CostBasis      satstack.Money       `json:"costBasis"`
	AverageCost    satstack.Money       `json:"averageCost"`
	Price          satstack.Money       `json:"price"`
	MarketValue    satstack.Money       `json:"marketValue"`
	UnrealizedGain satstack.Money       `json:"unrealizedGain"`
	Lots           []LotResponse        `json:"lots"`
	Invalid        []InvalidTransaction `json:"invalid,omitempty"`

	// HarvestableLoss is the unrealized loss of the lots held at a loss.
	HarvestableLoss satstack.Money `json:"harvestableLoss"`
}

// LotResponse is an open acquisition lot.
type LotResponse struct {
	SourceTransactionID string            `json:"sourceTransactionId"`
	AcquiredDate        satstack.Date     `json:"acquiredDate"`
	OriginalAmount      satstack.Quantity `json:"originalAmount"`
	RemainingAmount     satstack.Quantity `json:"remainingAmount"`
	CostBasisTotal      satstack.Money    `json:"costBasisTotal"`
	RemainingCost       satstack.Money    `json:"remainingCost"`
	HoldingDays         int               `json:"holdingDays"`
	Term                satstack.Term     `json:"term"`
	MarketValue         satstack.Money    `json:"marketValue"`
	UnrealizedGain      satstack.Money    `json:"unrealizedGain"`
}

// taxConfiguration returns the stored settings overridden by the query
// parameters method, includeFees, shortTermRate and longTermRate. On failure
// the response has been written.
func (h *Handler) taxConfiguration(w http.ResponseWriter, r *http.Request) (satstack.TaxConfiguration, bool) {
	cfg, err := h.repo.Settings(r.Context())
	if err != nil {
		respondStoreError(h.log, w, "failed to retrieve settings", err)
		return cfg, false
	}
	q := r.URL.Query()
	var errs []error
	if v := q.Get("method"); v != "" {
		if cfg.CostBasisMethod, err = satstack.ParseCostBasisMethod(v); err != nil {
			errs = append(errs, err)
		}
	}
	if v := q.Get("includeFees"); v != "" {
		if cfg.IncludeFees, err = strconv.ParseBool(v); err != nil {
			errs = append(errs, err)
		}
	}
	if v := q.Get("shortTermRate"); v != "" {
		if cfg.ShortTermRate, err = satstack.ParsePercent(v); err != nil {
			errs = append(errs, err)
		}
	}
	if v := q.Get("longTermRate"); v != "" {
		if cfg.LongTermRate, err = satstack.ParsePercent(v); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, cfg.Validate())
	if err := errors.Join(errs...); err != nil {
		respondError(h.log, w, http.StatusBadRequest, "invalid tax configuration", err.Error())
		return cfg, false
	}
	return cfg, true
}

// transactions loads the ledger. On failure the response has been written.
func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) ([]satstack.Transaction, bool) {
	txs, err := h.repo.List(r.Context())
	if err != nil {
		respondStoreError(h.log, w, "failed to retrieve transactions", err)
		return nil, false
	}
	return txs, true
}

func (h *Handler) year(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		respondError(h.log, w, http.StatusBadRequest, "invalid year", chi.URLParam(r, "year"))
		return 0, false
	}
	return year, true
}

// Disposals returns every disposal of the ledger, in date order.
//
// Endpoint: GET /api/disposals?method=&includeFees=&year=&format=
// Response: 200 OK with DisposalsResponse, or a CSV file when format=csv
func (h *Handler) Disposals(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.taxConfiguration(w, r)
	if !ok {
		return
	}
	txs, ok := h.transactions(w, r)
	if !ok {
		return
	}
	disposals, err := satstack.ComputeDisposals(txs, cfg)
	if v := r.URL.Query().Get("year"); v != "" {
		year, perr := strconv.Atoi(v)
		if perr != nil {
			respondError(h.log, w, http.StatusBadRequest, "invalid year", v)
			return
		}
		disposals = satstack.AggregateYear(disposals, year).Disposals
	}
	if disposals == nil {
		disposals = []satstack.Disposal{}
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="disposals.csv"`)
		if err := satstack.EncodeDisposalsCSV(w, disposals); err != nil {
			h.log.Errorw("failed to encode disposals", "error", err)
		}
		return
	}
	respondJSON(h.log, w, http.StatusOK, DisposalsResponse{
		Disposals: disposals,
		Invalid:   invalidTransactions(err),
	})
}

// Report returns the tax report of a year.
//
// Endpoint: GET /api/reports/{year}?method=&includeFees=&shortTermRate=&longTermRate=
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	year, ok := h.year(w, r)
	if !ok {
		return
	}
	cfg, ok := h.taxConfiguration(w, r)
	if !ok {
		return
	}
	txs, ok := h.transactions(w, r)
	if !ok {
		return
	}
	report, err := satstack.NewYearlyTaxReport(txs, cfg, year)
	res := newReportResponse(report, true)
	res.Invalid = invalidTransactions(err)
	respondJSON(h.log, w, http.StatusOK, res)
}

// Quarterly returns the estimated tax of a year split in four installments.
//
// Endpoint: GET /api/reports/{year}/quarterly?method=&includeFees=&shortTermRate=&longTermRate=
func (h *Handler) Quarterly(w http.ResponseWriter, r *http.Request) {
	year, ok := h.year(w, r)
	if !ok {
		return
	}
	cfg, ok := h.taxConfiguration(w, r)
	if !ok {
		return
	}
	txs, ok := h.transactions(w, r)
	if !ok {
		return
	}
	report, _ := satstack.NewYearlyTaxReport(txs, cfg, year)
	var res []InstallmentResponse
	for _, i := range satstack.QuarterlyEstimates(report, satstack.Today()) {
		res = append(res, InstallmentResponse{Quarter: i.Quarter, DueDate: i.DueDate, Amount: i.Amount, Due: i.Due})
	}
	respondJSON(h.log, w, http.StatusOK, res)
}

// Summaries returns the tax report of every year of the ledger, without
// their disposals.
//
// Endpoint: GET /api/summaries?method=&includeFees=&shortTermRate=&longTermRate=
func (h *Handler) Summaries(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.taxConfiguration(w, r)
	if !ok {
		return
	}
	txs, ok := h.transactions(w, r)
	if !ok {
		return
	}
	reports, err := satstack.TaxSummaries(txs, cfg)
	res := make([]ReportResponse, 0, len(reports))
	invalid := invalidTransactions(err)
	for _, report := range reports {
		rr := newReportResponse(report, false)
		rr.Invalid = invalid
		res = append(res, rr)
	}
	respondJSON(h.log, w, http.StatusOK, res)
}

// Holding returns the lots still held on a day, valued at the given price or
// at the quote of the day.
//
// Endpoint: GET /api/holding?date=&price=
func (h *Handler) Holding(w http.ResponseWriter, r *http.Request) {
	on := satstack.Today()
	if v := r.URL.Query().Get("date"); v != "" {
		var err error
		if on, err = satstack.ParseDate(v); err != nil {
			respondError(h.log, w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
	}
	cfg, ok := h.taxConfiguration(w, r)
	if !ok {
		return
	}
	var quote satstack.Money
	if v := r.URL.Query().Get("price"); v != "" {
		var err error
		if quote, err = satstack.ParseMoney(v); err != nil || quote.IsNegative() {
			respondError(h.log, w, http.StatusBadRequest, "invalid price", v)
			return
		}
	} else if quote, ok = h.quote(w, r, on); !ok {
		return
	}
	txs, ok := h.transactions(w, r)
	if !ok {
		return
	}
	holding, err := satstack.NewHolding(txs, cfg, on, quote)
	if holding == nil {
		respondError(h.log, w, http.StatusBadRequest, "invalid tax configuration", err.Error())
		return
	}
	res := HoldingResponse{
		Date:            holding.Date,
		Quantity:        holding.Quantity,
		CostBasis:       holding.CostBasis,
		AverageCost:     holding.AverageCost,
		Price:           holding.Price,
		MarketValue:     holding.MarketValue,
		UnrealizedGain:  holding.UnrealizedGain,
		HarvestableLoss: holding.HarvestableLoss,
		Lots:            []LotResponse{},
		Invalid:         invalidTransactions(err),
	}
	for _, lt := range holding.Lots {
		res.Lots = append(res.Lots, LotResponse{
			SourceTransactionID: lt.SourceTransactionID,
			AcquiredDate:        lt.AcquiredDate,
			OriginalAmount:      lt.OriginalAmount,
			RemainingAmount:     lt.RemainingAmount,
			CostBasisTotal:      lt.CostBasisTotal,
			RemainingCost:       lt.RemainingCost(),
			HoldingDays:         lt.HoldingDays,
			Term:                lt.Term,
			MarketValue:         lt.MarketValue,
			UnrealizedGain:      lt.UnrealizedGain,
		})
	}
	respondJSON(h.log, w, http.StatusOK, res)
}

// quote returns the price of a bitcoin on a day. On failure the response has
// been written.
func (h *Handler) quote(w http.ResponseWriter, r *http.Request, on satstack.Date) (satstack.Money, bool) {
	if h.oracle == nil {
		respondError(h.log, w, http.StatusServiceUnavailable, "no price feed configured", nil)
		return satstack.Money{}, false
	}
	var (
		m   satstack.Money
		err error
	)
	if on == satstack.Today() {
		m, err = h.oracle.Current(r.Context())
	} else {
		m, err = h.oracle.Historical(r.Context(), on)
	}
	if err != nil {
		h.log.Warnw("price feed failed", "date", on, "error", err)
		respondError(h.log, w, http.StatusBadGateway, "price unavailable", err.Error())
		return satstack.Money{}, false
	}
	return m, true
}

// PriceResponse is a bitcoin quote.
type PriceResponse struct {
	Date  satstack.Date  `json:"date"`
	Price satstack.Money `json:"price"`
	At    time.Time      `json:"at"`
}

// Price returns the bitcoin quote of a day, today by default. Quotes are for
// display only.
//
// Endpoint: GET /api/price?date=
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	on := satstack.Today()
	if v := r.URL.Query().Get("date"); v != "" {
		var err error
		if on, err = satstack.ParseDate(v); err != nil {
			respondError(h.log, w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
	}
	m, ok := h.quote(w, r, on)
	if !ok {
		return
	}
	respondJSON(h.log, w, http.StatusOK, PriceResponse{Date: on, Price: m, At: time.Now().UTC()})
}
