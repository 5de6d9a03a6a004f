package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/date"
)

type summaryResponse struct {
	CurrentCost       portfolio.Money   `json:"currentCost"`
	CurrentValue      portfolio.Money   `json:"currentValue"`
	CurrentResult     portfolio.Money   `json:"currentResult"`
	CurrentResultPerc portfolio.Percent `json:"currentResultPerc"`
	TotalCost         portfolio.Money   `json:"totalCost"`
	AnnualIncome      portfolio.Money   `json:"annualIncome"`
	YieldOnCost       portfolio.Percent `json:"yieldOnCost"`
	TotalIncome       portfolio.Money   `json:"totalIncome"`
	RealizedResult    portfolio.Money   `json:"realizedResult"`
	TotalReturn       portfolio.Money   `json:"totalReturn"`
	TotalReturnPerc   portfolio.Percent `json:"totalReturnPerc"`
	OpenPositions     int               `json:"openPositions"`
}

type positionResponse struct {
	Symbol            string             `json:"symbol"`
	Name              string             `json:"name"`
	Shares            portfolio.Quantity `json:"shares"`
	Price             portfolio.Money    `json:"price"`
	CostPerShare      portfolio.Money    `json:"costPerShare"`
	CurrentCost       portfolio.Money    `json:"currentCost"`
	CurrentValue      portfolio.Money    `json:"currentValue"`
	CurrentResult     portfolio.Money    `json:"currentResult"`
	CurrentResultPerc portfolio.Percent  `json:"currentResultPerc"`
	TotalCost         portfolio.Money    `json:"totalCost"`
	AnnualIncome      portfolio.Money    `json:"annualIncome"`
	YieldOnCost       portfolio.Percent  `json:"yieldOnCost"`
	TotalIncome       portfolio.Money    `json:"totalIncome"`
	RealizedResult    portfolio.Money    `json:"realizedResult"`
	TotalReturn       portfolio.Money    `json:"totalReturn"`
	TotalReturnPerc   portfolio.Percent  `json:"totalReturnPerc"`
}

func newPositionResponse(p *portfolio.Position) positionResponse {
	return positionResponse{
		Symbol:            p.Stock().Symbol,
		Name:              p.Stock().Name,
		Shares:            p.Shares(),
		Price:             p.Stock().Price,
		CostPerShare:      p.CostPerShare(),
		CurrentCost:       p.CurrentCost(),
		CurrentValue:      p.CurrentValue(),
		CurrentResult:     p.CurrentResult(),
		CurrentResultPerc: p.CurrentResultPercentage(),
		TotalCost:         p.TotalCost(),
		AnnualIncome:      p.AnnualIncome(),
		YieldOnCost:       p.YieldOnCost(),
		TotalIncome:       p.TotalIncome(),
		RealizedResult:    p.RealizedResult(),
		TotalReturn:       p.TotalReturn(),
		TotalReturnPerc:   p.TotalReturnPercentage(),
	}
}

type periodResponse struct {
	Period      string            `json:"period"`
	From        date.Date         `json:"from"`
	To          date.Date         `json:"to"`
	Days        int               `json:"days"`
	AverageCost portfolio.Money   `json:"averageCost"`
	EndCost     portfolio.Money   `json:"endCost"`
	Income      portfolio.Money   `json:"income"`
	IncomeYield portfolio.Percent `json:"incomeYield"`
}

type overallResponse struct {
	From            date.Date         `json:"from"`
	To              date.Date         `json:"to"`
	Days            int               `json:"days"`
	AverageCost     portfolio.Money   `json:"averageCost"`
	Income          portfolio.Money   `json:"income"`
	TotalReturn     portfolio.Money   `json:"totalReturn"`
	TotalReturnPerc portfolio.Percent `json:"totalReturnPerc"`
}

type resultsResponse struct {
	Periods []periodResponse `json:"periods"`
	Overall overallResponse  `json:"overall"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// rebuild rebuilds the portfolio or writes an error response.
func (s *Server) rebuild(w http.ResponseWriter) (*portfolio.Portfolio, bool) {
	p, err := s.ledger.Portfolio()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return p, true
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	p, ok := s.rebuild(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, summaryResponse{
		CurrentCost:       p.CurrentCost(),
		CurrentValue:      p.CurrentValue(),
		CurrentResult:     p.CurrentResult(),
		CurrentResultPerc: p.CurrentResultPercentage(),
		TotalCost:         p.TotalCost(),
		AnnualIncome:      p.AnnualIncome(),
		YieldOnCost:       p.YieldOnCost(),
		TotalIncome:       p.TotalIncome(),
		RealizedResult:    p.RealizedResult(),
		TotalReturn:       p.TotalReturn(),
		TotalReturnPerc:   p.TotalReturnPercentage(),
		OpenPositions:     len(p.OpenPositions()),
	})
}

// positions lists open positions; closed ones too with ?closed=true or when
// the ledger option asks for them.
func (s *Server) positions(w http.ResponseWriter, r *http.Request) {
	p, ok := s.rebuild(w)
	if !ok {
		return
	}
	list := p.OpenPositions()
	if r.URL.Query().Get("closed") == "true" || s.ledger.Options().ShowClosedPositions {
		list = p.Positions()
	}
	resp := make([]positionResponse, 0, len(list))
	for _, pos := range list {
		resp = append(resp, newPositionResponse(pos))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) position(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(chi.URLParam(r, "symbol"))
	p, ok := s.rebuild(w)
	if !ok {
		return
	}
	pos := p.Position(symbol)
	if pos == nil {
		respondError(w, http.StatusNotFound, "no position in "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, newPositionResponse(pos))
}

// transactions lists transactions in chronological order, optionally
// filtered with ?symbol=.
func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	txs := make([]portfolio.Transaction, 0)
	for _, tx := range s.ledger.Transactions() {
		if symbol == "" || tx.Ticker() == symbol {
			txs = append(txs, tx)
		}
	}
	if ref := r.URL.Query().Get("ref"); ref != "" {
		id, err := uuid.Parse(ref)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid ref: "+err.Error())
			return
		}
		tx, ok := s.ledger.Transaction(id)
		if !ok {
			respondError(w, http.StatusNotFound, "no transaction "+ref)
			return
		}
		txs = []portfolio.Transaction{tx}
	}
	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) stocks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.Stocks())
}

// results reports per period statistics up to ?until= (default today).
func (s *Server) results(w http.ResponseWriter, r *http.Request) {
	period, err := date.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	until := date.Of(s.now())
	if v := r.URL.Query().Get("until"); v != "" {
		if until, err = date.Parse(v); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	p, ok := s.rebuild(w)
	if !ok {
		return
	}
	txs, tax := s.ledger.Transactions(), s.ledger.IncomeTax()
	rows, err := portfolio.PeriodicResults(txs, tax, until, period)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	overall, err := portfolio.OverallResults(txs, tax, until)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := resultsResponse{
		Periods: make([]periodResponse, 0, len(rows)),
		Overall: overallResponse{
			From:            overall.Range.From,
			To:              overall.Range.To,
			Days:            overall.Days,
			AverageCost:     overall.AverageCost,
			Income:          overall.Income,
			TotalReturn:     p.TotalReturn(),
			TotalReturnPerc: overall.ReturnOnAverageCost(p.TotalReturn()),
		},
	}
	for _, row := range rows {
		resp.Periods = append(resp.Periods, periodResponse{
			Period:      row.Range.Identifier(),
			From:        row.Range.From,
			To:          row.Range.To,
			Days:        row.Days,
			AverageCost: row.AverageCost,
			EndCost:     row.EndCost,
			Income:      row.Income,
			IncomeYield: row.IncomeYield(),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
