package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/mktcalc/internal/export"
	"github.com/Simplici0/mktcalc/internal/format"
	"github.com/Simplici0/mktcalc/internal/history"
	"github.com/Simplici0/mktcalc/internal/pricing"
	"github.com/Simplici0/mktcalc/internal/workspace"
)

const maxBodyBytes = 1 << 20

type calculateRequest struct {
	Inputs       pricing.GlobalInputs        `json:"inputs"`
	Marketplaces []pricing.MarketplaceConfig `json:"marketplaces,omitempty"`
}

type resultDisplay struct {
	TotalMarketplaceFees string `json:"total_marketplace_fees"`
	NetReceivable        string `json:"net_receivable"`
	TotalCost            string `json:"total_cost"`
	RealProfit           string `json:"real_profit"`
	ProfitMargin         string `json:"profit_margin"`
	ROI                  string `json:"roi"`
	Markup               string `json:"markup"`
}

type resultView struct {
	Marketplace pricing.MarketplaceConfig `json:"marketplace"`
	Result      pricing.CalculationResult `json:"result"`
	Comparison  *pricing.GoalComparison   `json:"comparison"`
	Display     resultDisplay             `json:"display"`
}

type bestView struct {
	MarketplaceID   string  `json:"marketplace_id"`
	MarketplaceName string  `json:"marketplace_name"`
	RealProfit      float64 `json:"real_profit"`
}

type calculateResponse struct {
	Inputs  pricing.GlobalInputs `json:"inputs"`
	Results []resultView         `json:"results"`
	Best    *bestView            `json:"best,omitempty"`
	Synced  bool                 `json:"synced"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":         "ok",
		"tariff_version": s.schedule.Version,
	})
}

func (s *server) handleMarketplacesList(w http.ResponseWriter, r *http.Request) {
	configs, err := s.workspace.List(r.Context())
	if err != nil {
		s.internalError(w, r, err, "failed to load marketplaces")
		return
	}

	modes := make(map[string][]string, len(configs))
	for _, cfg := range configs {
		if m := s.schedule.Modes(cfg.Type); len(m) > 0 {
			modes[string(cfg.Type)] = m
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"marketplaces": configs,
		"modes":        modes,
	})
}

func (s *server) handleMarketplacesReset(w http.ResponseWriter, r *http.Request) {
	configs, err := s.workspace.Reset(r.Context())
	if err != nil {
		s.internalError(w, r, err, "failed to reset marketplaces")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"marketplaces": configs})
}

func (s *server) handleMarketplaceUpdate(w http.ResponseWriter, r *http.Request) {
	var edit pricing.Edit
	if err := decodeJSON(w, r, &edit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.workspace.Update(r.Context(), chi.URLParam(r, "id"), edit)
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, pricing.ErrInvalidEdit), errors.Is(err, pricing.ErrUnknownMode):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.internalError(w, r, err, "failed to update marketplace")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type deriveFeesRequest struct {
	Price    float64 `json:"price"`
	WeightKg float64 `json:"weight_kg"`
}

func (s *server) handleMarketplaceDeriveFees(w http.ResponseWriter, r *http.Request) {
	var req deriveFeesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price < 0 || req.WeightKg < 0 {
		writeError(w, http.StatusBadRequest, "price and weight_kg must be >= 0")
		return
	}

	updated, fees, err := s.workspace.DeriveFees(r.Context(), chi.URLParam(r, "id"), req.Price, req.WeightKg)
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, pricing.ErrUnknownMarketplace):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.internalError(w, r, err, "failed to derive fees")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"marketplace": updated,
		"fees":        fees,
	})
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	configs, synced, err := s.resolveMarketplaces(r, req, true)
	if err != nil {
		s.internalError(w, r, err, "failed to load marketplaces")
		return
	}

	inputs := pricing.SanitizeInputs(req.Inputs)
	entries := pricing.CalculateAll(inputs, configs)

	resp := calculateResponse{
		Inputs:  inputs,
		Results: make([]resultView, 0, len(entries)),
		Synced:  synced,
	}
	for _, e := range entries {
		resp.Results = append(resp.Results, resultView{
			Marketplace: e.Marketplace,
			Result:      e.Result,
			Comparison:  pricing.CompareToGoal(e.Result, inputs),
			Display:     displayOf(e.Result),
		})
	}
	if best, err := pricing.BestOf(entries); err == nil {
		resp.Best = &bestView{
			MarketplaceID:   best.Marketplace.ID,
			MarketplaceName: best.Marketplace.Name,
			RealProfit:      best.Result.RealProfit,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleShipping(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	weight, err := parseNonNegativeFloat(q.Get("weight_kg"), "weight_kg")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := parseNonNegativeFloat(q.Get("price"), "price")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cost := s.schedule.Shipping.Cost(weight, price)
	writeJSON(w, http.StatusOK, map[string]any{
		"cost":    cost,
		"display": format.Currency(cost),
	})
}

func (s *server) handleFees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	price, err := parseNonNegativeFloat(q.Get("price"), "price")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	weight, err := parseOptionalFloat(q.Get("weight_kg"), "weight_kg")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fullSuper := false
	if raw := q.Get("full_super"); raw != "" {
		if fullSuper, err = strconv.ParseBool(raw); err != nil {
			writeError(w, http.StatusBadRequest, "full_super must be a boolean")
			return
		}
	}
	seller := pricing.SellerType(strings.ToLower(q.Get("seller_type")))
	if seller != "" && seller != pricing.SellerCNPJ && seller != pricing.SellerCPF {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("seller_type must be %s or %s", pricing.SellerCNPJ, pricing.SellerCPF))
		return
	}

	fees, err := pricing.DeriveFees(s.schedule, pricing.MarketplaceType(chi.URLParam(r, "type")), pricing.FeeQuery{
		Price:      price,
		SellerType: seller,
		Mode:       q.Get("mode"),
		FullSuper:  fullSuper,
		WeightKg:   weight,
	})
	if errors.Is(err, pricing.ErrUnknownMarketplace) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, err, "failed to derive fees")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tariff_version": s.schedule.Version,
		"fees":           fees,
	})
}

func (s *server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	items, err := s.history.List(r.Context())
	if err != nil {
		s.internalError(w, r, err, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"limit": s.history.Limit(),
	})
}

func (s *server) handleHistorySave(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	configs, _, err := s.resolveMarketplaces(r, req, false)
	if err != nil {
		s.internalError(w, r, err, "failed to load marketplaces")
		return
	}

	item, err := history.NewItem(req.Inputs, pricing.CalculateAll(req.Inputs, configs), s.now())
	if errors.Is(err, history.ErrNothingToSave) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, err, "failed to build history item")
		return
	}

	items, err := s.history.Add(r.Context(), item)
	if err != nil {
		s.internalError(w, r, err, "failed to save history")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"item":  item,
		"items": items,
	})
}

func (s *server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		s.internalError(w, r, err, "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	configs, _, err := s.resolveMarketplaces(r, req, false)
	if err != nil {
		s.internalError(w, r, err, "failed to load marketplaces")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, req.Inputs, pricing.CalculateAll(req.Inputs, configs), s.now()); err != nil {
		s.internalError(w, r, err, "failed to build spreadsheet")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="comparativo.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// resolveMarketplaces returns the configs sent with the request, or the
// workspace list when none were sent. Configs sent with the request are
// synchronized to the selling price but never stored. With sync set the
// workspace is synchronized and written back.
func (s *server) resolveMarketplaces(r *http.Request, req calculateRequest, sync bool) ([]pricing.MarketplaceConfig, bool, error) {
	if len(req.Marketplaces) > 0 {
		price := pricing.SanitizeInputs(req.Inputs).SellingPrice
		configs, _ := pricing.SyncAll(req.Marketplaces, price, s.schedule.MercadoLivre)
		return configs, false, nil
	}
	if sync {
		return s.workspace.SyncPrice(r.Context(), pricing.SanitizeInputs(req.Inputs).SellingPrice)
	}
	configs, err := s.workspace.List(r.Context())
	return configs, false, err
}

func displayOf(res pricing.CalculationResult) resultDisplay {
	return resultDisplay{
		TotalMarketplaceFees: format.Currency(res.TotalMarketplaceFees),
		NetReceivable:        format.Currency(res.NetReceivable),
		TotalCost:            format.Currency(res.TotalCost),
		RealProfit:           format.Currency(res.RealProfit),
		ProfitMargin:         format.SignedPercent(res.ProfitMargin),
		ROI:                  format.SignedPercent(res.ROI),
		Markup:               format.Multiplier(res.Markup),
	}
}

func (s *server) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	s.log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeJSON encodes v before writing the header so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be >= 0", field)
	}
	return value, nil
}

func parseOptionalFloat(raw, field string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return parseNonNegativeFloat(raw, field)
}
