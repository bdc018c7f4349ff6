package debugapi

import (
	"encoding/json"
	"net/http"

	"clover/domain/entities"

	"github.com/go-chi/chi/v5"
)

type collectRequest struct {
	Eligible bool     `json:"eligible"`
	Tiers    []string `json:"tiers"`
}

type spinRequest struct {
	Game   entities.GameKind `json:"game"`
	Bet    int64             `json:"bet"`
	Target string            `json:"target"`
}

type blackjackRequest struct {
	ChannelID int64 `json:"channel_id"`
	Bet       int64 `json:"bet"`
}

func (h *handlers) collect(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	if h.deps.Claims == nil {
		writeHTTPError(w, http.StatusNotImplemented, "claims_disabled")
		return
	}
	var req collectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.deps.Claims.Collect(r.Context(), accountID, req.Eligible, req.Tiers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) spin(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	if h.deps.Gambling == nil {
		writeHTTPError(w, http.StatusNotImplemented, "games_disabled")
		return
	}
	var req spinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.deps.Gambling.Spin(r.Context(), req.Game, accountID, req.Bet, req.Target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) startBlackjack(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	if h.deps.Blackjack == nil {
		writeHTTPError(w, http.StatusNotImplemented, "games_disabled")
		return
	}
	var req blackjackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := h.deps.Blackjack.StartBlackjack(r.Context(), accountID, req.ChannelID, req.Bet)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *handlers) blackjackAction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	if h.deps.Blackjack == nil {
		writeHTTPError(w, http.StatusNotImplemented, "games_disabled")
		return
	}
	var req blackjackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	action := entities.BlackjackAction(chi.URLParam(r, "action"))
	view, err := h.deps.Blackjack.BlackjackAction(r.Context(), accountID, req.ChannelID, action)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}
