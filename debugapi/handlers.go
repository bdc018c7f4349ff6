package debugapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clover/domain/entities"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const maxHistoryLimit = 100

type handlers struct {
	deps Dependencies
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	checks := make(map[string]string, len(h.deps.Health))
	for name, check := range h.deps.Health {
		if err := check(r.Context()); err != nil {
			log.WithError(err).WithField("check", name).Warn("Health check failed")
			checks[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}

func (h *handlers) leaderboard(w http.ResponseWriter, _ *http.Request) {
	snapshot, ok := h.deps.Leaderboard.LastSnapshot()
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "no_snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *handlers) refreshLeaderboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.deps.Leaderboard.Refresh(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *handlers) renderTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.deps.Leaderboard.RenderTargets(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": targets})
}

func (h *handlers) setRenderTargets(w http.ResponseWriter, r *http.Request) {
	var targets []*entities.RenderTarget
	if err := json.NewDecoder(r.Body).Decode(&targets); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := h.deps.Leaderboard.SetRenderTargets(r.Context(), targets); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"items": targets})
}

func (h *handlers) resetRenderTargets(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Leaderboard.ResetRenderTargets(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) account(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	account, err := h.deps.Ledger.GetAccount(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *handlers) memberJoined(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	created, err := h.deps.Ledger.EnsureAccount(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"created": created})
}

// memberLeft stops voice tracking before the account is removed. A later
// voice leave or shutdown flush would otherwise provision it again.
func (h *handlers) memberLeft(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	if h.deps.Voice != nil && h.deps.Voice.Forget(accountID) {
		log.WithField("accountID", accountID).Debug("Dropped voice session of departing member")
	}
	if err := h.deps.Ledger.RemoveAccount(r.Context(), accountID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeHTTPError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	history, err := h.deps.Ledger.History(r.Context(), accountID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": history})
}

func (h *handlers) recordMessage(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	if err := h.deps.Ledger.RecordMessage(r.Context(), accountID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) voiceJoin(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	if h.deps.Voice == nil {
		writeHTTPError(w, http.StatusNotImplemented, "voice_tracking_disabled")
		return
	}
	h.deps.Voice.Join(accountID)
	writeJSON(w, http.StatusOK, map[string]any{"active": h.deps.Voice.Active()})
}

func (h *handlers) voiceLeave(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	if h.deps.Voice == nil {
		writeHTTPError(w, http.StatusNotImplemented, "voice_tracking_disabled")
		return
	}
	xp, err := h.deps.Voice.Leave(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"xp": xp})
}

func accountIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "account_id"), 10, 64)
	if err != nil || id <= 0 {
		writeHTTPError(w, http.StatusBadRequest, "invalid_account_id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode debug API response")
	}
}

func writeHTTPError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"error": code})
}

// writeDomainError maps the error taxonomy onto status codes
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		writeHTTPError(w, http.StatusBadRequest, "invalid_argument")
	case errors.Is(err, entities.ErrAccountNotFound), errors.Is(err, entities.ErrItemNotFound),
		errors.Is(err, entities.ErrNoActiveSession):
		writeHTTPError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, entities.ErrRenderTargetExists), errors.Is(err, entities.ErrSessionConflict):
		writeHTTPError(w, http.StatusConflict, "conflict")
	case errors.Is(err, entities.ErrCooldownActive):
		writeHTTPError(w, http.StatusTooManyRequests, "cooldown_active")
	case errors.Is(err, entities.ErrInsufficientFunds):
		writeHTTPError(w, http.StatusPaymentRequired, "insufficient_funds")
	case errors.Is(err, entities.ErrStorageFailure):
		writeHTTPError(w, http.StatusServiceUnavailable, "storage_failure")
	default:
		log.WithError(err).Error("Unhandled debug API error")
		writeHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
