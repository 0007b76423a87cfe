package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gyesanghoe/gyesanghoe/internal/gate"
	"github.com/gyesanghoe/gyesanghoe/internal/session"
)

type GateHandler struct {
	gate     *gate.Gate
	registry *session.Registry
	logger   *slog.Logger
}

func NewGateHandler(g *gate.Gate, registry *session.Registry, logger *slog.Logger) *GateHandler {
	return &GateHandler{gate: g, registry: registry, logger: logger}
}

type verifyPINRequest struct {
	Type string `json:"type"`
	PIN  string `json:"pin"`
}

type verifyPINResponse struct {
	OK bool `json:"ok"`
}

// VerifyPIN checks a submitted code against the configured PIN of the
// requested kind. An entry match moves the caller's session into the
// app; an admin match flips the session's admin flag. A mismatch is a
// 200 with ok=false, not an error.
func (h *GateHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req verifyPINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ok, err := h.gate.Verify(gate.Kind(req.Type), req.PIN)
	if err != nil {
		if errors.Is(err, gate.ErrInvalidKind) {
			writeError(w, http.StatusBadRequest, "unknown pin type")
			return
		}
		h.logger.Error("verify pin", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to verify pin")
		return
	}

	if ok {
		if sess := sessionFrom(r, h.registry); sess != nil {
			switch gate.Kind(req.Type) {
			case gate.KindEntry:
				if err := sess.Enter(); err != nil {
					h.logger.Warn("enter app", "error", err)
				}
			case gate.KindAdmin:
				sess.SetAdmin(true)
			}
		}
	}

	writeJSON(w, http.StatusOK, verifyPINResponse{OK: ok})
}
